package validation

import (
	"context"
	"time"

	"github.com/princinho/eventbackend/database"
	"github.com/princinho/eventbackend/dto"
	"github.com/princinho/eventbackend/models"
	"github.com/princinho/eventbackend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// CredentialValidator decides who is allowed in. Every check answers with a
// plain verdict; lookup failures count as a rejection.
type CredentialValidator interface {
	UserExists(ctx context.Context, id string) bool
	AdminExists(ctx context.Context, id string) bool
	PasswordLogin(ctx context.Context, login dto.Input) bool
	FacebookLogin(ctx context.Context, login dto.Input, requiredPermissions []string) bool
	AdminLogin(ctx context.Context, login dto.Input) bool
	AdminLoginHeader(ctx context.Context, header string) bool
	// UserCredentialHeader also hands back the stored credential on success.
	UserCredentialHeader(ctx context.Context, header string) (*models.Credential, bool)
	UserCredential(ctx context.Context, credential bson.M) bool
	AdminCredential(ctx context.Context, credential bson.M) bool
}

type Credentials struct {
	db     database.Database
	clock  utils.Clock
	oauth  utils.OAuthVerifier
	fields FieldValidator
}

func NewCredentials(db database.Database, clock utils.Clock, oauth utils.OAuthVerifier, fields FieldValidator) *Credentials {
	return &Credentials{db: db, clock: clock, oauth: oauth, fields: fields}
}

func (v *Credentials) exists(ctx context.Context, collection, id string) bool {
	if id == "" {
		return false
	}
	var doc bson.M
	found, err := v.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}, &doc)
	return err == nil && found
}

func (v *Credentials) UserExists(ctx context.Context, id string) bool {
	return v.exists(ctx, database.EnabledUsers, id)
}

func (v *Credentials) AdminExists(ctx context.Context, id string) bool {
	return v.exists(ctx, database.Administrators, id)
}

func (v *Credentials) PasswordLogin(ctx context.Context, login dto.Input) bool {
	if login == nil || isEmpty(login["email"]) || isEmpty(login["password"]) {
		return false
	}
	var payload dto.PasswordLoginDTO
	if err := dto.Decode(login, &payload); err != nil {
		return false
	}

	var account models.Account
	found, err := v.db.Collection(database.Users).FindOne(ctx, bson.M{"email": payload.Email}, &account)
	if err != nil || !found {
		return false
	}
	return utils.PasswordMatches(account.PasswordHash, payload.Password)
}

func (v *Credentials) FacebookLogin(ctx context.Context, login dto.Input, requiredPermissions []string) bool {
	if login == nil || !hasExactly(login, "externalUserId", "token") {
		return false
	}
	if requiredPermissions == nil {
		return false
	}
	var payload dto.FacebookLoginDTO
	if err := dto.Decode(login, &payload); err != nil {
		return false
	}

	data, err := v.oauth.LoadData(ctx, payload)
	if err != nil {
		return false
	}
	return v.oauth.ValidateData(payload, requiredPermissions, data)
}

func (v *Credentials) AdminLogin(ctx context.Context, login dto.Input) bool {
	if login == nil || !hasExactly(login, "username", "password") {
		return false
	}
	var payload dto.AdminLoginDTO
	if err := dto.Decode(login, &payload); err != nil {
		return false
	}

	var admin models.Administrator
	found, err := v.db.Collection(database.Administrators).FindOne(ctx, bson.M{"username": payload.Username}, &admin)
	if err != nil || !found {
		return false
	}
	return utils.PasswordMatches(admin.PasswordHash, payload.Password)
}

func (v *Credentials) AdminLoginHeader(ctx context.Context, header string) bool {
	if header == "" {
		return false
	}
	login, ok := dto.Parse(header)
	if !ok {
		return false
	}
	return v.AdminLogin(ctx, login)
}

func (v *Credentials) UserCredentialHeader(ctx context.Context, header string) (*models.Credential, bool) {
	if header == "" {
		return nil, false
	}
	stripped, ok := dto.Parse(header)
	if !ok || !hasExactly(stripped, "token") {
		return nil, false
	}
	token, ok := stripped["token"].(string)
	if !ok || token == "" {
		return nil, false
	}

	var stored bson.M
	found, err := v.db.Collection(database.Credentials).FindOne(ctx, bson.M{"_id": token}, &stored)
	if err != nil || !found {
		return nil, false
	}
	if !v.UserCredential(ctx, stored) {
		return nil, false
	}

	var credential models.Credential
	if err := decodeDocument(stored, &credential); err != nil {
		return nil, false
	}
	return &credential, true
}

func (v *Credentials) UserCredential(ctx context.Context, credential bson.M) bool {
	subject, ok := v.storedCredential(credential, models.RoleUser, "subjectId")
	if !ok {
		return false
	}
	return v.UserExists(ctx, subject)
}

// AdminCredential expects an adminId binding, which admin logins do not
// currently issue.
func (v *Credentials) AdminCredential(ctx context.Context, credential bson.M) bool {
	admin, ok := v.storedCredential(credential, models.RoleAdmin, "adminId")
	if !ok {
		return false
	}
	return v.AdminExists(ctx, admin)
}

// storedCredential runs the shape, role and expiry checks shared by both
// roles and returns the subject the credential is bound to.
func (v *Credentials) storedCredential(credential bson.M, role models.Role, subjectField string) (string, bool) {
	if credential == nil || !hasExactly(credential, "_id", "role", subjectField, "expiresAt") {
		return "", false
	}
	expiresAt, ok := asNumber(credential["expiresAt"])
	if !ok {
		return "", false
	}
	if r, _ := credential["role"].(string); r != string(role) {
		return "", false
	}
	if !v.fields.NotPastDeadline(v.clock.Now(), time.UnixMilli(int64(expiresAt))) {
		return "", false
	}
	subject, _ := credential[subjectField].(string)
	return subject, true
}

func decodeDocument(doc bson.M, out any) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}
