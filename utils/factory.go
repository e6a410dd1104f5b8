package utils

import (
	"github.com/princinho/eventbackend/dto"
	"github.com/princinho/eventbackend/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	UserCredentialHours  = 72
	AdminCredentialHours = 24
)

// Factory builds well-formed records from already validated input.
type Factory struct {
	clock Clock
	newID func() string
}

func NewFactory(clock Clock) *Factory {
	return &Factory{clock: clock, newID: func() string { return bson.NewObjectID().Hex() }}
}

// WithIDSource replaces the id generator, mostly so tests get predictable ids.
func (f *Factory) WithIDSource(next func() string) *Factory {
	return &Factory{clock: f.clock, newID: next}
}

// CreateID returns a fresh 24 character hex identifier.
func (f *Factory) CreateID() string {
	return f.newID()
}

func (f *Factory) CreateImage(data string) models.Image {
	return models.Image{ID: f.CreateID(), Image: data}
}

func (f *Factory) CreateUser(externalAccountID string) models.User {
	return models.User{ID: f.CreateID(), ExternalAccountID: externalAccountID, Events: []string{}}
}

func (f *Factory) CreateUserCredential(user models.User) models.Credential {
	return models.Credential{
		ID:        f.CreateID(),
		Role:      models.RoleUser,
		SubjectID: user.ID,
		ExpiresAt: Millis(f.clock.HoursFromNow(UserCredentialHours)),
	}
}

// CreateAdminCredential is not bound to an administrator.
func (f *Factory) CreateAdminCredential() models.Credential {
	return models.Credential{
		ID:        f.CreateID(),
		Role:      models.RoleAdmin,
		ExpiresAt: Millis(f.clock.HoursFromNow(AdminCredentialHours)),
	}
}

func (f *Factory) CreateEvent(input dto.EventDTO) models.Event {
	return models.Event{
		ID:          f.CreateID(),
		Type:        input.Type,
		Title:       input.Title,
		Description: input.Description,
		Location:    input.Location,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
	}
}

func (f *Factory) CreateEventType(input dto.EventTypeDTO) models.EventType {
	return models.EventType{
		ID:    f.CreateID(),
		Name:  input.Name,
		Color: input.Color,
	}
}

// CreateAccount builds a password-login account. The avatar is attached by the
// caller once it has been stored.
func (f *Factory) CreateAccount(email, passwordHash string) models.Account {
	return models.Account{
		ID:           f.CreateID(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    f.clock.Now().UTC(),
	}
}
