package models

type Role string

const (
	RoleUser  Role = "User"
	RoleAdmin Role = "Admin"
)

// Credential is an opaque bearer credential. ExpiresAt is in epoch
// milliseconds. Admin credentials carry no subject.
type Credential struct {
	ID        string `bson:"_id" json:"id"`
	Role      Role   `bson:"role" json:"role"`
	SubjectID string `bson:"subjectId,omitempty" json:"subjectId,omitempty"`
	ExpiresAt int64  `bson:"expiresAt" json:"expiresAt"`
}

// StrippedCredential is what clients send back in the Authorization header.
type StrippedCredential struct {
	Token string `json:"token"`
}
