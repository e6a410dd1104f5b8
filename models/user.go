package models

import "time"

// User is a Facebook-backed account. It lives in either the enabled or the
// disabled users collection.
type User struct {
	ID                string   `bson:"_id" json:"id"`
	ExternalAccountID string   `bson:"externalAccountId" json:"externalAccountId"`
	Events            []string `bson:"events" json:"events"`
}

// OwnsEvent reports whether eventID is attributed to the user.
func (u User) OwnsEvent(eventID string) bool {
	for _, id := range u.Events {
		if id == eventID {
			return true
		}
	}
	return false
}

type Administrator struct {
	ID           string `bson:"_id" json:"id"`
	Username     string `bson:"username" json:"username"`
	PasswordHash string `bson:"passwordHash" json:"-"` // never expose
}

// Account is a password-login user.
type Account struct {
	ID           string    `bson:"_id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"passwordHash" json:"-"` // never expose
	AvatarURL    string    `bson:"avatarUrl" json:"avatarUrl"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}
