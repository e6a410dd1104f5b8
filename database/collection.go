package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Collection names.
const (
	EnabledUsers   = "EnabledUsers"
	DisabledUsers  = "DisabledUsers"
	Administrators = "Administrators"
	Credentials    = "Credentials"
	EventTypes     = "EventTypes"
	PendingEvents  = "PendingEvents"
	ApprovedEvents = "ApprovedEvents"
	RejectedEvents = "RejectedEvents"
	Settings       = "Settings"
	Users          = "Users"
	Images         = "Images"
)

var ErrDuplicateKey = errors.New("duplicate key")

// Collection is the subset of document-store operations the application needs.
//
// Filters support top-level equality (matching array members as well) and the
// $in operator. Updates support $set, $push and $pull.
type Collection interface {
	// FindOne decodes the first matching document into out and reports whether
	// one was found.
	FindOne(ctx context.Context, filter bson.M, out any) (bool, error)
	// Find decodes every matching document into out, a pointer to a slice.
	Find(ctx context.Context, filter bson.M, out any) error
	Insert(ctx context.Context, docs ...any) error
	// Update applies update to every matching document and returns the number matched.
	Update(ctx context.Context, filter bson.M, update bson.M) (int64, error)
	// Remove deletes every matching document and returns the number removed.
	Remove(ctx context.Context, filter bson.M) (int64, error)
}

// Database hands out collections by name.
type Database interface {
	Collection(name string) Collection
}
