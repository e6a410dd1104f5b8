package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/princinho/eventbackend/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Partition is one of the three mutually exclusive event collections.
type Partition string

const (
	Pending  Partition = PendingEvents
	Approved Partition = ApprovedEvents
	Rejected Partition = RejectedEvents
)

// Partitions lists every event partition.
var Partitions = []Partition{Approved, Pending, Rejected}

var ErrNotFound = errors.New("document not found")

// Store groups the collections and the multi-collection operations.
//
// Multi-step operations are best effort and not atomic: they insert into the
// destination before removing from the source, so a failure between the two
// steps leaves the document in both places.
type Store struct {
	db Database
}

func NewStore(db Database) *Store {
	return &Store{db: db}
}

func (s *Store) Collection(name string) Collection {
	return s.db.Collection(name)
}

func (s *Store) Events(p Partition) Collection {
	return s.db.Collection(string(p))
}

// FindEvent looks an event up in every partition, in Approved, Pending, Rejected
// order, and reports where it was found.
func (s *Store) FindEvent(ctx context.Context, id string) (*models.Event, Partition, error) {
	for _, p := range Partitions {
		var event models.Event
		found, err := s.Events(p).FindOne(ctx, bson.M{"_id": id}, &event)
		if err != nil {
			return nil, "", fmt.Errorf("look up %s event: %w", p, err)
		}
		if found {
			return &event, p, nil
		}
	}
	return nil, "", ErrNotFound
}

// FindEventByType returns any event in any partition that references eventTypeID.
func (s *Store) FindEventByType(ctx context.Context, eventTypeID string) (*models.Event, error) {
	for _, p := range Partitions {
		var event models.Event
		found, err := s.Events(p).FindOne(ctx, bson.M{"type": eventTypeID}, &event)
		if err != nil {
			return nil, fmt.Errorf("look up %s event: %w", p, err)
		}
		if found {
			return &event, nil
		}
	}
	return nil, ErrNotFound
}

// MoveEvent transfers an event from one partition to another.
func (s *Store) MoveEvent(ctx context.Context, event models.Event, from, to Partition) error {
	if err := s.Events(to).Insert(ctx, event); err != nil {
		return fmt.Errorf("insert into %s: %w", to, err)
	}
	if _, err := s.Events(from).Remove(ctx, bson.M{"_id": event.ID}); err != nil {
		return fmt.Errorf("remove from %s: %w", from, err)
	}
	return nil
}

// MoveUser transfers a user between the enabled and disabled collections.
func (s *Store) MoveUser(ctx context.Context, user models.User, from, to string) error {
	if err := s.db.Collection(to).Insert(ctx, user); err != nil {
		return fmt.Errorf("insert into %s: %w", to, err)
	}
	if _, err := s.db.Collection(from).Remove(ctx, bson.M{"_id": user.ID}); err != nil {
		return fmt.Errorf("remove from %s: %w", from, err)
	}
	return nil
}

// ReplaceUserCredential deletes the subject's current credential, if any, and
// stores credential in its place.
func (s *Store) ReplaceUserCredential(ctx context.Context, credential models.Credential) error {
	credentials := s.db.Collection(Credentials)

	var old models.Credential
	found, err := credentials.FindOne(ctx, bson.M{"subjectId": credential.SubjectID}, &old)
	if err != nil {
		return fmt.Errorf("load credential: %w", err)
	}
	if found {
		if _, err := credentials.Remove(ctx, bson.M{"_id": old.ID}); err != nil {
			return fmt.Errorf("delete credential: %w", err)
		}
	}
	if err := credentials.Insert(ctx, credential); err != nil {
		return fmt.Errorf("store credential: %w", err)
	}
	return nil
}

// RemoveEventEverywhere deletes an event from all partitions and detaches it
// from every owner. It returns the number of event documents removed.
func (s *Store) RemoveEventEverywhere(ctx context.Context, eventID string) (int64, error) {
	var total int64
	for _, p := range []Partition{Rejected, Pending, Approved} {
		n, err := s.Events(p).Remove(ctx, bson.M{"_id": eventID})
		if err != nil {
			return total, fmt.Errorf("delete %s event: %w", p, err)
		}
		total += n
	}
	if total == 0 {
		return 0, nil
	}
	_, err := s.db.Collection(EnabledUsers).Update(ctx,
		bson.M{"events": bson.M{"$in": bson.A{eventID}}},
		bson.M{"$pull": bson.M{"events": eventID}},
	)
	if err != nil {
		return total, fmt.Errorf("update users: %w", err)
	}
	return total, nil
}
