package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Connect opens a client against uri and pings the primary.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	log.Println("Connected to MongoDB")
	return client, nil
}

// MongoDatabase serves collections from a single mongo database.
type MongoDatabase struct {
	db *mongo.Database
}

func NewMongoDatabase(client *mongo.Client, databaseName string) *MongoDatabase {
	log.Printf("Using database %q", databaseName)
	return &MongoDatabase{db: client.Database(databaseName)}
}

func (m *MongoDatabase) Collection(name string) Collection {
	return &MongoCollection{col: m.db.Collection(name)}
}

// EnsureIndexes creates the unique indexes the handlers rely on.
func (m *MongoDatabase) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	indexes := map[string]mongo.IndexModel{
		Users:          {Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		Administrators: {Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
		Credentials:    {Keys: bson.D{{Key: "subjectId", Value: 1}}},
	}
	for name, model := range indexes {
		if _, err := m.db.Collection(name).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s: %w", name, err)
		}
	}
	return nil
}

// MongoCollection adapts a driver collection to Collection.
type MongoCollection struct {
	col *mongo.Collection
}

func (m *MongoCollection) FindOne(ctx context.Context, filter bson.M, out any) (bool, error) {
	err := m.col.FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (m *MongoCollection) Find(ctx context.Context, filter bson.M, out any) error {
	cursor, err := m.col.Find(ctx, filter)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}

func (m *MongoCollection) Insert(ctx context.Context, docs ...any) error {
	if len(docs) == 0 {
		return nil
	}
	_, err := m.col.InsertMany(ctx, docs)
	return err
}

func (m *MongoCollection) Update(ctx context.Context, filter bson.M, update bson.M) (int64, error) {
	res, err := m.col.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func (m *MongoCollection) Remove(ctx context.Context, filter bson.M) (int64, error) {
	res, err := m.col.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// IsDuplicateKey reports whether err is a unique index violation.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 || e.Code == 11001 {
				return true
			}
		}
	}

	var bwe mongo.BulkWriteException
	if errors.As(err, &bwe) {
		for _, e := range bwe.WriteErrors {
			if e.Code == 11000 || e.Code == 11001 {
				return true
			}
		}
	}

	if errors.Is(err, ErrDuplicateKey) {
		return true
	}
	return strings.Contains(err.Error(), "E11000 duplicate key error")
}
