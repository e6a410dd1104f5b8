package utils

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/princinho/eventbackend/database"
	"github.com/princinho/eventbackend/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// SeedAdministrator inserts the administrator unless one with the same
// username already exists.
func SeedAdministrator(ctx context.Context, admins database.Collection, factory *Factory, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return fmt.Errorf("missing ADMIN_USERNAME or ADMIN_PASSWORD env vars")
	}

	var existing models.Administrator
	found, err := admins.FindOne(ctx, bson.M{"username": username}, &existing)
	if err != nil {
		return fmt.Errorf("look up administrator: %w", err)
	}
	if found {
		log.Println("Administrator already exists:", username)
		return nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := models.Administrator{ID: factory.CreateID(), Username: username, PasswordHash: hash}
	if err := admins.Insert(ctx, admin); err != nil {
		return fmt.Errorf("seed administrator: %w", err)
	}
	log.Println("Administrator seeded:", username)
	return nil
}

// SeedSettings makes sure the settings singleton exists.
func SeedSettings(ctx context.Context, settings database.Collection, factory *Factory) error {
	var existing []models.Settings
	if err := settings.Find(ctx, bson.M{}, &existing); err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	doc := models.Settings{ID: factory.CreateID(), PaymentMode: models.PaymentModeFree}
	if err := settings.Insert(ctx, doc); err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}
	log.Println("Settings seeded with payment mode", doc.PaymentMode)
	return nil
}
