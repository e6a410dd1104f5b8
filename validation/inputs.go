package validation

import (
	"context"

	"github.com/princinho/eventbackend/database"
	"github.com/princinho/eventbackend/dto"
	"github.com/princinho/eventbackend/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	MaxEventTypeNameLength = 50
	MaxTitleLength         = 100
	MaxDescriptionLength   = 1000
	MaxAddressLength       = 200
)

var eventFields = []string{"type", "title", "description", "location", "startDate", "endDate"}

// InputValidator checks whole request payloads. A nil error means the input
// can be decoded and stored.
type InputValidator interface {
	UserCreationInput(input dto.Input) error
	EventTypeCreationInput(input dto.Input) error
	EventTypeChangeInput(id string, input dto.Input) error
	EventCreationInput(ctx context.Context, input dto.Input) error
	EventChangeInput(ctx context.Context, input dto.Input) error
	SettingsChangeInput(input dto.Input) error
}

type Inputs struct {
	db     database.Database
	fields FieldValidator
}

func NewInputs(db database.Database, fields FieldValidator) *Inputs {
	return &Inputs{db: db, fields: fields}
}

func (v *Inputs) UserCreationInput(input dto.Input) error {
	if input == nil {
		return shapeError("No input")
	}
	if !hasExactly(input, "avatar", "email", "password") {
		return shapeError("Does not specify exactly the required fields")
	}
	if !v.fields.Image(input["avatar"]) {
		return shapeError("'avatar' is not a valid image")
	}
	if !v.fields.Email(input["email"]) {
		return shapeError("'email' is not a valid email")
	}
	if !v.fields.Password(input["password"]) {
		return rangeError("'password' is not a valid password")
	}
	return nil
}

func (v *Inputs) EventTypeCreationInput(input dto.Input) error {
	if input == nil {
		return shapeError("No input")
	}
	if !hasExactly(input, "name", "color") {
		return shapeError("Does not specify exactly the required fields")
	}
	name, ok := input["name"].(string)
	if !ok {
		return shapeError("'name' is not a string")
	}
	if name == "" {
		return shapeError("'name' can not be empty")
	}
	if err := v.fields.Color(input["color"]); err != nil {
		return shapeError("'color' was invalid")
	}
	return nil
}

func (v *Inputs) EventTypeChangeInput(id string, input dto.Input) error {
	if id == "" {
		return shapeError("Event type id was the empty string")
	}
	if input == nil {
		return shapeError("No input")
	}
	if len(input) == 0 {
		return shapeError("No fields specified")
	}
	if !hasOnly(input, "name", "color") {
		return shapeError("Unknown fields specified")
	}

	if raw, present := input["name"]; present {
		name, ok := raw.(string)
		if !ok {
			return shapeError("'name' was not a string")
		}
		if name == "" {
			return shapeError("'name' was the empty string")
		}
		if textLength(name) > MaxEventTypeNameLength {
			return rangeError("'name' was too long")
		}
	}
	if color, present := input["color"]; present {
		if err := v.fields.Color(color); err != nil {
			return shapeError("'color' was invalid")
		}
	}
	return nil
}

func (v *Inputs) EventCreationInput(ctx context.Context, input dto.Input) error {
	if input == nil {
		return shapeError("No input")
	}
	if !hasExactly(input, eventFields...) {
		return shapeError("Does not specify exactly the required fields")
	}
	return v.eventFields(ctx, input)
}

// EventChangeInput validates a partial update. Only the supplied fields are
// checked, except that supplying either date requires both to be numbers.
func (v *Inputs) EventChangeInput(ctx context.Context, input dto.Input) error {
	if input == nil {
		return shapeError("No input")
	}
	if len(input) == 0 {
		return shapeError("No fields specified")
	}
	if !hasOnly(input, eventFields...) {
		return shapeError("Unknown fields specified")
	}
	return v.eventFields(ctx, input)
}

func (v *Inputs) eventFields(ctx context.Context, input dto.Input) error {
	if raw, present := input["type"]; present {
		if err := v.eventType(ctx, raw); err != nil {
			return err
		}
	}
	if raw, present := input["title"]; present {
		if err := text("title", raw, MaxTitleLength); err != nil {
			return err
		}
	}
	if raw, present := input["description"]; present {
		if err := text("description", raw, MaxDescriptionLength); err != nil {
			return err
		}
	}
	if raw, present := input["location"]; present {
		if err := location(raw); err != nil {
			return err
		}
	}
	_, hasStart := input["startDate"]
	_, hasEnd := input["endDate"]
	if hasStart || hasEnd {
		return dates(input["startDate"], input["endDate"])
	}
	return nil
}

func (v *Inputs) eventType(ctx context.Context, raw any) error {
	if isEmpty(raw) {
		return shapeError("'type' does not have a value")
	}
	id, ok := raw.(string)
	if !ok {
		return referenceError("Event type does not exist")
	}
	var eventType models.EventType
	found, err := v.db.Collection(database.EventTypes).FindOne(ctx, bson.M{"_id": id}, &eventType)
	if err != nil {
		return upstreamError(err)
	}
	if !found {
		return referenceError("Event type does not exist")
	}
	return nil
}

func text(field string, raw any, maxLength int) error {
	if isEmpty(raw) {
		return shapeError("'" + field + "' does not have a value")
	}
	s, ok := raw.(string)
	if !ok {
		return shapeError("'" + field + "' is not a string")
	}
	if textLength(s) > maxLength {
		return rangeError("'" + field + "' is too long")
	}
	return nil
}

func location(raw any) error {
	if isEmpty(raw) {
		return shapeError("'location' does not have a value")
	}
	loc, ok := asObject(raw)
	if !ok || !hasExactly(loc, "address", "coordinates") {
		return shapeError("'location' does not have required fields")
	}

	address, ok := loc["address"].(string)
	if !ok {
		return shapeError("'location.address' is not a string")
	}
	if textLength(address) > MaxAddressLength {
		return rangeError("'location.address' is too long")
	}

	if isEmpty(loc["coordinates"]) {
		return shapeError("'location.coordinates' does not have a value")
	}
	coordinates, _ := asObject(loc["coordinates"])

	latitude, ok := asNumber(coordinates["latitude"])
	if !ok {
		return shapeError("'location.coordinates.latitude' is not a number")
	}
	if !inRange(latitude, -90, 90) {
		return rangeError("'location.coordinates.latitude' is invalid")
	}

	longitude, ok := asNumber(coordinates["longitude"])
	if !ok {
		return shapeError("'location.coordinates.longitude' is not a number")
	}
	if !inRange(longitude, -180, 180) {
		return rangeError("'location.coordinates.longitude' is invalid")
	}
	return nil
}

func dates(rawStart, rawEnd any) error {
	start, ok := asNumber(rawStart)
	if !ok {
		return shapeError("'startDate' is not a number")
	}
	end, ok := asNumber(rawEnd)
	if !ok {
		return shapeError("'endDate' is not a number")
	}
	if start > end {
		return rangeError("'startDate' is later than 'endDate'")
	}
	return nil
}

func (v *Inputs) SettingsChangeInput(input dto.Input) error {
	if input == nil {
		return shapeError("No input")
	}
	mode, ok := input["paymentMode"].(string)
	if !ok {
		return shapeError("'paymentMode' was not a string")
	}
	switch models.PaymentMode(mode) {
	case models.PaymentModeFree, models.PaymentModeCosts:
		return nil
	}
	return rangeError("'paymentMode' was not recognised")
}
