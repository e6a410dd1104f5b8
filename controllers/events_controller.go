package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/eventbackend/database"
	"github.com/princinho/eventbackend/dto"
	"github.com/princinho/eventbackend/middleware"
	"github.com/princinho/eventbackend/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

var partitionNames = map[database.Partition]string{
	database.Pending:  "pending",
	database.Approved: "approved",
	database.Rejected: "rejected",
}

func (app *App) GetEvents(p database.Partition) gin.HandlerFunc {
	return func(c *gin.Context) {
		events, err := findAll[models.Event](c.Request.Context(), app.Store.Events(p), bson.M{})
		if err != nil {
			app.internalError(c, "An error occurred loading "+partitionNames[p]+" events", err)
			return
		}
		c.JSON(http.StatusOK, events)
	}
}

// readEvent validates the event creation body and decodes it.
func (app *App) readEvent(c *gin.Context) (*dto.EventDTO, bool) {
	input := readInput(c)
	if err := app.Inputs.EventCreationInput(c.Request.Context(), input); err != nil {
		app.fail(c, http.StatusBadRequest, err.Error())
		return nil, false
	}
	var body dto.EventDTO
	if err := dto.Decode(input, &body); err != nil {
		app.fail(c, http.StatusBadRequest, "Input was invalid")
		return nil, false
	}
	return &body, true
}

func (app *App) createEvent(c *gin.Context, p database.Partition, body dto.EventDTO) (*models.Event, bool) {
	event := app.Factory.CreateEvent(body)
	if err := app.Store.Events(p).Insert(c.Request.Context(), event); err != nil {
		app.internalError(c, "Error saving event", err)
		return nil, false
	}
	return &event, true
}

// SubmitEvent stores a user's event for review and records the user as its owner.
func (app *App) SubmitEvent() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		credential, ok := middleware.CurrentCredential(c)
		if !ok {
			app.fail(c, http.StatusUnauthorized, "Credential was invalid")
			return
		}
		body, ok := app.readEvent(c)
		if !ok {
			return
		}

		users := app.Store.Collection(database.EnabledUsers)
		var user models.User
		found, err := users.FindOne(ctx, bson.M{"_id": credential.SubjectID}, &user)
		if err != nil {
			app.internalError(c, "Error checking user", err)
			return
		}
		if !found {
			app.fail(c, http.StatusInternalServerError, "User does not exist")
			return
		}

		event, ok := app.createEvent(c, database.Pending, *body)
		if !ok {
			return
		}
		if _, err := users.Update(ctx, bson.M{"_id": user.ID}, bson.M{"$push": bson.M{"events": event.ID}}); err != nil {
			app.internalError(c, "Error updating user", err)
			return
		}
		c.JSON(http.StatusCreated, event)
	}
}

func (app *App) AddApprovedEvent() gin.HandlerFunc {
	return func(c *gin.Context) {
		body, ok := app.readEvent(c)
		if !ok {
			return
		}
		event, ok := app.createEvent(c, database.Approved, *body)
		if !ok {
			return
		}
		c.JSON(http.StatusCreated, event)
	}
}

// MoveEvent approves or rejects the event in the path, whichever partition
// it currently sits in.
func (app *App) MoveEvent(to database.Partition) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		event, from, err := app.Store.FindEvent(ctx, c.Param("eventId"))
		if errors.Is(err, database.ErrNotFound) {
			app.fail(c, http.StatusBadRequest, "The event could not be found")
			return
		}
		if err != nil {
			app.internalError(c, "Error looking up event", err)
			return
		}
		if from == to {
			app.fail(c, http.StatusBadRequest, "The event was already "+partitionNames[to])
			return
		}

		if err := app.Store.MoveEvent(ctx, *event, from, to); err != nil {
			app.internalError(c, "Unable to fully update approval status", err)
			return
		}
		app.ok(c, http.StatusOK, "The event was "+partitionNames[to])
	}
}

// UpdateEvent applies a partial change to an event in any partition.
func (app *App) UpdateEvent() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		input := readInput(c)
		if err := app.Inputs.EventChangeInput(ctx, input); err != nil {
			app.fail(c, http.StatusBadRequest, err.Error())
			return
		}

		event, p, err := app.Store.FindEvent(ctx, c.Param("eventId"))
		if errors.Is(err, database.ErrNotFound) {
			app.fail(c, http.StatusBadRequest, "The event could not be found")
			return
		}
		if err != nil {
			app.internalError(c, "Error looking up event", err)
			return
		}

		if _, err := app.Store.Events(p).Update(ctx, bson.M{"_id": event.ID}, bson.M{"$set": bson.M(input)}); err != nil {
			app.internalError(c, "Unable to update the event", err)
			return
		}
		app.ok(c, http.StatusOK, "Successfully edited the event")
	}
}

// DeleteOwnEvent lets a user withdraw one of their approved events.
func (app *App) DeleteOwnEvent() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		credential, ok := middleware.CurrentCredential(c)
		if !ok {
			app.fail(c, http.StatusUnauthorized, "Credential was invalid")
			return
		}
		eventID := c.Param("eventId")

		users := app.Store.Collection(database.EnabledUsers)
		var user models.User
		found, err := users.FindOne(ctx, bson.M{"_id": credential.SubjectID}, &user)
		if err != nil {
			app.internalError(c, "Error checking user", err)
			return
		}
		if !found {
			app.fail(c, http.StatusInternalServerError, "User could not be found")
			return
		}
		if !user.OwnsEvent(eventID) {
			app.fail(c, http.StatusUnauthorized, "User does not own the event")
			return
		}

		removed, err := app.Store.Events(database.Approved).Remove(ctx, bson.M{"_id": eventID})
		if err != nil {
			app.internalError(c, "Error deleting approved event", err)
			return
		}
		if removed == 0 {
			app.fail(c, http.StatusBadRequest, "No matching events")
			return
		}
		if _, err := users.Update(ctx, bson.M{"_id": user.ID}, bson.M{"$pull": bson.M{"events": eventID}}); err != nil {
			app.internalError(c, "Error updating user", err)
			return
		}
		app.ok(c, http.StatusOK, "Deleted the event")
	}
}

// DeleteAnyEvent removes an event from every partition and every owner.
func (app *App) DeleteAnyEvent() gin.HandlerFunc {
	return func(c *gin.Context) {
		removed, err := app.Store.RemoveEventEverywhere(c.Request.Context(), c.Param("eventId"))
		if err != nil {
			app.internalError(c, "Error deleting event", err)
			return
		}
		if removed == 0 {
			app.fail(c, http.StatusBadRequest, "No matching events")
			return
		}
		app.ok(c, http.StatusOK, "Deleted the event")
	}
}
