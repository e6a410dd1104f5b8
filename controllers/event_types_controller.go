package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/eventbackend/database"
	"github.com/princinho/eventbackend/dto"
	"github.com/princinho/eventbackend/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func (app *App) GetEventTypes() gin.HandlerFunc {
	return func(c *gin.Context) {
		eventTypes, err := findAll[models.EventType](c.Request.Context(), app.Store.Collection(database.EventTypes), bson.M{})
		if err != nil {
			app.internalError(c, "An error occurred loading event types", err)
			return
		}
		c.JSON(http.StatusOK, eventTypes)
	}
}

func (app *App) AddEventType() gin.HandlerFunc {
	return func(c *gin.Context) {
		input := readInput(c)
		if err := app.Inputs.EventTypeCreationInput(input); err != nil {
			app.fail(c, http.StatusBadRequest, err.Error())
			return
		}
		var body dto.EventTypeDTO
		if err := dto.Decode(input, &body); err != nil {
			app.fail(c, http.StatusBadRequest, "Input was invalid")
			return
		}

		eventType := app.Factory.CreateEventType(body)
		if err := app.Store.Collection(database.EventTypes).Insert(c.Request.Context(), eventType); err != nil {
			app.internalError(c, "Error saving event type", err)
			return
		}
		app.ok(c, http.StatusCreated, "Created the event type")
	}
}

// DeleteEventType refuses to delete a type while any event still uses it.
func (app *App) DeleteEventType() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		eventTypeID := c.Param("eventTypeId")

		event, err := app.Store.FindEventByType(ctx, eventTypeID)
		switch {
		case err == nil:
			app.fail(c, http.StatusBadRequest, `Event type is used by "`+event.Title+`"`)
			return
		case !errors.Is(err, database.ErrNotFound):
			app.internalError(c, "Unable to look up event", err)
			return
		}

		if _, err := app.Store.Collection(database.EventTypes).Remove(ctx, bson.M{"_id": eventTypeID}); err != nil {
			app.internalError(c, "Unable to delete event type", err)
			return
		}
		app.ok(c, http.StatusOK, "Deleted the event type")
	}
}

func (app *App) UpdateEventType() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		eventTypeID := c.Param("eventTypeId")

		input := readInput(c)
		if err := app.Inputs.EventTypeChangeInput(eventTypeID, input); err != nil {
			app.fail(c, http.StatusBadRequest, err.Error())
			return
		}

		eventTypes := app.Store.Collection(database.EventTypes)
		var eventType models.EventType
		found, err := eventTypes.FindOne(ctx, bson.M{"_id": eventTypeID}, &eventType)
		if err != nil {
			app.internalError(c, "Unable to look up event type", err)
			return
		}
		if !found {
			app.fail(c, http.StatusBadRequest, "Event type does not exist")
			return
		}

		if _, err := eventTypes.Update(ctx, bson.M{"_id": eventTypeID}, bson.M{"$set": bson.M(input)}); err != nil {
			app.internalError(c, "Unable to update event type", err)
			return
		}
		app.ok(c, http.StatusOK, "The event type was modified")
	}
}
