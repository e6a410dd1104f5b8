package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/eventbackend/database"
	"github.com/princinho/eventbackend/dto"
	"github.com/princinho/eventbackend/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// GetSettings returns the settings singleton.
func (app *App) GetSettings() gin.HandlerFunc {
	return func(c *gin.Context) {
		settings, err := findAll[models.Settings](c.Request.Context(), app.Store.Collection(database.Settings), bson.M{})
		if err != nil {
			app.internalError(c, "Error loading settings", err)
			return
		}
		if len(settings) != 1 {
			app.fail(c, http.StatusInternalServerError, "Settings are corrupt")
			return
		}
		c.JSON(http.StatusOK, settings[0])
	}
}

func (app *App) UpdateSettings() gin.HandlerFunc {
	return func(c *gin.Context) {
		input := readInput(c)
		if err := app.Inputs.SettingsChangeInput(input); err != nil {
			app.fail(c, http.StatusBadRequest, err.Error())
			return
		}
		var body dto.SettingsDTO
		if err := dto.Decode(input, &body); err != nil {
			app.fail(c, http.StatusBadRequest, "Input was invalid")
			return
		}

		update := bson.M{"$set": bson.M{"paymentMode": body.PaymentMode}}
		if _, err := app.Store.Collection(database.Settings).Update(c.Request.Context(), bson.M{}, update); err != nil {
			app.internalError(c, "Error updating settings", err)
			return
		}
		app.ok(c, http.StatusOK, "Successfully updated settings")
	}
}
