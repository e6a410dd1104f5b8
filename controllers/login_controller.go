package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/eventbackend/database"
	"github.com/princinho/eventbackend/dto"
	"github.com/princinho/eventbackend/middleware"
	"github.com/princinho/eventbackend/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// FacebookLogin exchanges a Facebook token for a user credential. Any
// credential the user held before is discarded.
func (app *App) FacebookLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		input := readInput(c)
		if !app.Credentials.FacebookLogin(ctx, input, requiredPermissions) {
			app.fail(c, http.StatusBadRequest, "Input was invalid")
			return
		}
		var login dto.FacebookLoginDTO
		if err := dto.Decode(input, &login); err != nil {
			app.fail(c, http.StatusBadRequest, "Input was invalid")
			return
		}

		var user models.User
		found, err := app.Store.Collection(database.EnabledUsers).FindOne(ctx, bson.M{"externalAccountId": login.ExternalUserID}, &user)
		if err != nil {
			app.internalError(c, "Unable to load user", err)
			return
		}
		if !found {
			app.fail(c, http.StatusBadRequest, "User does not exist")
			return
		}

		credential := app.Factory.CreateUserCredential(user)
		if err := app.Store.ReplaceUserCredential(ctx, credential); err != nil {
			app.internalError(c, "Unable to store credential", err)
			return
		}
		c.JSON(http.StatusOK, models.StrippedCredential{Token: credential.ID})
	}
}

// AdminLogin checks an administrator login and echoes it back. Clients send
// it as the Authorization header of admin routes.
func (app *App) AdminLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		input := readInput(c)
		if !app.Credentials.AdminLogin(c.Request.Context(), input) {
			app.fail(c, http.StatusUnauthorized, "Invalid admin login")
			return
		}
		var login dto.AdminLoginDTO
		if err := dto.Decode(input, &login); err != nil {
			app.fail(c, http.StatusUnauthorized, "Invalid admin login")
			return
		}
		c.JSON(http.StatusOK, login)
	}
}

func (app *App) PasswordLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		input := readInput(c)
		if !app.Credentials.PasswordLogin(ctx, input) {
			app.fail(c, http.StatusUnauthorized, "Invalid login")
			return
		}
		var login dto.PasswordLoginDTO
		if err := dto.Decode(input, &login); err != nil {
			app.fail(c, http.StatusUnauthorized, "Invalid login")
			return
		}

		var account models.Account
		found, err := app.Store.Collection(database.Users).FindOne(ctx, bson.M{"email": login.Email}, &account)
		if err != nil {
			app.internalError(c, "Unable to load account", err)
			return
		}
		if !found {
			app.fail(c, http.StatusUnauthorized, "Invalid login")
			return
		}
		c.JSON(http.StatusOK, account)
	}
}

// CurrentUser returns the enabled user the request credential belongs to.
func (app *App) CurrentUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		credential, ok := middleware.CurrentCredential(c)
		if !ok {
			app.fail(c, http.StatusUnauthorized, "Credential was invalid")
			return
		}

		var user models.User
		found, err := app.Store.Collection(database.EnabledUsers).FindOne(c.Request.Context(), bson.M{"_id": credential.SubjectID}, &user)
		if err != nil {
			app.internalError(c, "Error loading user", err)
			return
		}
		if !found {
			app.fail(c, http.StatusInternalServerError, "User could not be found")
			return
		}
		c.JSON(http.StatusOK, user)
	}
}
