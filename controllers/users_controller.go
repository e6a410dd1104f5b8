package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/eventbackend/database"
	"github.com/princinho/eventbackend/dto"
	"github.com/princinho/eventbackend/models"
	"github.com/princinho/eventbackend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
)

var userStates = map[string]string{
	"enabled":  database.EnabledUsers,
	"disabled": database.DisabledUsers,
}

// facebookUser validates the Facebook login in the body and looks up the
// enabled user it belongs to. It writes the error response itself and
// returns ok=false when the handler should stop.
func (app *App) facebookUser(c *gin.Context) (login dto.FacebookLoginDTO, user *models.User, ok bool) {
	ctx := c.Request.Context()

	input := readInput(c)
	if !app.Credentials.FacebookLogin(ctx, input, requiredPermissions) {
		app.fail(c, http.StatusBadRequest, "Login was not valid")
		return login, nil, false
	}
	if err := dto.Decode(input, &login); err != nil {
		app.fail(c, http.StatusBadRequest, "Login was not valid")
		return login, nil, false
	}

	var existing models.User
	found, err := app.Store.Collection(database.EnabledUsers).FindOne(ctx, bson.M{"externalAccountId": login.ExternalUserID}, &existing)
	if err != nil {
		app.internalError(c, "Unable to check existing user", err)
		return login, nil, false
	}
	if found {
		return login, &existing, true
	}
	return login, nil, true
}

func (app *App) UserExists() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, user, ok := app.facebookUser(c)
		if !ok {
			return
		}
		if user == nil {
			c.Status(http.StatusNoContent)
			return
		}
		app.ok(c, http.StatusOK, "The user exists")
	}
}

// CreateUser registers the Facebook account in the body as an enabled user.
func (app *App) CreateUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		login, existing, ok := app.facebookUser(c)
		if !ok {
			return
		}
		if existing != nil {
			app.fail(c, http.StatusUnauthorized, "User already exists")
			return
		}

		user := app.Factory.CreateUser(login.ExternalUserID)
		if err := app.Store.Collection(database.EnabledUsers).Insert(c.Request.Context(), user); err != nil {
			app.internalError(c, "Unable to save user", err)
			return
		}
		app.ok(c, http.StatusCreated, "Created the user")
	}
}

// CreateAccount registers a password-login account with an avatar.
func (app *App) CreateAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		input := readInput(c)
		if err := app.Inputs.UserCreationInput(input); err != nil {
			app.fail(c, http.StatusBadRequest, err.Error())
			return
		}
		var body dto.CreateAccountDTO
		if err := dto.Decode(input, &body); err != nil {
			app.fail(c, http.StatusBadRequest, "Input was invalid")
			return
		}

		accounts := app.Store.Collection(database.Users)
		var existing models.Account
		found, err := accounts.FindOne(ctx, bson.M{"email": body.Email}, &existing)
		if err != nil {
			app.internalError(c, "Unable to check existing account", err)
			return
		}
		if found {
			app.fail(c, http.StatusConflict, "Email is already registered")
			return
		}

		hash, err := utils.HashPassword(body.Password)
		if err != nil {
			app.internalError(c, "Unable to store password", err)
			return
		}
		account := app.Factory.CreateAccount(body.Email, hash)
		account.AvatarURL, err = app.Images.SaveAvatar(ctx, account.ID, body.Avatar)
		if err != nil {
			app.internalError(c, "Unable to store avatar", err)
			return
		}

		if err := accounts.Insert(ctx, account); err != nil {
			if database.IsDuplicateKey(err) {
				app.fail(c, http.StatusConflict, "Email is already registered")
				return
			}
			app.internalError(c, "Unable to save account", err)
			return
		}
		c.JSON(http.StatusCreated, account)
	}
}

// findUser looks a user up in both user collections.
func (app *App) findUser(c *gin.Context, userID string) (enabled, disabled *models.User, ok bool) {
	ctx := c.Request.Context()
	for _, name := range []string{database.EnabledUsers, database.DisabledUsers} {
		var user models.User
		found, err := app.Store.Collection(name).FindOne(ctx, bson.M{"_id": userID}, &user)
		if err != nil {
			app.internalError(c, "Error looking up user", err)
			return nil, nil, false
		}
		if !found {
			continue
		}
		if name == database.EnabledUsers {
			enabled = &user
		} else {
			disabled = &user
		}
	}
	return enabled, disabled, true
}

func (app *App) DisableUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		enabled, disabled, ok := app.findUser(c, c.Param("userId"))
		if !ok {
			return
		}
		switch {
		case disabled != nil:
			app.fail(c, http.StatusBadRequest, "The user was already disabled")
		case enabled == nil:
			app.fail(c, http.StatusBadRequest, "The user could not be found")
		default:
			if err := app.Store.MoveUser(c.Request.Context(), *enabled, database.EnabledUsers, database.DisabledUsers); err != nil {
				app.internalError(c, "Error disabling user", err)
				return
			}
			app.ok(c, http.StatusOK, "Successfully disabled the user")
		}
	}
}

func (app *App) EnableUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		enabled, disabled, ok := app.findUser(c, c.Param("userId"))
		if !ok {
			return
		}
		switch {
		case enabled != nil:
			app.fail(c, http.StatusBadRequest, "The user was already enabled")
		case disabled == nil:
			app.fail(c, http.StatusBadRequest, "The user could not be found")
		default:
			if err := app.Store.MoveUser(c.Request.Context(), *disabled, database.DisabledUsers, database.EnabledUsers); err != nil {
				app.internalError(c, "Error enabling user", err)
				return
			}
			app.ok(c, http.StatusOK, "Successfully enabled the user")
		}
	}
}

// GetUsers lists the users in the state named by the path, enabled or disabled.
func (app *App) GetUsers() gin.HandlerFunc {
	return func(c *gin.Context) {
		collection, known := userStates[c.Param("state")]
		if !known {
			app.fail(c, http.StatusBadRequest, "Unrecognised user state")
			return
		}
		users, err := findAll[models.User](c.Request.Context(), app.Store.Collection(collection), bson.M{})
		if err != nil {
			app.internalError(c, "Unable to load users", err)
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

func (app *App) DeleteUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		userID := c.Param("userId")

		var errs []error
		for _, name := range []string{database.EnabledUsers, database.DisabledUsers} {
			if _, err := app.Store.Collection(name).Remove(ctx, bson.M{"_id": userID}); err != nil {
				errs = append(errs, err)
			}
		}
		if err := errors.Join(errs...); err != nil {
			app.internalError(c, "Unable to delete user", err)
			return
		}
		app.ok(c, http.StatusOK, "Deleted the user")
	}
}
