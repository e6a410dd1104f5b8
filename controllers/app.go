package controllers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/eventbackend/database"
	"github.com/princinho/eventbackend/dto"
	"github.com/princinho/eventbackend/middleware"
	"github.com/princinho/eventbackend/utils"
	"github.com/princinho/eventbackend/validation"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// App carries everything the handlers depend on. It is built once in main.
type App struct {
	Store       *database.Store
	Factory     *utils.Factory
	Credentials validation.CredentialValidator
	Inputs      validation.InputValidator
	Images      utils.ImageStore
	Logger      *log.Logger
}

// Permissions every Facebook login must grant.
var requiredPermissions = []string{"public_profile"}

// RegisterRoutes mounts every endpoint on r.
func (app *App) RegisterRoutes(r *gin.Engine) {
	user := middleware.UserAuth(app.Credentials)
	admin := middleware.AdminAuth(app.Credentials)

	login := r.Group("/login")
	{
		login.POST("", app.FacebookLogin())
		login.POST("/admin", app.AdminLogin())
		login.POST("/password", app.PasswordLogin())
		login.GET("/user", user, app.CurrentUser())
	}

	users := r.Group("/users")
	{
		users.POST("/enabled/exists", app.UserExists())
		users.POST("/enabled", app.CreateUser())
		users.POST("/accounts", app.CreateAccount())
		users.POST("/:userId/disable", admin, app.DisableUser())
		users.POST("/:userId/enable", admin, app.EnableUser())
		users.GET("/:state", admin, app.GetUsers())
		users.DELETE("/:userId", admin, app.DeleteUser())
	}

	eventTypes := r.Group("/event-types")
	{
		eventTypes.GET("", app.GetEventTypes())
		eventTypes.POST("", admin, app.AddEventType())
		eventTypes.DELETE("/:eventTypeId", admin, app.DeleteEventType())
		eventTypes.PUT("/:eventTypeId", admin, app.UpdateEventType())
	}

	events := r.Group("/events")
	{
		events.GET("/approved", app.GetEvents(database.Approved))
		events.GET("/pending", admin, app.GetEvents(database.Pending))
		events.GET("/rejected", admin, app.GetEvents(database.Rejected))
		events.POST("/pending", user, app.SubmitEvent())
		events.POST("/approved", admin, app.AddApprovedEvent())
		events.POST("/:eventId/approve", admin, app.MoveEvent(database.Approved))
		events.POST("/:eventId/reject", admin, app.MoveEvent(database.Rejected))
		events.PUT("/:eventId", admin, app.UpdateEvent())
		events.DELETE("/admin/:eventId", admin, app.DeleteAnyEvent())
		events.DELETE("/:eventId", user, app.DeleteOwnEvent())
	}

	settings := r.Group("/settings")
	{
		settings.GET("", user, app.GetSettings())
		settings.GET("/admin", admin, app.GetSettings())
		settings.PUT("", admin, app.UpdateSettings())
	}
}

// readInput decodes a JSON object body. Anything else comes back as nil,
// which the validators report as missing input.
func readInput(c *gin.Context) dto.Input {
	var input dto.Input
	if err := c.ShouldBindJSON(&input); err != nil {
		return nil
	}
	return input
}

func (app *App) fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// internalError logs the cause and answers 500 with message.
func (app *App) internalError(c *gin.Context, message string, err error) {
	app.Logger.Printf("%s %s: %s: %v", c.Request.Method, c.Request.URL.Path, message, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}

func (app *App) ok(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

// findAll loads every document of a collection, never returning a nil slice.
func findAll[T any](ctx context.Context, col database.Collection, filter bson.M) ([]T, error) {
	var items []T
	if err := col.Find(ctx, filter, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
