package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/princinho/eventbackend/config"
	"github.com/princinho/eventbackend/controllers"
	"github.com/princinho/eventbackend/database"
	"github.com/princinho/eventbackend/middleware"
	"github.com/princinho/eventbackend/utils"
	"github.com/princinho/eventbackend/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	clock := utils.SystemClock{}
	factory := utils.NewFactory(clock)

	var db database.Database
	if cfg.IsProduction() {
		client, err := database.Connect(ctx, cfg.MongoURI)
		if err != nil {
			log.Fatal(err)
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Println("Failed to disconnect from MongoDB:", err)
			}
		}()
		mongoDB := database.NewMongoDatabase(client, cfg.DatabaseName)
		if err := mongoDB.EnsureIndexes(ctx); err != nil {
			log.Fatal(err)
		}
		db = mongoDB
	} else {
		db = database.NewMemoryDatabase()
		log.Println("Using in-memory database")
	}

	//seeding administrator and settings
	if err := utils.SeedAdministrator(ctx, db.Collection(database.Administrators), factory, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatal(err)
	}
	if err := utils.SeedSettings(ctx, db.Collection(database.Settings), factory); err != nil {
		log.Fatal(err)
	}

	images, closeImages, err := openImageStore(ctx, cfg, db, factory)
	if err != nil {
		log.Fatal(err)
	}
	defer closeImages()

	fields := validation.NewFields()
	facebook := utils.NewFacebookVerifier(cfg.Facebook.AppID, cfg.Facebook.AppSecret, cfg.Facebook.GraphURL, clock)
	app := &controllers.App{
		Store:       database.NewStore(db),
		Factory:     factory,
		Credentials: validation.NewCredentials(db, clock, facebook, fields),
		Inputs:      validation.NewInputs(db, fields),
		Images:      images,
		Logger:      log.New(os.Stderr, "", log.LstdFlags),
	}

	r := gin.New()

	allowedOrigins := map[string]bool{}
	for _, origin := range cfg.AllowedOrigins {
		allowedOrigins[origin] = true
	}
	log.Printf("Allowed origins: %v", cfg.AllowedOrigins)
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			if len(allowedOrigins) == 0 && !cfg.IsProduction() {
				return true
			}
			return allowedOrigins[origin]
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RequestLogger(log.New(os.Stdout, "", log.LstdFlags)))
	r.Use(gin.Recovery())
	r.Use(middleware.BodyLimit(cfg.BodyLimitBytes))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	app.RegisterRoutes(r)

	publicDir, err := filepath.Abs(cfg.PublicDir)
	if err != nil {
		log.Fatal(err)
	}
	files := http.FileServer(http.Dir(publicDir))
	r.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		files.ServeHTTP(c.Writer, c.Request)
	})

	log.Printf("Listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

// openImageStore picks the avatar backend named by IMAGE_STORE. The returned
// func releases whatever the store holds open.
func openImageStore(ctx context.Context, cfg *config.Config, db database.Database, factory *utils.Factory) (utils.ImageStore, func(), error) {
	noop := func() {}
	switch cfg.Images.Store {
	case config.ImageStoreR2:
		store, err := utils.NewR2Client(ctx, cfg.Images.R2Bucket, cfg.Images.R2AccessKeyID, cfg.Images.R2SecretAccessKey, cfg.Images.R2Endpoint, cfg.Images.R2PublicDomain)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	case config.ImageStoreGCS:
		store, err := utils.NewGCSImageStore(ctx, cfg.Images.GCSBucket, cfg.Images.CredentialsFile)
		if err != nil {
			return nil, noop, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				log.Println("Failed to close GCS client:", err)
			}
		}, nil
	default:
		return utils.NewCollectionImageStore(db.Collection(database.Images), factory), noop, nil
	}
}
