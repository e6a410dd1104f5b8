package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Image store engines selectable through IMAGE_STORE.
const (
	ImageStoreCollection = "collection"
	ImageStoreR2         = "r2"
	ImageStoreGCS        = "gcs"
)

type Config struct {
	Env            string
	Port           string
	MongoURI       string
	DatabaseName   string
	AllowedOrigins []string
	PublicDir      string
	BodyLimitBytes int64

	AdminUsername string
	AdminPassword string

	Facebook FacebookConfig
	Images   ImageConfig
}

type FacebookConfig struct {
	AppID     string
	AppSecret string
	GraphURL  string
}

type ImageConfig struct {
	Store string

	R2Bucket          string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2Endpoint        string
	R2PublicDomain    string

	GCSBucket       string
	CredentialsFile string
}

// Load reads the .env file when present and builds the configuration from the
// environment, falling back to development defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := &Config{
		Env:            getEnv("APP_ENV", EnvDevelopment),
		Port:           getEnv("PORT", "3000"),
		MongoURI:       getEnv("MONGODB_URI", "mongodb://127.0.0.1:27017"),
		DatabaseName:   getEnv("DATABASE_NAME", "database"),
		AllowedOrigins: getSliceEnv("ALLOWED_ORIGINS", nil),
		PublicDir:      getEnv("PUBLIC_DIR", "public"),
		BodyLimitBytes: getInt64Env("BODY_LIMIT_BYTES", 1<<20),
		AdminUsername:  strings.TrimSpace(os.Getenv("ADMIN_USERNAME")),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
		Facebook: FacebookConfig{
			AppID:     os.Getenv("FACEBOOK_APP_ID"),
			AppSecret: os.Getenv("FACEBOOK_APP_SECRET"),
			GraphURL:  getEnv("FACEBOOK_GRAPH_URL", "https://graph.facebook.com"),
		},
		Images: ImageConfig{
			Store:             getEnv("IMAGE_STORE", ImageStoreCollection),
			R2Bucket:          os.Getenv("R2_BUCKET"),
			R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
			R2Endpoint:        os.Getenv("R2_ENDPOINT"),
			R2PublicDomain:    os.Getenv("R2_PUBLIC_DOMAIN"),
			GCSBucket:         os.Getenv("GCS_BUCKET"),
			CredentialsFile:   os.Getenv("CREDENTIALS_FILE_LOCATION"),
		},
	}
	if !cfg.IsProduction() {
		if cfg.AdminUsername == "" {
			cfg.AdminUsername = "administrator"
		}
		if cfg.AdminPassword == "" {
			cfg.AdminPassword = "some-password"
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Validate checks that the settings required by the selected engines are present.
func (c *Config) Validate() error {
	var errs []error

	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		errs = append(errs, fmt.Errorf("APP_ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.Env))
	}
	if c.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if c.BodyLimitBytes <= 0 {
		errs = append(errs, errors.New("BODY_LIMIT_BYTES must be positive"))
	}
	if c.IsProduction() {
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGODB_URI is required in production"))
		}
		if c.DatabaseName == "" {
			errs = append(errs, errors.New("DATABASE_NAME is required in production"))
		}
		if c.Facebook.AppID == "" || c.Facebook.AppSecret == "" {
			errs = append(errs, errors.New("FACEBOOK_APP_ID and FACEBOOK_APP_SECRET are required in production"))
		}
		if c.AdminUsername == "" || c.AdminPassword == "" {
			errs = append(errs, errors.New("ADMIN_USERNAME and ADMIN_PASSWORD are required in production"))
		}
		if len(c.AllowedOrigins) == 0 {
			errs = append(errs, errors.New("ALLOWED_ORIGINS is required in production"))
		}
	}

	switch c.Images.Store {
	case ImageStoreCollection:
	case ImageStoreR2:
		if c.Images.R2Bucket == "" || c.Images.R2AccessKeyID == "" || c.Images.R2SecretAccessKey == "" || c.Images.R2Endpoint == "" {
			errs = append(errs, errors.New("missing R2 env vars (R2_BUCKET, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY, R2_ENDPOINT)"))
		}
	case ImageStoreGCS:
		if c.Images.GCSBucket == "" {
			errs = append(errs, errors.New("GCS_BUCKET is required when IMAGE_STORE=gcs"))
		}
	default:
		errs = append(errs, fmt.Errorf("IMAGE_STORE %q is not recognised", c.Images.Store))
	}

	return errors.Join(errs...)
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt64Env(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func getSliceEnv(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	out := make([]string, 0)
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
