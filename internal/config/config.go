package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env                      string
	Port                     string
	LogLevel                 string
	StoreDriver              string
	MongoURI                 string
	DBName                   string
	JWTSecret                string
	TokenTTL                 time.Duration
	UploadDir                string
	CORSOrigins              []string
	RabbitMQURL              string
	EnforceStatusTransitions bool
	Admin                    AdminSeed
}

// AdminSeed holds the credentials of the administrator created by cmd/seed-admin.
type AdminSeed struct {
	Email    string
	Password string
	Name     string
}

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// Load reads .env when present and builds the configuration from the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}

	cfg := Config{
		Env:                      getEnvOrDefault("APP_ENV", "dev"),
		Port:                     getEnvOrDefault("PORT", "4000"),
		LogLevel:                 getEnvOrDefault("LOG_LEVEL", "info"),
		StoreDriver:              strings.ToLower(getEnvOrDefault("STORE_DRIVER", StoreMongo)),
		MongoURI:                 getEnvOrDefault("MONGODB_URI", "mongodb://127.0.0.1:27017"),
		DBName:                   getEnvOrDefault("MONGODB_DB", "pk36"),
		JWTSecret:                getEnvOrDefault("JWT_SECRET", ""),
		TokenTTL:                 getDurationEnv("TOKEN_TTL_DAYS", 7, 24*time.Hour),
		UploadDir:                getEnvOrDefault("UPLOAD_DIR", "uploads"),
		CORSOrigins:              getListEnv("CORS_ORIGINS", []string{"http://localhost:5173"}),
		RabbitMQURL:              getEnvOrDefault("RABBITMQ_URL", ""),
		EnforceStatusTransitions: getBoolEnv("ENFORCE_STATUS_TRANSITIONS", false),
		Admin: AdminSeed{
			Email:    getEnvOrDefault("ADMIN_EMAIL", "admin@pk36.local"),
			Password: getEnvOrDefault("ADMIN_PASSWORD", "admin123"),
			Name:     getEnvOrDefault("ADMIN_NAME", "Administrator"),
		},
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return Config{}, errors.New("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "secret"
	}

	switch cfg.StoreDriver {
	case StoreMongo, StoreMemory:
	default:
		return Config{}, errors.New("STORE_DRIVER must be mongo or memory")
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "prod"
}
