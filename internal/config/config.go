package config

import (
	"fmt"
	"os"

	"whosfordinner/internal/photo"
)

// Config holds all application configuration, read from the environment.
type Config struct {
	Port     string
	DBPath   string
	PIN      string // shared plaintext PIN
	PINHash  string // bcrypt hash; takes precedence over PIN when set
	LogLevel string
	S3       photo.Config
}

// Load reads configuration from environment variables. One of DINNER_PIN
// or DINNER_PIN_HASH is required; everything else has a sensible default
// or is optional.
func Load() (Config, error) {
	cfg := Config{
		Port:     envOrDefault("DINNER_PORT", "8080"),
		DBPath:   envOrDefault("DINNER_DB_PATH", "dinner.db"),
		PIN:      os.Getenv("DINNER_PIN"),
		PINHash:  os.Getenv("DINNER_PIN_HASH"),
		LogLevel: envOrDefault("DINNER_LOG_LEVEL", "info"),
		S3: photo.Config{
			Endpoint:  os.Getenv("DINNER_S3_ENDPOINT"),
			Bucket:    os.Getenv("DINNER_S3_BUCKET"),
			Region:    envOrDefault("DINNER_S3_REGION", "auto"),
			AccessKey: os.Getenv("DINNER_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("DINNER_S3_SECRET_KEY"),
		},
	}

	if cfg.PIN == "" && cfg.PINHash == "" {
		return Config{}, fmt.Errorf("DINNER_PIN or DINNER_PIN_HASH is required")
	}

	return cfg, nil
}

func envOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
