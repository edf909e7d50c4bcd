// Package config reads the application configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	Port         int
	DBURL        string
	JWTSecret    string
	CookieSecure bool
	MediaDir     string
	S3           S3Config
	LogLevel     slog.Level
	SeedLocation *time.Location
}

// S3Config selects object storage for user icons. Icons go to local disk
// when Bucket is empty.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

func (c S3Config) Enabled() bool { return c.Bucket != "" }

// Load reads .env if present, then the environment. DB_URL is always
// required; JWT_SECRET only when requireSecret is set.
func Load(requireSecret bool) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("failed to load .env file: %+v", err)
	}

	return fromEnv(requireSecret)
}

func fromEnv(requireSecret bool) (*Config, error) {
	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("config: PORT: %w", err)
	}

	secure, err := strconv.ParseBool(getEnv("COOKIE_SECURE", "true"))
	if err != nil {
		return nil, fmt.Errorf("config: COOKIE_SECURE: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("config: LOG_LEVEL: %w", err)
	}

	loc, err := time.LoadLocation(getEnv("SEED_TIMEZONE", "Asia/Tokyo"))
	if err != nil {
		return nil, fmt.Errorf("config: SEED_TIMEZONE: %w", err)
	}

	cfg := &Config{
		Port:         port,
		DBURL:        os.Getenv("DB_URL"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		CookieSecure: secure,
		MediaDir:     getEnv("MEDIA_DIR", "./media"),
		S3: S3Config{
			Bucket:    os.Getenv("S3_BUCKET"),
			Region:    getEnv("S3_REGION", "us-east-1"),
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
		},
		LogLevel:     level,
		SeedLocation: loc,
	}

	var missing []string
	if cfg.DBURL == "" {
		missing = append(missing, "DB_URL")
	}
	if requireSecret && cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return nil, errors.New("config: missing " + strings.Join(missing, ", "))
	}

	return cfg, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
