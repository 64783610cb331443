package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all client configuration, read from the environment.
type Config struct {
	// Hosted platform
	PlatformURL string // base URL of the table API, e.g. https://xyz.saforex.app
	AnonKey     string // public API key sent with every request

	// Object storage (S3-compatible)
	StorageRegion string
	StorageBucket string
	CDNBaseURL    string // public base URL files are served from

	// Logging
	LogLevel string
	LogFile  string

	// Cache tuning. Zero means "use the per-table default".
	ContentTTL time.Duration
	LiveTTL    time.Duration
}

// Load reads configuration from .env (if present) and the environment.
func Load() (*Config, error) {
	// .env is optional; system environment wins either way.
	_ = godotenv.Load()

	cfg := &Config{
		PlatformURL:   os.Getenv("SAFOREX_PLATFORM_URL"),
		AnonKey:       os.Getenv("SAFOREX_ANON_KEY"),
		StorageRegion: getEnvOrDefault("SAFOREX_STORAGE_REGION", "eu-central-1"),
		StorageBucket: getEnvOrDefault("SAFOREX_STORAGE_BUCKET", "saforex-media"),
		CDNBaseURL:    os.Getenv("SAFOREX_CDN_BASE_URL"),
		LogLevel:      getEnvOrDefault("SAFOREX_LOG_LEVEL", "info"),
		LogFile:       getEnvOrDefault("SAFOREX_LOG_FILE", "saforex.log"),
		ContentTTL:    getDurationOrDefault("SAFOREX_CONTENT_TTL", 5*time.Minute),
		LiveTTL:       getDurationOrDefault("SAFOREX_LIVE_TTL", time.Minute),
	}

	if cfg.PlatformURL == "" {
		return nil, fmt.Errorf("SAFOREX_PLATFORM_URL environment variable is required")
	}
	if cfg.AnonKey == "" {
		return nil, fmt.Errorf("SAFOREX_ANON_KEY environment variable is required")
	}
	if cfg.CDNBaseURL == "" {
		cfg.CDNBaseURL = cfg.PlatformURL + "/storage/v1/object/public"
	}

	return cfg, nil
}

// getEnvOrDefault returns environment variable or default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationOrDefault parses a duration environment variable
func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
