// Package config handles application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
// Fields are populated from environment variables.
type Config struct {
	// Server settings
	Port int    // HTTP port to listen on
	Env  string // development, staging, production

	// Database
	DatabasePath string // Path to SQLite file

	// Authentication
	APIKey string // API key for admin endpoints

	// Logging
	LogLevel  string // debug, info, warn, error
	LogFormat string // json, text

	// Default location, used when a request names none and as the fallback
	// when geocoding or the location store fails.
	DefaultLatitude  float64
	DefaultLongitude float64
	DefaultPlaceName string

	// Festivals
	FestivalsPath  string // YAML or TOML file; empty uses the built-in list
	WatchFestivals bool   // reload FestivalsPath when it changes
	UpcomingDays   int    // default window of /festivals/upcoming

	// Geocoding
	GeocoderURL       string
	GeocoderUserAgent string
	GeocoderRPS       float64
	GeocoderBurst     int
	GeocoderTimeout   time.Duration
	GeocoderCacheTTL  time.Duration

	// Monitor
	RefreshCron string // robfig/cron spec for the active-window monitor

	// Limits
	MaxRangeDays int // longest span for range and feed endpoints
}

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Default location: New Delhi.
const (
	DefaultLatitude  = 28.6139
	DefaultLongitude = 77.2090
	DefaultPlaceName = "New Delhi"
)

// Load reads configuration from environment variables.
// In development, it first loads from .env file if present.
func Load() (*Config, error) {
	// No-op when there is no .env file.
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.Port = getEnvInt("PORT", 8080)
	cfg.Env = getEnv("ENV", EnvDevelopment)

	cfg.DatabasePath = getEnv("DATABASE_PATH", "./data/panchang.db")

	cfg.APIKey = getEnv("API_KEY", "")

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "text")

	cfg.DefaultLatitude = getEnvFloat("DEFAULT_LATITUDE", DefaultLatitude)
	cfg.DefaultLongitude = getEnvFloat("DEFAULT_LONGITUDE", DefaultLongitude)
	cfg.DefaultPlaceName = getEnv("DEFAULT_PLACE_NAME", DefaultPlaceName)

	cfg.FestivalsPath = getEnv("FESTIVALS_PATH", "")
	cfg.WatchFestivals = getEnvBool("WATCH_FESTIVALS", false)
	cfg.UpcomingDays = getEnvInt("UPCOMING_DAYS", 90)

	cfg.GeocoderURL = getEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org")
	cfg.GeocoderUserAgent = getEnv("GEOCODER_USER_AGENT", "panchang-api/1.0")
	cfg.GeocoderRPS = getEnvFloat("GEOCODER_RPS", 1)
	cfg.GeocoderBurst = getEnvInt("GEOCODER_BURST", 1)
	cfg.GeocoderTimeout = getEnvDuration("GEOCODER_TIMEOUT", 10*time.Second)
	cfg.GeocoderCacheTTL = getEnvDuration("GEOCODER_CACHE_TTL", 24*time.Hour)

	cfg.RefreshCron = getEnv("REFRESH_CRON", "@every 1m")

	cfg.MaxRangeDays = getEnvInt("MAX_RANGE_DAYS", 90)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present and valid.
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}

	switch c.Env {
	case EnvDevelopment, EnvStaging, EnvProduction:
	default:
		errs = append(errs, fmt.Errorf("ENV must be one of: development, staging, production; got %q", c.Env))
	}

	if c.DatabasePath == "" {
		errs = append(errs, errors.New("DATABASE_PATH is required"))
	}

	if c.Env == EnvProduction && c.APIKey == "" {
		errs = append(errs, errors.New("API_KEY is required in production"))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", c.LogLevel))
	}

	switch c.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be one of: json, text; got %q", c.LogFormat))
	}

	if c.DefaultLatitude < -90 || c.DefaultLatitude > 90 {
		errs = append(errs, fmt.Errorf("DEFAULT_LATITUDE must be within [-90, 90], got %v", c.DefaultLatitude))
	}
	if c.DefaultLongitude < -180 || c.DefaultLongitude > 180 {
		errs = append(errs, fmt.Errorf("DEFAULT_LONGITUDE must be within [-180, 180], got %v", c.DefaultLongitude))
	}

	if c.WatchFestivals && c.FestivalsPath == "" {
		errs = append(errs, errors.New("WATCH_FESTIVALS requires FESTIVALS_PATH"))
	}
	if c.FestivalsPath != "" {
		switch strings.ToLower(c.FestivalsPath[strings.LastIndex(c.FestivalsPath, ".")+1:]) {
		case "yaml", "yml", "toml":
		default:
			errs = append(errs, fmt.Errorf("FESTIVALS_PATH must be a .yaml, .yml or .toml file, got %q", c.FestivalsPath))
		}
	}
	if c.UpcomingDays < 1 || c.UpcomingDays > 366 {
		errs = append(errs, fmt.Errorf("UPCOMING_DAYS must be between 1 and 366, got %d", c.UpcomingDays))
	}

	if c.GeocoderURL == "" {
		errs = append(errs, errors.New("GEOCODER_URL is required"))
	}
	if c.GeocoderUserAgent == "" {
		errs = append(errs, errors.New("GEOCODER_USER_AGENT is required by the Nominatim usage policy"))
	}
	if c.GeocoderRPS <= 0 {
		errs = append(errs, fmt.Errorf("GEOCODER_RPS must be positive, got %v", c.GeocoderRPS))
	}
	if c.GeocoderBurst < 1 {
		errs = append(errs, fmt.Errorf("GEOCODER_BURST must be at least 1, got %d", c.GeocoderBurst))
	}
	if c.GeocoderTimeout <= 0 {
		errs = append(errs, fmt.Errorf("GEOCODER_TIMEOUT must be positive, got %s", c.GeocoderTimeout))
	}

	if c.RefreshCron == "" {
		errs = append(errs, errors.New("REFRESH_CRON is required"))
	}

	if c.MaxRangeDays < 1 || c.MaxRangeDays > 3660 {
		errs = append(errs, fmt.Errorf("MAX_RANGE_DAYS must be between 1 and 3660, got %d", c.MaxRangeDays))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// getEnv reads an environment variable with a default fallback.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("10s", "24h").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
