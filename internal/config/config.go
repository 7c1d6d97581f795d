// ===============================
// internal/config/config.go - Environment Configuration
// ===============================

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// R2Config holds Cloudflare R2 configuration
type R2Config struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

// TMDBConfig holds the movie database client configuration
type TMDBConfig struct {
	APIKey       string
	BaseURL      string
	ImageBaseURL string
	Language     string
	Timeout      time.Duration
	RateLimit    float64 // requests per second
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Format string // "console" or "json"
	Path   string // directory for rotated log files, empty disables file output
}

// ImportConfig tunes the admin import flow
type ImportConfig struct {
	DraftTTL          time.Duration
	SeasonConcurrency int
	MaxSearchPages    int
}

// Config holds all application configuration
type Config struct {
	// Server configuration
	Environment string
	Port        string

	// Database configuration
	DatabaseURL string

	// Firebase configuration
	FirebaseProjectID   string
	FirebaseCredentials string // Path to service account JSON file

	// R2 Storage configuration
	R2Config R2Config

	TMDB   TMDBConfig
	Log    LogConfig
	Import ImportConfig

	// Home banner rotation
	BannerInterval time.Duration
	BannerRefresh  time.Duration

	// CORS configuration
	AllowedOrigins []string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	config := &Config{
		Environment:         getEnv("GIN_MODE", "debug"),
		Port:                getEnv("PORT", "8080"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		FirebaseProjectID:   getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS", ""),
		R2Config: R2Config{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", "luemtv"),
			PublicURL:  getEnv("R2_PUBLIC_URL", ""),
		},
		TMDB: TMDBConfig{
			APIKey:       getEnv("TMDB_API_KEY", ""),
			BaseURL:      strings.TrimRight(getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"), "/"),
			ImageBaseURL: strings.TrimRight(getEnv("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p"), "/"),
			Language:     getEnv("TMDB_LANGUAGE", "es-ES"),
			Timeout:      getDuration("TMDB_TIMEOUT", 10*time.Second),
			RateLimit:    getFloat("TMDB_RATE_LIMIT", 20),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
			Path:   getEnv("LOG_PATH", ""),
		},
		Import: ImportConfig{
			DraftTTL:          getDuration("IMPORT_DRAFT_TTL", 2*time.Hour),
			SeasonConcurrency: getInt("IMPORT_SEASON_CONCURRENCY", 1),
			MaxSearchPages:    getInt("IMPORT_MAX_SEARCH_PAGES", 5),
		},
		BannerInterval: getDuration("BANNER_INTERVAL", 5*time.Second),
		BannerRefresh:  getDuration("BANNER_REFRESH", 10*time.Minute),
	}

	// Default public URL for R2
	if config.R2Config.PublicURL == "" && config.R2Config.AccountID != "" && config.R2Config.BucketName != "" {
		config.R2Config.PublicURL = fmt.Sprintf("https://%s.%s.r2.cloudflarestorage.com",
			config.R2Config.BucketName, config.R2Config.AccountID)
	}

	// Parse allowed origins
	originsStr := getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	config.AllowedOrigins = strings.Split(originsStr, ",")
	for i, origin := range config.AllowedOrigins {
		config.AllowedOrigins[i] = strings.TrimSpace(origin)
	}

	// Validate required configuration
	if config.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}

	if config.R2Config.AccountID == "" || config.R2Config.AccessKey == "" || config.R2Config.SecretKey == "" {
		return nil, ErrMissingR2Config
	}

	if config.FirebaseProjectID == "" {
		return nil, ErrMissingFirebaseConfig
	}

	if config.TMDB.APIKey == "" {
		return nil, ErrMissingTMDBKey
	}

	if config.BannerInterval <= 0 {
		return nil, ConfigError{Message: "BANNER_INTERVAL must be positive"}
	}

	if config.Import.SeasonConcurrency < 1 {
		config.Import.SeasonConcurrency = 1
	}

	return config, nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getDuration accepts Go duration strings ("5s") or plain milliseconds ("5000").
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if parsed, err := time.ParseDuration(value); err == nil {
		return parsed
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}

// Configuration errors
var (
	ErrMissingDatabaseURL    = ConfigError{Message: "DATABASE_URL environment variable is required"}
	ErrMissingR2Config       = ConfigError{Message: "R2 configuration (R2_ACCOUNT_ID, R2_ACCESS_KEY, R2_SECRET_KEY) is required"}
	ErrMissingFirebaseConfig = ConfigError{Message: "FIREBASE_PROJECT_ID is required"}
	ErrMissingTMDBKey        = ConfigError{Message: "TMDB_API_KEY is required"}
)

// ConfigError represents a configuration error
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string {
	return e.Message
}
