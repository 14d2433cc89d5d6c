// Package config reads the process configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/ventureforge/forge/internal/db"
	"github.com/ventureforge/forge/internal/db/models"
	"github.com/ventureforge/forge/internal/logger"
	"github.com/ventureforge/forge/internal/scheduler"
)

// Config holds the configuration surface of the service
type Config struct {
	ListenAddress string
	DB            db.Options

	// Scheduler
	TickInterval         time.Duration
	BackoffInterval      time.Duration
	ConcurrencyLimit     int
	ProviderTimeout      time.Duration
	DefaultScheduledTime string
	StaleRunningAfter    time.Duration

	// Auth
	JWTSecret string

	// Research provider
	GeminiAPIKey  string
	GeminiBaseURL string
	GeminiModel   string
}

// Load builds the configuration from environment variables, applying
// defaults for anything unset.
func Load() *Config {
	return &Config{
		ListenAddress: GetEnv("LISTEN_ADDRESS", ":8080"),
		DB: db.Options{
			Host:       GetEnv("DB_HOST", db.DefaultHost),
			User:       GetEnv("DB_USER", db.DefaultUser),
			Password:   GetEnv("DB_PASSWORD", db.DefaultPassword),
			DBName:     GetEnv("DB_NAME", db.DefaultDBName),
			Port:       getEnvInt("DB_PORT", db.DefaultPort),
			SSLEnabled: getEnvBool("DB_SSL", false),
		},
		TickInterval:         getEnvDuration("TICK_INTERVAL", scheduler.DefaultTickInterval),
		BackoffInterval:      getEnvDuration("BACKOFF_INTERVAL", scheduler.DefaultBackoffInterval),
		ConcurrencyLimit:     getEnvInt("CONCURRENCY_LIMIT", scheduler.DefaultConcurrencyLimit),
		ProviderTimeout:      getEnvDuration("PROVIDER_TIMEOUT", scheduler.DefaultProviderTimeout),
		DefaultScheduledTime: GetEnv("DEFAULT_SCHEDULED_TIME", models.DefaultScheduledTime),
		StaleRunningAfter:    getEnvDuration("STALE_RUNNING_AFTER", time.Hour),
		JWTSecret:            GetEnv("JWT_SECRET", ""),
		GeminiAPIKey:         GetEnv("GEMINI_API_KEY", ""),
		GeminiBaseURL:        GetEnv("GEMINI_BASE_URL", ""),
		GeminiModel:          GetEnv("GEMINI_MODEL", ""),
	}
}

// GetEnv retrieves the value of an environment variable with a fallback
// value if not set.
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		logger.Warnf("Invalid value %q for %s, using default %d", value, key, fallback)
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		logger.Warnf("Invalid value %q for %s, using default %t", value, key, fallback)
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		logger.Warnf("Invalid value %q for %s, using default %s", value, key, fallback)
		return fallback
	}
	return d
}
