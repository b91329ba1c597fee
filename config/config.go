package config

import (
	"os"
	"strconv"
	"time"

	apperrors "booking-scraper/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// HTTP server
	Port string

	// Postgres configuration
	DatabaseURL string

	// Scrape configuration
	RequestTimeout   time.Duration
	MaxCalendarPages int
	BrowserWait      time.Duration
	ChromePath       string

	// Redis configuration (optional; empty addr disables publishing)
	RedisAddr   string
	RedisDB     int
	RedisStream string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	requestTimeout, _ := strconv.Atoi(getEnv("REQUEST_TIMEOUT", "30"))
	maxPages, _ := strconv.Atoi(getEnv("MAX_CALENDAR_PAGES", "12"))
	browserWait, _ := strconv.Atoi(getEnv("BROWSER_WAIT_SECONDS", "15"))

	return Config{
		Port:             getEnv("PORT", "8000"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		RequestTimeout:   time.Duration(requestTimeout) * time.Second,
		MaxCalendarPages: maxPages,
		BrowserWait:      time.Duration(browserWait) * time.Second,
		ChromePath:       getEnv("CHROME_PATH", ""),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RedisDB:          redisDB,
		RedisStream:      getEnv("REDIS_STREAM", "booking_ads"),
		Environment:      getEnv("BOOKING_ENVIRONMENT", "development"),
	}
}

// Validate checks that the configuration is usable
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return apperrors.NewConfiguration("DATABASE_URL is required", nil)
	}
	if c.RequestTimeout <= 0 {
		return apperrors.NewConfiguration("REQUEST_TIMEOUT must be positive", nil)
	}
	if c.MaxCalendarPages <= 0 {
		return apperrors.NewConfiguration("MAX_CALENDAR_PAGES must be positive", nil)
	}
	if c.BrowserWait <= 0 {
		return apperrors.NewConfiguration("BROWSER_WAIT_SECONDS must be positive", nil)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
