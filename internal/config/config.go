package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port  string
	Debug bool

	// Upstream scraper gateway
	ScraperBaseURL string
	FetchTimeout   time.Duration

	// Account persistence: "local" or "azure"
	StorageBackend string
	DataDir        string

	// Azure Storage configuration (azure backend only)
	StorageAccount   string
	StorageContainer string

	// Account seeded at startup (optional)
	TwitterUsername      string
	TwitterPassword      string
	TwitterEmail         string
	TwitterEmailPassword string
	TwitterCookieString  string

	// Account health monitoring
	MonitorSchedule string

	// Notification configuration
	TeamsWebhookURL   string
	NotificationEmail string
	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:  getEnv("PORT", "8000"),
		Debug: getBoolEnv("DEBUG", false),

		ScraperBaseURL: getEnv("SCRAPER_BASE_URL", ""),
		FetchTimeout:   getDurationEnv("FETCH_TIMEOUT", 30*time.Second),

		StorageBackend: getEnv("STORAGE_BACKEND", "local"),
		DataDir:        getEnv("DATA_DIR", "data"),

		StorageAccount:   getEnv("AZURE_STORAGE_ACCOUNT", ""),
		StorageContainer: getEnv("AZURE_STORAGE_CONTAINER", "accounts"),

		TwitterUsername:      getEnv("TWITTER_USERNAME", ""),
		TwitterPassword:      getEnv("TWITTER_PASSWORD", ""),
		TwitterEmail:         getEnv("TWITTER_EMAIL", ""),
		TwitterEmailPassword: getEnv("TWITTER_EMAIL_PASSWORD", ""),
		TwitterCookieString:  getEnv("TWITTER_COOKIE_STRING", ""),

		MonitorSchedule: getEnv("MONITOR_SCHEDULE", "0 */15 * * * *"),

		TeamsWebhookURL:   getEnv("TEAMS_WEBHOOK_URL", ""),
		NotificationEmail: getEnv("NOTIFICATION_EMAIL", ""),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getIntEnv("SMTP_PORT", 587),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),
	}

	// Validate required configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.ScraperBaseURL == "" {
		return fmt.Errorf("SCRAPER_BASE_URL is required")
	}

	if c.StorageBackend != "local" && c.StorageBackend != "azure" {
		return fmt.Errorf("STORAGE_BACKEND must be 'local' or 'azure'")
	}

	if c.StorageBackend == "azure" && c.StorageAccount == "" {
		return fmt.Errorf("AZURE_STORAGE_ACCOUNT is required when STORAGE_BACKEND is 'azure'")
	}

	if c.NotificationEmail != "" {
		if c.SMTPHost == "" || c.SMTPUsername == "" || c.SMTPPassword == "" {
			return fmt.Errorf("SMTP configuration is required when NOTIFICATION_EMAIL is set")
		}
	}

	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
