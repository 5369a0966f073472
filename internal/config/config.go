package config

import (
	"os"

	"github.com/joho/godotenv"

	apperrors "github.com/mbpa/rcv-votes/internal/errors"
)

const placeholderKey = "your_actual_api_key_here"

// Config holds the application configuration
type Config struct {
	// Congress.gov
	CongressAPIKey  string
	CongressAPIBase string

	// clerk.house.gov
	ClerkBaseURL string

	// Export
	OutputDir string

	// Logging
	LogLevel  string
	LogFormat string

	// API Server
	APIHost string
	APIPort string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	return &Config{
		CongressAPIKey:  getEnv("CONGRESS_API_KEY", ""),
		CongressAPIBase: getEnv("CONGRESS_API_BASE", "https://api.congress.gov/v3"),
		ClerkBaseURL:    getEnv("CLERK_BASE_URL", "https://clerk.house.gov"),
		OutputDir:       getEnv("OUTPUT_DIR", "outputs"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "console"),
		APIHost:         getEnv("API_HOST", "localhost"),
		APIPort:         getEnv("API_PORT", "8080"),
	}, nil
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Validate validates the configuration before any network call is made
func (c *Config) Validate() error {
	if c.CongressAPIKey == "" || c.CongressAPIKey == placeholderKey {
		return apperrors.NewConfigurationError(
			"CONGRESS_API_KEY is required; set it in your environment or .env file " +
				"(get a key from https://api.congress.gov/sign-up/)")
	}
	return nil
}
