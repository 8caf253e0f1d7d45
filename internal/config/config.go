package config

import (
	"os"
	"strconv"

	"fairplay/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Assess   AssessConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL     string
	SSLMode string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// AssessConfig holds assessment pipeline settings
type AssessConfig struct {
	// BatchConcurrency caps concurrent game assessments in a batch run.
	BatchConcurrency int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	config := &Config{
		Database: DatabaseConfig{
			URL:     url,
			SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Assess: AssessConfig{
			BatchConcurrency: getEnvIntOrDefault("ASSESS_BATCH_CONCURRENCY", 4),
		},
	}

	if config.Assess.BatchConcurrency < 1 {
		return nil, errors.ConfigInvalid("ASSESS_BATCH_CONCURRENCY must be positive")
	}

	return config, nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
