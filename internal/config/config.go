// Package config handles configuration loading and management
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	LogLevel     string
	BaselinePath string
	OutputDir    string
	Workers      int
}

// Load reads configuration from environment variables and .env file.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// It's okay if the file doesn't exist
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		BaselinePath: getEnv("PERFLENS_BASELINE", ""),
		OutputDir:    getEnv("PERFLENS_OUTPUT_DIR", ""),
	}

	workers, err := strconv.Atoi(getEnv("PERFLENS_WORKERS", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid PERFLENS_WORKERS: %w", err)
	}
	cfg.Workers = workers

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) String() string {
	baselineDisplay := c.BaselinePath
	if baselineDisplay == "" {
		baselineDisplay = "(not set)"
	}

	outputDisplay := c.OutputDir
	if outputDisplay == "" {
		outputDisplay = "(stdout only)"
	}

	return fmt.Sprintf(`Current Configuration:
======================
Log Level:     %s
Baseline File: %s
Output Dir:    %s
Workers:       %d`,
		c.LogLevel,
		baselineDisplay,
		outputDisplay,
		c.Workers,
	)
}
