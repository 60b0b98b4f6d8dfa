package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL string

	// Server
	Port        string
	CORSOrigins []string
	Env         string

	// Exchange rates provider
	Rates RatesConfig
}

// RatesConfig holds the external exchange-rate provider configuration
type RatesConfig struct {
	BaseURL string
	Timeout time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	ratesTimeout, err := time.ParseDuration(getEnv("RATES_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATES_TIMEOUT: %w", err)
	}

	cfg := &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		Port:        getEnv("PORT", "8080"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
		Env:         getEnv("ENV", "development"),
		Rates: RatesConfig{
			BaseURL: getEnv("RATES_API_URL", "https://api.frankfurter.dev/v1"),
			Timeout: ratesTimeout,
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Rates.BaseURL == "" {
		return fmt.Errorf("RATES_API_URL is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
