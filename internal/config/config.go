package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DatabasePath       string
	RateAPIBase        string
	RateRefreshSeconds int
	ScaleThreshold     float64
	DefaultGold24Rate  float64
	DefaultGold22Rate  float64
	DefaultSilverRate  float64
	Branches           []string
	LogLevel           string
	Port               int
	DevMode            bool
}

// DefaultScaleThreshold is the per-gram rate above which an upstream gold
// quote is assumed to be per 10 grams. Heuristic - upstream carries no unit
// field. Tunable via RATE_SCALE_THRESHOLD.
const DefaultScaleThreshold = 10000.0

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnvAsInt("PORT", 8080),
		DevMode:            getEnvAsBool("DEV_MODE", false),
		DatabasePath:       getEnv("DATABASE_PATH", "./data/buyback.db"),
		RateAPIBase:        getEnv("RATE_API_BASE", "https://thiaworld.bbscart.com/api"),
		RateRefreshSeconds: getEnvAsInt("RATE_REFRESH_SECONDS", 60),
		ScaleThreshold:     getEnvAsFloat("RATE_SCALE_THRESHOLD", DefaultScaleThreshold),
		DefaultGold24Rate:  getEnvAsFloat("DEFAULT_RATE_GOLD24", 15863),
		DefaultGold22Rate:  getEnvAsFloat("DEFAULT_RATE_GOLD22", 14674),
		DefaultSilverRate:  getEnvAsFloat("DEFAULT_RATE_SILVER", 76),
		Branches:           getEnvAsList("BRANCHES", []string{"Thiaworld - MG Road", "Thiaworld - City Mall"}),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}

	if c.RateAPIBase == "" {
		return fmt.Errorf("RATE_API_BASE is required")
	}

	if c.RateRefreshSeconds < 1 {
		return fmt.Errorf("RATE_REFRESH_SECONDS must be >= 1, got %d", c.RateRefreshSeconds)
	}

	if c.ScaleThreshold <= 0 {
		return fmt.Errorf("RATE_SCALE_THRESHOLD must be positive, got %v", c.ScaleThreshold)
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
