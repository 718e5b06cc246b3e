package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DatabasePath   string
	HistoryDir     string
	CompaniesCSV   string
	LogLevel       string
	Port           int
	DevMode        bool
	CurrencySymbol string

	// Market data cache (bounded LRU owned by the service layer)
	CacheCapacity int
	CacheTTL      time.Duration

	// Default evaluation window and list sizes
	DefaultRecommendations int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:                   getEnvAsInt("PORT", 8080),
		DevMode:                getEnvAsBool("DEV_MODE", false),
		DatabasePath:           getEnv("DATABASE_PATH", "./data/advisor.db"),
		HistoryDir:             getEnv("HISTORY_DIR", "./data/history"),
		CompaniesCSV:           getEnv("COMPANIES_CSV", "./data/company_data.csv"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		CurrencySymbol:         getEnv("CURRENCY_SYMBOL", "₹"),
		CacheCapacity:          getEnvAsInt("CACHE_CAPACITY", 100),
		CacheTTL:               time.Duration(getEnvAsInt("CACHE_TTL_MINUTES", 15)) * time.Minute,
		DefaultRecommendations: getEnvAsInt("DEFAULT_RECOMMENDATIONS", 5),
	}

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
	if c.CacheCapacity < 1 {
		return fmt.Errorf("CACHE_CAPACITY must be at least 1")
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

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
