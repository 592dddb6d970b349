package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config carries all runtime settings, loaded from the environment.
type Config struct {
	Port        string
	Environment string
	APIToken    string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBConnStr  string

	AlphaVantageKey string

	// ValuationCacheTTLMinutes is the staleness threshold before a plan is
	// revalued.
	ValuationCacheTTLMinutes int

	// FallbackBasePrice and FallbackAnnualGrowthPct shape the synthetic
	// price series used when market data is unavailable.
	FallbackBasePrice       float64
	FallbackAnnualGrowthPct float64
}

// Load reads the configuration from environment variables, applying
// defaults suitable for local development.
func Load() *Config {
	cfg := &Config{
		Port:                     getEnv("PORT", "8080"),
		Environment:              getEnv("ENVIRONMENT", "development"),
		APIToken:                 getEnv("API_TOKEN", "dev-token"),
		DBHost:                   getEnv("DB_HOST", "localhost"),
		DBPort:                   getEnv("DB_PORT", "5432"),
		DBUser:                   getEnv("DB_USER", "postgres"),
		DBPassword:               getEnv("DB_PASSWORD", "postgres"),
		DBName:                   getEnv("DB_NAME", "fundlens"),
		DBConnStr:                getEnv("DB_CONN_STR", ""),
		AlphaVantageKey:          getEnv("ALPHA_VANTAGE_KEY", ""),
		ValuationCacheTTLMinutes: getEnvInt("VALUATION_CACHE_TTL_MINUTES", 60),
		FallbackBasePrice:        getEnvFloat("FALLBACK_BASE_PRICE", 100),
		FallbackAnnualGrowthPct:  getEnvFloat("FALLBACK_ANNUAL_GROWTH_PCT", 12),
	}

	return cfg
}

// ConnectionString returns the explicit DB_CONN_STR when set, otherwise a
// string built from the individual DB_* variables (Docker friendly).
func (c *Config) ConnectionString() string {
	if c.DBConnStr != "" {
		return c.DBConnStr
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
