package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Backend names accepted by STORE_BACKEND.
const (
	BackendBigQuery = "bigquery"
	BackendSQLite   = "sqlite"
)

type Config struct {
	// HTTP Server
	Port string

	// Storage backend selection
	StoreBackend string

	// BigQuery
	BigQueryProjectID string
	BigQueryDataset   string

	// SQLite
	SQLiteDBPath string

	// Identity
	JWTSecret string

	// Generative backend
	GeminiModel    string
	InsightTimeout time.Duration

	// Record list view cache
	RecordCacheTTL time.Duration

	// GCS snapshot exports
	ExportBucket string
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),

		StoreBackend: getEnv("STORE_BACKEND", BackendSQLite),

		BigQueryProjectID: getEnv("BIGQUERY_PROJECT_ID", ""),
		BigQueryDataset:   getEnv("BIGQUERY_DATASET", "finance"),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/expenses.db"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		InsightTimeout: getEnvDuration("INSIGHT_TIMEOUT", 30*time.Second),

		RecordCacheTTL: getEnvDuration("RECORD_CACHE_TTL", 5*time.Minute),

		ExportBucket: getEnv("EXPORT_BUCKET", ""),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.StoreBackend {
	case BackendBigQuery:
		if c.BigQueryProjectID == "" {
			errs = append(errs, "BIGQUERY_PROJECT_ID is required when using the bigquery backend")
		}
		if c.BigQueryDataset == "" {
			errs = append(errs, "BIGQUERY_DATASET cannot be empty when using the bigquery backend")
		}
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLite database path cannot be empty when using the sqlite backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid store backend '%s': must be one of [%s %s]",
			c.StoreBackend, BackendBigQuery, BackendSQLite))
	}

	if c.JWTSecret == "" {
		errs = append(errs, "JWT_SECRET is required")
	}

	if c.InsightTimeout <= 0 {
		errs = append(errs, "INSIGHT_TIMEOUT must be positive")
	}
	if c.RecordCacheTTL <= 0 {
		errs = append(errs, "RECORD_CACHE_TTL must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
