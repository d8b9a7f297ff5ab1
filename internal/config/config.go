// Package config loads process configuration from the environment, with
// best-effort .env file support for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full runtime configuration. Required settings missing from
// the environment surface as an error before anything starts serving.
type Config struct {
	HiveURL    string
	HiveAPIKey string

	VerifyTLS      bool
	RequestTimeout time.Duration
	RetryAttempts  int
	RetryBackoff   time.Duration

	BulkWorkers int
	LogLevel    string

	ClickHouseDSN string
	PostgresDSN   string

	SSEAddr string
}

// Load reads configuration from a .env file (if present) and the
// environment. HIVE_URL and HIVE_API_KEY are required.
func Load() (*Config, error) {
	_ = godotenv.Load() // optional; real env vars take precedence

	cfg := &Config{
		HiveURL:        os.Getenv("HIVE_URL"),
		HiveAPIKey:     os.Getenv("HIVE_API_KEY"),
		VerifyTLS:      envOrDefaultBool("HIVE_VERIFY_TLS", true),
		RequestTimeout: time.Duration(envOrDefaultInt("HIVE_REQUEST_TIMEOUT_S", 30)) * time.Second,
		RetryAttempts:  envOrDefaultInt("HIVE_RETRY_ATTEMPTS", 2),
		RetryBackoff:   time.Duration(envOrDefaultInt("HIVE_RETRY_BACKOFF_MS", 250)) * time.Millisecond,
		BulkWorkers:    envOrDefaultInt("THEHIVE_MCP_BULK_WORKERS", 4),
		LogLevel:       envOrDefault("THEHIVE_MCP_LOG_LEVEL", "info"),
		ClickHouseDSN:  os.Getenv("CLICKHOUSE_DSN"),
		PostgresDSN:    os.Getenv("POSTGRES_DSN"),
		SSEAddr:        envOrDefault("THEHIVE_MCP_SSE_ADDR", ":8000"),
	}

	if cfg.HiveURL == "" {
		return nil, fmt.Errorf("config: HIVE_URL is required")
	}
	if cfg.HiveAPIKey == "" {
		return nil, fmt.Errorf("config: HIVE_API_KEY is required")
	}
	return cfg, nil
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func envOrDefaultBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}
