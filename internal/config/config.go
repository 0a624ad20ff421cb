package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config aggregates application configuration values.
type Config struct {
	Relational RelationalConfig
	Analytics  AnalyticsConfig
	Trace      TraceConfig
	Catalog    CatalogConfig
	Batch      BatchConfig
	Logging    LoggingConfig
}

// RelationalConfig describes connectivity to the relational store holding
// users, accounts, liabilities, and consent state.
type RelationalConfig struct {
	DSN          string
	MaxOpenConns int
}

// AnalyticsConfig describes connectivity to the transaction history store.
type AnalyticsConfig struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// TraceConfig describes connectivity to the audit trace store.
type TraceConfig struct {
	MongoURI   string
	Database   string
	Collection string
}

// CatalogConfig locates the recommendation catalog. An empty path selects the
// embedded default catalog.
type CatalogConfig struct {
	Path string
}

// BatchConfig governs the batch runner.
type BatchConfig struct {
	Workers int
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level       string
	Format      string // json|console
	Development bool
}

const (
	defaultMaxOpenConns   = 10
	defaultMaxConnections = 10
	defaultTraceDatabase  = "advisor"
	defaultTraceColl      = "traces"
	defaultWorkers        = 4
	defaultLoggingLevel   = "info"
	defaultLoggingFormat  = "json"
)

// Load reads configuration from environment variables, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		Relational: RelationalConfig{
			DSN:          os.Getenv("RELATIONAL_DSN"),
			MaxOpenConns: parseIntWithDefault("RELATIONAL_MAX_OPEN_CONNS", defaultMaxOpenConns),
		},
		Analytics: AnalyticsConfig{
			URI:            os.Getenv("ANALYTICS_URI"),
			Database:       valueOrDefault("ANALYTICS_DATABASE", ""),
			Username:       os.Getenv("ANALYTICS_USERNAME"),
			Password:       os.Getenv("ANALYTICS_PASSWORD"),
			MaxConnections: parseIntWithDefault("ANALYTICS_MAX_CONNECTIONS", defaultMaxConnections),
		},
		Trace: TraceConfig{
			MongoURI:   os.Getenv("TRACE_MONGO_URI"),
			Database:   valueOrDefault("TRACE_DATABASE", defaultTraceDatabase),
			Collection: valueOrDefault("TRACE_COLLECTION", defaultTraceColl),
		},
		Catalog: CatalogConfig{
			Path: os.Getenv("CATALOG_PATH"),
		},
		Logging: LoggingConfig{
			Level:       valueOrDefault("LOG_LEVEL", defaultLoggingLevel),
			Format:      valueOrDefault("LOG_FORMAT", defaultLoggingFormat),
			Development: parseBoolWithDefault("LOG_DEVELOPMENT", false),
		},
	}

	workers := parseIntWithDefault("BATCH_WORKERS", defaultWorkers)
	if workers <= 0 {
		return Config{}, fmt.Errorf("BATCH_WORKERS must be positive, got %d", workers)
	}
	cfg.Batch.Workers = workers

	return cfg, nil
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}

func parseIntWithDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			return val
		}
	}
	return fallback
}
