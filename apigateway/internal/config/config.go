// Package config loads the service settings from .env and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type envConfig struct {
	APP_PORT         string
	APP_TIMEZONE     string
	LOG_FILE_PATH    string
	LOG_LEVEL        string
	SHUTDOWN_TIMEOUT time.Duration

	// memory | datastore | mongo | postgres
	STORE_DRIVER string

	DB_HOST              string
	DB_PORT              int
	DB_USER              string
	DB_PASSWORD          string
	DB_NAME              string
	DB_SSL_MODE          string
	DB_MAX_OPEN_CONNS    int
	DB_MAX_IDLE_CONNS    int
	DB_CONN_MAX_LIFETIME time.Duration

	MONGO_URI string
	MONGO_DB  string

	GCP_PROJECT_ID string

	ELASTIC_URL   string
	ELASTIC_INDEX string

	REDIS_ADDR     string
	REDIS_PASSWORD string
	REDIS_DB       int
	CACHE_TTL      time.Duration

	SUMMARY_EXPORT_TEMPLATE string
}

// DefaultEnvConfig holds the loaded settings.
var DefaultEnvConfig envConfig

// LoadEnvConfig reads .env when present, then the environment.
func LoadEnvConfig() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := envConfig{
		APP_PORT:      getString("APP_PORT", "8080"),
		APP_TIMEZONE:  getString("APP_TIMEZONE", "UTC"),
		LOG_FILE_PATH: getString("LOG_FILE_PATH", ""),
		LOG_LEVEL:     getString("LOG_LEVEL", "info"),
		STORE_DRIVER:  getString("STORE_DRIVER", "memory"),

		DB_HOST:     getString("DB_HOST", "localhost"),
		DB_USER:     getString("DB_USER", "postgres"),
		DB_PASSWORD: getString("DB_PASSWORD", ""),
		DB_NAME:     getString("DB_NAME", "tasks"),
		DB_SSL_MODE: getString("DB_SSL_MODE", "disable"),

		MONGO_URI: getString("MONGO_URI", "mongodb://localhost:27017"),
		MONGO_DB:  getString("MONGO_DB", "taskmanager"),

		GCP_PROJECT_ID: getString("GCP_PROJECT_ID", ""),

		ELASTIC_URL:   getString("ELASTIC_URL", ""),
		ELASTIC_INDEX: getString("ELASTIC_INDEX", "tasks"),

		REDIS_ADDR:     getString("REDIS_ADDR", ""),
		REDIS_PASSWORD: getString("REDIS_PASSWORD", ""),

		SUMMARY_EXPORT_TEMPLATE: getString("SUMMARY_EXPORT_TEMPLATE", ""),
	}

	var err error
	if cfg.DB_PORT, err = getInt("DB_PORT", 5432); err != nil {
		return err
	}
	if cfg.DB_MAX_OPEN_CONNS, err = getInt("DB_MAX_OPEN_CONNS", 25); err != nil {
		return err
	}
	if cfg.DB_MAX_IDLE_CONNS, err = getInt("DB_MAX_IDLE_CONNS", 5); err != nil {
		return err
	}
	if cfg.REDIS_DB, err = getInt("REDIS_DB", 0); err != nil {
		return err
	}
	if cfg.DB_CONN_MAX_LIFETIME, err = getDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute); err != nil {
		return err
	}
	if cfg.CACHE_TTL, err = getDuration("CACHE_TTL", 5*time.Minute); err != nil {
		return err
	}
	if cfg.SHUTDOWN_TIMEOUT, err = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return err
	}

	switch cfg.STORE_DRIVER {
	case "memory", "datastore", "mongo", "postgres":
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", cfg.STORE_DRIVER)
	}
	if _, err := time.LoadLocation(cfg.APP_TIMEZONE); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE %q: %w", cfg.APP_TIMEZONE, err)
	}

	DefaultEnvConfig = cfg
	return nil
}

// Location returns the configured time zone, UTC when unset.
func (c envConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.APP_TIMEZONE)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
