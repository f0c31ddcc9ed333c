package config

import (
	"fmt"
	"strconv"
	"time"

	"bookstore-catalog/internal/infrastructure/database"
)

// LoadDatabaseConfig đọc config từ environment variables và trả về DBConfig
func LoadDatabaseConfig() (*database.DBConfig, error) {
	port, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNECTIONS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNECTIONS: %w", err)
	}

	minConns, err := strconv.Atoi(getEnv("DB_MIN_CONNECTIONS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNECTIONS: %w", err)
	}

	maxRetries, err := strconv.Atoi(getEnv("DB_MAX_RETRIES", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_RETRIES: %w", err)
	}

	var maxConnLifetime, maxConnIdleTime, healthCheckPeriod, retryDelay, connectTimeout time.Duration
	for key, opt := range map[string]struct {
		def string
		dst *time.Duration
	}{
		"DB_MAX_CONN_LIFETIME":   {"5m", &maxConnLifetime},
		"DB_MAX_CONN_IDLE_TIME":  {"1m", &maxConnIdleTime},
		"DB_HEALTH_CHECK_PERIOD": {"1m", &healthCheckPeriod},
		"DB_RETRY_DELAY":         {"1s", &retryDelay},
		"DB_CONNECT_TIMEOUT":     {"10s", &connectTimeout},
	} {
		d, err := time.ParseDuration(getEnv(key, opt.def))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		*opt.dst = d
	}

	return &database.DBConfig{
		Host:              getEnv("DB_HOST", "localhost"),
		Port:              port,
		Username:          getEnv("DB_USER", "bookstore"),
		Password:          getEnv("DB_PASSWORD", "secret"),
		DBName:            getEnv("DB_NAME", "bookstore_catalog"),
		SSLMode:           getEnv("DB_SSLMODE", "disable"),
		MaxConns:          int32(maxConns),
		MinConns:          int32(minConns),
		MaxConnLifetime:   maxConnLifetime,
		MaxConnIdleTime:   maxConnIdleTime,
		HealthCheckPeriod: healthCheckPeriod,
		MaxRetries:        maxRetries,
		RetryDelay:        retryDelay,
		ConnectTimeout:    connectTimeout,
	}, nil
}
