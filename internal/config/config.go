package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config chứa toàn bộ application configuration
// Struct này được populate từ environment variables
type Config struct {
	App       AppConfig
	Store     StoreConfig
	Redis     RedisConfig
	Catalog   CatalogConfig
	Discount  DiscountConfig
	RateLimit RateLimitConfig
	Worker    WorkerConfig
}

type AppConfig struct {
	Name            string
	Environment     string // development, staging, production
	Port            string
	Version         string
	ShutdownTimeout time.Duration
}

// StoreConfig - postgres (mặc định) hoặc memory (dev/test, mất dữ liệu khi restart)
type StoreConfig struct {
	Driver string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Password string
	DB       int
}

type CatalogConfig struct {
	DefaultPageSize int
	MaxPageSize     int
	CacheTTL        time.Duration
}

// DiscountConfig - expiry mặc định là lazy; sweep chỉ chạy khi bật
type DiscountConfig struct {
	SweepEnabled bool
	SweepCron    string
}

// RateLimitConfig - RPS <= 0 tắt rate limit
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type WorkerConfig struct {
	Concurrency int
}

// Load đọc config từ environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:            getEnv("APP_NAME", "Bookstore Catalog"),
			Environment:     getEnv("APP_ENV", "development"),
			Port:            getEnv("APP_PORT", "8080"),
			Version:         getEnv("APP_VERSION", "1.0.0"),
			ShutdownTimeout: getEnvDuration("APP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", true),
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Catalog: CatalogConfig{
			DefaultPageSize: getEnvInt("CATALOG_DEFAULT_PAGE_SIZE", 10),
			MaxPageSize:     getEnvInt("CATALOG_MAX_PAGE_SIZE", 100),
			CacheTTL:        getEnvDuration("CATALOG_CACHE_TTL", 10*time.Minute),
		},
		Discount: DiscountConfig{
			SweepEnabled: getEnvBool("DISCOUNT_SWEEP_ENABLED", false),
			SweepCron:    getEnv("DISCOUNT_SWEEP_CRON", "*/15 * * * *"),
		},
		RateLimit: RateLimitConfig{
			RPS:   getEnvFloat("RATE_LIMIT_RPS", 20),
			Burst: getEnvInt("RATE_LIMIT_BURST", 40),
		},
		Worker: WorkerConfig{
			Concurrency: getEnvInt("WORKER_CONCURRENCY", 2),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate kiểm tra config có hợp lệ không
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreDriverPostgres, StoreDriverMemory, c.Store.Driver)
	}

	if c.Catalog.DefaultPageSize < 1 {
		return fmt.Errorf("CATALOG_DEFAULT_PAGE_SIZE must be >= 1")
	}
	if c.Catalog.MaxPageSize < c.Catalog.DefaultPageSize {
		return fmt.Errorf("CATALOG_MAX_PAGE_SIZE must be >= CATALOG_DEFAULT_PAGE_SIZE")
	}

	if c.App.Environment == "production" && c.Store.Driver == StoreDriverMemory {
		return fmt.Errorf("STORE_DRIVER=memory is not allowed in production")
	}
	if c.Discount.SweepEnabled && !c.Redis.Enabled {
		return fmt.Errorf("DISCOUNT_SWEEP_ENABLED requires Redis (asynq)")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
