package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"recipebook-backend/pkg/cache"
)

// Config chứa toàn bộ application configuration
// Struct này được populate từ environment variables
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Store    StoreConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, test, staging, production
	Port        string
	Version     string
	LogLevel    string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

// =====================================================
// CACHE / STORE DRIVERS
// =====================================================

const (
	CacheDriverRedis  = "redis"
	CacheDriverMemory = "memory"

	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type CacheConfig struct {
	Driver        string        // redis, memory
	EntityTTL     time.Duration // đọc theo id và body đã render
	CollectionTTL time.Duration // danh sách phân trang
	Capacity      int           // chỉ dùng cho memory driver
}

type StoreConfig struct {
	Driver string // postgres, memory
}

// Load đọc config từ environment variables
func Load() (*Config, error) {
	defaultTTL := cache.DefaultTTLConfig()
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Recipebook API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "recipebook"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Cache: CacheConfig{
			Driver:        strings.ToLower(getEnv("CACHE_DRIVER", CacheDriverRedis)),
			EntityTTL:     getEnvDuration("CACHE_ENTITY_TTL", defaultTTL.Entity),
			CollectionTTL: getEnvDuration("CACHE_COLLECTION_TTL", defaultTTL.Collection),
			Capacity:      getEnvInt("CACHE_CAPACITY", 10000),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate kiểm tra config có hợp lệ không
func (c *Config) Validate() error {
	switch c.Cache.Driver {
	case CacheDriverRedis, CacheDriverMemory:
	default:
		return fmt.Errorf("unknown CACHE_DRIVER %q", c.Cache.Driver)
	}

	switch c.Store.Driver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}

	if c.Cache.EntityTTL <= 0 || c.Cache.CollectionTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}

	if c.App.Environment == "production" {
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if c.Store.Driver == StoreDriverMemory {
			return fmt.Errorf("STORE_DRIVER=memory is not allowed in production")
		}
	}

	return nil
}

// Các hàm helper
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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
