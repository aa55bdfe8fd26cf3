package config

import (
	"os"
	"strings"
	"time"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Addr        string
	DatabaseURL string
	Store       string
	APIPrefix   string
	LogLevel    string
	LogMode     string
	LogFile     string
	// RedisAddr enables the product list cache when set.
	RedisAddr string
	CacheTTL  time.Duration
}

func Load() Config {
	cfg := Config{
		Addr:        getenv("PHARMA_ADDR", ":3001"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Store:       strings.ToLower(getenv("STORE", StorePostgres)),
		APIPrefix:   getenv("API_PREFIX", "/api"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		LogMode:     getenv("LOG_MODE", "production"),
		LogFile:     os.Getenv("LOG_FILE"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		CacheTTL:    5 * time.Minute,
	}
	if cfg.Store != StoreMemory {
		cfg.Store = StorePostgres
	}
	if ttl, err := time.ParseDuration(os.Getenv("CACHE_TTL")); err == nil && ttl > 0 {
		cfg.CacheTTL = ttl
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
