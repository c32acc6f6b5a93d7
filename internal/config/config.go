package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	// HTTP
	Port   string
	Domain string

	// Database
	DatabaseURL string

	// Dashboard cache
	RedisAddr     string
	RedisPassword string
	DashboardTTL  time.Duration

	// Auth
	JWTSecret string

	// Logging
	LogLevel string
}

func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		Port:         "3000",
		DashboardTTL: 30 * time.Second,
		LogLevel:     "info",
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}

	cfg.Domain = os.Getenv("DOMAIN")

	// Redis is optional: the dashboard cache stays disabled without it.
	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")

	if ttl := os.Getenv("DASHBOARD_CACHE_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return nil, fmt.Errorf("invalid DASHBOARD_CACHE_TTL: %w", err)
		}
		cfg.DashboardTTL = d
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		cfg.LogLevel = logLevel
	}

	return cfg, nil
}
