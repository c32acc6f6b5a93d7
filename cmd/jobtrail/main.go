package main

import (
	"fmt"
	"os"

	"github.com/jobtrail-dev/jobtrail/db"
	"github.com/jobtrail-dev/jobtrail/internal/auth"
	"github.com/jobtrail-dev/jobtrail/internal/cache"
	"github.com/jobtrail-dev/jobtrail/internal/config"
	"github.com/jobtrail-dev/jobtrail/internal/handlers"
	"github.com/jobtrail-dev/jobtrail/internal/logger"
	"github.com/jobtrail-dev/jobtrail/internal/router"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// A missing .env file is fine in deployed environments where the
	// variables arrive through the process environment.
	_ = godotenv.Load()

	cfg, err := config.Load()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := auth.InitJWTSecret(); err != nil {
		logger.Log.Fatal("failed to initialize JWT secret", zap.Error(err))
	}

	if err := db.ConnectDatabase(cfg.DatabaseURL); err != nil {
		logger.Log.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := db.MigrateDatabase(); err != nil {
		logger.Log.Fatal("failed to migrate database", zap.Error(err))
	}

	if err := db.SeedDefinitions(); err != nil {
		logger.Log.Fatal("failed to seed definitions", zap.Error(err))
	}

	dashboardCache, err := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.DashboardTTL)

	if err != nil {
		logger.Log.Fatal("failed to connect to redis", zap.Error(err))
	}

	if dashboardCache != nil {
		defer dashboardCache.Close()
		logger.Log.Info("dashboard cache enabled", zap.String("redis_addr", cfg.RedisAddr))
	}

	handlers.SetDashboardCache(dashboardCache)

	r := router.NewRouter()

	logger.Log.Info("starting jobtrail", zap.String("port", cfg.Port))

	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Log.Fatal("failed to start server", zap.Error(err))
	}
}
