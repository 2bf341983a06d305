package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/server"
)

func main() {
	os.Exit(realMain())
}

// realMain returns the process exit code so deferred cleanup runs before exit
func realMain() int {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	zl, err := logger.New(cfg.LogLevel, config.IsProduction())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	logger.SetGlobal(zl)
	defer logger.Sync()

	// Initialize database
	db, err := database.New(cfg, zl)
	if err != nil {
		zl.Error("Failed to connect to database", zap.Error(err))
		return 1
	}
	defer func() {
		if err := database.Close(db); err != nil {
			zl.Error("Failed to close database", zap.Error(err))
		}
	}()

	if err := database.Migrate(db); err != nil {
		zl.Error("Failed to migrate database", zap.Error(err))
		return 1
	}

	// Redis only backs the rate limiter, so the API runs without it
	redisClient, err := database.NewRedisClient(cfg.RedisURL, zl)
	if err != nil {
		zl.Warn("Redis unavailable, recipe creation will not be rate limited", zap.Error(err))
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	srv := server.New(cfg, db, redisClient, zl)
	if err := srv.Start(context.Background()); err != nil {
		zl.Error("Server error", zap.Error(err))
		return 1
	}
	zl.Info("Server stopped")
	return 0
}
