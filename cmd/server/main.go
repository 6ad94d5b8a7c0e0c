package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/mastermind-go/internal/api"
	"github.com/mcoot/mastermind-go/internal/config"
	"github.com/mcoot/mastermind-go/internal/factory"
	redisstorage "github.com/mcoot/mastermind-go/internal/storage/redis"
)

func main() {
	// Load configuration from .env and the environment
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// Build factory config
	factoryCfg := factory.Config{
		Logger:      logger,
		StorageType: cfg.Storage,
		SQLitePath:  cfg.SQLitePath,
	}

	if cfg.Storage == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		redisCfg.KeyPrefix = cfg.RedisKeyPrefix
		factoryCfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	// Create API router
	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:          logger,
		RosterService:   app.RosterService,
		SettingsService: app.SettingsService,
		GameController:  app.GameController,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
	server := api.NewServer(apiRouter, serverConfig, logger)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.Storage),
	)

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			return
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			return
		}
	}

	logger.Info("server stopped")
}
