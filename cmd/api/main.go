package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/theoleuthardt/backlog-manager/internal/api"
	"github.com/theoleuthardt/backlog-manager/internal/config"
	"github.com/theoleuthardt/backlog-manager/internal/hltb"
	"github.com/theoleuthardt/backlog-manager/internal/logger"
	"github.com/theoleuthardt/backlog-manager/internal/repository"
	"github.com/theoleuthardt/backlog-manager/internal/service"
	"github.com/theoleuthardt/backlog-manager/internal/storage"
)

func main() {
	// Initialize logger from environment
	appLogger := logger.NewDefault()
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}

	// Initialize repositories and services
	entryRepo := repository.NewBacklogEntryRepository(db)
	entryService := service.NewEntryService(entryRepo)

	hltbClient := hltb.NewClient(&hltb.ClientConfig{
		BaseURL:       cfg.HLTB.BaseURL,
		Timeout:       time.Duration(cfg.HLTB.TimeoutSeconds) * time.Second,
		RatePerSecond: cfg.HLTB.RatePerSecond,
		RateBurst:     cfg.HLTB.RateBurst,
	})

	sessions := service.NewSessionRegistry()
	importService := service.NewImportService(entryService, hltbClient, sessions, appLogger)

	// Initialize the cover cache when configured
	var coverCache storage.ObjectStorage
	if cfg.Storage.Enabled {
		coverCache, err = storage.NewStorage(&storage.S3Config{
			Type:      storage.StorageType(cfg.Storage.Type),
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			UseSSL:    cfg.Storage.UseSSL,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			PublicURL: cfg.Storage.PublicURL,
		})
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to initialize cover cache")
		}

		if err := coverCache.(*storage.S3Storage).EnsureBucket(context.Background()); err != nil {
			appLogger.WithError(err).Fatal("Failed to ensure cover cache bucket")
		}
	}

	// Setup router
	router := api.SetupRouter(importService, entryService, hltbClient, coverCache, cfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		appLogger.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
