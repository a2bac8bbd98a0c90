package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/shopbook/backend/internal/infrastructure/ai"
	"github.com/shopbook/backend/internal/infrastructure/config"
	"github.com/shopbook/backend/internal/infrastructure/logger"
	"github.com/shopbook/backend/internal/interfaces/http/handler"
	"github.com/shopbook/backend/internal/interfaces/http/router"
	"github.com/shopbook/backend/internal/storage/provider"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Shopbook Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Open the persistence backend; the persisted preference wins over the
	// configured default.
	prov := provider.New(cfg, log)
	store, kind, err := prov.OpenDefault(context.Background())
	if err != nil {
		log.Fatal("Failed to open storage backend", zap.Error(err))
	}
	stores := handler.NewStores(prov, store, kind)
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error("Error closing storage backend", zap.Error(err))
		}
	}()
	log.Info("Storage backend ready", zap.String("backend", string(kind)))

	// AI advisor is optional
	var advisor *ai.Advisor
	if cfg.AI.Enabled {
		advisor, err = ai.NewAdvisor(context.Background(), cfg.AI.APIKey, cfg.AI.Model,
			ai.WithAdvisorLogger(log.Named("ai")))
		if err != nil {
			log.Warn("AI advisor unavailable", zap.Error(err))
			advisor = nil
		} else {
			defer advisor.Close()
		}
	}

	engine := router.Setup(router.Dependencies{
		Config:  cfg,
		Logger:  log,
		Stores:  stores,
		Advisor: advisor,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
