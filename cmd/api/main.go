package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"menu-analytics-service/internal/app"
	"menu-analytics-service/internal/platform/config"
	"menu-analytics-service/internal/platform/logger"
	"menu-analytics-service/internal/platform/telemetry"

	"go.uber.org/zap"
)

// @title Menu Analytics Service API
// @version 1.0
// @description Scan and click recording plus monthly and trailing analytics for QR menus.
// @BasePath /
func main() {
	// Config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	// Logger
	zl, err := logger.New(logger.Options{
		Level:      cfg.Log.Level,
		Encoding:   cfg.Log.Encoding,
		FilePath:   cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	})
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	// Storage
	openCtx, cancelOpen := context.WithTimeout(context.Background(), 30*time.Second)
	storage, err := app.OpenStorage(openCtx, cfg.Storage)
	cancelOpen()
	if err != nil {
		zl.Fatal("failed to open storage", zap.String("backend", cfg.Storage.Backend), zap.Error(err))
	}

	// HTTP (Fiber) app + handlers
	srv := app.New(app.Deps{
		Storage:      storage,
		Logger:       zl,
		Metrics:      telemetry.New(),
		MenuDataFile: cfg.MenuDataFile,
	})

	// Graceful shutdown
	go func() {
		if err := srv.Listen(cfg.HTTPAddr); err != nil {
			zl.Error("fiber stopped", zap.Error(err))
		}
	}()

	zl.Info("server started", zap.String("addr", cfg.HTTPAddr), zap.String("backend", storage.Backend))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	zl.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.ShutdownWithContext(ctx); err != nil {
		zl.Error("fiber shutdown error", zap.Error(err))
	}
	if err := storage.Close(ctx); err != nil {
		zl.Error("storage close error", zap.Error(err))
	}

	zl.Info("server exiting")
}
