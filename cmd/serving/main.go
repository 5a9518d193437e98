package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kacper-wojtaszczyk/gdpr-obfuscator/internal/api"
	"github.com/kacper-wojtaszczyk/gdpr-obfuscator/internal/config"
	"github.com/kacper-wojtaszczyk/gdpr-obfuscator/internal/exitcode"
	"github.com/kacper-wojtaszczyk/gdpr-obfuscator/internal/obfuscation"
	"github.com/kacper-wojtaszczyk/gdpr-obfuscator/internal/storage"
)

func main() {
	// Initialize structured logger (JSON to stdout)
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Warn("failed to load env vars", "error", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(exitcode.ConfigError)
	}
	level.Set(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	backend, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		slog.Error("failed to initialize object store", "store", cfg.Storage.Kind, "error", err)
		os.Exit(exitcode.ConfigError)
	}

	svc := obfuscation.NewService(backend, logger)

	// Setup HTTP routes
	mux := http.NewServeMux()
	api.NewHandler(svc, cfg.WriteOptions).RegisterRoutes(mux)

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server", "port", cfg.Port, "store", cfg.Storage.Kind)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()

	slog.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
