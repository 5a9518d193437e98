package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/kacper-wojtaszczyk/gdpr-obfuscator/internal/config"
	"github.com/kacper-wojtaszczyk/gdpr-obfuscator/internal/exitcode"
	"github.com/kacper-wojtaszczyk/gdpr-obfuscator/internal/storage"
	"github.com/spf13/cobra"
)

var logLevel = new(slog.LevelVar)

func main() {
	// Configure the global logger
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	// Create a cancellable context (for graceful shutdown)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("application error", "error", err)
		cancel()
		os.Exit(exitcode.For(err))
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "obfuscator",
		Short:         "Mask PII fields in CSV, JSON and Parquet files held in object storage",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(obfuscateCmd(), demoCmd())
	return root
}

// environment loads .env and the configuration, then opens the object store.
func environment(ctx context.Context) (*config.Config, storage.Backend, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("failed to load env vars", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logLevel.Set(cfg.LogLevel)

	backend, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: open %s store: %w", config.ErrInvalidValue, cfg.Storage.Kind, err)
	}
	return cfg, backend, nil
}
