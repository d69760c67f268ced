// Package main implements the entry point for the bouquet API server, which
// turns free-text bouquet descriptions into shopping lists, arrangement
// instructions and an illustrative image.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/phrazzld/bouquet-api/internal/config"
	"github.com/phrazzld/bouquet-api/internal/platform/logger"
)

// version is overridden at build time with -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		log.Fatalf("bouquet-api: %v", err)
	}
}

// run loads configuration, sets up logging and error reporting, builds the
// application and serves until SIGINT or SIGTERM.
func run() error {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"llm_provider", cfg.LLM.Provider,
		"image_enabled", cfg.Image.Enabled,
		"image_sink", cfg.Image.Sink)

	if setupSentry(cfg.Sentry, l) {
		defer sentry.Flush(2 * time.Second)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newApplication(ctx, cfg, l)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}

// setupSentry initializes error reporting when a DSN is configured and
// reports whether it is active.
func setupSentry(cfg config.SentryConfig, l *slog.Logger) bool {
	if cfg.DSN == "" {
		return false
	}

	release := os.Getenv("APP_VERSION")
	if release == "" {
		release = version
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          release,
		TracesSampleRate: 1.0,
		AttachStacktrace: true,
	})
	if err != nil {
		l.Warn("sentry initialization failed", "error", err)
		return false
	}

	l.Info("sentry initialized", "environment", cfg.Environment, "release", release)
	return true
}
