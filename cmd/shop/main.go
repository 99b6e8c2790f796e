// Copyright (c) 2026 Shop API Authors
// SPDX-License-Identifier: MIT

// Command shop runs the bilingual shop REST API server.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"shop-go/internal/auth"
	"shop-go/internal/config"
	"shop-go/internal/handler"
	"shop-go/internal/logging"
	"shop-go/internal/middleware"
	"shop-go/internal/store"
	"shop-go/internal/translate"
	"shop-go/internal/version"
)

// eventRetentionDays is how long event log rows are kept before the startup
// cleanup removes them.
const eventRetentionDays = 90

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "shop - Bilingual Shop REST API\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SHOP_JWT_SECRET        JWT signing key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SHOP_DB_PATH           SQLite database path (default: ./data/shop.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SHOP_SERVER_HOST       Server host (default: localhost)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SHOP_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SHOP_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SHOP_LOG_LEVEL         Log level: debug|info|warn|error (default: info)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SHOP_STATIC_DIR        Static files directory (default: ./static)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SHOP_TOKEN_TTL_HOURS   Access token lifetime in hours (default: 12)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SHOP_GOOGLE_CLIENT_ID  Google OAuth client ID for Google sign-in (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SHOP_ADMIN_EMAILS      Comma-separated emails promoted to admin (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("shop %s\n", version.String())
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data and image directories exist
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.MkdirAll(cfg.ImagesDir(), 0755); err != nil {
		return fmt.Errorf("creating images directory: %w", err)
	}

	// Initialize database
	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	// Run migrations
	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// Upgrade the logger so WARN and ERROR records also land in the event log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)

	// Repair legacy rows left behind by earlier deployments: missing
	// translation columns, slugs and gallery entries.
	provider := translate.NewCachedProvider(translate.NewGoogleProvider(), time.Hour)
	provider.StartCleanup(10 * time.Minute)
	defer provider.Stop()
	translator := translate.NewService(provider)
	ctx := context.Background()
	if err := store.MigrateLegacy(ctx, db, translator, logger); err != nil {
		return fmt.Errorf("migrating legacy data: %w", err)
	}
	slog.Info("database ready")

	// Trim old event log rows so the table does not grow without bound.
	cutoff := time.Now().AddDate(0, 0, -eventRetentionDays)
	if deleted, err := store.New(db).DeleteEventsBefore(ctx, cutoff); err != nil {
		slog.Warn("event log cleanup failed", "error", err)
	} else if deleted > 0 {
		slog.Info("event log trimmed", "deleted", deleted, "cutoff", cutoff.Format(time.DateOnly))
	}

	if cfg.GoogleEnabled() {
		slog.Info("google sign-in enabled", "client_id", cfg.GoogleClientID)
	} else {
		slog.Info("google sign-in disabled: SHOP_GOOGLE_CLIENT_ID not set")
	}

	googleVerifier := auth.NewGoogleVerifier(cfg.GoogleClientID)
	protection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	router := handler.NewRouter(db, cfg, translator, googleVerifier, protection)

	server := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MB
	}

	// Start server in a goroutine so we can listen for shutdown signals
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
