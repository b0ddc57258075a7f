// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// SiteWork is a construction project management backend: project lifecycle
// tracking, client accounts with role-based access, status updates with
// cost accumulation and photo attachments.
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

	"github.com/olegiv/sitework-go/internal/blob"
	"github.com/olegiv/sitework-go/internal/cache"
	"github.com/olegiv/sitework-go/internal/config"
	"github.com/olegiv/sitework-go/internal/handler"
	"github.com/olegiv/sitework-go/internal/imaging"
	"github.com/olegiv/sitework-go/internal/logging"
	"github.com/olegiv/sitework-go/internal/middleware"
	"github.com/olegiv/sitework-go/internal/scheduler"
	"github.com/olegiv/sitework-go/internal/service"
	"github.com/olegiv/sitework-go/internal/session"
	"github.com/olegiv/sitework-go/internal/store"
	"github.com/olegiv/sitework-go/internal/version"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "SiteWork - Construction Project Management Backend\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITEWORK_SESSION_SECRET  Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITEWORK_DB_PATH         SQLite database path (default: ./data/sitework.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITEWORK_SERVER_PORT     Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITEWORK_ENV             Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITEWORK_UPLOADS_DIR     Image uploads directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITEWORK_REDIS_URL       Redis URL for the counts cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITEWORK_ADMIN_EMAIL     Bootstrap admin email (with SITEWORK_ADMIN_PASSWORD)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if *showVersion {
		info := version.Get()
		_, _ = fmt.Printf("sitework %s (commit: %s, built: %s)\n", info.Version, info.GitCommit, info.BuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

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

	// Ensure data directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

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

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the event log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)

	ctx := context.Background()
	if cfg.SeedAdmin() {
		if err := store.SeedAdmin(ctx, db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return fmt.Errorf("seeding admin account: %w", err)
		}
	}

	blobs, err := blob.NewDiskStore(cfg.UploadsDir)
	if err != nil {
		return fmt.Errorf("initializing uploads store: %w", err)
	}

	appCache, err := cache.New(cache.Config{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      time.Duration(cfg.CacheTTL) * time.Second,
		CleanupInterval: time.Minute,
	})
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() {
		if err := appCache.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()
	slog.Info("cache initialized", "redis", cfg.UseRedisCache())

	sm := session.New(db, cfg.IsDevelopment())

	events := service.NewEventService(db)
	provisioning := service.NewProvisioning(db, events)
	thumbs := imaging.NewProcessor(blobs)

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())

	h := handler.New(handler.Config{
		DB:              db,
		SessionManager:  sm,
		Authenticator:   service.NewAuthenticator(db, events),
		Accounts:        service.NewAccounts(db, events),
		Projects:        service.NewProjects(db, blobs, thumbs, provisioning, events),
		Status:          service.NewStatus(db, blobs, thumbs, events),
		Events:          events,
		Counts:          cache.NewCounts(appCache, db),
		LoginProtection: loginProtection,
		Blobs:           blobs,
	})

	var root http.Handler = h.Routes()
	root = middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment()))(root)
	root = middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment()))(root)

	sched := scheduler.New(db, blobs, logger, time.Duration(cfg.EventRetentionDays)*24*time.Hour)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           root,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // Allow for large uploads and slow connections
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
