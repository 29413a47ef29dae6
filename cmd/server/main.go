// Package main is the entry point for the quiz-arena API server.
//
// The main package stays small. Its job is to:
//  1. Read configuration (internal/config: env vars plus an optional .env)
//  2. Create dependencies (logger, store, catalog, token service, GitHub)
//  3. Start the server
//
// Everything else lives in internal/ so it can be tested without a process.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/sakif/quiz-arena/internal/auth"
	"github.com/sakif/quiz-arena/internal/catalog"
	"github.com/sakif/quiz-arena/internal/config"
	"github.com/sakif/quiz-arena/internal/repository"
	"github.com/sakif/quiz-arena/internal/repository/postgres"
	sqliteRepo "github.com/sakif/quiz-arena/internal/repository/sqlite"
	"github.com/sakif/quiz-arena/internal/server"
)

func main() {
	// A bootstrap logger until config tells us the level and format.
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger = newLogger(cfg)

	if err := run(cfg, logger); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return err
	}
	logger.Info("catalog loaded",
		slog.Int("achievements", len(cat.Achievements())),
		slog.Int("hints", len(cat.Hints())),
	)

	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		return err
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}

	srvCfg := server.Config{
		Port:         cfg.Port,
		Production:   cfg.IsProduction(),
		CookieSecure: cfg.CookieSecure,
		Store:        store,
		Catalog:      cat,
		Tokens:       tokens,
		Passwords:    auth.NewPasswordService(),
	}

	// Leave GitHub nil unless configured: a typed nil pointer in the
	// interface would register routes that panic.
	if cfg.GitHubEnabled() {
		srvCfg.GitHub = auth.NewGitHubProvider(cfg.GitHubClientID, cfg.GitHubClientSecret, cfg.GitHubCallbackURL)
	} else {
		logger.Warn("GITHUB_CLIENT_ID/GITHUB_CLIENT_SECRET not set, GitHub sign-in disabled")
	}

	srv, err := server.New(srvCfg, logger)
	if err != nil {
		store.Close()
		return fmt.Errorf("creating server: %w", err)
	}

	// Start blocks until SIGINT/SIGTERM and closes the store on the way out.
	return srv.Start()
}

// openStore connects to the configured database and runs migrations.
func openStore(cfg config.Config, logger *slog.Logger) (repository.Store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		db, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("opening postgres: %w", err)
		}
		logger.Info("using postgres store")
		return db, nil

	default:
		// os.MkdirAll is a no-op when the directory exists.
		dir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory %s: %w", dir, err)
		}

		db, err := sqliteRepo.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite: %w", err)
		}
		logger.Info("using sqlite store", slog.String("path", cfg.DBPath))
		return db, nil
	}
}

// newLogger builds the process logger: human-readable text in development,
// JSON in production so log shippers can parse it.
func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
