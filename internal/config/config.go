// Package config reads runtime settings from the environment.
//
// A .env file in the working directory is loaded first when present
// (github.com/joho/godotenv). Variables already set in the real environment
// win over the file, so the file only supplies defaults for local runs.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	// MinSecretLength matches auth.NewTokenService.
	MinSecretLength = 16
)

type Config struct {
	Port     int
	Env      string // "development" or "production"
	LogLevel string

	DBDriver    string
	DBPath      string
	DatabaseURL string

	JWTSecret    string
	CookieSecure bool

	// CatalogPath overrides the embedded achievement/hint catalog.
	CatalogPath string

	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
}

// IsProduction hides internal error details and switches logs to JSON.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// GitHubEnabled reports whether the OAuth routes should be registered.
func (c Config) GitHubEnabled() bool {
	return c.GitHubClientID != "" && c.GitHubClientSecret != ""
}

// Load reads .env (if any) and the environment, applies defaults and
// validates the result.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: loading .env: %w", err)
	}
	return FromEnv()
}

// FromEnv is Load without the .env file.
func FromEnv() (Config, error) {
	port, err := getEnvInt("PORT", 8080)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:               port,
		Env:                strings.ToLower(getEnv("APP_ENV", "development")),
		LogLevel:           strings.ToLower(getEnv("LOG_LEVEL", "debug")),
		DBDriver:           strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
		DBPath:             getEnv("DB_PATH", "data/quiz.db"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		CatalogPath:        os.Getenv("CATALOG_PATH"),
		GitHubClientID:     os.Getenv("GITHUB_CLIENT_ID"),
		GitHubClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
		GitHubCallbackURL:  getEnv("GITHUB_CALLBACK_URL", fmt.Sprintf("http://localhost:%d/auth/github/callback", port)),
	}

	// Secure cookies by default in production.
	cfg.CookieSecure, err = getEnvBool("COOKIE_SECURE", cfg.IsProduction())
	if err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if len(c.JWTSecret) < MinSecretLength {
		return fmt.Errorf("config: JWT_SECRET must be at least %d characters", MinSecretLength)
	}
	switch c.DBDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			return errors.New("config: DB_PATH must not be empty")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required when DB_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("config: unknown DB_DRIVER %q (want sqlite or postgres)", c.DBDriver)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown LOG_LEVEL %q", c.LogLevel)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not an integer", key, v)
	}
	return i, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s=%q is not a boolean", key, v)
	}
	return b, nil
}
