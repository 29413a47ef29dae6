// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the wiring layer. It connects handlers, middleware and
// routes, and decides which routes need a logged-in user.
//
// DEPENDENCY INJECTION FLOW:
// main.go creates:
//
//	config → store (sqlite or postgres), catalog, token service, GitHub provider
//
// server.New then builds:
//
//	store + catalog → AuthService, GameService, HintService → handlers → routes
//
// This is the "composition root": every dependency is assembled here or in
// main, nowhere else.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/quiz-arena/internal/apperror"
	"github.com/sakif/quiz-arena/internal/auth"
	"github.com/sakif/quiz-arena/internal/catalog"
	"github.com/sakif/quiz-arena/internal/handler"
	"github.com/sakif/quiz-arena/internal/middleware"
	"github.com/sakif/quiz-arena/internal/repository"
	"github.com/sakif/quiz-arena/internal/service"
)

// Config holds everything the server needs. The store is owned by the
// server from here on and closed when Start returns.
type Config struct {
	Port         int
	Production   bool
	CookieSecure bool

	Store     repository.Store
	Catalog   *catalog.Catalog
	Tokens    *auth.TokenService
	Passwords *auth.PasswordService

	// GitHub is nil when GitHub sign-in is not configured; the OAuth routes
	// are then not registered at all.
	GitHub handler.OAuthProvider
}

type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) (*Server, error) {
	if cfg.Store == nil || cfg.Catalog == nil || cfg.Tokens == nil {
		return nil, errors.New("server: store, catalog and token service are required")
	}
	if cfg.Passwords == nil {
		cfg.Passwords = auth.NewPasswordService()
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
	}
	s.setupRoutes()
	return s, nil
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures middleware and routes.
//
// ROUTE STRUCTURE:
//
//	GET    /healthz                 → store ping
//	POST   /api/auth/signup         → create account, set cookie (201)
//	POST   /api/auth/login          → password login, set cookie
//	POST   /api/auth/logout         → clear cookie
//	GET    /api/auth/user           → current user          [auth]
//	DELETE /api/auth/user           → delete account        [auth]
//	GET    /auth/github/login       → redirect to GitHub    (if configured)
//	GET    /auth/github/callback    → finish OAuth          (if configured)
//	GET    /api/stats               → stats                 [auth]
//	POST   /api/stats/update        → record a round        [auth]
//	GET    /api/achievements        → achievement progress  [auth]
//	GET    /api/hints/catalog       → hint shop
//	GET    /api/hints               → hint inventory        [auth]
//	POST   /api/hints/purchase      → buy a hint            [auth]
//	POST   /api/hints/use           → spend a hint          [auth]
//
// MIDDLEWARE ORDER MATTERS:
// RequestID runs first so Logger can attach the id, and Recoverer sits
// inside Logger so a recovered panic is still logged as a 500.
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	resp := handler.NewResponder(s.logger, s.config.Production)

	authService := service.NewAuthService(s.config.Store, s.config.Catalog, s.config.Tokens, s.config.Passwords, s.logger)
	gameService := service.NewGameService(s.config.Store, s.config.Catalog, s.logger)
	hintService := service.NewHintService(s.config.Store, s.config.Catalog, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.config.GitHub, resp, s.config.CookieSecure, s.logger)
	gameHandler := handler.NewGameHandler(gameService, resp)
	hintHandler := handler.NewHintHandler(hintService, resp)
	healthHandler := handler.NewHealthHandler(s.config.Store, resp, s.logger)

	requireAuth := auth.RequireAuth(s.config.Tokens)

	s.router.Get("/healthz", healthHandler.HandleHealth)

	if s.config.GitHub != nil {
		s.router.Get("/auth/github/login", authHandler.HandleGitHubLogin)
		s.router.Get("/auth/github/callback", authHandler.HandleGitHubCallback)
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/auth/signup", authHandler.HandleSignup)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/logout", authHandler.HandleLogout)
		r.Get("/hints/catalog", hintHandler.HandleCatalog)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/auth/user", authHandler.HandleMe)
			r.Delete("/auth/user", authHandler.HandleDeleteAccount)

			r.Get("/stats", gameHandler.HandleGetStats)
			r.Post("/stats/update", gameHandler.HandleUpdateStats)
			r.Get("/achievements", gameHandler.HandleListAchievements)

			r.Get("/hints", hintHandler.HandleInventory)
			r.Post("/hints/purchase", hintHandler.HandlePurchase)
			r.Post("/hints/use", hintHandler.HandleUse)
		})
	})

	// Unknown routes get the same envelope as every other error.
	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		resp.Error(w, r, apperror.NotFound("route", r.URL.Path))
	})
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully:
//  1. stop accepting new connections
//  2. wait up to 30s for in-flight requests
//  3. close the store (flushes the SQLite WAL, or drains the pgx pool)
func (s *Server) Start() error {
	defer func() {
		if err := s.config.Store.Close(); err != nil {
			s.logger.Error("closing store", slog.String("error", err.Error()))
		}
	}()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.Bool("github", s.config.GitHub != nil),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
