// Package server sets up the HTTP server, router, and all route
// definitions.
//
// This package is the "wiring" layer — the composition root where
// handlers, services, repositories, and middleware are connected.
// It decides:
//   - Which URL patterns map to which handler functions
//   - What middleware runs on which routes
//   - How the server starts and stops gracefully
//
// DEPENDENCY INJECTION FLOW:
//
//	main.go:  config.Load() → server.New(cfg, logger)
//	New():    store (sqlite or memory) → services → handlers → routes
//
// Each layer only receives what it needs: services get repository
// interfaces, handlers get services, and nothing below the handler
// layer knows about HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/wattwise/wattwise/internal/advisor"
	"github.com/wattwise/wattwise/internal/auth"
	"github.com/wattwise/wattwise/internal/cache"
	"github.com/wattwise/wattwise/internal/config"
	"github.com/wattwise/wattwise/internal/handler"
	"github.com/wattwise/wattwise/internal/middleware"
	"github.com/wattwise/wattwise/internal/repository"
	"github.com/wattwise/wattwise/internal/repository/memory"
	sqliteRepo "github.com/wattwise/wattwise/internal/repository/sqlite"
	"github.com/wattwise/wattwise/internal/service"
)

// leaderboardCacheTTL bounds staleness when an Invalidate is lost
// (process crash between the award and the cache call).
const leaderboardCacheTTL = 5 * time.Minute

// Server owns the router and every long-lived resource: the store and,
// when configured, the redis client. Both are closed on shutdown.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	store  repository.Store
	redis  *redis.Client // nil when caching is disabled
}

// New assembles the full dependency chain.
//
// Optional pieces degrade instead of failing: no redis means no
// leaderboard cache, no OpenAI key means canned recommendations, no
// GitHub credentials means the OAuth routes answer 404. Only the store
// and the JWT secret are mandatory.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	var store repository.Store
	switch cfg.Store {
	case "memory":
		store = memory.New()
	case "sqlite":
		db, err := sqliteRepo.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		store = db
	default:
		return nil, fmt.Errorf("unknown store %q (want \"sqlite\" or \"memory\")", cfg.Store)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		store:  store,
	}

	if cfg.Redis.Addr != "" {
		s.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	if err := s.setupRoutes(); err != nil {
		store.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	POST /api/register                → create account, start session
//	POST /api/login                   → start session
//	POST /api/logout                  → end session
//	GET  /auth/github/login           → redirect to GitHub (optional)
//	GET  /auth/github/callback        → OAuth callback (optional)
//
//	(everything below requires a valid session cookie)
//	GET  /api/user                    → current user profile
//	GET  /api/rooms                   → list rooms
//	POST /api/rooms                   → create room
//	GET  /api/devices                 → list devices
//	POST /api/devices                 → create device
//	POST /api/devices/{id}/toggle     → switch a device on/off
//	GET  /api/recommendations         → refreshed energy-saving tips
//	GET  /api/leaderboard             → top users by energy points
//	POST /api/points/add              → credit/deduct energy points
//	GET  /api/points/history          → the caller's point ledger
//	GET  /api/achievements            → list unlocked achievements
//	POST /api/achievements            → record an achievement
//	GET  /api/presets                 → list presets
//	POST /api/presets                 → create preset
//	POST /api/presets/{id}/apply      → apply a preset to devices
//
// MIDDLEWARE ORDER MATTERS — it executes in the order it's added:
// RequestID → RealIP → Recoverer → request logging, then RequireAuth
// on the protected group only.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	var github *auth.GitHubProvider
	if s.config.GitHub.ClientID != "" && s.config.GitHub.ClientSecret != "" {
		github = auth.NewGitHubProvider(
			s.config.GitHub.ClientID,
			s.config.GitHub.ClientSecret,
			s.config.GitHub.CallbackURL,
		)
	} else {
		s.logger.Info("GitHub OAuth not configured, /auth/github routes disabled")
	}

	var boardCache service.LeaderboardCache
	if s.redis != nil {
		boardCache = cache.NewLeaderboard(s.redis, leaderboardCacheTTL)
	} else {
		s.logger.Info("redis not configured, leaderboard cache disabled")
	}

	var aiClient advisor.Client
	if s.config.OpenAI.APIKey != "" {
		aiClient = advisor.NewOpenAI(s.config.OpenAI.APIKey, s.config.OpenAI.Model)
	} else {
		s.logger.Info("OpenAI not configured, serving fallback recommendations")
	}

	accounts := service.NewAuthService(s.store.Users(), tokens, passwords, s.logger)
	points := service.NewPointsService(s.store.Ledger(), s.store.Users(), boardCache, s.logger)
	board := service.NewLeaderboardService(s.store.Users(), boardCache, s.logger)
	achievements := service.NewAchievementService(s.store.Achievements(), s.logger)
	rooms := service.NewRoomService(s.store.Rooms(), s.logger)
	devices := service.NewDeviceService(s.store.Devices(), s.store.Rooms(), s.logger)
	presets := service.NewPresetService(s.store.Presets(), s.store.Devices(), s.logger)
	recommendations := service.NewRecommendationService(
		s.store.Recommendations(), s.store.Devices(), aiClient, s.logger)

	authHandler := handler.NewAuthHandler(accounts, github, s.logger)
	pointsHandler := handler.NewPointsHandler(points)
	boardHandler := handler.NewLeaderboardHandler(board)
	achievementHandler := handler.NewAchievementHandler(achievements)
	roomHandler := handler.NewRoomHandler(rooms)
	deviceHandler := handler.NewDeviceHandler(devices)
	presetHandler := handler.NewPresetHandler(presets)
	recommendationHandler := handler.NewRecommendationHandler(recommendations)

	// Public routes: account creation, login, and the OAuth dance.
	s.router.Post("/api/register", authHandler.HandleRegister)
	s.router.Post("/api/login", authHandler.HandleLogin)
	s.router.Post("/api/logout", authHandler.HandleLogout)
	s.router.Get("/auth/github/login", authHandler.HandleGitHubLogin)
	s.router.Get("/auth/github/callback", authHandler.HandleGitHubCallback)

	// Everything else needs a valid session.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))

		r.Get("/api/user", authHandler.HandleCurrentUser)

		r.Get("/api/rooms", roomHandler.HandleList)
		r.Post("/api/rooms", roomHandler.HandleCreate)

		r.Get("/api/devices", deviceHandler.HandleList)
		r.Post("/api/devices", deviceHandler.HandleCreate)
		r.Post("/api/devices/{id}/toggle", deviceHandler.HandleToggle)

		r.Get("/api/recommendations", recommendationHandler.HandleGet)

		r.Get("/api/leaderboard", boardHandler.HandleTop)

		r.Post("/api/points/add", pointsHandler.HandleAdd)
		r.Get("/api/points/history", pointsHandler.HandleHistory)

		r.Get("/api/achievements", achievementHandler.HandleList)
		r.Post("/api/achievements", achievementHandler.HandleUnlock)

		r.Get("/api/presets", presetHandler.HandleList)
		r.Post("/api/presets", presetHandler.HandleCreate)
		r.Post("/api/presets/{id}/apply", presetHandler.HandleApply)
	})

	return nil
}

// Start runs the HTTP server and handles graceful shutdown:
//  1. Stop accepting new connections
//  2. Wait for in-flight requests to finish (30s timeout)
//  3. Close the store (flushes the SQLite WAL, releases the file lock)
//     and the redis client
func (s *Server) Start() error {
	defer s.store.Close()
	if s.redis != nil {
		defer s.redis.Close()
	}

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
			slog.String("store", s.config.Store),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
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
