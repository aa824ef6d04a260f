// Package app wires configuration, storage, services and HTTP routing
// into a runnable server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"lang-portal/internal/handler"
	"lang-portal/internal/shared/database"
	"lang-portal/internal/shared/health"
	"lang-portal/internal/shared/middleware"
	"lang-portal/internal/studysessions"
)

// App holds the application dependencies and HTTP server.
type App struct {
	cfg         *Config
	db          *database.DB
	server      *http.Server
	rateLimiter *middleware.RateLimiter
}

// New creates and wires all application dependencies.
func New(cfg *Config) (*App, error) {
	db, err := database.Open(cfg.DBDriver, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	sessionRepo := studysessions.NewSessionRepository(db)
	sessionService := studysessions.NewSessionService(sessionRepo)

	sessionsHandler := handler.NewStudySessionsHandler(sessionService)
	healthHandler := health.NewHealthHandler(db)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit)

	router := NewRouter(cfg, sessionsHandler, healthHandler, rateLimiter)

	return &App{
		cfg: cfg,
		db:  db,
		server: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		rateLimiter: rateLimiter,
	}, nil
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// DB returns the application's store handle.
func (a *App) DB() *database.DB {
	return a.db
}

// Run starts the HTTP server and blocks until it stops.
func (a *App) Run() error {
	ln, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.server.Addr, err)
	}
	return a.Serve(ln)
}

// Serve accepts connections on ln until Shutdown is called.
func (a *App) Serve(ln net.Listener) error {
	slog.Info("server listening", "addr", ln.Addr().String())
	if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server, then releases the rate limiter and
// the database.
func (a *App) Shutdown(ctx context.Context) error {
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(ctx, a.cfg.ShutdownTimeout)
	defer cancel()

	shutdownErr := a.server.Shutdown(ctx)

	a.rateLimiter.Stop()
	if err := a.db.Close(); err != nil {
		slog.Warn("failed to close database", "error", err)
	}

	if shutdownErr != nil {
		return fmt.Errorf("server forced to shutdown: %w", shutdownErr)
	}

	slog.Info("server exited properly")
	return nil
}
