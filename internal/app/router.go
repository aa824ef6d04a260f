package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"lang-portal/internal/handler"
	"lang-portal/internal/shared/errors"
	"lang-portal/internal/shared/health"
	"lang-portal/internal/shared/middleware"
)

// NewRouter creates and configures the HTTP router with all routes.
func NewRouter(
	cfg *Config,
	sessionsHandler *handler.StudySessionsHandler,
	healthHandler *health.HealthHandler,
	rateLimiter *middleware.RateLimiter,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecurityHeadersMiddleware)
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		errors.WriteError(w, errors.NotFoundError("Resource not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		errors.WriteError(w, errors.MethodNotAllowedError())
	})

	r.Method(http.MethodGet, "/healthz", healthHandler)
	r.Method(http.MethodHead, "/healthz", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimitMiddleware(rateLimiter))
		sessionsHandler.Mount(r)
	})

	return r
}
