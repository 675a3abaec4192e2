package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kinopsis/agensalud/internal/http/handlers"
	httpmiddleware "github.com/kinopsis/agensalud/internal/http/middleware"
	"github.com/kinopsis/agensalud/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger              *logging.Logger
	AvailabilityHandler *handlers.AvailabilityHandler
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string
	// RequestBudget bounds how long a single request may run. Zero
	// disables the timeout.
	RequestBudget time.Duration
}

// New creates a new Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if cfg.RequestBudget > 0 {
		r.Use(middleware.Timeout(cfg.RequestBudget))
	}
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints (health check, metrics)
	r.Group(func(public chi.Router) {
		public.Get("/health", cfg.AvailabilityHandler.HealthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Tenant-scoped API routes. The org id comes from the path, the
	// requester role from the auth layer's X-User-Role header; both land
	// in the request context for handlers.
	r.Route("/api/v1/organizations/{orgID}", func(tenant chi.Router) {
		tenant.Use(requireOrgID)
		tenant.Use(requesterRole)
		tenant.Get("/availability", cfg.AvailabilityHandler.GetAvailability)
	})

	return r
}
