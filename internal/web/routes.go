package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mmynk/billbook/internal/metrics"
	"github.com/mmynk/billbook/internal/middleware"
)

// RouterConfig holds the cross-cutting settings of the router.
type RouterConfig struct {
	Sessions middleware.SessionResolver
	Metrics  metrics.Recorder
	// MetricsHandler serves /metrics; nil leaves the route unregistered.
	MetricsHandler     http.Handler
	Logger             *slog.Logger
	IsDevelopment      bool
	TrustProxy         bool
	MaxRequestBodySize int64
	LoginRateLimit     middleware.RateLimitConfig
}

// NewRouter wires the middleware chain and every route.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNoop()
	}
	if cfg.MaxRequestBodySize <= 0 {
		cfg.MaxRequestBodySize = 1 << 20
	}
	if cfg.LoginRateLimit.RequestsPerSecond <= 0 || cfg.LoginRateLimit.Burst <= 0 {
		cfg.LoginRateLimit.RequestsPerSecond = 1
		cfg.LoginRateLimit.Burst = 10
	}
	cfg.LoginRateLimit.OnLimited = h.RateLimited

	r := chi.NewRouter()

	if cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer(cfg.Logger))
	// Sessions load before logging so access logs carry the user ID.
	r.Use(middleware.LoadSession(cfg.Sessions, cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment}))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize, h.RequestTooLarge))
	r.Use(middleware.Metrics(cfg.Metrics))

	r.NotFound(h.NotFound)

	r.Get("/healthz", h.Healthz)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	limit := middleware.RateLimiter(cfg.LoginRateLimit)

	r.Get("/", h.Index)
	r.Get("/login", h.LoginPage)
	r.With(limit).Post("/login", h.LoginSubmit)
	r.Get("/register", h.RegisterPage)
	r.With(limit).Post("/register", h.RegisterSubmit)
	r.Get("/logout", h.Logout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession("/login"))
		r.Get("/groups", h.GroupsPage)
		r.Post("/groups", h.GroupsSubmit)
		r.Get("/groups/{id}/bills", h.BillsPage)
		r.Post("/groups/{id}/bills", h.BillsSubmit)
	})

	return r
}
