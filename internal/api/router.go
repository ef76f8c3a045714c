package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"erp-demo/internal/metrics"
	"erp-demo/internal/middleware"
)

// RouterConfig configures the middleware chain around the handlers.
type RouterConfig struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics // nil disables /management/prometheus
	RateLimit      middleware.RateLimitConfig
	AllowedOrigins []string
	Auth           middleware.JWTValidator // nil leaves /api unauthenticated
}

// NewRouter mounts the entity resources under /api and the management
// endpoints under /management.
func NewRouter(h *APIHandler, cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(logger, cfg.Metrics))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{
			"Link", "Location", "X-Total-Count", "X-Request-ID",
			"X-" + h.appName + "-alert", "X-" + h.appName + "-error", "X-" + h.appName + "-params",
		},
		MaxAge: 300,
	}))

	r.Route("/management", func(r chi.Router) {
		r.Get("/health", h.health)
		if cfg.Metrics != nil {
			r.Method(http.MethodGet, "/prometheus", cfg.Metrics.Handler())
		}
	})

	r.Route("/api", func(r chi.Router) {
		if cfg.RateLimit.RequestsPerSecond > 0 && cfg.RateLimit.Burst > 0 {
			r.Use(middleware.NewRateLimiter(cfg.RateLimit).Handler)
		}
		if cfg.Auth != nil {
			r.Use(middleware.Authenticate(cfg.Auth))
		}

		r.Route("/app-users", func(r chi.Router) {
			r.Post("/", h.createAppUser)
			r.Get("/", h.listAppUsers)
			r.Get("/count", h.countAppUsers)
			r.Get("/{id}", h.getAppUser)
			r.Put("/{id}", h.updateAppUser)
			r.Patch("/{id}", h.patchAppUser)
			r.Delete("/{id}", h.deleteAppUser)
		})
		r.Route("/placeholders", func(r chi.Router) {
			r.Post("/", h.createPlaceholder)
			r.Get("/", h.listPlaceholders)
			r.Get("/count", h.countPlaceholders)
			r.Get("/{id}", h.getPlaceholder)
			r.Put("/{id}", h.updatePlaceholder)
			r.Patch("/{id}", h.patchPlaceholder)
			r.Delete("/{id}", h.deletePlaceholder)
		})

		r.Route("/_search", func(r chi.Router) {
			r.Get("/app-users", h.searchAppUsers)
			r.Get("/app-users/count", h.searchCountAppUsers)
			r.Get("/placeholders", h.searchPlaceholders)
			r.Get("/placeholders/count", h.searchCountPlaceholders)
		})

		r.Route("/_reindex", func(r chi.Router) {
			r.Post("/app-users", h.reindexAllAppUsers)
			r.Post("/app-users/{id}", h.reindexAppUser)
			r.Post("/placeholders", h.reindexAllPlaceholders)
			r.Post("/placeholders/{id}", h.reindexPlaceholder)
		})
	})

	return r
}
