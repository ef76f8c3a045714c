// Package app provides application-level wiring and dependency injection
// for the ERP service.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"erp-demo/internal/api"
	"erp-demo/internal/config"
	"erp-demo/internal/db/repository"
	"erp-demo/internal/db/schema"
	"erp-demo/internal/metrics"
	"erp-demo/internal/middleware"
	"erp-demo/internal/search"
	"erp-demo/internal/service"
)

// Deps holds the external dependencies that main() must provide: config,
// the relational pools and the opened search index.
type Deps struct {
	Cfg     *config.Config
	WriteDB *sql.DB
	ReadDB  *sql.DB
	Dialect schema.Dialect
	Index   *search.Index
	Logger  *slog.Logger
}

// Services groups the entity services the handler and the CLI need.
type Services struct {
	AppUser     *service.AppUserService
	Placeholder *service.PlaceholderService
}

// App holds the fully-wired application.
type App struct {
	Services Services
	Mirror   *service.IndexMirror
	Metrics  *metrics.Metrics
	Handler  http.Handler
}

// New wires repositories, the search collections, the dual-write services
// and the HTTP router from the provided deps. It restores the search index
// when it is out of step with the relational store and seeds demo rows when
// configured to.
func New(ctx context.Context, deps Deps) (*App, error) {
	cfg := deps.Cfg
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// === Repositories ===
	appUserRepo := repository.NewAppUserRepo(deps.WriteDB, deps.ReadDB, deps.Dialect)
	placeholderRepo := repository.NewPlaceholderRepo(deps.WriteDB, deps.ReadDB, deps.Dialect)

	// === Dual-write services ===
	m := metrics.New()
	mirror := service.NewIndexMirror(service.MirrorConfig{
		MaxFailures: cfg.Search.BreakerMaxFailures,
		Timeout:     cfg.Search.BreakerTimeout,
	}, m, logger)
	opts := service.Options{
		Mirror:         mirror,
		Metrics:        m,
		Logger:         logger,
		ReindexWorkers: cfg.Search.ReindexWorkers,
	}
	svcs := Services{
		AppUser:     service.NewAppUserService(appUserRepo, search.NewAppUserIndex(deps.Index), opts),
		Placeholder: service.NewPlaceholderService(placeholderRepo, search.NewPlaceholderIndex(deps.Index), opts),
	}

	if cfg.SeedDemo {
		if err := seedDemoData(ctx, svcs, logger); err != nil {
			logger.Warn("seed demo data failed", "error", err)
		}
	}

	if err := restoreSearchIndex(ctx, svcs, logger); err != nil {
		return nil, fmt.Errorf("restore search index: %w", err)
	}

	// === HTTP ===
	h := api.NewHandler(svcs.AppUser, svcs.Placeholder, api.HandlerOptions{
		AppName: cfg.AppName,
		DB:      deps.ReadDB,
		Mirror:  mirror,
		Logger:  logger,
	})
	rc := api.RouterConfig{
		Logger:  logger.With("component", "http"),
		Metrics: m,
		RateLimit: middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RPS,
			Burst:             cfg.RateLimit.Burst,
		},
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}
	if cfg.Auth.JWTSecret != "" {
		rc.Auth = middleware.NewSharedSecretValidator(cfg.Auth.JWTSecret)
	}

	return &App{
		Services: svcs,
		Mirror:   mirror,
		Metrics:  m,
		Handler:  api.NewRouter(h, rc),
	}, nil
}
