// Package api provides the HTTP handlers of the ERP REST API.
package api

import (
	"context"
	"log/slog"

	"erp-demo/internal/service"
)

// Pinger reports relational store liveness.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// APIHandler serves the entity resources and the management endpoints.
type APIHandler struct {
	appUsers     *service.AppUserService
	placeholders *service.PlaceholderService
	mirror       *service.IndexMirror
	db           Pinger
	appName      string
	logger       *slog.Logger
}

// HandlerOptions carry the collaborators that are not entity services.
type HandlerOptions struct {
	AppName string // alert header prefix
	DB      Pinger
	Mirror  *service.IndexMirror
	Logger  *slog.Logger
}

// NewHandler creates an APIHandler.
func NewHandler(appUsers *service.AppUserService, placeholders *service.PlaceholderService, opts HandlerOptions) *APIHandler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appName := opts.AppName
	if appName == "" {
		appName = "erpApp"
	}
	return &APIHandler{
		appUsers:     appUsers,
		placeholders: placeholders,
		mirror:       opts.Mirror,
		db:           opts.DB,
		appName:      appName,
		logger:       logger.With("component", "api"),
	}
}
