package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"erp-demo/internal/app"
	"erp-demo/internal/search"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(rt *runtimeEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), rt)
		},
	}
}

func serve(ctx context.Context, rt *runtimeEnv) error {
	cfg, logger := rt.cfg, rt.logger

	writeDB, readDB, dialect, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore(writeDB, readDB)

	ix, err := search.Open(cfg.Search.Path, logger)
	if err != nil {
		return fmt.Errorf("search index: %w", err)
	}
	defer func() { _ = ix.Close() }()

	a, err := app.New(ctx, app.Deps{
		Cfg:     cfg,
		WriteDB: writeDB,
		ReadDB:  readDB,
		Dialect: dialect,
		Index:   ix,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           a.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("HTTP API listening", "addr", cfg.ListenAddr, "driver", cfg.Database.Driver)
	logger.Info("try: curl http://" + curlHostForListenAddr(cfg.ListenAddr) + "/api/placeholders")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}
