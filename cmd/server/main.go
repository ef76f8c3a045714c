// Package main is the entry point for the ERP server binary.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"erp-demo/internal/config"
	internaldb "erp-demo/internal/db"
	"erp-demo/internal/db/schema"
	"erp-demo/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(execute(ctx))
}

func execute(ctx context.Context) int {
	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// runtimeEnv is resolved once in PersistentPreRunE and shared by every
// subcommand.
type runtimeEnv struct {
	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	var (
		envFile string
		rt      runtimeEnv
	)

	rootCmd := &cobra.Command{
		Use:           "erp-server",
		Short:         "ERP entity service",
		Long:          "HTTP service for app users and placeholders, backed by a relational store and a search index.",
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadDotEnv(envFile); err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			rt.cfg = cfg
			rt.logger = logging.New(logging.Options{
				Level:  cfg.SlogLevel(),
				Format: cfg.Log.Format,
				Output: cmd.ErrOrStderr(),
			})
			slog.SetDefault(rt.logger)
			for _, w := range cfg.Warnings {
				rt.logger.Warn(w)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file folded into the environment")

	rootCmd.AddCommand(newServeCmd(&rt))
	rootCmd.AddCommand(newMigrateCmd(&rt))
	rootCmd.AddCommand(newReindexCmd(&rt))
	return rootCmd
}

// openStore opens the configured relational pools and runs pending
// migrations.
func openStore(cfg *config.Config) (writeDB, readDB *sql.DB, d schema.Dialect, err error) {
	d, err = schema.DialectFor(cfg.Database.Driver)
	if err != nil {
		return nil, nil, nil, err
	}
	writeDB, readDB, err = internaldb.Open(cfg.Database.Driver, cfg.Database.DataSource(), cfg.Database.ReadMaxOpen)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := internaldb.RunMigrations(writeDB, d); err != nil {
		closeStore(writeDB, readDB)
		return nil, nil, nil, fmt.Errorf("migrations: %w", err)
	}
	return writeDB, readDB, d, nil
}

func closeStore(writeDB, readDB *sql.DB) {
	if readDB != writeDB {
		_ = readDB.Close()
	}
	_ = writeDB.Close()
}

// curlHostForListenAddr turns a listen address into a host usable in a
// curl hint: wildcard and empty hosts become localhost.
func curlHostForListenAddr(listenAddr string) string {
	addr := strings.TrimSpace(listenAddr)
	if addr == "" {
		return "localhost:8080"
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "localhost"
	}
	return net.JoinHostPort(host, port)
}
