package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"erp-demo/internal/app"
	"erp-demo/internal/search"
)

// reindexTargets are the values accepted by --entity.
var reindexTargets = []string{"all", "app-users", "placeholders"}

func newReindexCmd(rt *runtimeEnv) *cobra.Command {
	var entity string

	cmd := &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the search index from the relational store",
		Long:  "Clears and repopulates the search index at search.path. Stop the server first: the index is opened exclusively.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !slices.Contains(reindexTargets, entity) {
				return fmt.Errorf("--entity must be one of %v, got %q", reindexTargets, entity)
			}
			cfg, logger := rt.cfg, rt.logger
			if cfg.Search.Path == "" {
				return fmt.Errorf("search.path is not set: an in-memory index is rebuilt by serve on start")
			}

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

			// Seeding stays with serve; New still repairs any count drift.
			runCfg := *cfg
			runCfg.SeedDemo = false
			a, err := app.New(cmd.Context(), app.Deps{
				Cfg: &runCfg, WriteDB: writeDB, ReadDB: readDB, Dialect: dialect, Index: ix, Logger: logger,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if entity == "all" || entity == "app-users" {
				n, err := a.Services.AppUser.ReindexAll(cmd.Context())
				if err != nil {
					return fmt.Errorf("reindex app users: %w", err)
				}
				_, _ = fmt.Fprintf(out, "app-users: %d documents\n", n)
			}
			if entity == "all" || entity == "placeholders" {
				n, err := a.Services.Placeholder.ReindexAll(cmd.Context())
				if err != nil {
					return fmt.Errorf("reindex placeholders: %w", err)
				}
				_, _ = fmt.Fprintf(out, "placeholders: %d documents\n", n)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&entity, "entity", "all", "which index to rebuild (all, app-users, placeholders)")
	return cmd
}
