package main

import (
	"fmt"

	"github.com/spf13/cobra"

	internaldb "erp-demo/internal/db"
)

func newMigrateCmd(rt *runtimeEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations and print the schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			writeDB, readDB, dialect, err := openStore(rt.cfg)
			if err != nil {
				return err
			}
			defer closeStore(writeDB, readDB)

			v, err := internaldb.MigrationStatus(writeDB, dialect)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (%s)\n", v, dialect.Name())
			return nil
		},
	}
}
