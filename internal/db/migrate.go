package db

import (
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	"erp-demo/internal/db/schema"
)

// RunMigrations executes all pending goose migrations for the dialect's
// migration directory.
func RunMigrations(db *sql.DB, d schema.Dialect) error {
	dir, err := migrationDir(d)
	if err != nil {
		return err
	}

	goose.SetBaseFS(EmbedMigrations)
	if err := goose.SetDialect(d.Name()); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}
	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// MigrationStatus returns the applied schema version.
func MigrationStatus(db *sql.DB, d schema.Dialect) (int64, error) {
	goose.SetBaseFS(EmbedMigrations)
	if err := goose.SetDialect(d.Name()); err != nil {
		return 0, fmt.Errorf("goose set dialect: %w", err)
	}
	v, err := goose.GetDBVersion(db)
	if err != nil {
		return 0, fmt.Errorf("goose version: %w", err)
	}
	return v, nil
}

func migrationDir(d schema.Dialect) (string, error) {
	var dir string
	switch d {
	case schema.SQLite:
		dir = "migrations/sqlite"
	case schema.Postgres:
		dir = "migrations/postgres"
	default:
		return "", fmt.Errorf("no migrations for dialect %q", d.Name())
	}
	if _, err := fs.Stat(EmbedMigrations, dir); err != nil {
		return "", fmt.Errorf("migrations %s: %w", dir, err)
	}
	return dir, nil
}
