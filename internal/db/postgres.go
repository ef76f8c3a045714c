package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

// OpenPostgres opens a *sql.DB pool through the pgx stdlib driver.
//
// Postgres handles concurrent writers itself, so callers use the same pool
// for reads and writes.
func OpenPostgres(dsn string, maxOpen int) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if maxOpen <= 0 {
		maxOpen = 10
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen / 2)
	db.SetConnMaxLifetime(time.Hour)

	if err := ping(db); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Open opens the write/read pool pair for the configured driver. For
// postgres both handles are the same pool.
func Open(driver, dsn string, readMaxOpen int) (writeDB, readDB *sql.DB, err error) {
	switch driver {
	case "sqlite", "sqlite3":
		return OpenSQLitePair(dsn, readMaxOpen)
	case "postgres", "pgx":
		pool, err := OpenPostgres(dsn, readMaxOpen)
		if err != nil {
			return nil, nil, err
		}
		return pool, pool, nil
	}
	return nil, nil, fmt.Errorf("unsupported database driver %q", driver)
}
