// Package db opens the relational store and applies its migrations.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 database/sql driver
)

// PoolMode selects how a SQLite pool is tuned.
type PoolMode int

const (
	// PoolWrite is the single-connection writer. Transactions take the
	// write lock up front so concurrent writers queue on busy_timeout
	// instead of failing with SQLITE_BUSY mid-transaction.
	PoolWrite PoolMode = iota
	// PoolRead is the shared reader pool.
	PoolRead
)

func (m PoolMode) String() string {
	switch m {
	case PoolWrite:
		return "write"
	case PoolRead:
		return "read"
	default:
		return fmt.Sprintf("PoolMode(%d)", int(m))
	}
}

const (
	defaultReadConns = 4
	pingTimeout      = 5 * time.Second
)

// sqlitePragmas apply to every connection of both pools.
var sqlitePragmas = map[string]string{
	"_journal_mode": "WAL",
	"_busy_timeout": "5000",
	"_synchronous":  "NORMAL",
	"_foreign_keys": "on",
}

// OpenSQLite opens one pool on the SQLite file at path. maxOpen sizes a
// PoolRead pool (0 means 4) and is ignored for PoolWrite.
func OpenSQLite(path string, mode PoolMode, maxOpen int) (*sql.DB, error) {
	conns := 1
	switch mode {
	case PoolWrite:
	case PoolRead:
		conns = maxOpen
		if conns <= 0 {
			conns = defaultReadConns
		}
	default:
		return nil, fmt.Errorf("open sqlite: invalid pool mode %v", mode)
	}

	db, err := sql.Open("sqlite3", sqliteDSN(path, mode))
	if err != nil {
		return nil, fmt.Errorf("open sqlite (%s): %w", mode, err)
	}
	db.SetMaxOpenConns(conns)
	db.SetMaxIdleConns(conns)
	db.SetConnMaxLifetime(time.Hour)

	if err := ping(db); err != nil {
		return nil, fmt.Errorf("ping sqlite (%s): %w", mode, err)
	}
	return db, nil
}

// OpenSQLitePair opens the writer and a reader pool of readMaxOpen
// connections on the same file.
func OpenSQLitePair(path string, readMaxOpen int) (writeDB, readDB *sql.DB, err error) {
	if writeDB, err = OpenSQLite(path, PoolWrite, 0); err != nil {
		return nil, nil, err
	}
	if readDB, err = OpenSQLite(path, PoolRead, readMaxOpen); err != nil {
		_ = writeDB.Close()
		return nil, nil, err
	}
	return writeDB, readDB, nil
}

// sqliteDSN appends the connection pragmas to path, keeping any query
// parameters the caller already supplied.
func sqliteDSN(path string, mode PoolMode) string {
	base, query, _ := strings.Cut(path, "?")
	params, err := url.ParseQuery(query)
	if err != nil {
		params = url.Values{}
	}
	for k, v := range sqlitePragmas {
		if !params.Has(k) {
			params.Set(k, v)
		}
	}
	if mode == PoolWrite {
		params.Set("_txlock", "immediate")
	}
	return base + "?" + params.Encode()
}

// ping closes db when the first connection cannot be established.
func ping(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	return nil
}
