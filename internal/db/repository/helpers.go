// Package repository implements the relational domain repositories on top of
// the schema manifests, for both SQLite and Postgres.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"erp-demo/internal/db/schema"
	"erp-demo/internal/domain"
)

// Postgres SQLSTATE codes the repositories translate.
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgNotNullViolation    = "23502"
)

type constraintKind int

const (
	constraintNone constraintKind = iota
	constraintForeignKey
	constraintUnique
	constraintNotNull
)

func classify(err error) constraintKind {
	var se sqlite3.Error
	if errors.As(err, &se) {
		switch se.ExtendedCode {
		case sqlite3.ErrConstraintForeignKey:
			return constraintForeignKey
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return constraintUnique
		case sqlite3.ErrConstraintNotNull:
			return constraintNotNull
		}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return constraintForeignKey
		case pgUniqueViolation:
			return constraintUnique
		case pgNotNullViolation:
			return constraintNotNull
		}
	}
	// Drivers wrapped by something that hides the typed error.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return constraintForeignKey
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return constraintUnique
	}
	return constraintNone
}

// mapDBError translates driver errors on a write into domain errors.
func mapDBError(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.NotFoundError{Scope: domain.Scope{Entity: entity, Key: domain.KeyIDNotFound}, Message: entity + " not found"}
	}
	switch classify(err) {
	case constraintForeignKey:
		return domain.ErrEntityValidation(entity, domain.KeyRefNotFound, "%s references a missing row", entity)
	case constraintUnique:
		return domain.ErrEntityConflict(entity, domain.KeyIDExists, "%s already exists", entity)
	case constraintNotNull:
		return domain.ErrEntityValidation(entity, domain.KeyRequired, "%s is missing a required field", entity)
	}
	return err
}

// mapDeleteError translates driver errors on a delete. A foreign key failure
// here means other rows still point at the one being removed.
func mapDeleteError(err error, entity string, id int64) error {
	if err == nil {
		return nil
	}
	if classify(err) == constraintForeignKey {
		return domain.ErrEntityConflict(entity, domain.KeyInUse, "%s %d is still referenced by other rows", entity, id)
	}
	return mapDBError(err, entity)
}

// store carries what every relational repository shares.
type store struct {
	write   *sql.DB
	read    *sql.DB
	dialect schema.Dialect
	hyd     *schema.Hydrator
}

func newStore(write, read *sql.DB, d schema.Dialect) store {
	if read == nil {
		read = write
	}
	if d == nil {
		d = schema.SQLite
	}
	return store{write: write, read: read, dialect: d, hyd: schema.NewHydrator(nil)}
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s store) queryRows(ctx context.Context, q queryer, query string, args ...any) ([]schema.Row, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return schema.ScanRows(rows)
}

func (s store) count(ctx context.Context, t *schema.Table) (int64, error) {
	var n int64
	if err := s.read.QueryRowContext(ctx, schema.CountSQL(t)).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s store) exists(ctx context.Context, t *schema.Table, id int64) (bool, error) {
	var one int
	err := s.read.QueryRowContext(ctx, schema.ExistsSQL(s.dialect, t), id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.write.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func int64Args(ids []int64) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
