package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"erp-demo/internal/db/schema"
)

// OpenTestSQLite returns a migrated writer/reader pair on a fresh file under
// t.TempDir(). Both pools are closed on cleanup.
func OpenTestSQLite(t testing.TB) (writeDB, readDB *sql.DB) {
	t.Helper()

	writeDB, readDB, err := OpenSQLitePair(filepath.Join(t.TempDir(), "erp.sqlite"), defaultReadConns)
	if err != nil {
		t.Fatalf("open test sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = readDB.Close()
		_ = writeDB.Close()
	})
	if err := RunMigrations(writeDB, schema.SQLite); err != nil {
		t.Fatalf("migrate test sqlite: %v", err)
	}
	return writeDB, readDB
}
