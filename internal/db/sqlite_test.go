package db

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"erp-demo/internal/db/schema"
)

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		mode    PoolMode
		want    []string
		wantNot []string
	}{
		{
			name: "writer",
			path: "/tmp/erp.sqlite",
			mode: PoolWrite,
			want: []string{"_journal_mode=WAL", "_busy_timeout=5000", "_foreign_keys=on", "_txlock=immediate"},
		},
		{
			name:    "reader",
			path:    "/tmp/erp.sqlite",
			mode:    PoolRead,
			want:    []string{"_foreign_keys=on", "_synchronous=NORMAL"},
			wantNot: []string{"_txlock"},
		},
		{
			name:    "caller_params_win",
			path:    "/tmp/erp.sqlite?_busy_timeout=100&cache=shared",
			mode:    PoolRead,
			want:    []string{"_busy_timeout=100", "cache=shared"},
			wantNot: []string{"_busy_timeout=5000"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn := sqliteDSN(tt.path, tt.mode)
			assert.True(t, strings.HasPrefix(dsn, "/tmp/erp.sqlite?"), dsn)
			assert.Equal(t, 1, strings.Count(dsn, "?"))
			for _, w := range tt.want {
				assert.Contains(t, dsn, w)
			}
			for _, w := range tt.wantNot {
				assert.NotContains(t, dsn, w)
			}
		})
	}
}

func TestOpenSQLite_InvalidMode(t *testing.T) {
	_, err := OpenSQLite(filepath.Join(t.TempDir(), "erp.db"), PoolMode(7), 0)
	require.ErrorContains(t, err, "invalid pool mode PoolMode(7)")
}

func TestOpenSQLitePair(t *testing.T) {
	writeDB, readDB, err := OpenSQLitePair(filepath.Join(t.TempDir(), "erp.db"), 4)
	require.NoError(t, err)
	t.Cleanup(func() {
		writeDB.Close()
		readDB.Close()
	})

	assert.Equal(t, 1, writeDB.Stats().MaxOpenConnections)
	assert.Equal(t, 4, readDB.Stats().MaxOpenConnections)

	var fk int
	require.NoError(t, writeDB.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, _, err := Open("oracle", "x", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestRunMigrations_CreatesSchema(t *testing.T) {
	writeDB, readDB := OpenTestSQLite(t)

	for _, table := range []string{"jhi_user", "app_user", "placeholder", "rel_app_user__placeholder"} {
		var name string
		err := readDB.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		require.NoError(t, err, table)
	}

	v, err := MigrationStatus(writeDB, schema.SQLite)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	// Re-running is a no-op.
	require.NoError(t, RunMigrations(writeDB, schema.SQLite))
}

func TestRunMigrations_EnforcesForeignKeys(t *testing.T) {
	writeDB, _ := OpenTestSQLite(t)

	_, err := writeDB.Exec("INSERT INTO placeholder (placeholder_index, archetype_id) VALUES ('x', 999)")
	require.Error(t, err)
}

func TestOpenSQLitePair_ConcurrentWritesAndReads(t *testing.T) {
	writeDB, readDB := OpenTestSQLite(t)

	var g errgroup.Group
	for i := 0; i < 20; i++ {
		g.Go(func() error {
			_, err := writeDB.Exec("INSERT INTO placeholder (placeholder_index) VALUES (?)", fmt.Sprintf("p%d", i))
			return err
		})
		g.Go(func() error {
			var n int
			return readDB.QueryRow("SELECT COUNT(*) FROM placeholder").Scan(&n)
		})
	}
	require.NoError(t, g.Wait())

	var n int
	require.NoError(t, readDB.QueryRow("SELECT COUNT(*) FROM placeholder").Scan(&n))
	assert.Equal(t, 20, n)
}
