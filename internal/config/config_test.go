package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test from an empty temp dir with every config variable
// blanked.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(ConfigPathEnvVar, "")
	for k := range envKeys {
		t.Setenv(strings.ToUpper(k), "")
	}
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "erpApp", cfg.AppName)
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, "erp.sqlite", cfg.Database.Path)
	assert.Equal(t, uint32(5), cfg.Search.BreakerMaxFailures)
	assert.Equal(t, 30*time.Second, cfg.Search.BreakerTimeout)
	assert.Equal(t, 4, cfg.Search.ReindexWorkers)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
	assert.False(t, cfg.IsProduction())
	assert.Len(t, cfg.Warnings, 2)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("LISTEN_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/erp")
	t.Setenv("SEARCH_BREAKER_TIMEOUT", "5s")
	t.Setenv("RATE_LIMIT_RPS", "7.5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("SEED_DEMO", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/erp", cfg.Database.DSN)
	assert.Equal(t, 5*time.Second, cfg.Search.BreakerTimeout)
	assert.InDelta(t, 7.5, cfg.RateLimit.RPS, 0.001)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.True(t, cfg.SeedDemo)
	assert.Equal(t, "postgres://localhost/erp", cfg.Database.DataSource())
}

func TestLoad_File(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "erp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app_name: acme
search:
  path: /var/lib/erp/index
  reindex_workers: 2
cors:
  allowed_origins: [https://acme.example]
`), 0o600))
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("SEARCH_REINDEX_WORKERS", "8")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "acme", cfg.AppName)
	assert.Equal(t, "/var/lib/erp/index", cfg.Search.Path)
	assert.Equal(t, 8, cfg.Search.ReindexWorkers, "environment wins over file")
	assert.Equal(t, []string{"https://acme.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"unknown_driver", map[string]string{"DB_DRIVER": "oracle"}, "unsupported database driver"},
		{"postgres_without_dsn", map[string]string{"DB_DRIVER": "postgres"}, "DATABASE_URL"},
		{"zero_workers", map[string]string{"SEARCH_REINDEX_WORKERS": "0"}, "reindex_workers"},
		{"production_without_secret", map[string]string{"ENV": "production"}, "JWT_SECRET"},
		{"production_wildcard_cors", map[string]string{"ENV": "production", "JWT_SECRET": "x"}, "CORS wildcard"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		cfg := &Config{Log: LogConfig{Level: in}}
		assert.Equal(t, want, cfg.SlogLevel(), in)
	}
}

func TestLoadDotEnv(t *testing.T) {
	t.Run("missing_file", func(t *testing.T) {
		assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))
	})

	t.Run("existing_vars_win", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("ERP_TEST_A=\"from-file\"\nERP_TEST_B=from-file\n# comment\n"), 0o600))
		t.Setenv("ERP_TEST_A", "")
		require.NoError(t, os.Unsetenv("ERP_TEST_A"))
		t.Setenv("ERP_TEST_B", "from-env")
		t.Cleanup(func() { _ = os.Unsetenv("ERP_TEST_A") })

		require.NoError(t, LoadDotEnv(path))
		assert.Equal(t, "from-file", os.Getenv("ERP_TEST_A"))
		assert.Equal(t, "from-env", os.Getenv("ERP_TEST_B"))
	})
}
