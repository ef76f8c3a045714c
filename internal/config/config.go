// Package config handles application configuration and environment loading.
//
// Values are layered: built-in defaults, then an optional YAML file
// (CONFIG_PATH or ./config.yaml), then environment variables. A .env file is
// folded into the environment first without overriding variables that are
// already set.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar names the variable pointing at a YAML config file.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are probed in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{"config.yaml", "config.yml"}

// LogConfig selects log verbosity and sink format.
type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json or console
}

// DatabaseConfig selects the relational store.
type DatabaseConfig struct {
	Driver      string `koanf:"driver"`        // sqlite3 or postgres
	Path        string `koanf:"path"`          // SQLite file
	DSN         string `koanf:"dsn"`           // Postgres connection string
	ReadMaxOpen int    `koanf:"read_max_open"` // read pool size
}

// SearchConfig configures the search index and its mirror breaker.
type SearchConfig struct {
	Path               string        `koanf:"path"` // empty keeps the index in memory
	BreakerMaxFailures uint32        `koanf:"breaker_max_failures"`
	BreakerTimeout     time.Duration `koanf:"breaker_timeout"`
	ReindexWorkers     int           `koanf:"reindex_workers"`
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	JWTSecret string `koanf:"jwt_secret"` // HS256 shared secret; empty disables auth
}

// RateLimitConfig configures the per-client token bucket.
type RateLimitConfig struct {
	RPS   float64 `koanf:"rps"`
	Burst int     `koanf:"burst"`
}

// CORSConfig configures cross-origin access.
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// Config holds the configuration for the HTTP API, the relational store and
// the search index.
type Config struct {
	Env        string          `koanf:"env"`      // "development" (default) or "production"
	AppName    string          `koanf:"app_name"` // prefix of the alert headers
	ListenAddr string          `koanf:"listen_addr"`
	SeedDemo   bool            `koanf:"seed_demo"` // load sample rows into an empty store
	Log        LogConfig       `koanf:"log"`
	Database   DatabaseConfig  `koanf:"database"`
	Search     SearchConfig    `koanf:"search"`
	Auth       AuthConfig      `koanf:"auth"`
	RateLimit  RateLimitConfig `koanf:"rate_limit"`
	CORS       CORSConfig      `koanf:"cors"`

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string `koanf:"-"`
}

func defaultConfig() *Config {
	return &Config{
		Env:        "development",
		AppName:    "erpApp",
		ListenAddr: ":8080",
		Log:        LogConfig{Level: "info", Format: "json"},
		Database:   DatabaseConfig{Driver: "sqlite3", Path: "erp.sqlite", ReadMaxOpen: 4},
		Search: SearchConfig{
			BreakerMaxFailures: 5,
			BreakerTimeout:     30 * time.Second,
			ReindexWorkers:     4,
		},
		RateLimit: RateLimitConfig{RPS: 100, Burst: 200},
		CORS:      CORSConfig{AllowedOrigins: []string{"*"}},
	}
}

// envKeys maps environment variables to config paths.
var envKeys = map[string]string{
	"env":                         "env",
	"app_name":                    "app_name",
	"listen_addr":                 "listen_addr",
	"seed_demo":                   "seed_demo",
	"log_level":                   "log.level",
	"log_format":                  "log.format",
	"db_driver":                   "database.driver",
	"db_path":                     "database.path",
	"database_url":                "database.dsn",
	"db_read_max_open":            "database.read_max_open",
	"search_path":                 "search.path",
	"search_breaker_max_failures": "search.breaker_max_failures",
	"search_breaker_timeout":      "search.breaker_timeout",
	"search_reindex_workers":      "search.reindex_workers",
	"jwt_secret":                  "auth.jwt_secret",
	"rate_limit_rps":              "rate_limit.rps",
	"rate_limit_burst":            "rate_limit.burst",
	"cors_allowed_origins":        "cors.allowed_origins",
}

// envTransform maps an environment variable to a config path. Unknown and
// empty variables are dropped so they never mask a default.
func envTransform(key, value string) (string, any) {
	if value == "" {
		return "", nil
	}
	return envKeys[strings.ToLower(key)], value
}

// sliceKeys are parsed from comma-separated strings when they come from the
// environment.
var sliceKeys = []string{"cors.allowed_origins"}

// Load reads the layered configuration and validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}
	if err := k.Load(env.ProviderWithValue("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}
	if err := splitSlices(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		return p
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func splitSlices(k *koanf.Koanf) error {
	for _, key := range sliceKeys {
		s, ok := k.Get(key).(string)
		if !ok {
			continue
		}
		var parts []string
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(key, parts); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
	}
	return nil
}

// Validate checks the configuration for fatal problems and records
// non-fatal ones in Warnings.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "sqlite3":
		if c.Database.Path == "" {
			return errors.New("database.path is required for the sqlite driver")
		}
	case "postgres", "pgx":
		if c.Database.DSN == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Search.ReindexWorkers < 1 {
		return fmt.Errorf("search.reindex_workers must be positive, got %d", c.Search.ReindexWorkers)
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		return errors.New("rate_limit.rps and rate_limit.burst must be positive")
	}

	if c.Auth.JWTSecret == "" {
		c.Warnings = append(c.Warnings, "JWT_SECRET not set: API requests are not authenticated")
	}
	if c.Search.Path == "" {
		c.Warnings = append(c.Warnings, "SEARCH_PATH not set: search index is kept in memory and rebuilt on restart")
	}

	// Production mode: insecure defaults are fatal errors.
	if c.IsProduction() {
		if c.Auth.JWTSecret == "" {
			return errors.New("JWT_SECRET must be set in production (ENV=production)")
		}
		if len(c.CORS.AllowedOrigins) == 1 && c.CORS.AllowedOrigins[0] == "*" {
			return errors.New("CORS wildcard (*) is not allowed in production (ENV=production)")
		}
	}
	return nil
}

// DataSource returns the connection string for the configured driver: the
// file path for sqlite, the DSN for postgres.
func (d DatabaseConfig) DataSource() string {
	switch d.Driver {
	case "postgres", "pgx":
		return d.DSN
	default:
		return d.Path
	}
}

// SlogLevel maps the log level string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsProduction returns true when the server is running in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// LoadDotEnv folds a .env file into the environment. Variables already set
// take precedence; a missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
