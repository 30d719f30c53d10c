package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "APP_"

// AppConfig is built once at startup and passed to every component that
// needs it.
type AppConfig struct {
	App        AppInfo          `koanf:"app"`
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	CORS       CORSConfig       `koanf:"cors"`
	Security   SecurityConfig   `koanf:"security"`
	Pagination PaginationConfig `koanf:"pagination"`
	Content    ContentConfig    `koanf:"content"`
	Log        LogConfig        `koanf:"log"`
}

type AppInfo struct {
	Name    string `koanf:"name"`
	Version string `koanf:"version"`
	Debug   bool   `koanf:"debug"`
}

type ServerConfig struct {
	Host            string `koanf:"host"`
	Port            int    `koanf:"port"`
	ReadTimeout     int    `koanf:"read_timeout"`     // seconds
	WriteTimeout    int    `koanf:"write_timeout"`    // seconds
	ShutdownTimeout int    `koanf:"shutdown_timeout"` // seconds
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Driver       string `koanf:"driver"` // sqlite, postgres, mysql
	DSN          string `koanf:"dsn"`
	LogLevel     string `koanf:"log_level"` // silent, error, warn, info
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	MaxLifetime  int    `koanf:"max_lifetime"` // seconds
}

type CORSConfig struct {
	AllowOrigins []string `koanf:"allow_origins"`
}

// SecurityConfig holds the API key. It is loaded but no route checks it.
type SecurityConfig struct {
	APIKey string `koanf:"api_key"`
}

type PaginationConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

type ContentConfig struct {
	SanitizeHTML  bool `koanf:"sanitize_html"`
	SummaryLength int  `koanf:"summary_length"` // runes
}

type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json, text
}

var defaultOrigins = []string{"http://localhost:5173", "http://localhost:3000"}

var defaults = map[string]interface{}{
	"app.name":                     "Auto Info API",
	"app.version":                  "1.0.0",
	"app.debug":                    false,
	"server.host":                  "0.0.0.0",
	"server.port":                  8000,
	"server.read_timeout":          15,
	"server.write_timeout":         15,
	"server.shutdown_timeout":      10,
	"database.driver":              "sqlite",
	"database.dsn":                 "file:auto_info.db?_pragma=foreign_keys(1)",
	"database.log_level":           "warn",
	"database.max_idle_conns":      10,
	"database.max_lifetime":        3600,
	"cors.allow_origins":           defaultOrigins,
	"pagination.default_page_size": 20,
	"pagination.max_page_size":     100,
	"content.sanitize_html":        true,
	"content.summary_length":       120,
	"log.level":                    "info",
	"log.format":                   "json",
}

// Load reads configuration from, in order of precedence: APP_ prefixed
// environment variables (a .env file is loaded first), the YAML file at
// path, and built-in defaults. A missing file is not an error.
func Load(path string) (*AppConfig, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	for key, val := range defaults {
		if err := k.Set(key, val); err != nil {
			return nil, fmt.Errorf("set default %s: %w", key, err)
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat config file: %w", err)
		}
	}

	// APP_DATABASE_MAX_OPEN_CONNS -> database.max_open_conns
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	if err := loadCustomEnvVars(k); err != nil {
		return nil, err
	}

	conf := &AppConfig{}
	if err := k.Unmarshal("", conf); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if conf.Database.MaxOpenConns == 0 {
		conf.Database.MaxOpenConns = defaultMaxOpenConns(conf.Database.Driver)
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.Replace(key, "_", ".", 1)
}

// loadCustomEnvVars maps the short variable names used by earlier
// deployments and parses list values.
func loadCustomEnvVars(k *koanf.Koanf) error {
	short := map[string]string{
		"APP_NAME":     "app.name",
		"APP_VERSION":  "app.version",
		"DEBUG":        "app.debug",
		"DATABASE_URL": "database.dsn",
		"API_KEY":      "security.api_key",
	}
	for name, key := range short {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			if err := k.Set(key, v); err != nil {
				return fmt.Errorf("set %s: %w", key, err)
			}
		}
	}

	for _, name := range []string{"CORS_ORIGINS", envPrefix + "CORS_ALLOW_ORIGINS"} {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			if err := k.Set("cors.allow_origins", ParseOrigins(v)); err != nil {
				return fmt.Errorf("set cors.allow_origins: %w", err)
			}
		}
	}
	return nil
}

// ParseOrigins accepts a JSON array or a comma separated list. Anything
// that yields no origin falls back to the defaults.
func ParseOrigins(v string) []string {
	v = strings.TrimSpace(v)

	var origins []string
	if strings.HasPrefix(v, "[") {
		if err := json.Unmarshal([]byte(v), &origins); err != nil {
			return append([]string(nil), defaultOrigins...)
		}
	} else {
		origins = strings.Split(v, ",")
	}

	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), defaultOrigins...)
	}
	return out
}

func defaultMaxOpenConns(driver string) int {
	// SQLite allows a single writer.
	if driver == DriverSQLite {
		return 1
	}
	return 50
}

// Validate rejects configurations the server cannot start with.
func (c *AppConfig) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres, DriverMySQL:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("database.dsn is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if c.Pagination.DefaultPageSize <= 0 || c.Pagination.MaxPageSize <= 0 {
		return errors.New("pagination sizes must be positive")
	}
	if c.Pagination.DefaultPageSize > c.Pagination.MaxPageSize {
		return fmt.Errorf("pagination.default_page_size %d exceeds max_page_size %d",
			c.Pagination.DefaultPageSize, c.Pagination.MaxPageSize)
	}
	return nil
}
