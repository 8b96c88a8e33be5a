// Package config handles loading and parsing application configuration.
// It supports two sources for the config file (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// A .env file in the working directory, when present, is loaded into the
// environment first so its values can override the YAML.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
)

// DefaultStoragePath is a private in-memory SQLite database.
const DefaultStoragePath = "file:students?mode=memory&cache=shared"

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format and verbosity: "dev", "staging" or "prod".
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	// Storage selects the record-store backend: "memory" or "sqlite".
	Storage string `yaml:"storage" env:"STORAGE_DRIVER" env-default:"memory"`

	// StoragePath is the SQLite DSN. Ignored by the memory backend.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-default:"file:students?mode=memory&cache=shared"`

	// SkipSeed disables inserting the three sample students into an empty
	// store at startup.
	SkipSeed bool `yaml:"skip_seed" env:"SKIP_SEED"`

	HTTPServer `yaml:"http_server"`
}

// HTTPServer holds settings specific to the HTTP server.
// Nested under http_server: in the YAML file.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:8082".
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-required:"true"`

	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_SERVER_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_SERVER_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_SERVER_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SERVER_SHUTDOWN_TIMEOUT" env-default:"5s"`

	// MaxBodyBytes caps request bodies; larger bodies are rejected with 400.
	MaxBodyBytes int64 `yaml:"max_body_bytes" env:"HTTP_SERVER_MAX_BODY_BYTES" env-default:"1048576"`

	// CORSAllowedOrigins lists the origins the browser dashboard may call from.
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins" env:"HTTP_SERVER_CORS_ALLOWED_ORIGINS" env-default:"*"`
}

// ResolvePath picks the config file: CONFIG_PATH wins over the flag value.
func ResolvePath(flagValue string) string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return flagValue
}

// Load reads, validates, and returns the application config from path.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	// Verify the file exists before trying to read it, so the error is
	// clearer than a cryptic "open: no such file" later.
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	// godotenv.Load never overrides variables that are already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("cannot read .env: %w", err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage {
	case StorageMemory, StorageSQLite:
	default:
		return fmt.Errorf("invalid storage %q: want %q or %q", c.Storage, StorageMemory, StorageSQLite)
	}

	switch c.Env {
	case "dev", "staging", "prod":
	default:
		return fmt.Errorf("invalid env %q: want dev, staging or prod", c.Env)
	}

	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("invalid max_body_bytes %d: must be positive", c.MaxBodyBytes)
	}
	return nil
}
