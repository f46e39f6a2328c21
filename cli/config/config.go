// Package config loads the YAML configuration of the hostfs command.
//
// Example:
//
//	log:
//	  level: debug
//	  file: /var/log/hostfs.log
//	backend:
//	  type: s3
//	  s3:
//	    endpoint: localhost:9000
//	    bucket: hostfs
//	server:
//	  address: :8420
//	metrics:
//	  enabled: true
package config

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/mwantia/hostfs/backend"
	"github.com/mwantia/hostfs/backend/badger"
	"github.com/mwantia/hostfs/backend/consul"
	"github.com/mwantia/hostfs/backend/direct"
	"github.com/mwantia/hostfs/backend/ephemeral"
	"github.com/mwantia/hostfs/backend/postgres"
	"github.com/mwantia/hostfs/backend/s3"
	"github.com/mwantia/hostfs/backend/sqlite"
	"github.com/mwantia/hostfs/data"
	"github.com/mwantia/hostfs/log"
)

// Backend types accepted in backend.type.
const (
	BackendEphemeral = "ephemeral"
	BackendDirect    = "direct"
	BackendSQLite    = "sqlite"
	BackendBadger    = "badger"
	BackendPostgres  = "postgres"
	BackendConsul    = "consul"
	BackendS3        = "s3"
)

type Config struct {
	Log     LogConfig     `yaml:"log"`
	Backend BackendConfig `yaml:"backend"`
	Server  ServerConfig  `yaml:"server"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type LogConfig struct {
	Level   string `yaml:"level"`
	File    string `yaml:"file"`
	JSON    bool   `yaml:"json"`
	NoColor bool   `yaml:"no_color"`
}

type BackendConfig struct {
	Type string `yaml:"type"`

	// Root directory for "direct", database file for "sqlite", database directory for "badger"
	Path string `yaml:"path"`

	Postgres *PostgresConfig             `yaml:"postgres"`
	Consul   *consul.ConsulBackendConfig `yaml:"consul"`
	S3       *s3.S3BackendConfig         `yaml:"s3"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type ServerConfig struct {
	Address string `yaml:"address"`
	// HTTP path serving the websocket host bridge
	Path string `yaml:"path"`
	// Refuse every create and delete of remote clients
	ReadOnly bool `yaml:"read_only"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
		Backend: BackendConfig{
			Type: BackendEphemeral,
		},
		Server: ServerConfig{
			Address: ":8420",
			Path:    "/host",
		},
		Metrics: MetricsConfig{
			Path: "/metrics",
		},
	}
}

// Load reads path on top of Default. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config '%s': %w", path, err)
	}

	if err := Parse(raw, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config '%s': %w", path, err)
	}

	return cfg, nil
}

// Parse decodes raw into cfg and validates the result.
func Parse(raw []byte, cfg *Config) error {
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return err
	}
	return cfg.Validate()
}

func (c *Config) Validate() error {
	var errs []error

	if _, err := log.Parse(c.Log.Level); err != nil {
		errs = append(errs, err)
	}

	switch c.Backend.Type {
	case BackendEphemeral:
	case BackendDirect, BackendSQLite, BackendBadger:
		if c.Backend.Path == "" {
			errs = append(errs, fmt.Errorf("%w: backend '%s' requires a path", data.ErrInvalid, c.Backend.Type))
		}
	case BackendPostgres:
		if c.Backend.Postgres == nil || c.Backend.Postgres.DSN == "" {
			errs = append(errs, fmt.Errorf("%w: backend 'postgres' requires postgres.dsn", data.ErrInvalid))
		}
	case BackendConsul:
		if c.Backend.Consul == nil {
			errs = append(errs, fmt.Errorf("%w: backend 'consul' requires a consul section", data.ErrInvalid))
		}
	case BackendS3:
		if c.Backend.S3 == nil || c.Backend.S3.Endpoint == "" || c.Backend.S3.Bucket == "" {
			errs = append(errs, fmt.Errorf("%w: backend 's3' requires s3.endpoint and s3.bucket", data.ErrInvalid))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: unknown backend type '%s'", data.ErrInvalid, c.Backend.Type))
	}

	if c.Server.Path == "" || c.Server.Path[0] != '/' {
		errs = append(errs, fmt.Errorf("%w: server.path must start with '/'", data.ErrInvalid))
	}
	if c.Metrics.Enabled && c.Metrics.Path == c.Server.Path {
		errs = append(errs, fmt.Errorf("%w: metrics.path collides with server.path", data.ErrInvalid))
	}

	return errors.Join(errs...)
}

// NewBackend creates the configured storage backend. It is not opened yet.
func (c *Config) NewBackend(ctx context.Context) (backend.ObjectStorageBackend, error) {
	switch c.Backend.Type {
	case BackendEphemeral:
		return ephemeral.NewEphemeralBackend(), nil
	case BackendDirect:
		return direct.NewDirectBackend(c.Backend.Path)
	case BackendSQLite:
		return sqlite.NewSQLiteBackend(c.Backend.Path)
	case BackendBadger:
		return badger.NewBadgerBackend(c.Backend.Path)
	case BackendPostgres:
		return postgres.NewPostgresBackend(ctx, c.Backend.Postgres.DSN)
	case BackendConsul:
		return consul.NewConsulBackend(c.Backend.Consul)
	case BackendS3:
		return s3.NewS3Backend(c.Backend.S3)
	default:
		return nil, fmt.Errorf("%w: unknown backend type '%s'", data.ErrInvalid, c.Backend.Type)
	}
}

// NewLogger creates the root logger. Terminal output goes to stdout unless quiet is set.
func (c *Config) NewLogger(name string, quiet bool) *log.Logger {
	level, _ := log.Parse(c.Log.Level)
	if quiet && c.Log.File == "" {
		return log.Discard()
	}

	logger := log.NewLogger(name, level, c.Log.File, quiet)
	logger.JSON = c.Log.JSON
	logger.NoColor = c.Log.NoColor
	return logger
}
