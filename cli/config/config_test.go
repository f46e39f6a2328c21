package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mwantia/hostfs/backend/direct"
	"github.com/mwantia/hostfs/backend/ephemeral"
	"github.com/mwantia/hostfs/cli/config"
	"github.com/mwantia/hostfs/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, config.BackendEphemeral, cfg.Backend.Type)
	assert.Equal(t, ":8420", cfg.Server.Address)
	assert.Equal(t, "/host", cfg.Server.Path)
	assert.False(t, cfg.Metrics.Enabled)

	storage, err := cfg.NewBackend(t.Context())
	require.NoError(t, err)
	assert.IsType(t, &ephemeral.EphemeralBackend{}, storage)
}

func TestLoad_File(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(t.TempDir(), "hostfs.yaml")
	content := `
log:
  level: debug
  json: true
backend:
  type: direct
  path: ` + root + `
server:
  address: 127.0.0.1:9000
  read_only: true
metrics:
  enabled: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Address)
	assert.True(t, cfg.Server.ReadOnly)
	// Unset keys keep their defaults
	assert.Equal(t, "/host", cfg.Server.Path)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)

	storage, err := cfg.NewBackend(t.Context())
	require.NoError(t, err)
	assert.IsType(t, &direct.DirectBackend{}, storage)
}

func TestParse_BackendSections(t *testing.T) {
	cfg := config.Default()
	err := config.Parse([]byte(`
backend:
  type: s3
  s3:
    endpoint: localhost:9000
    bucket: hostfs
    access_key: key
    secret_key: secret
    use_ssl: true
`), cfg)
	require.NoError(t, err)

	require.NotNil(t, cfg.Backend.S3)
	assert.Equal(t, "hostfs", cfg.Backend.S3.Bucket)
	assert.Equal(t, "secret", cfg.Backend.S3.SecretKey)
	assert.True(t, cfg.Backend.S3.UseSSL)

	cfg = config.Default()
	err = config.Parse([]byte(`
backend:
  type: consul
  consul:
    address: 127.0.0.1:8500
    prefix: hostfs
`), cfg)
	require.NoError(t, err)
	assert.Equal(t, "hostfs", cfg.Backend.Consul.Prefix)
}

func TestValidate(t *testing.T) {
	tests := map[string]string{
		"unknown backend":   "backend:\n  type: floppy\n",
		"direct no path":    "backend:\n  type: direct\n",
		"badger no path":    "backend:\n  type: badger\n",
		"postgres no dsn":   "backend:\n  type: postgres\n",
		"s3 no bucket":      "backend:\n  type: s3\n  s3:\n    endpoint: localhost\n",
		"bad level":         "log:\n  level: loud\n",
		"relative path":     "server:\n  path: host\n",
		"colliding metrics": "server:\n  path: /metrics\nmetrics:\n  enabled: true\n",
	}

	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			err := config.Parse([]byte(raw), config.Default())
			assert.Error(t, err)
		})
	}

	err := config.Parse([]byte("backend:\n  type: direct\n"), config.Default())
	assert.ErrorIs(t, err, data.ErrInvalid)
}

func TestLoad_Missing(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
