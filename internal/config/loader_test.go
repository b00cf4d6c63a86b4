package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 120*time.Second, cfg.Server.IdleTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)

	assert.Equal(t, "postgres", cfg.Catalog.Backend)
	assert.Equal(t, 10, cfg.Catalog.MaxOpenConns)

	assert.Equal(t, 8, cfg.Listing.Parallel)
	assert.Equal(t, 0.0, cfg.Listing.QueriesPerSecond)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load(context.Background(), map[string]any{
		"server.port":         9090,
		"server.read_timeout": "45s",
		"catalog.backend":     "memory",
		"listing.parallel":    16,
	})
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 45*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "memory", cfg.Catalog.Backend)
	assert.Equal(t, 16, cfg.Listing.Parallel)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("SHELFCTL_CATALOG_DSN", "postgres://env-host/storage")
	t.Setenv("SHELFCTL_LOGGING_LEVEL", "debug")

	cfg, err := Load(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, "postgres://env-host/storage", cfg.Catalog.DSN)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shelfctl.yaml")

	require.NoError(t, WriteDefault(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# shelfctl configuration")
	assert.Contains(t, string(data), "backend: postgres")

	// Existing files are never overwritten.
	err = WriteDefault(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
