package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
server:
  port: 9090
  timeout: 5s
dataset:
  format: SQLite
  path: data/patients.db
log:
  level: debug
`)

	config, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, 5*time.Second, config.Server.Timeout)
	assert.Equal(t, []string{"*"}, config.Server.AllowedOrigins)
	assert.Equal(t, FormatSQLite, config.Dataset.Format)
	assert.Equal(t, "patients", config.Dataset.Table)
	assert.Equal(t, "RiskScore", config.Dataset.Target)
	assert.Equal(t, 256, config.Cache.Size)
	assert.Equal(t, "debug", config.Log.Level)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, t.TempDir(), "server: [1, 2"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, t.TempDir(), "dataset:\n  format: parquet\nserver:\n  port: 0\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parquet")
	assert.Contains(t, err.Error(), "server.port")
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "log:\n  level: info\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *Config, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(c *Config) { changes <- c }, zap.NewNop())
	}()

	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case c := <-changes:
			if c.Log.Level != "error" {
				continue
			}
			cancel()
			require.NoError(t, <-done)
			return
		case <-ticker.C:
			require.NoError(t, os.WriteFile(path, []byte("log:\n  level: error\n"), 0o600))
		case <-deadline:
			t.Fatal("expected config reload")
		}
	}
}
