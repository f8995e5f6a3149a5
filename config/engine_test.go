package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEngineConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	content := []byte("port: \"9000\"\ndata_dir: /tmp/idx\nworkers: 3\nlog_level: debug\n")
	require.NoError(t, os.WriteFile(path, content, 0600))

	cfg, err := LoadEngineConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "/tmp/idx", cfg.DataDir)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 1000, cfg.BoostCacheSize, "unset options get defaults")
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoadEngineConfig_Errors(t *testing.T) {
	_, err := LoadEngineConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: [1, 2"), 0600))
	_, err = LoadEngineConfig(path)
	assert.Error(t, err)
}

func TestDefaultEngineConfig(t *testing.T) {
	cfg := DefaultEngineConfig()
	assert.Equal(t, "8080", cfg.Port)
	assert.Positive(t, cfg.Workers)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())

	cfg.LogLevel = "WARN"
	assert.Equal(t, slog.LevelWarn, cfg.SlogLevel())
}
