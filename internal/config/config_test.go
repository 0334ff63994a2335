package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable the tests touch and restores them afterwards.
func clearEnv(t *testing.T) {
	for _, k := range []string{
		"SERVER_PORT", "SERVER_API_KEY", "SERVER_MODE", "MODEL_PATH",
		"STORAGE_ENDPOINT", "STORAGE_USE_SSL", "STORAGE_TIMEOUT_SECONDS",
		"LOG_LEVEL", "LOG_FORMAT", "LOG_FILE", "LOG_MAX_BACKUPS",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "", cfg.Server.APIKey)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "models/heart_model.gob", cfg.Model.Path)
	assert.False(t, cfg.Storage.Enabled())
	assert.Equal(t, 30, cfg.Storage.TimeoutSeconds)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 3, cfg.Log.MaxBackups)
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("MODEL_PATH", "s3://models/heart.gob")
	t.Setenv("STORAGE_ENDPOINT", "localhost:9000")
	t.Setenv("STORAGE_USE_SSL", "true")
	t.Setenv("LOG_MAX_BACKUPS", "7")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "s3://models/heart.gob", cfg.Model.Path)
	assert.True(t, cfg.Storage.Enabled())
	assert.True(t, cfg.Storage.UseSSL)
	assert.Equal(t, 7, cfg.Log.MaxBackups)
}

func TestLoadConfigDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	env := "SERVER_API_KEY=secret\nLOG_FORMAT=console\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.Server.APIKey)
	assert.Equal(t, "console", cfg.Log.Format)
}
