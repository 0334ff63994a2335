package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		l, err := NewLogger(LogConfig{})
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("Debug", func(t *testing.T) {
		l, err := NewLogger(LogConfig{Level: "debug", Format: "console"})
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("BadLevel", func(t *testing.T) {
		_, err := NewLogger(LogConfig{Level: "loud"})
		assert.Error(t, err)
	})

	t.Run("TeesToFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "api.log")
		l, err := NewLogger(LogConfig{Level: "info", File: path, MaxSizeMB: 1})
		require.NoError(t, err)
		l.Info("model loaded", zap.String("kind", "rf"))
		_ = l.Sync()

		b, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(b), `"msg":"model loaded"`)
		assert.Contains(t, string(b), `"kind":"rf"`)
	})
}
