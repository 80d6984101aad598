package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_Level(t *testing.T) {
	assert.True(t, New("debug", "").Core().Enabled(zapcore.DebugLevel))
	assert.False(t, New("warn", "").Core().Enabled(zapcore.InfoLevel))
	assert.True(t, New("bogus", "").Core().Enabled(zapcore.InfoLevel))
	assert.False(t, New("bogus", "").Core().Enabled(zapcore.DebugLevel))
}

func TestNew_WritesFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	log := New("info", file)

	log.Info("perfil completo")
	_ = log.Sync()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"perfil completo"`)
	assert.Contains(t, string(data), `"ts":`)
}
