package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rogerio-castellano/product-catalog/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_WritesToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "catalog.log")
	t.Cleanup(func() { zap.ReplaceGlobals(zap.NewNop()) })

	l, err := New(config.LogConfig{Mode: "production", Level: "info", File: file})
	require.NoError(t, err)

	l.Info("product saved", zap.Int("product_id", 3))
	_ = l.Sync()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"product_id":3`)
	assert.Same(t, l, zap.L())
}

func TestNew_LevelFilters(t *testing.T) {
	file := filepath.Join(t.TempDir(), "catalog.log")
	t.Cleanup(func() { zap.ReplaceGlobals(zap.NewNop()) })

	l, err := New(config.LogConfig{Mode: "development", Level: "warn", File: file})
	require.NoError(t, err)

	l.Info("hidden")
	l.Warn("shown")
	_ = l.Sync()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud"})
	assert.Error(t, err)
}
