package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfarer/pkg/layout"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wayfarer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, layout.DefaultConfig(), cfg.Layout)
	assert.Equal(t, 10, cfg.Network.PoolSize)
	assert.Equal(t, 5, cfg.Network.MaxRedirects)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, 600, cfg.Render.Height)
	assert.Empty(t, cfg.Fonts.Regular)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
logger:
  level: debug
  format: json
network:
  pool_size: 4
  max_redirects: 2
layout:
  width: 400
  leading: 1.5
fonts:
  bold: /fonts/bold.ttf
render:
  height: 300
`)
	cfg, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.Equal(t, 4, cfg.Network.PoolSize)
	assert.Equal(t, 2, cfg.Network.MaxRedirects)
	assert.Equal(t, 400.0, cfg.Layout.Width)
	assert.Equal(t, 1.5, cfg.Layout.Leading)
	assert.Equal(t, float64(layout.DefaultMargin), cfg.Layout.Margin)
	assert.Equal(t, "/fonts/bold.ttf", cfg.Fonts.Bold)
	assert.Equal(t, 300, cfg.Render.Height)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "layout:\n  width: 400\n")
	t.Setenv("WAYFARER_LAYOUT_WIDTH", "640")

	cfg, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, 640.0, cfg.Layout.Width)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	for _, body := range []string{
		"layout:\n  width: 20\n",
		"layout:\n  base_size: 0\n",
		"render:\n  height: 0\n",
		"network:\n  pool_size: 0\n",
	} {
		_, err := Load(New(), writeConfig(t, body))
		assert.Error(t, err, body)
	}
}
