package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 1.0, cfg.Display.Density)
	assert.Equal(t, 1080, cfg.Display.ScreenWidthPixels)
	assert.Equal(t, 16<<20, cfg.Render.MaxPixels)
	assert.True(t, cfg.Render.ShowFallback)
	assert.Equal(t, 4, cfg.Render.Workers)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DISPLAY_DENSITY", "2.5")
	t.Setenv("RENDER_MAX_PIXELS", "1000000")
	t.Setenv("RENDER_SHOW_FALLBACK", "false")
	t.Setenv("ADMIN_TOKEN_HASH", "$2a$10$abcdefghijklmnopqrstuv")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 2.5, cfg.Display.Density)
	assert.Equal(t, 1000000, cfg.Render.MaxPixels)
	assert.False(t, cfg.Render.ShowFallback)
	assert.Equal(t, "$2a$10$abcdefghijklmnopqrstuv", cfg.Security.AdminTokenHash)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"server": {"port": 3000}, "render": {"max_pixels": 500000, "preview_width": 800, "preview_height": 800}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 500000, cfg.Render.MaxPixels)
	assert.Equal(t, 800, cfg.Render.PreviewWidth)
}

func TestEnvironmentBeatsFile(t *testing.T) {
	t.Setenv("SERVER_PORT", "9999")

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server": {"port": 3000}}`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := getDefaultConfig()
	cfg.Server.Port = 1234
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 1234, loaded.Server.Port)
}
