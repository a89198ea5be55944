package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 50, cfg.Editor.MaxUndo)
	assert.Equal(t, "assets", cfg.Assets.Root)
	assert.Equal(t, 4, cfg.Assets.Workers)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 1, cfg.Scene.FormatVersion)
	assert.NoError(t, cfg.validate())
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
[editor]
max_undo = 10

[assets]
workers = 2

[logging]
format = "json"
`))
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Editor.MaxUndo)
	assert.Equal(t, 2, cfg.Assets.Workers)
	assert.Equal(t, "json", cfg.Logging.Format)
	// untouched keys keep their defaults
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "scenes/main.scene.yaml", cfg.Scene.Path)
	assert.Equal(t, float32(10), cfg.Editor.CameraSpeed)
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"syntax":      "[editor\nmax_undo = 1",
		"unknown key": "[editor]\nmax_redo = 3",
		"zero undo":   "[editor]\nmax_undo = 0",
		"no workers":  "[assets]\nworkers = -1",
		"bad version": "[scene]\nformat_version = 0",
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(text))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.toml")
	require.NoError(t, os.WriteFile(path, []byte("[window]\ntitle = \"demo\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.Window.Title)
	assert.Equal(t, int32(1280), cfg.Window.Width)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
