package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Window   WindowConfig   `toml:"window"`
	Editor   EditorConfig   `toml:"editor"`
	Assets   AssetsConfig   `toml:"assets"`
	Scene    SceneConfig    `toml:"scene"`
	Logging  LoggingConfig  `toml:"logging"`
	Settings SettingsConfig `toml:"settings"`
}

type WindowConfig struct {
	Title     string `toml:"title"`
	Width     int32  `toml:"width"`
	Height    int32  `toml:"height"`
	TargetFPS int32  `toml:"target_fps"`
}

type EditorConfig struct {
	MaxUndo     int     `toml:"max_undo"`
	CameraSpeed float32 `toml:"camera_speed"`
}

type AssetsConfig struct {
	Root    string `toml:"root"`
	Workers int    `toml:"workers"`
	Index   string `toml:"index"` // relative to root
}

type SceneConfig struct {
	Path          string `toml:"path"` // relative to the assets root
	FormatVersion int    `toml:"format_version"`
	StartOnLoad   bool   `toml:"start_on_load"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type SettingsConfig struct {
	Path string `toml:"path"` // relative to the assets root
}

// Load reads a TOML file over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes TOML text over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := defaults()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parse config: unknown key %s", undecoded[0])
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Default() *Config {
	return defaults()
}

func (c *Config) validate() error {
	if c.Editor.MaxUndo <= 0 {
		return fmt.Errorf("config: editor.max_undo must be positive, got %d", c.Editor.MaxUndo)
	}
	if c.Assets.Workers <= 0 {
		return fmt.Errorf("config: assets.workers must be positive, got %d", c.Assets.Workers)
	}
	if c.Scene.FormatVersion <= 0 {
		return fmt.Errorf("config: scene.format_version must be positive, got %d", c.Scene.FormatVersion)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Window: WindowConfig{
			Title:     "mirgo",
			Width:     1280,
			Height:    720,
			TargetFPS: 120,
		},
		Editor: EditorConfig{
			MaxUndo:     50,
			CameraSpeed: 10,
		},
		Assets: AssetsConfig{
			Root:    "assets",
			Workers: 4,
			Index:   "index.bin",
		},
		Scene: SceneConfig{
			Path:          "scenes/main.scene.yaml",
			FormatVersion: 1,
			StartOnLoad:   false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Settings: SettingsConfig{
			Path: "project.settings",
		},
	}
}
