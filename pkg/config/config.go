// Package config loads gv settings from YAML, environment and defaults.
package config

import (
	"os"
	"path/filepath"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/layout"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/model"
)

// Config is the top-level application configuration.
type Config struct {
	Source    SourceConfig    `mapstructure:"source" yaml:"source"`
	Sizes     model.SizeSpec  `mapstructure:"sizes" yaml:"sizes"`
	Layout    LayoutConfig    `mapstructure:"layout" yaml:"layout"`
	Strip     StripConfig     `mapstructure:"strip" yaml:"strip"`
	Animation AnimationConfig `mapstructure:"animation" yaml:"animation"`
	Preload   PreloadConfig   `mapstructure:"preload" yaml:"preload"`
	Terminal  TerminalConfig  `mapstructure:"terminal" yaml:"terminal"`
	Serve     ServeConfig     `mapstructure:"serve" yaml:"serve"`
	SSH       SSHConfig       `mapstructure:"ssh" yaml:"ssh"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
}

// SourceConfig selects where galleries are loaded from.
type SourceConfig struct {
	Kind      string `mapstructure:"kind" yaml:"kind"`
	Path      string `mapstructure:"path" yaml:"path"`
	BaseURL   string `mapstructure:"base_url" yaml:"base_url"`
	MediaURL  string `mapstructure:"media_url" yaml:"media_url"`
	MediaRoot string `mapstructure:"media_root" yaml:"media_root"`
	TimeoutMS int    `mapstructure:"timeout_ms" yaml:"timeout_ms"`
	// Watch reloads the open gallery when a manifest or image folder changes.
	Watch bool `mapstructure:"watch" yaml:"watch"`
}

// LayoutConfig picks the view and its margins.
type LayoutConfig struct {
	Kind         string `mapstructure:"kind" yaml:"kind"`
	MarginWidth  int    `mapstructure:"margin_width" yaml:"margin_width"`
	MarginHeight int    `mapstructure:"margin_height" yaml:"margin_height"`
}

// StripConfig controls the thumbnail strip.
type StripConfig struct {
	Gap      int  `mapstructure:"gap" yaml:"gap"`
	SnapTail bool `mapstructure:"snap_tail" yaml:"snap_tail"`
}

// AnimationConfig controls the terminal tweens.
type AnimationConfig struct {
	DurationMS int `mapstructure:"duration_ms" yaml:"duration_ms"`
	FPS        int `mapstructure:"fps" yaml:"fps"`
}

// PreloadConfig controls image fetching.
type PreloadConfig struct {
	TimeoutMS int `mapstructure:"timeout_ms" yaml:"timeout_ms"`
	CacheSize int `mapstructure:"cache_size" yaml:"cache_size"`
}

// TerminalConfig maps pixels onto terminal cells.
type TerminalConfig struct {
	CellWidth  int `mapstructure:"cell_width" yaml:"cell_width"`
	CellHeight int `mapstructure:"cell_height" yaml:"cell_height"`
	// Pixels draws images with half-block cells; off shows a framed placeholder.
	Pixels bool `mapstructure:"pixels" yaml:"pixels"`
}

// ServeConfig configures `gv serve`.
type ServeConfig struct {
	// Port 0 picks a free port in the default range.
	Port int  `mapstructure:"port" yaml:"port"`
	Open bool `mapstructure:"open" yaml:"open"`
	QR   bool `mapstructure:"qr" yaml:"qr"`
}

// SSHConfig configures `gv ssh`.
type SSHConfig struct {
	Addr        string `mapstructure:"addr" yaml:"addr"`
	HostKeyPath string `mapstructure:"host_key_path" yaml:"host_key_path"`
}

// LogConfig controls where logs go.
type LogConfig struct {
	File  string `mapstructure:"file" yaml:"file"`
	Level string `mapstructure:"level" yaml:"level"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() (Config, error) {
	stateDir, err := defaultStateDir()
	if err != nil {
		return Config{}, err
	}
	composite := layout.Composite()
	return Config{
		Source: SourceConfig{
			Kind:      "manifest",
			Path:      "gallery.yaml",
			MediaURL:  "/media/",
			TimeoutMS: 30000,
		},
		Sizes: model.DefaultSizeSpec(),
		Layout: LayoutConfig{
			Kind:         string(composite.Kind),
			MarginWidth:  composite.MarginWidth,
			MarginHeight: composite.MarginHeight,
		},
		Strip: StripConfig{
			Gap:      composite.ThumbnailGap,
			SnapTail: true,
		},
		Animation: AnimationConfig{
			DurationMS: 250,
			FPS:        30,
		},
		Preload: PreloadConfig{
			TimeoutMS: 10000,
			CacheSize: 32,
		},
		Terminal: TerminalConfig{
			CellWidth:  8,
			CellHeight: 16,
			Pixels:     true,
		},
		Serve: ServeConfig{
			Port: 0,
			QR:   true,
		},
		SSH: SSHConfig{
			Addr:        ":23234",
			HostKeyPath: filepath.Join(stateDir, "ssh_host_ed25519"),
		},
		Log: LogConfig{
			File:  filepath.Join(stateDir, "gv.log"),
			Level: "info",
		},
	}, nil
}

// DefaultConfigPath returns the standard config path.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "gallery_viewer", "config.yaml"), nil
}

func defaultStateDir() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return "", err
		}
		dir = filepath.Join(home, ".cache")
	}
	return filepath.Join(dir, "gallery_viewer"), nil
}
