package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/layout"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/loader"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/logx"
)

// EnvPrefix prefixes environment overrides, e.g. GV_SOURCE_BASE_URL.
const EnvPrefix = "GV"

// Load reads configuration from path, falling back to DefaultConfigPath when
// path is empty. A missing file is not an error.
func Load(path string) (Config, error) {
	explicit := path != ""
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return Config{}, err
		}
		path = defaultPath
	}

	cfg, err := DefaultConfig()
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
		if !missing || explicit {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	expandConfigEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("source.kind", cfg.Source.Kind)
	v.SetDefault("source.path", cfg.Source.Path)
	v.SetDefault("source.base_url", cfg.Source.BaseURL)
	v.SetDefault("source.media_url", cfg.Source.MediaURL)
	v.SetDefault("source.media_root", cfg.Source.MediaRoot)
	v.SetDefault("source.timeout_ms", cfg.Source.TimeoutMS)
	v.SetDefault("source.watch", cfg.Source.Watch)
	v.SetDefault("sizes.image_size.width", cfg.Sizes.Full.Width)
	v.SetDefault("sizes.image_size.height", cfg.Sizes.Full.Height)
	v.SetDefault("sizes.small_image_size.width", cfg.Sizes.Small.Width)
	v.SetDefault("sizes.small_image_size.height", cfg.Sizes.Small.Height)
	v.SetDefault("sizes.thumbnail_size.width", cfg.Sizes.Thumbnail.Width)
	v.SetDefault("sizes.thumbnail_size.height", cfg.Sizes.Thumbnail.Height)
	v.SetDefault("layout.kind", cfg.Layout.Kind)
	v.SetDefault("layout.margin_width", cfg.Layout.MarginWidth)
	v.SetDefault("layout.margin_height", cfg.Layout.MarginHeight)
	v.SetDefault("strip.gap", cfg.Strip.Gap)
	v.SetDefault("strip.snap_tail", cfg.Strip.SnapTail)
	v.SetDefault("animation.duration_ms", cfg.Animation.DurationMS)
	v.SetDefault("animation.fps", cfg.Animation.FPS)
	v.SetDefault("preload.timeout_ms", cfg.Preload.TimeoutMS)
	v.SetDefault("preload.cache_size", cfg.Preload.CacheSize)
	v.SetDefault("terminal.cell_width", cfg.Terminal.CellWidth)
	v.SetDefault("terminal.cell_height", cfg.Terminal.CellHeight)
	v.SetDefault("terminal.pixels", cfg.Terminal.Pixels)
	v.SetDefault("serve.port", cfg.Serve.Port)
	v.SetDefault("serve.open", cfg.Serve.Open)
	v.SetDefault("serve.qr", cfg.Serve.QR)
	v.SetDefault("ssh.addr", cfg.SSH.Addr)
	v.SetDefault("ssh.host_key_path", cfg.SSH.HostKeyPath)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("log.level", cfg.Log.Level)
}

// Validate checks values that would otherwise fail deep inside a command.
func (c Config) Validate() error {
	switch loader.Kind(c.Source.Kind) {
	case loader.KindManifest, loader.KindSQLite, loader.KindDir:
		if strings.TrimSpace(c.Source.Path) == "" {
			return fmt.Errorf("source.path is required for source.kind %q", c.Source.Kind)
		}
	case loader.KindHTTP:
		parsed, err := url.Parse(strings.TrimSpace(c.Source.BaseURL))
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("source.base_url must include scheme and host (e.g. https://example.com)")
		}
	default:
		return fmt.Errorf("unsupported source.kind %q", c.Source.Kind)
	}
	if err := c.Sizes.Validate(); err != nil {
		return fmt.Errorf("sizes: %w", err)
	}
	if _, err := layout.ByName(c.Layout.Kind); err != nil {
		return fmt.Errorf("layout.kind: %w", err)
	}
	if c.Layout.MarginWidth < 0 || c.Layout.MarginHeight < 0 {
		return fmt.Errorf("layout margins must not be negative")
	}
	if c.Strip.Gap < 0 {
		return fmt.Errorf("strip.gap must not be negative")
	}
	if c.Animation.FPS <= 0 || c.Animation.DurationMS < 0 {
		return fmt.Errorf("animation.fps must be positive and animation.duration_ms not negative")
	}
	if c.Terminal.CellWidth <= 0 || c.Terminal.CellHeight <= 0 {
		return fmt.Errorf("terminal cell size must be positive")
	}
	if _, err := logx.Options(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

func expandConfigEnv(cfg *Config) {
	if cfg == nil {
		return
	}
	cfg.Source.Path = expandEnv(cfg.Source.Path)
	cfg.Source.BaseURL = expandEnv(cfg.Source.BaseURL)
	cfg.Source.MediaRoot = expandEnv(cfg.Source.MediaRoot)
	cfg.SSH.HostKeyPath = expandEnv(cfg.SSH.HostKeyPath)
	cfg.Log.File = expandEnv(cfg.Log.File)
}

func expandEnv(value string) string {
	if value == "" {
		return value
	}
	if value == "~" || strings.HasPrefix(value, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			value = filepath.Join(home, strings.TrimPrefix(value, "~"))
		}
	}
	return os.Expand(value, func(key string) string {
		if val, ok := os.LookupEnv(key); ok {
			return val
		}
		return "$" + key
	})
}

// WriteDefault writes the default config to the target path.
func WriteDefault(path string, overwrite bool) (string, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", err
		}
		path = defaultPath
	}

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config already exists at %s", path)
		}
	}

	cfg, err := DefaultConfig()
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
