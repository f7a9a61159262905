// Package config loads gradientgen settings from a YAML file with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/gradient"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("config: invalid")

// RenderConfig controls rasterization.
type RenderConfig struct {
	MaxDimension int    `yaml:"max_dimension"`
	Workers      int    `yaml:"workers"` // 0 means one per CPU
	LegacyAngles bool   `yaml:"legacy_angles"`
	PreviewFit   string `yaml:"preview_fit"` // "fill" | "letterbox"
}

// OutputConfig controls where and how images are written.
type OutputConfig struct {
	Format string `yaml:"format"` // "png" | "bmp" | "tiff"
	Dir    string `yaml:"dir"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" | "json"
	File   string `yaml:"file"`
}

// Config is the complete gradientgen configuration.
type Config struct {
	Render  RenderConfig  `yaml:"render"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Render:  RenderConfig{MaxDimension: gradient.MaxDimension, Workers: 0, PreviewFit: "fill"},
		Output:  OutputConfig{Format: "png", Dir: "."},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvLogLevel     = "GRADIENT_LOG_LEVEL"
	EnvLogFormat    = "GRADIENT_LOG_FORMAT"
	EnvLogFile      = "GRADIENT_LOG_FILE"
	EnvMaxDimension = "GRADIENT_MAX_DIMENSION"
	EnvWorkers      = "GRADIENT_WORKERS"
)

// Load returns the defaults overlaid with the YAML file at path (skipped when
// path is empty) and then with environment overrides. Fields missing from
// the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // path is user-provided intentionally
		if err != nil {
			return cfg, fmt.Errorf("config: read: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	applyEnvOverrides(&cfg)
	normalize(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func normalize(cfg *Config) {
	cfg.Render.PreviewFit = strings.ToLower(strings.TrimSpace(cfg.Render.PreviewFit))
	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	cfg.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Logging.Format))
	cfg.Logging.File = strings.TrimSpace(cfg.Logging.File)
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvMaxDimension)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Render.MaxDimension = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvWorkers)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Render.Workers = n
		}
	}
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	if c.Render.MaxDimension < 0 {
		return fmt.Errorf("%w: render.max_dimension %d", ErrInvalid, c.Render.MaxDimension)
	}
	if c.Render.Workers < 0 {
		return fmt.Errorf("%w: render.workers %d", ErrInvalid, c.Render.Workers)
	}
	if _, err := gradient.ParsePreviewFit(c.Render.PreviewFit); err != nil {
		return fmt.Errorf("%w: render.preview_fit: %w", ErrInvalid, err)
	}
	if _, err := gradient.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("%w: output.format: %w", ErrInvalid, err)
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("%w: logging.format %q", ErrInvalid, c.Logging.Format)
	}
	return nil
}

// RenderOptions converts the render section to renderer options.
func (c Config) RenderOptions() []gradient.RenderOption {
	opts := []gradient.RenderOption{
		gradient.WithMaxDimension(c.Render.MaxDimension),
		gradient.WithWorkers(c.Render.Workers),
	}
	if fit, err := gradient.ParsePreviewFit(c.Render.PreviewFit); err == nil {
		opts = append(opts, gradient.WithPreviewFit(fit))
	}
	if c.Render.LegacyAngles {
		opts = append(opts, gradient.WithLegacyAngles())
	}
	return opts
}

// OutputFormat returns the configured image format, PNG if unset.
func (c Config) OutputFormat() gradient.Format {
	f, err := gradient.ParseFormat(c.Output.Format)
	if err != nil {
		return gradient.FormatPNG
	}
	return f
}

// Save writes cfg as YAML.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("config: write: %w", err)
	}
	return nil
}
