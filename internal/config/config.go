// Package config holds the page's runtime configuration: theme, motion
// timings, scroll behavior, input capabilities, reveal tuning, the snapshot
// cache, and logging. Values come from defaults, then an optional YAML file,
// then ATRIUM_* environment variables, then command-line flags (applied by
// the CLI layer).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Theme names the color scheme. ThemeAuto picks dark or light from the
// terminal's reported background.
type Theme string

const (
	ThemeAuto  Theme = "auto"
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Config holds all atrium configuration.
type Config struct {
	// Theme selects the color scheme: auto, dark, light.
	Theme Theme `yaml:"theme" env:"ATRIUM_THEME"`

	// Motion timings and the reduced-motion preference.
	Motion MotionConfig `yaml:"motion"`

	// Scroll behavior: throttle, resize debounce, header threshold.
	Scroll ScrollConfig `yaml:"scroll"`

	// Input capabilities.
	Input InputConfig `yaml:"input"`

	// Reveal-on-visibility tuning.
	Reveal RevealConfig `yaml:"reveal"`

	// Offline snapshot cache.
	Snapshot SnapshotConfig `yaml:"snapshot"`

	// Logging.
	Logging LoggingConfig `yaml:"logging"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Theme: ThemeAuto,

		Motion: MotionConfig{
			Reduce:          false,
			FrameInterval:   "16ms",
			CounterDuration: "2s",
			SubmitDelay:     "2s",
			SuccessVisible:  "5s",
			ScrollDuration:  "400ms",
		},

		Scroll: ScrollConfig{
			Throttle:       "100ms",
			ResizeDebounce: "250ms",
			CondensedAfter: 3,
			WheelLines:     3,
		},

		Input: InputConfig{
			Mouse: true,
		},

		Reveal: RevealConfig{
			Threshold:  0.15,
			MarginRows: 1,
		},

		Snapshot: SnapshotConfig{
			Enabled:  false,
			CacheDir: "",
			Debounce: "500ms",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			File:   "",
		},
	}
}

// Load reads configuration from a YAML file, layers ATRIUM_* environment
// variables on top, and validates the result. A missing file is not an
// error; defaults are used.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides layers ATRIUM_* environment variables over the config.
func (c *Config) applyEnvOverrides() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("failed to apply environment overrides: %w", err)
	}
	return nil
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "atrium.yaml")
	}
	return filepath.Join(base, "atrium", "config.yaml")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Theme {
	case ThemeAuto, ThemeDark, ThemeLight:
	default:
		return fmt.Errorf("invalid theme: %q (valid: auto, dark, light)", c.Theme)
	}
	if err := c.Motion.validate(); err != nil {
		return err
	}
	if err := c.Scroll.validate(); err != nil {
		return err
	}
	if err := c.Reveal.validate(); err != nil {
		return err
	}
	if err := c.Snapshot.validate(); err != nil {
		return err
	}
	return c.Logging.validate()
}

// parseDuration parses a duration string, enforcing a positive value.
func parseDuration(field, raw string) (time.Duration, error) {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", field, raw)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %q", field, raw)
	}
	return d, nil
}

// durationOr parses a duration string, falling back when unset or invalid.
// Validated configs never hit the fallback; it guards zero-value structs.
func durationOr(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
