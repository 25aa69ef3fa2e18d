// Package config handles configuration loading and validation for quill.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Theme   string        `yaml:"theme"`
	Editor  EditorConfig  `yaml:"editor"`
	Preview PreviewConfig `yaml:"preview"`
	Recent  RecentConfig  `yaml:"recent"`
	DataDir string        `yaml:"-"` // set by caller, not from config file
}

// Duration wraps time.Duration so YAML accepts "150ms" style strings as
// well as bare nanosecond integers.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("parse duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("duration must be a string like \"150ms\" or an integer")
	}
	*d = Duration(n)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// EditorConfig holds editing-surface settings.
type EditorConfig struct {
	TabWidth int `yaml:"tab_width"`
	// AutosaveInterval of 0 disables autosave.
	AutosaveInterval Duration `yaml:"autosave_interval"`
}

// PreviewConfig holds rendered-pane settings.
type PreviewConfig struct {
	Enabled *bool `yaml:"enabled"`
	// WidthRatio is the preview pane's share of the window, in (0, 1].
	WidthRatio float64 `yaml:"width_ratio"`
	// Debounce delays re-render after the last keystroke.
	Debounce Duration `yaml:"debounce"`
}

// RecentConfig holds recent-file history settings.
type RecentConfig struct {
	MaxEntries int `yaml:"max_entries"`
}

// On reports whether the preview pane is enabled (default true).
func (p PreviewConfig) On() bool {
	return p.Enabled == nil || *p.Enabled
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Theme: "tokyo-night",
		Editor: EditorConfig{
			TabWidth:         4,
			AutosaveInterval: 0,
		},
		Preview: PreviewConfig{
			WidthRatio: 0.5,
			Debounce:   Duration(150 * time.Millisecond),
		},
		Recent: RecentConfig{
			MaxEntries: 20,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided
// dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
	if c.Editor.TabWidth == 0 {
		c.Editor.TabWidth = defaults.Editor.TabWidth
	}
	if c.Preview.WidthRatio == 0 {
		c.Preview.WidthRatio = defaults.Preview.WidthRatio
	}
	if c.Preview.Debounce == 0 {
		c.Preview.Debounce = defaults.Preview.Debounce
	}
	if c.Recent.MaxEntries == 0 {
		c.Recent.MaxEntries = defaults.Recent.MaxEntries
	}
}

// RecentFile returns the path of the recent-files store inside the data dir.
func (c *Config) RecentFile() string {
	return filepath.Join(c.DataDir, "recent.json")
}
