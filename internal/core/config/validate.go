package config

import (
	"fmt"
	"os"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/quill/internal/core/styles"
)

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("theme", c.Theme, themeExists),
		criterio.Run("editor.tab_width", c.Editor.TabWidth, positiveInt),
		criterio.Run("editor.autosave_interval", c.Editor.AutosaveInterval, nonNegativeDuration),
		criterio.Run("preview.width_ratio", c.Preview.WidthRatio, validRatio),
		criterio.Run("preview.debounce", c.Preview.Debounce, nonNegativeDuration),
		criterio.Run("recent.max_entries", c.Recent.MaxEntries, positiveInt),
	)
}

// ValidateDeep performs comprehensive validation including file accessibility.
// The configPath argument specifies the config file location to validate
// (empty string skips the config file check).
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

func themeExists(name string) error {
	if name == "" {
		return nil
	}
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q (available: %v)", name, styles.ThemeNames())
	}
	return nil
}

func positiveInt(n int) error {
	if n < 1 {
		return fmt.Errorf("must be at least 1, got %d", n)
	}
	return nil
}

func nonNegativeDuration(d Duration) error {
	if d < 0 {
		return fmt.Errorf("must not be negative, got %s", d.Std())
	}
	return nil
}

func validRatio(r float64) error {
	if r <= 0 || r > 1 {
		return fmt.Errorf("must be in (0, 1], got %g", r)
	}
	return nil
}

func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return fmt.Errorf("is required")
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created on demand
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}
