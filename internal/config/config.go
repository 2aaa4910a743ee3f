// Package config loads the engine's ambient settings: job pool size, cache
// file location, color mode, and platform override. This is distinct from
// the task-graph DSL (RULE/CPP/LINK recipes), which is a driver-script
// concern and out of scope for this package.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk shape of maek.yaml. All fields are optional.
type Config struct {
	Jobs      int    `yaml:"jobs"`
	CacheFile string `yaml:"cacheFile"`
	Color     string `yaml:"color"`    // auto | always | never
	Platform  string `yaml:"platform"` // "" | linux | macos | windows
}

// DefaultConfig returns a Config matching the engine's undecorated
// behavior: auto-detect jobs and platform, default cache file name, color
// gated on terminal detection.
func DefaultConfig() Config {
	return Config{
		Jobs:      0,
		CacheFile: "maek-cache.json",
		Color:     "auto",
		Platform:  "",
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config error: %s: %s", e.Field, e.Message)
}

// Load reads path and overlays it onto DefaultConfig. A missing file is not
// an error — defaults are returned as-is. Any other read or parse error, or
// a failed validation, is returned.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := Validate(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks that cfg's values are well-formed. Invalid values are
// reported as a ValidationError, fatal at startup, not a BuildError.
func Validate(cfg *Config) error {
	if cfg.Jobs < 0 {
		return ValidationError{Field: "jobs", Message: "must be >= 0 (0 means cpu_count+1)"}
	}
	switch cfg.Color {
	case "auto", "always", "never":
	default:
		return ValidationError{Field: "color", Message: "must be one of auto, always, never"}
	}
	switch cfg.Platform {
	case "", "linux", "macos", "windows":
	default:
		return ValidationError{Field: "platform", Message: "must be one of linux, macos, windows"}
	}
	return nil
}
