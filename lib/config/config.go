// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable Load reads the config path from.
const EnvVar = "PERFVIEW_CONFIG"

// ColorMode controls terminal color output.
type ColorMode string

const (
	// ColorAuto uses color when the terminal supports it.
	ColorAuto ColorMode = "auto"
	// ColorAlways forces color even when output is not a terminal.
	ColorAlways ColorMode = "always"
	// ColorNever disables color and styling.
	ColorNever ColorMode = "never"
)

// Config is the complete perfview configuration.
type Config struct {
	// SocketPath is where the bridge listens for producers.
	// Default: ${XDG_RUNTIME_DIR:-/tmp}/perfview.sock
	SocketPath string `yaml:"socket_path"`

	// ConnectPath, when set, switches to client mode: instead of
	// listening, perfview dials a producer listening at this path.
	ConnectPath string `yaml:"connect_path"`

	// Capacity is the number of samples kept in the display window.
	// Default: 128
	Capacity int `yaml:"capacity"`

	// RefreshInterval is how often the display drains and redraws.
	// Default: 50ms
	RefreshInterval time.Duration `yaml:"refresh_interval"`

	// SummaryInterval is how often headless mode logs a summary.
	// Default: 1s
	SummaryInterval time.Duration `yaml:"summary_interval"`

	// Headless disables the terminal display. perfview also runs
	// headless when stdout is not a terminal.
	Headless bool `yaml:"headless"`

	// Color is one of auto, always, never.
	// Default: auto
	Color ColorMode `yaml:"color"`

	// Log configures structured logging.
	Log LogConfig `yaml:"log"`

	// Metrics configures the Prometheus endpoint.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	// Default: info
	Level string `yaml:"level"`

	// File, when set, sends logs to a size-rotated file instead of
	// stderr. The display owns the terminal, so interactive sessions
	// should set this to see logs at all.
	File string `yaml:"file"`

	// MaxSizeMB is the size at which the log file rotates.
	// Default: 10
	MaxSizeMB int `yaml:"max_size_mb"`

	// MaxBackups is how many rotated files to keep.
	// Default: 3
	MaxBackups int `yaml:"max_backups"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// Listen is a TCP address for serving /metrics. Empty disables it.
	Listen string `yaml:"listen"`
}

// Default returns the default configuration. Path fields contain
// unexpanded variables; Load and LoadFile expand them.
func Default() *Config {
	return &Config{
		SocketPath:      "${XDG_RUNTIME_DIR:-/tmp}/perfview.sock",
		Capacity:        128,
		RefreshInterval: 50 * time.Millisecond,
		SummaryInterval: time.Second,
		Color:           ColorAuto,
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Load loads configuration from the file named by PERFVIEW_CONFIG. If
// the variable is unset, it returns the defaults.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvVar)
	if configPath == "" {
		cfg := Default()
		cfg.expandVariables()
		return cfg, nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path. Fields the
// file does not mention keep their defaults. Unknown fields are an
// error, so a misspelled key fails loudly rather than being ignored.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}

	cfg.expandVariables()
	return cfg, nil
}

// loadFile decodes a YAML file into c, merging over current values.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths
// from the process environment.
func (c *Config) expandVariables() {
	c.SocketPath = expandVars(c.SocketPath, nil)
	c.ConnectPath = expandVars(c.ConnectPath, nil)
	c.Log.File = expandVars(c.Log.File, nil)
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

var logLevels = []string{"debug", "info", "warn", "error"}

var colorModes = []ColorMode{ColorAuto, ColorAlways, ColorNever}

// Validate checks the configuration for errors. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error

	if c.SocketPath == "" && c.ConnectPath == "" {
		errs = append(errs, fmt.Errorf("socket_path is required unless connect_path is set"))
	}

	if c.Capacity <= 0 {
		errs = append(errs, fmt.Errorf("capacity must be positive, got %d", c.Capacity))
	}

	if c.RefreshInterval <= 0 {
		errs = append(errs, fmt.Errorf("refresh_interval must be positive, got %v", c.RefreshInterval))
	}

	if c.SummaryInterval <= 0 {
		errs = append(errs, fmt.Errorf("summary_interval must be positive, got %v", c.SummaryInterval))
	}

	if !slices.Contains(colorModes, c.Color) {
		errs = append(errs, fmt.Errorf("color must be one of: %v", colorModes))
	}

	if !slices.Contains(logLevels, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level must be one of: %v", logLevels))
	}

	if c.Log.File != "" {
		if c.Log.MaxSizeMB <= 0 {
			errs = append(errs, fmt.Errorf("log.max_size_mb must be positive, got %d", c.Log.MaxSizeMB))
		}
		if c.Log.MaxBackups < 0 {
			errs = append(errs, fmt.Errorf("log.max_backups must not be negative, got %d", c.Log.MaxBackups))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
