// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "perfview.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Capacity != 128 {
		t.Errorf("expected capacity=128, got %d", cfg.Capacity)
	}
	if cfg.RefreshInterval != 50*time.Millisecond {
		t.Errorf("expected refresh_interval=50ms, got %v", cfg.RefreshInterval)
	}
	if cfg.Color != ColorAuto {
		t.Errorf("expected color=auto, got %s", cfg.Color)
	}
	if cfg.ConnectPath != "" {
		t.Errorf("expected listener mode by default, got connect_path=%s", cfg.ConnectPath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestLoad_WithoutConfigUsesDefaults(t *testing.T) {
	t.Setenv(EnvVar, "")
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.SocketPath != "/run/user/1000/perfview.sock" {
		t.Errorf("expected socket under XDG_RUNTIME_DIR, got %s", cfg.SocketPath)
	}
}

func TestLoad_DefaultSocketWithoutRuntimeDir(t *testing.T) {
	t.Setenv(EnvVar, "")
	t.Setenv("XDG_RUNTIME_DIR", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.SocketPath != "/tmp/perfview.sock" {
		t.Errorf("expected /tmp/perfview.sock, got %s", cfg.SocketPath)
	}
}

func TestLoad_WithPerfviewConfig(t *testing.T) {
	path := writeConfig(t, `
socket_path: /test/perf.sock
capacity: 512
refresh_interval: 16ms
headless: true
log:
  level: debug
  file: ${PERFVIEW_TEST_LOGS}/perfview.log
metrics:
  listen: 127.0.0.1:9464
`)
	t.Setenv(EnvVar, path)
	t.Setenv("PERFVIEW_TEST_LOGS", "/var/log/test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.SocketPath != "/test/perf.sock" {
		t.Errorf("expected socket_path=/test/perf.sock, got %s", cfg.SocketPath)
	}
	if cfg.Capacity != 512 {
		t.Errorf("expected capacity=512, got %d", cfg.Capacity)
	}
	if cfg.RefreshInterval != 16*time.Millisecond {
		t.Errorf("expected refresh_interval=16ms, got %v", cfg.RefreshInterval)
	}
	if !cfg.Headless {
		t.Error("expected headless=true")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log.level=debug, got %s", cfg.Log.Level)
	}
	if cfg.Log.File != "/var/log/test/perfview.log" {
		t.Errorf("expected expanded log.file, got %s", cfg.Log.File)
	}
	if cfg.Metrics.Listen != "127.0.0.1:9464" {
		t.Errorf("expected metrics.listen=127.0.0.1:9464, got %s", cfg.Metrics.Listen)
	}

	// Fields the file does not mention keep their defaults.
	if cfg.SummaryInterval != time.Second {
		t.Errorf("expected default summary_interval=1s, got %v", cfg.SummaryInterval)
	}
	if cfg.Log.MaxSizeMB != 10 {
		t.Errorf("expected default log.max_size_mb=10, got %d", cfg.Log.MaxSizeMB)
	}
}

func TestLoadFile_Empty(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("LoadFile() on empty file failed: %v", err)
	}
	if cfg.Capacity != 128 {
		t.Errorf("expected default capacity, got %d", cfg.Capacity)
	}
}

func TestLoadFile_UnknownField(t *testing.T) {
	_, err := LoadFile(writeConfig(t, "capacty: 64\n"))
	if err == nil {
		t.Fatal("expected error for misspelled field, got nil")
	}
	if !strings.Contains(err.Error(), "capacty") {
		t.Errorf("expected error to name the field, got %v", err)
	}
}

func TestLoadFile_InvalidDuration(t *testing.T) {
	if _, err := LoadFile(writeConfig(t, "refresh_interval: soon\n")); err == nil {
		t.Fatal("expected error for invalid duration, got nil")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestExpandVars(t *testing.T) {
	t.Setenv("PERFVIEW_TEST_VAR", "from-env")
	t.Setenv("PERFVIEW_TEST_EMPTY", "")

	vars := map[string]string{"PROVIDED": "from-map"}

	tests := []struct {
		input string
		want  string
	}{
		{"plain/path", "plain/path"},
		{"${PROVIDED}/x", "from-map/x"},
		{"${PERFVIEW_TEST_VAR}/x", "from-env/x"},
		{"${PERFVIEW_TEST_EMPTY:-fallback}/x", "fallback/x"},
		{"${PERFVIEW_TEST_UNSET}/x", "/x"},
		{"${PERFVIEW_TEST_UNSET:-/tmp}/perfview.sock", "/tmp/perfview.sock"},
		{"${PROVIDED}-${PERFVIEW_TEST_VAR}", "from-map-from-env"},
	}

	for _, test := range tests {
		if got := expandVars(test.input, vars); got != test.want {
			t.Errorf("expandVars(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   []string
	}{
		{
			name:   "valid",
			modify: func(*Config) {},
		},
		{
			name:   "client mode without socket path",
			modify: func(c *Config) { c.SocketPath = ""; c.ConnectPath = "/run/game.sock" },
		},
		{
			name:   "no socket at all",
			modify: func(c *Config) { c.SocketPath = "" },
			want:   []string{"socket_path is required"},
		},
		{
			name:   "zero capacity",
			modify: func(c *Config) { c.Capacity = 0 },
			want:   []string{"capacity must be positive"},
		},
		{
			name: "bad intervals",
			modify: func(c *Config) {
				c.RefreshInterval = 0
				c.SummaryInterval = -time.Second
			},
			want: []string{"refresh_interval", "summary_interval"},
		},
		{
			name:   "bad color",
			modify: func(c *Config) { c.Color = "sometimes" },
			want:   []string{"color must be one of"},
		},
		{
			name:   "bad log level",
			modify: func(c *Config) { c.Log.Level = "verbose" },
			want:   []string{"log.level"},
		},
		{
			name: "log rotation ignored without file",
			modify: func(c *Config) {
				c.Log.MaxSizeMB = 0
			},
		},
		{
			name: "log rotation checked with file",
			modify: func(c *Config) {
				c.Log.File = "/tmp/perfview.log"
				c.Log.MaxSizeMB = 0
				c.Log.MaxBackups = -1
			},
			want: []string{"log.max_size_mb", "log.max_backups"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := Default()
			cfg.SocketPath = "/tmp/perfview.sock"
			test.modify(cfg)

			err := cfg.Validate()
			if len(test.want) == 0 {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want errors containing %v", test.want)
			}
			for _, fragment := range test.want {
				if !strings.Contains(err.Error(), fragment) {
					t.Errorf("Validate() = %q, missing %q", err, fragment)
				}
			}
		})
	}
}
