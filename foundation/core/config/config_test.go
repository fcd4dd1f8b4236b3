// File: config_test.go
// Title: Configuration Unit Tests
// Description: Tests for TOML/YAML parsing, dot-notation access, defaults,
//              and environment variable overrides.
// Author: msto63
// Version: v0.1.0
// Created: 2025-11-03
// Modified: 2025-11-03

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const tomlContent = `
[device]
host = "10.0.0.5"
port = 50014
transport = "tcp"
timeout = "5s"

[shell]
sparse_cache = true
batch = ["connect", "cd /Block"]

[log]
level = "debug"
`

const yamlContent = `
device:
  host: 10.0.0.5
  port: 50014
shell:
  sparse_cache: true
`

func TestLoadFromStringTOML(t *testing.T) {
	cfg, err := LoadFromString(tomlContent, FormatTOML)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	tests := []struct {
		name  string
		check func() bool
	}{
		{"String value", func() bool { return cfg.GetString("device.host") == "10.0.0.5" }},
		{"Int value", func() bool { return cfg.GetInt("device.port") == 50014 }},
		{"Bool value", func() bool { return cfg.GetBool("shell.sparse_cache") }},
		{"Duration value", func() bool { return cfg.GetDuration("device.timeout") == 5*time.Second }},
		{"Missing with default", func() bool { return cfg.GetString("device.missing", "udp") == "udp" }},
		{"Missing int with default", func() bool { return cfg.GetInt("device.missing", 7) == 7 }},
		{"Has existing", func() bool { return cfg.Has("log.level") }},
		{"Has missing", func() bool { return !cfg.Has("log.missing") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.check() {
				t.Errorf("Check failed")
			}
		})
	}

	batch := cfg.GetStringSlice("shell.batch")
	if len(batch) != 2 || batch[0] != "connect" {
		t.Errorf("Expected batch commands, got %v", batch)
	}
}

func TestLoadFromStringYAML(t *testing.T) {
	cfg, err := LoadFromString(yamlContent, FormatYAML)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.GetString("device.host") != "10.0.0.5" {
		t.Errorf("Expected YAML host, got %q", cfg.GetString("device.host"))
	}
	if cfg.GetInt("device.port") != 50014 {
		t.Errorf("Expected YAML port, got %d", cfg.GetInt("device.port"))
	}
}

func TestLoadInvalidContent(t *testing.T) {
	if _, err := LoadFromString("not [ valid ( toml", FormatTOML); err == nil {
		t.Error("Expected parse error for invalid TOML")
	}
}

func TestFormatDetection(t *testing.T) {
	tests := []struct {
		path     string
		expected Format
	}{
		{"config.toml", FormatTOML},
		{"config.yaml", FormatYAML},
		{"config.yml", FormatYAML},
		{"config.conf", FormatTOML},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := detectFormat(tt.path); got != tt.expected {
				t.Errorf("detectFormat(%q) = %v, expected %v", tt.path, got, tt.expected)
			}
		})
	}
}

func TestEnvOverride(t *testing.T) {
	cfg, err := LoadFromString(tomlContent, FormatTOML)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	os.Setenv("MDC_DEVICE_HOST", "192.168.1.9")
	os.Setenv("MDC_DEVICE_PORT", "60000")
	defer os.Unsetenv("MDC_DEVICE_HOST")
	defer os.Unsetenv("MDC_DEVICE_PORT")

	if got := cfg.GetString("device.host"); got != "192.168.1.9" {
		t.Errorf("Expected env override, got %q", got)
	}
	if got := cfg.GetInt("device.port"); got != 60000 {
		t.Errorf("Expected env override, got %d", got)
	}
}

func TestSetAndGet(t *testing.T) {
	cfg, _ := LoadFromString("", FormatTOML)

	cfg.Set("shell.prompt", "> ")
	if got := cfg.GetString("shell.prompt"); got != "> " {
		t.Errorf("Expected set value, got %q", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mdc.toml")
	if err := os.WriteFile(path, []byte(tomlContent), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadWithOptions(path, LoadOptions{
		Format: FormatAuto,
		Defaults: map[string]interface{}{
			"extra": map[string]interface{}{"key": "value"},
		},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.GetString("extra.key") != "value" {
		t.Errorf("Expected default to be merged, got %q", cfg.GetString("extra.key"))
	}
	// Existing keys win over defaults
	if cfg.GetString("device.host") != "10.0.0.5" {
		t.Errorf("Defaults must not override file data")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/mdc.toml"); err == nil {
		t.Error("Expected error for missing file")
	}
}
