// File: config.go
// Title: Core Configuration Management Implementation
// Description: Implements the Config type for loading, parsing, and accessing
//              configuration data from TOML and YAML files with environment
//              variable override support.
// Author: msto63
// Version: v0.1.0
// Created: 2025-11-03
// Modified: 2025-11-03
//
// Change History:
// - 2025-11-03 v0.1.0: Initial implementation with TOML/YAML support

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	mdcerror "github.com/msto63/mDC/foundation/core/error"
	"github.com/msto63/mDC/foundation/utils/stringx"
)

// Format represents the configuration file format
type Format int

const (
	// FormatTOML represents TOML format (default)
	FormatTOML Format = iota

	// FormatYAML represents YAML format
	FormatYAML

	// FormatAuto auto-detects format from file extension
	FormatAuto
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	case FormatAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// Config represents a configuration instance with thread-safe access
type Config struct {
	mu        sync.RWMutex
	data      map[string]interface{}
	filePath  string
	format    Format
	envPrefix string
	watchers  []ChangeHandler
	watcher   *fileWatcher
}

// ChangeHandler is called when configuration changes are detected
type ChangeHandler func(oldConfig, newConfig *Config)

// LoadOptions defines options for loading configuration
type LoadOptions struct {
	Format    Format
	EnvPrefix string
	Defaults  map[string]interface{}
}

// DefaultEnvPrefix is the environment variable prefix for overrides
const DefaultEnvPrefix = "MDC"

// Load loads configuration from a file with default options
func Load(filePath string) (*Config, error) {
	return LoadWithOptions(filePath, LoadOptions{
		Format:    FormatAuto,
		EnvPrefix: DefaultEnvPrefix,
	})
}

// LoadWithOptions loads configuration from a file with the given options
func LoadWithOptions(filePath string, options LoadOptions) (*Config, error) {
	if stringx.IsBlank(filePath) {
		return nil, mdcerror.New("config file path cannot be empty").
			WithCode(mdcerror.CodeConfigError).
			WithOperation("config.Load")
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, mdcerror.Wrap(err, "failed to read config file").
			WithCode(mdcerror.CodeConfigError).
			WithOperation("config.Load").
			WithDetail("filePath", filePath)
	}

	format := options.Format
	if format == FormatAuto {
		format = detectFormat(filePath)
	}

	data, err := parseContent(content, format)
	if err != nil {
		return nil, mdcerror.Wrap(err, "failed to parse config file").
			WithCode(mdcerror.CodeInvalidConfig).
			WithOperation("config.Load").
			WithDetail("filePath", filePath).
			WithDetail("format", format.String())
	}

	if options.Defaults != nil {
		data = mergeDefaults(data, options.Defaults)
	}

	envPrefix := options.EnvPrefix
	if envPrefix == "" {
		envPrefix = DefaultEnvPrefix
	}

	return &Config{
		data:      data,
		filePath:  filePath,
		format:    format,
		envPrefix: envPrefix,
	}, nil
}

// LoadFromString loads configuration from a string (primarily for tests)
func LoadFromString(content string, format Format) (*Config, error) {
	data, err := parseContent([]byte(content), format)
	if err != nil {
		return nil, mdcerror.Wrap(err, "failed to parse config content").
			WithCode(mdcerror.CodeInvalidConfig).
			WithOperation("config.LoadFromString")
	}

	return &Config{
		data:      data,
		format:    format,
		envPrefix: DefaultEnvPrefix,
	}, nil
}

// detectFormat determines the format from the file extension
func detectFormat(filePath string) Format {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// parseContent parses raw file content according to the format
func parseContent(content []byte, format Format) (map[string]interface{}, error) {
	data := make(map[string]interface{})

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(content, &data); err != nil {
			return nil, fmt.Errorf("yaml parse error: %w", err)
		}
	default:
		if err := toml.Unmarshal(content, &data); err != nil {
			return nil, fmt.Errorf("toml parse error: %w", err)
		}
	}

	return data, nil
}

// mergeDefaults fills missing top-level keys from the defaults map
func mergeDefaults(data, defaults map[string]interface{}) map[string]interface{} {
	for k, v := range defaults {
		if _, exists := data[k]; !exists {
			data[k] = v
		}
	}
	return data
}

// GetString returns a string value by dot-notation key
func (c *Config) GetString(key string, defaultValue ...string) string {
	if env := c.getEnvValue(key); env != "" {
		return env
	}

	value := c.getValue(key)
	if value == nil {
		if len(defaultValue) > 0 {
			return defaultValue[0]
		}
		return ""
	}

	return fmt.Sprintf("%v", value)
}

// GetInt returns an integer value by dot-notation key
func (c *Config) GetInt(key string, defaultValue ...int) int {
	fallback := 0
	if len(defaultValue) > 0 {
		fallback = defaultValue[0]
	}

	if env := c.getEnvValue(key); env != "" {
		if parsed, err := strconv.Atoi(env); err == nil {
			return parsed
		}
		return fallback
	}

	switch v := c.getValue(key).(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}

	return fallback
}

// GetBool returns a boolean value by dot-notation key
func (c *Config) GetBool(key string, defaultValue ...bool) bool {
	fallback := false
	if len(defaultValue) > 0 {
		fallback = defaultValue[0]
	}

	if env := c.getEnvValue(key); env != "" {
		if parsed, err := strconv.ParseBool(env); err == nil {
			return parsed
		}
		return fallback
	}

	switch v := c.getValue(key).(type) {
	case bool:
		return v
	case string:
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}

	return fallback
}

// GetDuration returns a duration value by dot-notation key
func (c *Config) GetDuration(key string, defaultValue ...time.Duration) time.Duration {
	fallback := time.Duration(0)
	if len(defaultValue) > 0 {
		fallback = defaultValue[0]
	}

	raw := c.GetString(key)
	if raw == "" {
		return fallback
	}

	if parsed, err := time.ParseDuration(raw); err == nil {
		return parsed
	}

	// Bare numbers are interpreted as seconds
	if seconds, err := strconv.Atoi(raw); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return fallback
}

// GetStringSlice returns a string slice value by dot-notation key
func (c *Config) GetStringSlice(key string, defaultValue ...[]string) []string {
	var fallback []string
	if len(defaultValue) > 0 {
		fallback = defaultValue[0]
	}

	switch v := c.getValue(key).(type) {
	case []interface{}:
		result := make([]string, 0, len(v))
		for _, item := range v {
			result = append(result, fmt.Sprintf("%v", item))
		}
		return result
	case []string:
		return v
	}

	return fallback
}

// getValue walks the data map by dot-notation key
func (c *Config) getValue(key string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	parts := strings.Split(key, ".")
	current := interface{}(c.data)

	for _, part := range parts {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil
		}
		current, ok = m[part]
		if !ok {
			return nil
		}
	}

	return current
}

// getEnvValue looks up the environment override for a key
// ("device.host" with prefix MDC becomes MDC_DEVICE_HOST)
func (c *Config) getEnvValue(key string) string {
	if c.envPrefix == "" {
		return ""
	}

	envKey := c.envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	return os.Getenv(envKey)
}

// Has checks whether a key exists in the configuration or environment
func (c *Config) Has(key string) bool {
	return c.getEnvValue(key) != "" || c.getValue(key) != nil
}

// Set sets a top-level or nested value by dot-notation key
func (c *Config) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	parts := strings.Split(key, ".")
	current := c.data

	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			current[part] = next
		}
		current = next
	}

	current[parts[len(parts)-1]] = value
}

// FilePath returns the path this configuration was loaded from
func (c *Config) FilePath() string {
	return c.filePath
}

// OnChange registers a handler invoked after a successful reload
func (c *Config) OnChange(handler ChangeHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.watchers = append(c.watchers, handler)
}

// snapshot returns a detached copy of the configuration data
func (c *Config) snapshot() *Config {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return &Config{
		data:      deepCopyMap(c.data),
		format:    c.format,
		envPrefix: c.envPrefix,
	}
}

// deepCopyMap recursively copies a configuration map
func deepCopyMap(src map[string]interface{}) map[string]interface{} {
	dst := make(map[string]interface{}, len(src))
	for k, v := range src {
		if nested, ok := v.(map[string]interface{}); ok {
			dst[k] = deepCopyMap(nested)
		} else {
			dst[k] = v
		}
	}
	return dst
}
