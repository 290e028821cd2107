// Package config loads the YAML configuration of the studio.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mdstudio/internal/clipboard"
	"github.com/alnah/go-mdstudio/internal/fileutil"
	"github.com/alnah/go-mdstudio/internal/pdf"
	"github.com/alnah/go-mdstudio/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppName names the per-user config and data directories.
const AppName = "go-mdstudio"

// Listen defaults. HOST and PORT in the environment override them.
const (
	DefaultHost = "0.0.0.0"
	DefaultPort = 3001
)

// Field length limits.
const (
	MaxHostLength  = 253  // DNS name
	MaxPathLength  = 4096 // PATH_MAX
	MaxStyleLength = 1000 // one CSS declaration list
	MaxStyleName   = 50
)

// Range limits.
const (
	MaxPort    = 65535
	MaxWorkers = 8
)

// Config holds all configuration of the studio.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Store     StoreConfig     `yaml:"store"`
	Editor    EditorConfig    `yaml:"editor"`
	Clipboard ClipboardConfig `yaml:"clipboard"`
	Print     PrintConfig     `yaml:"print"`
}

// ServerConfig defines the HTTP listener and static files.
type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	Root           string `yaml:"root"`           // Custom web client directory (empty = embedded)
	HighlightStyle string `yaml:"highlightStyle"` // chroma style name (empty = github)
}

// StoreConfig defines where the document and theme persist.
type StoreConfig struct {
	Path      string `yaml:"path"`      // bbolt file (empty = user data directory)
	Ephemeral bool   `yaml:"ephemeral"` // keep state in memory only
	Quota     int    `yaml:"quota"`     // bytes, ephemeral store only (0 = unlimited)
}

// EditorConfig defines editing behavior.
type EditorConfig struct {
	AutosaveDelay Duration `yaml:"autosaveDelay"` // default 400ms
	SyncScroll    *bool    `yaml:"syncScroll"`    // default true
	HistoryLimit  int      `yaml:"historyLimit"`  // default 100
}

// ClipboardConfig defines the copy pipeline.
type ClipboardConfig struct {
	ResetDelay        Duration          `yaml:"resetDelay"`        // default 1500ms
	FailureResetDelay Duration          `yaml:"failureResetDelay"` // default 2000ms
	Styles            map[string]string `yaml:"styles"`            // overrides keyed by tag, base, inline, code, section
}

// PrintConfig defines PDF printing.
type PrintConfig struct {
	Timeout  Duration `yaml:"timeout"`  // default 30s
	PageSize string   `yaml:"pageSize"` // "letter", "a4", "legal" (default: "letter")
	Margin   float64  `yaml:"margin"`   // inches (default: 0.5)
	Workers  int      `yaml:"workers"`  // browser pool size (0 = auto)
}

// Duration is a time.Duration written as a Go duration string ("400ms").
type Duration time.Duration

// UnmarshalYAML parses a duration string. A bare integer is milliseconds.
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		parsed, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: duration %q", ErrInvalidValue, v)
		}
		*d = Duration(parsed)
	case int:
		*d = Duration(time.Duration(v) * time.Millisecond)
	case int64:
		*d = Duration(time.Duration(v) * time.Millisecond)
	case uint64:
		*d = Duration(time.Duration(v) * time.Millisecond)
	case nil:
		*d = 0
	default:
		return fmt.Errorf("%w: duration %v", ErrInvalidValue, raw)
	}
	return nil
}

// MarshalYAML writes the duration string.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Validate checks ranges and field lengths.
// Called automatically by LoadConfig, but available for callers that
// assemble a Config from flags and environment.
func (c *Config) Validate() error {
	if err := validateFieldLength("server.host", c.Server.Host, MaxHostLength); err != nil {
		return err
	}
	if c.Server.Port < 0 || c.Server.Port > MaxPort {
		return fmt.Errorf("%w: server.port must be between 0 and %d, got %d", ErrInvalidValue, MaxPort, c.Server.Port)
	}
	if err := validateFieldLength("server.root", c.Server.Root, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("server.highlightStyle", c.Server.HighlightStyle, MaxStyleName); err != nil {
		return err
	}

	if err := validateFieldLength("store.path", c.Store.Path, MaxPathLength); err != nil {
		return err
	}
	if c.Store.Quota < 0 {
		return fmt.Errorf("%w: store.quota must not be negative, got %d", ErrInvalidValue, c.Store.Quota)
	}

	if err := validatePositive("editor.autosaveDelay", c.Editor.AutosaveDelay); err != nil {
		return err
	}
	if c.Editor.HistoryLimit < 0 {
		return fmt.Errorf("%w: editor.historyLimit must not be negative, got %d", ErrInvalidValue, c.Editor.HistoryLimit)
	}

	if err := validatePositive("clipboard.resetDelay", c.Clipboard.ResetDelay); err != nil {
		return err
	}
	if err := validatePositive("clipboard.failureResetDelay", c.Clipboard.FailureResetDelay); err != nil {
		return err
	}
	for key, decls := range c.Clipboard.Styles {
		if err := validateFieldLength("clipboard.styles."+key, decls, MaxStyleLength); err != nil {
			return err
		}
	}
	if _, err := clipboard.DefaultStyleTable().WithOverrides(c.Clipboard.Styles); err != nil {
		return fmt.Errorf("clipboard.styles: %w", err)
	}

	if err := validatePositive("print.timeout", c.Print.Timeout); err != nil {
		return err
	}
	if err := c.PageSettings().Validate(); err != nil {
		return fmt.Errorf("print: %w", err)
	}
	if c.Print.Workers < 0 || c.Print.Workers > MaxWorkers {
		return fmt.Errorf("%w: print.workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Print.Workers)
	}

	return nil
}

// PageSettings returns the print page settings.
func (c *Config) PageSettings() pdf.PageSettings {
	return pdf.PageSettings{Size: c.Print.PageSize, Margin: c.Print.Margin}
}

// SyncScrollEnabled reports whether the preview follows the editor.
func (c *Config) SyncScrollEnabled() bool {
	return c.Editor.SyncScroll == nil || *c.Editor.SyncScroll
}

// Addr returns host:port of the listener.
func (c *Config) Addr() string {
	host := c.Server.Host
	if host == "" {
		host = DefaultHost
	}
	return fmt.Sprintf("%s:%d", host, c.Server.Port)
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// validatePositive rejects negative durations; zero means the default.
func validatePositive(fieldName string, d Duration) error {
	if d < 0 {
		return fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidValue, fieldName, d.Std())
	}
	return nil
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Host: DefaultHost, Port: DefaultPort},
	}
}

// DefaultStorePath returns the bbolt file under the user data directory.
func DefaultStorePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config directory: %w", err)
	}
	return filepath.Join(dir, AppName, "studio.db"), nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields absent from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// SearchPaths lists where a config name is looked up, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, AppName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries the current directory, then ~/.config/go-mdstudio/, each with .yaml
// then .yml.
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
