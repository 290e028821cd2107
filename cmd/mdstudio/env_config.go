package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-mdstudio/internal/config"
)

// envPrefix marks the studio's environment variables.
const envPrefix = "MDSTUDIO_"

// envConfig holds configuration from environment variables.
// Provides container-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath     string        // MDSTUDIO_CONFIG
	Host           string        // MDSTUDIO_HOST, then HOST
	Port           *int          // MDSTUDIO_PORT, then PORT
	Root           string        // MDSTUDIO_ROOT: custom web client directory
	StorePath      string        // MDSTUDIO_STORE: bbolt file
	Ephemeral      *bool         // MDSTUDIO_EPHEMERAL
	HighlightStyle string        // MDSTUDIO_HIGHLIGHT_STYLE
	AutosaveDelay  time.Duration // MDSTUDIO_AUTOSAVE_DELAY
	PrintTimeout   time.Duration // MDSTUDIO_PRINT_TIMEOUT
	PageSize       string        // MDSTUDIO_PAGE_SIZE
	Workers        int           // MDSTUDIO_WORKERS

	// Invalid lists variables whose values could not be parsed.
	Invalid []string
}

// knownEnvVars lists valid MDSTUDIO_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MDSTUDIO_CONFIG":          true,
	"MDSTUDIO_HOST":            true,
	"MDSTUDIO_PORT":            true,
	"MDSTUDIO_ROOT":            true,
	"MDSTUDIO_STORE":           true,
	"MDSTUDIO_EPHEMERAL":       true,
	"MDSTUDIO_HIGHLIGHT_STYLE": true,
	"MDSTUDIO_AUTOSAVE_DELAY":  true,
	"MDSTUDIO_PRINT_TIMEOUT":   true,
	"MDSTUDIO_PAGE_SIZE":       true,
	"MDSTUDIO_WORKERS":         true,
	"MDSTUDIO_CONTAINER":       true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
// Unparseable values are skipped and reported in Invalid.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath:     getenv("MDSTUDIO_CONFIG"),
		Host:           firstNonEmpty(getenv("MDSTUDIO_HOST"), getenv("HOST")),
		Root:           getenv("MDSTUDIO_ROOT"),
		StorePath:      getenv("MDSTUDIO_STORE"),
		HighlightStyle: getenv("MDSTUDIO_HIGHLIGHT_STYLE"),
		PageSize:       getenv("MDSTUDIO_PAGE_SIZE"),
	}

	portName, port := "MDSTUDIO_PORT", getenv("MDSTUDIO_PORT")
	if port == "" {
		portName, port = "PORT", getenv("PORT")
	}
	if port != "" {
		if p, err := strconv.Atoi(strings.TrimSpace(port)); err == nil && p >= 0 && p <= config.MaxPort {
			cfg.Port = &p
		} else {
			cfg.Invalid = append(cfg.Invalid, portName)
		}
	}

	if v := getenv("MDSTUDIO_EPHEMERAL"); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			cfg.Ephemeral = &b
		} else {
			cfg.Invalid = append(cfg.Invalid, "MDSTUDIO_EPHEMERAL")
		}
	}

	cfg.AutosaveDelay = parsePositiveDuration(getenv, "MDSTUDIO_AUTOSAVE_DELAY", &cfg.Invalid)
	cfg.PrintTimeout = parsePositiveDuration(getenv, "MDSTUDIO_PRINT_TIMEOUT", &cfg.Invalid)

	if v := getenv("MDSTUDIO_WORKERS"); v != "" {
		if w, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && w > 0 {
			cfg.Workers = w
		} else {
			cfg.Invalid = append(cfg.Invalid, "MDSTUDIO_WORKERS")
		}
	}

	return cfg
}

func parsePositiveDuration(getenv func(string) string, name string, invalid *[]string) time.Duration {
	v := getenv(name)
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil || d <= 0 {
		*invalid = append(*invalid, name)
		return 0
	}
	return d
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// warnEnv logs unrecognized MDSTUDIO_* variables and unparseable values.
// Helps catch typos like MDSTUDIO_PROT instead of MDSTUDIO_PORT.
func warnEnv(logger *slog.Logger, environ []string, env *envConfig) {
	for _, kv := range environ {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, envPrefix) && !knownEnvVars[name] {
			logger.Warn(fmt.Sprintf("unknown environment variable %s (typo?)", name))
		}
	}
	for _, name := range env.Invalid {
		logger.Warn(fmt.Sprintf("ignoring invalid value of %s", name))
	}
}

// applyEnvConfig applies environment variable values to config.
// Set variables override the config file; flags are applied afterwards.
// This ensures: CLI flags > env vars > config file > defaults
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Host != "" {
		cfg.Server.Host = env.Host
	}
	if env.Port != nil {
		cfg.Server.Port = *env.Port
	}
	if env.Root != "" {
		cfg.Server.Root = env.Root
	}
	if env.HighlightStyle != "" {
		cfg.Server.HighlightStyle = env.HighlightStyle
	}
	if env.StorePath != "" {
		cfg.Store.Path = env.StorePath
	}
	if env.Ephemeral != nil {
		cfg.Store.Ephemeral = *env.Ephemeral
	}
	if env.AutosaveDelay > 0 {
		cfg.Editor.AutosaveDelay = config.Duration(env.AutosaveDelay)
	}
	if env.PrintTimeout > 0 {
		cfg.Print.Timeout = config.Duration(env.PrintTimeout)
	}
	if env.PageSize != "" {
		cfg.Print.PageSize = env.PageSize
	}
	if env.Workers > 0 {
		cfg.Print.Workers = env.Workers
	}
}
