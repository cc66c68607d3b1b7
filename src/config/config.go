package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvPathEnvVar  = "ELEMENT_INSPECTOR_ENV"
	BackendEnvVar  = "BACKEND"
	DefaultHotkey  = "Ctrl+Alt+I"
	DefaultBackend = "uia"
	DefaultLogFile = "element_inspector.log"
)

type LoadOptions struct {
	BackendOverride string
	HotkeyOverride  string
}

type Config struct {
	Hotkey            string
	Backend           string
	EnableFileLogging bool
	LogFile           string
	EnableTray        bool
	EnvPath           string
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	// Sources in priority order:
	// 1) .env next to the executable
	// 2) the file named by ELEMENT_INSPECTOR_ENV
	envPath := resolveEnvPath()
	if envPath != "" {
		_ = godotenv.Load(envPath)
	}

	cfg := &Config{
		Hotkey:            getEnvWithDefault("HOTKEY", DefaultHotkey),
		Backend:           resolveBackend(opts.BackendOverride),
		EnableFileLogging: parseBool(os.Getenv("ENABLE_FILE_LOGGING"), false),
		LogFile:           getEnvWithDefault("LOG_FILE", DefaultLogFile),
		EnableTray:        parseBool(os.Getenv("ENABLE_TRAY"), true),
		EnvPath:           envPath,
	}
	if override := strings.TrimSpace(opts.HotkeyOverride); override != "" {
		cfg.Hotkey = override
	}

	return cfg, nil
}

func resolveEnvPath() string {
	if execPath, err := os.Executable(); err == nil {
		exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
		if _, err := os.Stat(exeEnv); err == nil {
			return exeEnv
		}
	}

	if alt := os.Getenv(EnvPathEnvVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBool(value string, defaultValue bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}

// resolveBackend picks the override, then BACKEND, falling back to uia for
// anything unrecognised.
func resolveBackend(override string) string {
	value := strings.TrimSpace(override)
	if value == "" {
		value = os.Getenv(BackendEnvVar)
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "win32":
		return "win32"
	default:
		return DefaultBackend
	}
}
