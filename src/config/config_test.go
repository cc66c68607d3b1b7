package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Setenv("HOTKEY", "Ctrl+Shift+T")
	t.Setenv("BACKEND", "win32")
	t.Setenv("ENABLE_FILE_LOGGING", "true")
	t.Setenv("ENABLE_TRAY", "false")
	t.Setenv("LOG_FILE", "custom.log")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Hotkey != "Ctrl+Shift+T" {
		t.Errorf("Expected Hotkey to be 'Ctrl+Shift+T', got '%s'", cfg.Hotkey)
	}
	if cfg.Backend != "win32" {
		t.Errorf("Expected Backend to be 'win32', got '%s'", cfg.Backend)
	}
	if !cfg.EnableFileLogging {
		t.Errorf("Expected EnableFileLogging to be true")
	}
	if cfg.EnableTray {
		t.Errorf("Expected EnableTray to be false")
	}
	if cfg.LogFile != "custom.log" {
		t.Errorf("Expected LogFile to be 'custom.log', got '%s'", cfg.LogFile)
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"HOTKEY", "BACKEND", "ENABLE_FILE_LOGGING", "ENABLE_TRAY", "LOG_FILE", EnvPathEnvVar} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Hotkey != DefaultHotkey || cfg.Backend != DefaultBackend || cfg.LogFile != DefaultLogFile {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.EnableFileLogging || !cfg.EnableTray {
		t.Errorf("unexpected logging/tray defaults: %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BACKEND", "win32")
	t.Setenv("HOTKEY", "Ctrl+Alt+Q")

	cfg, err := LoadWithOptions(LoadOptions{BackendOverride: "UIA", HotkeyOverride: "Alt+F9"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend != "uia" {
		t.Errorf("Backend = %q, want override uia", cfg.Backend)
	}
	if cfg.Hotkey != "Alt+F9" {
		t.Errorf("Hotkey = %q, want override", cfg.Hotkey)
	}
}

func TestLoadFromEnvFile(t *testing.T) {
	t.Setenv("HOTKEY", "")
	os.Unsetenv("HOTKEY")
	t.Setenv("BACKEND", "")
	os.Unsetenv("BACKEND")

	path := filepath.Join(t.TempDir(), "inspector.env")
	if err := os.WriteFile(path, []byte("HOTKEY=Ctrl+Alt+K\nBACKEND=win32\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvPathEnvVar, path)
	t.Cleanup(func() {
		os.Unsetenv("HOTKEY")
		os.Unsetenv("BACKEND")
	})

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.EnvPath != path {
		t.Skipf("a .env next to the test binary took precedence: %s", cfg.EnvPath)
	}
	if cfg.Hotkey != "Ctrl+Alt+K" || cfg.Backend != "win32" {
		t.Errorf("env file not applied: %+v", cfg)
	}
}
