package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestGetConfigDir validates config directory access
func TestGetConfigDir(t *testing.T) {
	tempDir := t.TempDir()
	if err := Init(filepath.Join(tempDir, "config.toml")); err != nil {
		t.Fatalf("Failed to initialize config: %v", err)
	}

	dir := GetConfigDir()
	if dir == "" {
		t.Fatal("Config directory should not be empty")
	}

	if _, err := os.Stat(dir); err != nil {
		t.Errorf("Config directory should exist: %v", err)
	}
}

// TestStorePaths validates the store file paths
func TestStorePaths(t *testing.T) {
	tempDir := t.TempDir()
	if err := Init(filepath.Join(tempDir, "config.toml")); err != nil {
		t.Fatalf("Failed to initialize config: %v", err)
	}

	credsPath := GetCredentialsPath()
	if credsPath == "" {
		t.Fatal("Credentials path should not be empty")
	}
	if !filepath.IsAbs(credsPath) {
		t.Error("Credentials path should be absolute")
	}

	entriesPath := GetEntriesPath()
	if entriesPath == "" {
		t.Fatal("Entries path should not be empty")
	}
	if filepath.Dir(entriesPath) != GetConfigDir() {
		t.Errorf("Entries file should live in the config dir, got %s", entriesPath)
	}
}

// TestInitWithCustomPath validates custom config path
func TestInitWithCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	customConfigPath := filepath.Join(tempDir, "custom", "path", "config.toml")

	if err := Init(customConfigPath); err != nil {
		t.Fatalf("Failed to initialize with custom path: %v", err)
	}

	dir := GetConfigDir()
	expectedDir := filepath.Join(tempDir, "custom", "path")

	if dir != expectedDir {
		t.Errorf("Expected config dir %s, got %s", expectedDir, dir)
	}
}

// TestDefaults validates default configuration values
func TestDefaults(t *testing.T) {
	tempDir := t.TempDir()
	if err := Init(filepath.Join(tempDir, "config.toml")); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	if got := GetInt("api.timeout"); got != 10 {
		t.Errorf("Expected api.timeout default 10, got %d", got)
	}
	if got := GetString("output.format"); got != "text" {
		t.Errorf("Expected output.format default text, got %s", got)
	}
	if got := GetString("log.level"); got != "info" {
		t.Errorf("Expected log.level default info, got %s", got)
	}
}

// TestConfigDirectoryCreation validates directory is created
func TestConfigDirectoryCreation(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "new", "config", "location", "config.toml")

	if err := Init(configPath); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	if _, err := os.Stat(GetConfigDir()); err != nil {
		t.Fatalf("Config directory was not created: %v", err)
	}
}
