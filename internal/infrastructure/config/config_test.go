package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_ValidConfig(t *testing.T) {
	content := `
logging:
  level: "debug"
  format: "json"
  output: "stdout"
hotplug:
  enabled: false
developer:
  enabled: true
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want %q", cfg.Logging.Format, "json")
	}
	if cfg.Hotplug.Enabled {
		t.Error("Hotplug.Enabled = true, want false")
	}
	if !cfg.Developer.Enabled {
		t.Error("Developer.Enabled = false, want true")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v, want defaults", err)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("default Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Logging.Output != "stderr" {
		t.Errorf("default Logging.Output = %q, want %q", cfg.Logging.Output, "stderr")
	}
	if !cfg.Hotplug.Enabled {
		t.Error("default Hotplug.Enabled = false, want true")
	}
	if cfg.Developer.Enabled {
		t.Error("default Developer.Enabled = true, want false")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("logging: [not a map"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Fatal("Load() with invalid YAML should return error")
	}
}

func TestLoad_InvalidLevel(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("logging:\n  level: loud\n"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("Load() with invalid level should return error")
	}
	if !strings.Contains(err.Error(), "logging.level") {
		t.Errorf("error = %v, want mention of logging.level", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FERRETD_LOGGING_LEVEL", "warn")
	t.Setenv("FERRETD_DEVELOPER_ENABLED", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want %q (env override)", cfg.Logging.Level, "warn")
	}
	if !cfg.Developer.Enabled {
		t.Error("Developer.Enabled = false, want true (env override)")
	}
}
