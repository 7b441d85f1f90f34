package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want options
	}{
		{"empty", nil, options{}},
		{"version", []string{"--version"}, options{showVersion: true}},
		{"quiet", []string{"--quiet"}, options{level: "error"}},
		{"verbose", []string{"--verbose"}, options{level: "debug"}},
		{"verbose debug", []string{"--verbose=debug"}, options{level: "debug"}},
		{"verbose raw", []string{"--verbose=raw"}, options{level: "debug", raw: true}},
		{"last wins", []string{"--quiet", "--verbose"}, options{level: "debug"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseArgs(tt.args)
			if err != nil {
				t.Fatalf("parseArgs(%v) error = %v", tt.args, err)
			}
			if got != tt.want {
				t.Errorf("parseArgs(%v) = %+v, want %+v", tt.args, got, tt.want)
			}
		})
	}
}

func TestParseArgs_Rejects(t *testing.T) {
	for _, args := range [][]string{
		{"--help"},
		{"-v"},
		{"--verbose=shouty"},
		{"extra"},
	} {
		if _, err := parseArgs(args); err == nil {
			t.Errorf("parseArgs(%v) should fail", args)
		}
	}
}

// TestRun_InvalidConfig verifies run fails with a broken config file.
func TestRun_InvalidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
logging:
  level: shouty
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	originalEnv := os.Getenv("FERRETD_CONFIG")
	defer os.Setenv("FERRETD_CONFIG", originalEnv)
	os.Setenv("FERRETD_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx, options{}); err == nil {
		t.Fatal("run() should fail with an invalid log level")
	}
}

// TestGetConfigPath_Default verifies default config path.
func TestGetConfigPath_Default(t *testing.T) {
	originalEnv := os.Getenv("FERRETD_CONFIG")
	defer os.Setenv("FERRETD_CONFIG", originalEnv)

	os.Unsetenv("FERRETD_CONFIG")

	if path := getConfigPath(); path != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", path, defaultConfigPath)
	}
}

// TestGetConfigPath_EnvOverride verifies environment variable override.
func TestGetConfigPath_EnvOverride(t *testing.T) {
	originalEnv := os.Getenv("FERRETD_CONFIG")
	defer os.Setenv("FERRETD_CONFIG", originalEnv)

	expected := "/custom/path/config.yaml"
	os.Setenv("FERRETD_CONFIG", expected)

	if path := getConfigPath(); path != expected {
		t.Errorf("getConfigPath() = %q, want %q", path, expected)
	}
}
