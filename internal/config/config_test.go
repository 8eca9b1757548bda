package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "api:\n  base_url: http://localhost:9999\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:9999" {
		t.Fatalf("base_url = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Fatalf("timeout default = %v", cfg.API.Timeout)
	}
	if cfg.Stub.Driver != "sqlite" {
		t.Fatalf("stub driver default = %q", cfg.Stub.Driver)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("log level default = %q", cfg.Logging.Level)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("VETDESK_API_BASE_URL", "http://env-host:8081")
	cfg, err := Load(writeConfig(t, "api:\n  base_url: http://file-host\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != "http://env-host:8081" {
		t.Fatalf("env must win, got %q", cfg.API.BaseURL)
	}
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"empty base url", "api:\n  base_url: \"\"\n"},
		{"bad timeout", "api:\n  timeout: -1s\n"},
		{"bad stub driver", "stub:\n  driver: oracle\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.yaml)); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("explicit missing file must be an error")
	}
}

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vetdesk.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
