package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8084 {
		t.Errorf("default port = %d, want 8084", cfg.Server.Port)
	}
	if !cfg.Pipeline.ParetoThreshold.Equal(decimal.RequireFromString("0.7")) {
		t.Errorf("default threshold = %s, want 0.7", cfg.Pipeline.ParetoThreshold)
	}
	if cfg.Upload.MaxBytes != 32<<20 {
		t.Errorf("default upload limit = %d", cfg.Upload.MaxBytes)
	}
	if cfg.Address() != "localhost:8084" {
		t.Errorf("Address() = %q", cfg.Address())
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("PIPELINE_PARETO_THRESHOLD", "0.8")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SECURITY_ALLOWED_ORIGINS", "http://a,http://b")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.Server.Port)
	}
	if !cfg.Pipeline.ParetoThreshold.Equal(decimal.RequireFromString("0.8")) {
		t.Errorf("threshold = %s, want 0.8", cfg.Pipeline.ParetoThreshold)
	}
	if cfg.Logger.Format != "text" {
		t.Errorf("log format = %q, want text", cfg.Logger.Format)
	}
	if len(cfg.Security.AllowedOrigins) != 2 {
		t.Errorf("allowed origins = %v", cfg.Security.AllowedOrigins)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"port out of range", "SERVER_PORT", "70000"},
		{"threshold above one", "PIPELINE_PARETO_THRESHOLD", "1.5"},
		{"threshold zero", "PIPELINE_PARETO_THRESHOLD", "0"},
		{"threshold not a number", "PIPELINE_PARETO_THRESHOLD", "most"},
		{"log level", "LOG_LEVEL", "verbose"},
		{"log format", "LOG_FORMAT", "xml"},
		{"upload limit", "UPLOAD_MAX_BYTES", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%s should fail", tt.key, tt.value)
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("ITEMS_FINDER_TEST_KEY=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("ITEMS_FINDER_TEST_KEY") })

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile() error = %v", err)
	}
	if got := os.Getenv("ITEMS_FINDER_TEST_KEY"); got != "from-file" {
		t.Errorf("ITEMS_FINDER_TEST_KEY = %q, want from-file", got)
	}

	if err := LoadEnvFile(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("missing env file should be ignored, got %v", err)
	}
}
