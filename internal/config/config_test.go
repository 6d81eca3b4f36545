package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.SES.Region != "us-east-1" {
		t.Errorf("expected default region us-east-1, got %s", cfg.SES.Region)
	}
	if cfg.Tracking.TokenTTLHours != 72 {
		t.Errorf("expected default token TTL 72h, got %d", cfg.Tracking.TokenTTLHours)
	}
	if cfg.SES.Configured() {
		t.Error("SES should not be configured without credentials")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9090
tracking:
  public_base_url: https://training.example.com
  signing_key: test-key
  token_ttl_hours: 24
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Tracking.PublicBaseURL != "https://training.example.com" {
		t.Errorf("unexpected base url %s", cfg.Tracking.PublicBaseURL)
	}
	// Untouched sections still get defaults
	if cfg.SES.TimeoutSeconds != 30 {
		t.Errorf("expected default SES timeout, got %d", cfg.SES.TimeoutSeconds)
	}
}

func TestLoadMissingFileIsNotFatal(t *testing.T) {
	cfg, err := Load("/nonexistent/config.yaml")
	if err != nil {
		t.Fatalf("missing file should not error, got %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected defaults, got port %d", cfg.Server.Port)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://test@localhost/portal")
	t.Setenv("TRACKING_SIGNING_KEY", "env-key")
	t.Setenv("AWS_SES_ACCESS_KEY", "AKIATEST")
	t.Setenv("AWS_SES_SECRET_KEY", "secret")

	cfg, err := LoadFromEnv("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database.URL != "postgres://test@localhost/portal" {
		t.Errorf("DATABASE_URL override not applied: %s", cfg.Database.URL)
	}
	if cfg.Tracking.SigningKey != "env-key" {
		t.Errorf("signing key override not applied")
	}
	if !cfg.SES.Configured() {
		t.Error("SES should be configured with env credentials")
	}
}
