package config

import (
	"testing"
	"time"
)

func setRequiredSecrets(t *testing.T) {
	t.Helper()
	t.Setenv("VIEWTUBE_ACCESS_TOKEN_SECRET", "access")
	t.Setenv("VIEWTUBE_REFRESH_TOKEN_SECRET", "refresh")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredSecrets(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.AppPort != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.AppPort)
	}
	if cfg.AccessTokenTTL != 15*time.Minute {
		t.Fatalf("unexpected access TTL: %v", cfg.AccessTokenTTL)
	}
	if cfg.RefreshTokenTTL != 7*24*time.Hour {
		t.Fatalf("unexpected refresh TTL: %v", cfg.RefreshTokenTTL)
	}
	if cfg.StorageTimeout != 5*time.Second {
		t.Fatalf("unexpected storage timeout: %v", cfg.StorageTimeout)
	}
	if !cfg.CookieSecure {
		t.Fatal("cookies default to secure")
	}
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("VIEWTUBE_ACCESS_TOKEN_SECRET", "")
	t.Setenv("VIEWTUBE_REFRESH_TOKEN_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when secrets are missing")
	}
}

func TestLoadRejectsIdenticalSecrets(t *testing.T) {
	t.Setenv("VIEWTUBE_ACCESS_TOKEN_SECRET", "same")
	t.Setenv("VIEWTUBE_REFRESH_TOKEN_SECRET", "same")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for identical secrets")
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequiredSecrets(t)
	t.Setenv("VIEWTUBE_PORT", "9999")
	t.Setenv("VIEWTUBE_ACCESS_TOKEN_TTL", "30m")
	t.Setenv("VIEWTUBE_COOKIE_SECURE", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.AppPort != 9999 {
		t.Fatalf("expected port override, got %d", cfg.AppPort)
	}
	if cfg.AccessTokenTTL != 30*time.Minute {
		t.Fatalf("expected TTL override, got %v", cfg.AccessTokenTTL)
	}
	if cfg.CookieSecure {
		t.Fatal("expected cookie secure override")
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	setRequiredSecrets(t)
	t.Setenv("VIEWTUBE_PORT", "not-a-port")
	t.Setenv("VIEWTUBE_STORAGE_TIMEOUT", "eventually")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.AppPort != 8080 || cfg.StorageTimeout != 5*time.Second {
		t.Fatalf("malformed values must fall back to defaults: %+v", cfg)
	}
}
