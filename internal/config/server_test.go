package config

import (
	"testing"
	"time"
)

func TestLoadServerConfig_Defaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("SESSION_MAX_AGE", "")
	t.Setenv("BACKEND_TIMEOUT", "")
	t.Setenv("DIRECTORY_REFRESH_INTERVAL", "")

	cfg := LoadServerConfig()

	if cfg.Environment != EnvDevelopment {
		t.Errorf("expected development environment, got %s", cfg.Environment)
	}
	if cfg.SessionMaxAge != 86400 {
		t.Errorf("expected SessionMaxAge 86400, got %d", cfg.SessionMaxAge)
	}
	if cfg.BackendTimeout != 5*time.Second {
		t.Errorf("expected BackendTimeout 5s, got %v", cfg.BackendTimeout)
	}
	if cfg.DirectoryRefreshInterval != 120*time.Second {
		t.Errorf("expected DirectoryRefreshInterval 120s, got %v", cfg.DirectoryRefreshInterval)
	}
	if cfg.SecureCookies {
		t.Error("expected SecureCookies false outside production")
	}
	if cfg.LoginRateLimit != 10 {
		t.Errorf("expected LoginRateLimit 10, got %d", cfg.LoginRateLimit)
	}
}

func TestLoadServerConfig_Production(t *testing.T) {
	t.Setenv("ENV", "production")

	cfg := LoadServerConfig()

	if cfg.Environment != EnvProduction {
		t.Errorf("expected production environment, got %s", cfg.Environment)
	}
	if !cfg.SecureCookies {
		t.Error("expected SecureCookies true in production")
	}
}

func TestLoadServerConfig_Overrides(t *testing.T) {
	t.Setenv("ENV", "staging")
	t.Setenv("LISTEN_ADDR", ":9090")
	t.Setenv("DIRECTORY_REFRESH_INTERVAL", "30s")
	t.Setenv("BACKEND_TIMEOUT", "2s")
	t.Setenv("SESSION_MAX_AGE", "-5")

	cfg := LoadServerConfig()

	if cfg.Environment != EnvStaging {
		t.Errorf("expected staging environment, got %s", cfg.Environment)
	}
	if cfg.ListenAddr != ":9090" {
		t.Errorf("expected listen addr :9090, got %s", cfg.ListenAddr)
	}
	if cfg.DirectoryRefreshInterval != 30*time.Second {
		t.Errorf("expected refresh interval 30s, got %v", cfg.DirectoryRefreshInterval)
	}
	if cfg.BackendTimeout != 2*time.Second {
		t.Errorf("expected backend timeout 2s, got %v", cfg.BackendTimeout)
	}
	if cfg.SessionMaxAge != 86400 {
		t.Errorf("expected negative max age replaced by default, got %d", cfg.SessionMaxAge)
	}
}

func TestServerConfig_Validate(t *testing.T) {
	cfg := ServerConfig{}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing identity backend URL")
	}

	cfg.IdentityBackendURL = "http://identity.internal"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing directory backend URL")
	}

	cfg.DirectoryBackendURL = "http://directory.internal"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for short session secret")
	}

	cfg.SessionSecret = []byte("test-secret-that-is-at-least-32-bytes-long")
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
