package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "storage:\n  dsn: postgres://localhost/auth\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.Env != "dev" {
		t.Fatalf("App.Env = %q", cfg.App.Env)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Cache.Kind != "memory" {
		t.Fatalf("Cache.Kind = %q", cfg.Cache.Kind)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("Log.Level = %q", cfg.Log.Level)
	}
	if got := cfg.ClientCacheTTL(); got != 2*time.Minute {
		t.Fatalf("ClientCacheTTL = %v", got)
	}
}

func TestLoadClients(t *testing.T) {
	path := writeConfig(t, `
storage:
  dsn: postgres://localhost/auth
clients:
  - client_id: web-app
    client_secret: s3cret
    grant_types: [authorization_code, refresh_token]
    scopes: [openid, profile]
    token_settings:
      access_token_ttl_seconds: 900
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Clients) != 1 {
		t.Fatalf("Clients = %d", len(cfg.Clients))
	}
	c := cfg.Clients[0]
	if c.ClientID != "web-app" || c.ClientSecret != "s3cret" {
		t.Fatalf("client = %+v", c)
	}
	if len(c.GrantTypes) != 2 || c.GrantTypes[0] != "authorization_code" {
		t.Fatalf("grant types = %v", c.GrantTypes)
	}
}

func TestLoadEnvDSNOverride(t *testing.T) {
	path := writeConfig(t, "storage:\n  dsn: postgres://yaml/auth\n")
	t.Setenv("DATABASE_URL", "postgres://env/auth")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.DSN != "postgres://env/auth" {
		t.Fatalf("DSN = %q", cfg.Storage.DSN)
	}
}
