package utils

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("MASTERPLAN_DB_PATH", "/tmp/plots.db")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.SyncAddr != ":7070" {
		t.Fatalf("unexpected addrs: %q %q", cfg.HTTPAddr, cfg.SyncAddr)
	}
	if cfg.Store != StoreFile || cfg.DataPath != "data/plots.json" {
		t.Fatalf("unexpected store: %q %q", cfg.Store, cfg.DataPath)
	}
	if cfg.ImageMaxAge != time.Hour {
		t.Fatalf("unexpected max age: %s", cfg.ImageMaxAge)
	}
	if cfg.DBPath != "/tmp/plots.db" {
		t.Fatalf("unexpected db path: %q", cfg.DBPath)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("MASTERPLAN_STORE", "sqlite")
	t.Setenv("MASTERPLAN_IMAGE_MAX_AGE", "10m")
	t.Setenv("MASTERPLAN_TRUSTED_PROXIES", "10.0.0.1,10.0.0.2")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Store != StoreSQLite || cfg.ImageMaxAge != 10*time.Minute {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if len(cfg.TrustedProxies) != 2 || cfg.TrustedProxies[1] != "10.0.0.2" {
		t.Fatalf("unexpected proxies: %v", cfg.TrustedProxies)
	}
	if cfg.DBPath == "" {
		t.Fatal("expected default db path")
	}
}

func TestLoadConfigRejectsUnknownStore(t *testing.T) {
	t.Setenv("MASTERPLAN_STORE", "redis")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for unknown store")
	}
}
