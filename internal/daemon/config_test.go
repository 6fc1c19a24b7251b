package daemon

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "127.0.0.1")
	}
	if cfg.API.Port != 8420 {
		t.Errorf("API.Port = %d, want %d", cfg.API.Port, 8420)
	}
	if cfg.Storage.Dir == "" {
		t.Error("Storage.Dir should have a default")
	}
	if !cfg.API.EnableMetrics {
		t.Error("EnableMetrics should default to true")
	}
}

func TestLoadConfig_NoFile(t *testing.T) {
	t.Setenv("DRINKWISE_HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.API.Port != 8420 {
		t.Errorf("missing config file should fall back to defaults, got port %d", cfg.API.Port)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("DRINKWISE_HOME", home)

	conf := `
[api]
host = "0.0.0.0"
port = 9000
enable_metrics = false
`
	if err := os.WriteFile(filepath.Join(home, "config.toml"), []byte(conf), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.API.Host != "0.0.0.0" {
		t.Errorf("API.Host = %q, want 0.0.0.0", cfg.API.Host)
	}
	if cfg.API.Port != 9000 {
		t.Errorf("API.Port = %d, want 9000", cfg.API.Port)
	}
	if cfg.API.EnableMetrics {
		t.Error("EnableMetrics should be overridden to false")
	}
	// Sections absent from the file keep their defaults
	if cfg.Storage.Dir == "" {
		t.Error("Storage.Dir should keep its default")
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	t.Setenv("DRINKWISE_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.API.Port = 9999
	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() error: %v", err)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if loaded.API.Port != 9999 {
		t.Errorf("round-tripped port = %d, want 9999", loaded.API.Port)
	}
}

func TestHome_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DRINKWISE_HOME", dir)
	if got := Home(); got != dir {
		t.Errorf("Home() = %q, want %q", got, dir)
	}
}
