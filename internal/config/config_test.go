package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFrom(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
		if err != nil {
			t.Fatal(err)
		}
		if cfg.DataDir == "" {
			t.Error("expected a default data dir")
		}
		if cfg.LogLevel != "info" {
			t.Errorf("expected default log level info, got %q", cfg.LogLevel)
		}
	})

	t.Run("file values override defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := "data_dir = \"/srv/vaultry\"\nlog_level = \"debug\"\n\n[ui]\naccent = \"39\"\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadFrom(path)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.DataDir != "/srv/vaultry" || cfg.LogLevel != "debug" {
			t.Errorf("unexpected config: %+v", cfg)
		}
		if cfg.UI.Accent != "39" {
			t.Errorf("unexpected accent: %q", cfg.UI.Accent)
		}
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("data_dir = \"/from/file\"\n"), 0644); err != nil {
			t.Fatal(err)
		}
		t.Setenv("VAULTRY_DATA_DIR", "/from/env")

		cfg, err := LoadFrom(path)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.DataDir != "/from/env" {
			t.Errorf("expected env to win, got %q", cfg.DataDir)
		}
	})

	t.Run("invalid toml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("data_dir = ["), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadFrom(path); err == nil {
			t.Error("expected parse error")
		}
	})
}

func TestDatabasePath(t *testing.T) {
	cfg := &Config{DataDir: "/data"}
	if got := cfg.DatabasePath(); got != filepath.Join("/data", "vaultry.db") {
		t.Errorf("unexpected db path %q", got)
	}
}
