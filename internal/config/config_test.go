package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileCreatesTemplate(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, ".purrlog", "config.json")

	cfg, err := LoadFile(path, home)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.LogDir != filepath.Join(home, "purrlog") {
		t.Errorf("LogDir = %q, want default under home", cfg.LogDir)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("template not written: %v", err)
	}

	// The template itself must parse back to the defaults.
	again, err := LoadFile(path, home)
	if err != nil {
		t.Fatalf("LoadFile(template): %v", err)
	}
	if again != cfg {
		t.Errorf("template config = %+v, want %+v", again, cfg)
	}
}

func TestLoadFilePartialAndTilde(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, "config.json")
	content := "// comment\n{\n  // inner\n  \"log_dir\": \"~/obs\",\n  \"log_level\": \"debug\"\n}\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path, home)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.LogDir != filepath.Join(home, "obs") {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, filepath.Join(home, "obs"))
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.CatalogTitle != DefaultCatalogTitle || cfg.Color != DefaultColor {
		t.Errorf("defaults not filled: %+v", cfg)
	}
}

func TestLoadFileBadJSON(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, "config.json")
	if err := os.WriteFile(path, []byte("{bad"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path, home)
	if err == nil {
		t.Fatal("expected error for corrupt config")
	}
	if cfg.CatalogTitle != DefaultCatalogTitle {
		t.Errorf("expected defaults alongside the error, got %+v", cfg)
	}
}

func TestStripLineComments(t *testing.T) {
	got := string(stripLineComments([]byte("  // x\n{\"a\": \"// kept\"}")))
	want := "{\"a\": \"// kept\"}\n"
	if got != want {
		t.Errorf("stripLineComments = %q, want %q", got, want)
	}
}
