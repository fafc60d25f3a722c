package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	cfg := &Config{DefaultProfile: "work", ReplyDelayMS: 200, Seed: 42}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.DefaultProfile != "work" {
		t.Errorf("DefaultProfile = %q, want %q", loaded.DefaultProfile, "work")
	}
	if loaded.Seed != 42 {
		t.Errorf("Seed = %d, want 42", loaded.Seed)
	}
	if loaded.ReplyDelay() != 200*time.Millisecond {
		t.Errorf("ReplyDelay() = %v, want 200ms", loaded.ReplyDelay())
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load("/nonexistent/config.toml")
	if err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestLoadOrDefaultMissing(t *testing.T) {
	cfg := LoadOrDefault("/nonexistent/config.toml")
	if cfg.DefaultProfile != "main" {
		t.Errorf("DefaultProfile = %q, want main", cfg.DefaultProfile)
	}
	if cfg.TypingDelay() != 500*time.Millisecond {
		t.Errorf("TypingDelay() = %v, want 500ms", cfg.TypingDelay())
	}
}

func TestDelayFallbacks(t *testing.T) {
	var cfg Config
	if cfg.ReplyDelay() != 1500*time.Millisecond {
		t.Errorf("zero ReplyDelay() = %v, want 1500ms fallback", cfg.ReplyDelay())
	}
	if cfg.CallTick() != time.Second {
		t.Errorf("zero CallTick() = %v, want 1s fallback", cfg.CallTick())
	}
}

func TestSavePermissions(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	if err := Save(path, Default()); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file permission = %o, want 0600", perm)
	}
}
