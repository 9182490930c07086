package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SweepSchedule != DefaultSweepSchedule {
		t.Errorf("sweep schedule = %q, want default", cfg.SweepSchedule)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("log level = %q, want info", cfg.LogLevel)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := &Config{
		DBPath:        "/data/cmms.db",
		FilesDir:      "/data/files",
		SweepSchedule: "*/30 * * * *",
		ActorID:       4,
		LogLevel:      "debug",
	}

	if err := Save(dir, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *got != *want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestLoadRejectsInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	cmmsDir := filepath.Join(dir, ".cmms")
	if err := os.MkdirAll(cmmsDir, 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(cmmsDir, "config.json"), []byte("{not json"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if _, err := Load(dir); err == nil {
		t.Fatal("expected a parse error")
	}
}
