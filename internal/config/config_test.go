package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.MaxBookmarks != 5000 {
		t.Errorf("MaxBookmarks = %d, want 5000", cfg.MaxBookmarks)
	}
	if cfg.MaxFileSize != 10*1024*1024 {
		t.Errorf("MaxFileSize = %d, want 10MiB", cfg.MaxFileSize)
	}
	if cfg.User != "local" {
		t.Errorf("User = %q, want local", cfg.User)
	}
	if cfg.ExportBatchSize != 100 {
		t.Errorf("ExportBatchSize = %d, want 100", cfg.ExportBatchSize)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("max_bookmarks: 10\nuser: alice\nfetch_timeout: 5s\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.MaxBookmarks != 10 {
		t.Errorf("MaxBookmarks = %d, want 10", cfg.MaxBookmarks)
	}
	if cfg.User != "alice" {
		t.Errorf("User = %q, want alice", cfg.User)
	}
	if cfg.FetchTimeout.Std() != 5*time.Second {
		t.Errorf("FetchTimeout = %v, want 5s", cfg.FetchTimeout.Std())
	}
	// Untouched keys keep their defaults.
	if cfg.ExportBatchSize != 100 {
		t.Errorf("ExportBatchSize = %d, want 100", cfg.ExportBatchSize)
	}
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("max_bookmarks: [oops"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() succeeded on invalid YAML, want error")
	}
}
