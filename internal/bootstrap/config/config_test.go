package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
app:
  name: lupa-test
  env: test
database:
  driver: sqlite
  dsn: data/test.sqlite
camara:
  min_interval_ms: 250
  timeout_seconds: 10
ingest:
  page_size: 50
  concurrency: 4
`)

	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.App.Name != "lupa-test" {
		t.Fatalf("App.Name = %q", cfg.App.Name)
	}
	if cfg.Database.DSN != "data/test.sqlite" {
		t.Fatalf("Database.DSN = %q", cfg.Database.DSN)
	}
	if cfg.Camara.MinInterval() != 250*time.Millisecond {
		t.Fatalf("MinInterval() = %v", cfg.Camara.MinInterval())
	}
	if cfg.Camara.Timeout() != 10*time.Second {
		t.Fatalf("Timeout() = %v", cfg.Camara.Timeout())
	}
	if cfg.Ingest.PageSize != 50 || cfg.Ingest.Concurrency != 4 {
		t.Fatalf("Ingest = %+v", cfg.Ingest)
	}

	// Unset keys keep their defaults.
	if cfg.Camara.BaseURL != "https://dadosabertos.camara.leg.br/api/v2" {
		t.Fatalf("BaseURL = %q, want default", cfg.Camara.BaseURL)
	}
	if cfg.Ingest.WindowDays != 90 {
		t.Fatalf("WindowDays = %d, want default 90", cfg.Ingest.WindowDays)
	}
}

func TestLoadRejectsEmptyDSN(t *testing.T) {
	path := writeConfig(t, `
database:
  dsn: ""
`)

	if _, err := Load(context.Background(), path); err == nil {
		t.Fatal("Load() error = nil, want dsn validation error")
	}
}

func TestLoadRejectsNonPositivePageSize(t *testing.T) {
	path := writeConfig(t, `
ingest:
  page_size: 0
`)

	if _, err := Load(context.Background(), path); err == nil {
		t.Fatal("Load() error = nil, want page size validation error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(context.Background(), filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Load() error = nil, want read error for explicit missing file")
	}
}
