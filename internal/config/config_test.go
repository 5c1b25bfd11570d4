package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tally/internal/config"
)

// ─────────────────────────────────────────────────────────────
// Config loading tests
// ─────────────────────────────────────────────────────────────

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Valid(t *testing.T) {
	path := writeConfig(t, `
data_dir: /tmp/tally-test
default_count: 5
extension: yaml
schemas:
  - name: weight
    fields:
      - name: when
        type: datetime
      - name: pounds
        type: number
  - name: remote
    source:
      type: sql
      driver: postgres
      dsn: "postgres://localhost/tally?sslmode=disable"
      table: remote_entries
    fields:
      - name: at
        type: datetime
      - name: value
        type: number
`)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if got := cfg.SchemaNames(); len(got) != 2 || got[0] != "weight" || got[1] != "remote" {
		t.Errorf("wrong schema names: %v", got)
	}
	if cfg.DefaultCount != 5 {
		t.Errorf("expected default_count 5, got %d", cfg.DefaultCount)
	}
	if got := cfg.DatafilePath("weight"); got != filepath.Join("/tmp/tally-test", "weight.yaml") {
		t.Errorf("wrong datafile path: %q", got)
	}

	sc, err := cfg.SourceFor("weight")
	if err != nil {
		t.Fatalf("source for weight: %v", err)
	}
	if sc.Type != "file" {
		t.Errorf("weight should default to the file source, got %q", sc.Type)
	}

	sc, err = cfg.SourceFor("remote")
	if err != nil {
		t.Fatalf("source for remote: %v", err)
	}
	if sc.Type != "sql" || sc.Table != "remote_entries" {
		t.Errorf("remote source override not honored: %+v", sc)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
schemas:
  - name: weight
    fields:
      - name: when
        type: datetime
      - name: pounds
        type: number
`)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DefaultCount != 10 {
		t.Errorf("expected default count 10, got %d", cfg.DefaultCount)
	}
	if cfg.Extension != "json" {
		t.Errorf("expected json extension, got %q", cfg.Extension)
	}
	if cfg.DataDir == "" || cfg.Cache.Path == "" {
		t.Error("data_dir and cache.path should default to XDG locations")
	}
	if cfg.Cache.RebuildSchedule != "@hourly" {
		t.Errorf("expected @hourly rebuild schedule, got %q", cfg.Cache.RebuildSchedule)
	}
}

func TestLoad_RejectsAmbiguousSchema(t *testing.T) {
	path := writeConfig(t, `
schemas:
  - name: sleep
    fields:
      - name: fell_asleep
        type: datetime
      - name: woke_up
        type: datetime
`)
	_, err := config.Load(path)
	if err == nil {
		t.Fatal("expected error for schema with two datetime fields")
	}
	if !strings.Contains(err.Error(), "exactly one datetime") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_RejectsSchemaWithoutDatetime(t *testing.T) {
	path := writeConfig(t, `
schemas:
  - name: notes
    fields:
      - name: text
        type: text
`)
	if _, err := config.Load(path); err == nil {
		t.Fatal("expected error for schema without a datetime field")
	}
}

func TestLoad_RejectsDuplicateSchema(t *testing.T) {
	path := writeConfig(t, `
schemas:
  - name: weight
    fields:
      - name: when
        type: datetime
  - name: weight
    fields:
      - name: when
        type: datetime
`)
	if _, err := config.Load(path); err == nil {
		t.Fatal("expected error for duplicate schema name")
	}
}

func TestLoad_UnknownSchemaLookups(t *testing.T) {
	path := writeConfig(t, `
schemas:
  - name: weight
    fields:
      - name: when
        type: datetime
      - name: pounds
        type: number
`)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := cfg.Schema("nope"); err == nil {
		t.Error("expected error for unknown schema")
	}
	if _, err := cfg.SourceFor("nope"); err == nil {
		t.Error("expected error for unknown schema source")
	}
}
