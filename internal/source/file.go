package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"tally/internal/tally"
)

// ── File Source ─────────────────────────────────────────────
// Per-schema datafile: a JSON array or YAML sequence of field-keyed
// objects. Datetime values are stored as epoch seconds. A missing
// file means zero records, not an error.

type fileDriver struct{}

func init() { Register(&fileDriver{}) }

func (d *fileDriver) Type() string { return "file" }

func (d *fileDriver) FetchAll(_ context.Context, cfg Config, s *tally.Schema) ([]tally.Record, error) {
	rows, err := readDatafile(cfg.Path)
	if err != nil {
		return nil, err
	}
	records := make([]tally.Record, len(rows))
	for i, row := range rows {
		records[i] = tally.Record{Schema: s, Data: row}
	}
	return records, nil
}

func (d *fileDriver) Append(_ context.Context, cfg Config, rec tally.Record) error {
	rows, err := readDatafile(cfg.Path)
	if err != nil {
		return err
	}
	rows = append(rows, encodeRow(rec))

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	var data []byte
	switch filepath.Ext(cfg.Path) {
	case ".json":
		data, err = json.MarshalIndent(rows, "", "  ")
	case ".yaml", ".yml":
		data, err = yaml.Marshal(rows)
	default:
		return fmt.Errorf("unsupported datafile extension: %q", filepath.Ext(cfg.Path))
	}
	if err != nil {
		return fmt.Errorf("encode datafile: %w", err)
	}

	// Write-then-rename so a crash can't truncate the datafile.
	tmp := cfg.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write datafile: %w", err)
	}
	return os.Rename(tmp, cfg.Path)
}

func readDatafile(path string) ([]map[string]any, error) {
	if path == "" {
		return nil, fmt.Errorf("file source: path is required")
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read datafile: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var rows []map[string]any
	switch filepath.Ext(path) {
	case ".json":
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &rows); err != nil {
			return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
	default:
		return nil, fmt.Errorf("unsupported datafile extension: %q", filepath.Ext(path))
	}
	return rows, nil
}

// encodeRow converts a record to its on-disk form: time.Time values
// become epoch seconds.
func encodeRow(rec tally.Record) map[string]any {
	row := make(map[string]any, len(rec.Data))
	for k, v := range rec.Data {
		if t, ok := v.(time.Time); ok {
			row[k] = t.Unix()
			continue
		}
		row[k] = v
	}
	return row
}
