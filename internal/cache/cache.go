package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"tally/internal/tally"
)

// ── Cache Store ────────────────────────────────────────────
// Local SQLite mirror of every configured schema's records, so recency
// queries don't have to hit slow origins (remote SQL, Mongo). The
// mirror is rebuilt wholesale per schema; rows are never edited in
// place.

// Store is the SQLite-backed record mirror. It implements
// tally.Source, so it can serve recency queries directly.
type Store struct {
	conn *sql.DB
}

// Open opens (or creates) the mirror database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite only supports one writer — limit to single connection to prevent SQLITE_BUSY
	conn.SetMaxOpenConns(1)

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS records (
			id TEXT PRIMARY KEY,
			schema_name TEXT NOT NULL,
			ts DATETIME NOT NULL,
			data_json TEXT NOT NULL,
			mirrored_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_schema_ts ON records(schema_name, ts DESC)`,
	}
	for _, m := range migrations {
		if _, err := s.conn.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Mirror replaces the stored records of one schema with the given set.
func (s *Store) Mirror(ctx context.Context, schema *tally.Schema, records []tally.Record) error {
	field, err := schema.TemporalField()
	if err != nil {
		return err
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE schema_name = ?`, schema.Name); err != nil {
		return fmt.Errorf("clear schema %q: %w", schema.Name, err)
	}

	now := time.Now()
	for _, rec := range records {
		data, err := json.Marshal(rec.Data)
		if err != nil {
			return fmt.Errorf("encode record: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO records (id, schema_name, ts, data_json, mirrored_at)
			 VALUES (?, ?, ?, ?, ?)`,
			uuid.NewString(), schema.Name, rec.Time(field), string(data), now,
		)
		if err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
	}
	return tx.Commit()
}

// FetchAll returns every mirrored record of the schema. Row order is
// unspecified; the recency engine sorts.
func (s *Store) FetchAll(ctx context.Context, schema *tally.Schema) ([]tally.Record, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT data_json FROM records WHERE schema_name = ?`, schema.Name,
	)
	if err != nil {
		return nil, fmt.Errorf("query cache: %w", err)
	}
	defer rows.Close()

	var records []tally.Record
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		rec := tally.Record{Schema: schema, Data: map[string]any{}}
		if err := json.Unmarshal([]byte(data), &rec.Data); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Count returns how many records of a schema are mirrored.
func (s *Store) Count(ctx context.Context, schemaName string) (int, error) {
	var n int
	err := s.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM records WHERE schema_name = ?`, schemaName,
	).Scan(&n)
	return n, err
}
