package source

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"tally/internal/tally"
)

// ── SQL Source ──────────────────────────────────────────────
// Reads record instances from a table in an external SQL database.
// One column per schema field; column names must match field names.
// Read-only: entries are added through whatever owns the table.

type sqlDriver struct{}

func init() { Register(&sqlDriver{}) }

func (d *sqlDriver) Type() string { return "sql" }

func (d *sqlDriver) FetchAll(ctx context.Context, cfg Config, s *tally.Schema) ([]tally.Record, error) {
	if cfg.Driver == "" || cfg.DSN == "" || cfg.Table == "" {
		return nil, fmt.Errorf("sql source: driver, dsn and table are required")
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	names := s.FieldNames()
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(names, ", "), cfg.Table)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", cfg.Table, err)
	}
	defer rows.Close()

	var records []tally.Record
	for rows.Next() {
		values := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		data := make(map[string]any, len(names))
		for i, name := range names {
			data[name] = normalizeSQLValue(values[i])
		}
		records = append(records, tally.Record{Schema: s, Data: data})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return records, nil
}

func (d *sqlDriver) Append(_ context.Context, _ Config, _ tally.Record) error {
	return fmt.Errorf("sql source: %w", ErrReadOnly)
}

// normalizeSQLValue maps driver-specific scan types onto the record
// value forms the engine understands.
func normalizeSQLValue(v any) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case sql.NullString:
		if !x.Valid {
			return nil
		}
		return x.String
	default:
		return v
	}
}
