package tally

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ── Row Formatter ──────────────────────────────────────────

// ErrEmptyResult is returned when a recency query yields zero records;
// the formatter needs at least one record to determine field layout.
var ErrEmptyResult = errors.New("empty result")

// PrintRecent writes the count most recent records of a schema to w,
// one line per record: local-time timestamp first, then the remaining
// field values in declared order, tab-separated.
func PrintRecent(ctx context.Context, w io.Writer, src Source, s *Schema, count int) error {
	records, err := QueryRecent(ctx, src, s, count)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("schema %q: %w", s.Name, ErrEmptyResult)
	}

	// Field order comes from the first record's runtime schema, not
	// the caller's argument, in case the caller passed a looser one.
	rs := records[0].Schema
	field, err := rs.TemporalField()
	if err != nil {
		return err
	}

	var others []string
	for _, name := range rs.FieldNames() {
		if name != field {
			others = append(others, name)
		}
	}

	for _, rec := range records {
		cols := make([]string, 0, len(others)+1)
		cols = append(cols, rec.Time(field).Local().Format("2006-01-02 15:04:05"))
		for _, name := range others {
			cols = append(cols, FormatValue(rec.Get(name)))
		}
		if _, err := fmt.Fprintln(w, strings.Join(cols, "\t")); err != nil {
			return err
		}
	}
	return nil
}
