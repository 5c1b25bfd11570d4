package tally

import (
	"context"
	"sort"
)

// ── Recency Query ──────────────────────────────────────────

// Source supplies all record instances of a schema. Order of the
// returned slice is unspecified and must not be relied upon.
// Implementations live in internal/source and internal/cache.
type Source interface {
	FetchAll(ctx context.Context, s *Schema) ([]Record, error)
}

// QueryRecent returns the count most recent records of a schema,
// sorted most-recent-first by the schema's datetime field. Ties keep
// the source-provided relative order. count <= 0 yields an empty
// result. Nothing is cached; every call re-fetches and re-sorts.
func QueryRecent(ctx context.Context, src Source, s *Schema, count int) ([]Record, error) {
	field, err := s.TemporalField()
	if err != nil {
		return nil, err
	}

	records, err := src.FetchAll(ctx, s)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Time(field).After(records[j].Time(field))
	})

	if count < 0 {
		count = 0
	}
	if count < len(records) {
		records = records[:count]
	}
	return records, nil
}
