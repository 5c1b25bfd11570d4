package cache_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"tally/internal/cache"
	"tally/internal/tally"
)

// ─────────────────────────────────────────────────────────────
// Cache store tests
// ─────────────────────────────────────────────────────────────

func openStore(t *testing.T) *cache.Store {
	t.Helper()
	store, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func weightSchema() *tally.Schema {
	return &tally.Schema{
		Name: "weight",
		Fields: []tally.Field{
			{Name: "when", Type: tally.FieldDatetime},
			{Name: "pounds", Type: tally.FieldNumber},
		},
	}
}

func TestStore_MirrorAndFetch(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	s := weightSchema()

	when := time.Date(2024, 8, 1, 10, 0, 0, 0, time.UTC)
	records := []tally.Record{
		{Schema: s, Data: map[string]any{"when": when.Format(time.RFC3339), "pounds": 70.1}},
		{Schema: s, Data: map[string]any{"when": when.Add(5 * time.Minute).Format(time.RFC3339), "pounds": 70.3}},
	}
	if err := store.Mirror(ctx, s, records); err != nil {
		t.Fatalf("mirror: %v", err)
	}

	got, err := store.FetchAll(ctx, s)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}

	// The mirror must feed the recency engine like any other source.
	recent, err := tally.QueryRecent(ctx, store, s, 1)
	if err != nil {
		t.Fatalf("query recent: %v", err)
	}
	if recent[0].Get("pounds") != 70.3 {
		t.Errorf("expected most recent entry 70.3, got %v", recent[0].Get("pounds"))
	}
}

func TestStore_MirrorReplaces(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	s := weightSchema()

	when := time.Now().UTC().Format(time.RFC3339)
	first := []tally.Record{
		{Schema: s, Data: map[string]any{"when": when, "pounds": 70.0}},
		{Schema: s, Data: map[string]any{"when": when, "pounds": 71.0}},
	}
	if err := store.Mirror(ctx, s, first); err != nil {
		t.Fatalf("first mirror: %v", err)
	}
	second := []tally.Record{
		{Schema: s, Data: map[string]any{"when": when, "pounds": 72.0}},
	}
	if err := store.Mirror(ctx, s, second); err != nil {
		t.Fatalf("second mirror: %v", err)
	}

	n, err := store.Count(ctx, s.Name)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("mirror should replace, expected 1 record, got %d", n)
	}
}

func TestStore_SchemasAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	weight := weightSchema()
	water := &tally.Schema{
		Name: "water",
		Fields: []tally.Field{
			{Name: "when", Type: tally.FieldDatetime},
			{Name: "glasses", Type: tally.FieldNumber},
		},
	}

	when := time.Now().UTC().Format(time.RFC3339)
	if err := store.Mirror(ctx, weight, []tally.Record{
		{Schema: weight, Data: map[string]any{"when": when, "pounds": 70.0}},
	}); err != nil {
		t.Fatalf("mirror weight: %v", err)
	}
	if err := store.Mirror(ctx, water, nil); err != nil {
		t.Fatalf("mirror water: %v", err)
	}

	got, err := store.FetchAll(ctx, weight)
	if err != nil {
		t.Fatalf("fetch weight: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("clearing water must not touch weight, got %d records", len(got))
	}
}
