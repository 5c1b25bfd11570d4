package tally_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"tally/internal/tally"
)

// ─────────────────────────────────────────────────────────────
// Row formatter tests
// ─────────────────────────────────────────────────────────────

func TestPrintRecent_SingleRecord(t *testing.T) {
	s := &tally.Schema{
		Name: "sample",
		Fields: []tally.Field{
			{Name: "timestamp", Type: tally.FieldDatetime},
			{Name: "a", Type: tally.FieldNumber},
			{Name: "b", Type: tally.FieldText},
		},
	}
	when := time.Date(2024, 8, 1, 10, 0, 0, 0, time.Local)
	src := &fakeSource{records: []tally.Record{
		{Schema: s, Data: map[string]any{"timestamp": when, "a": 1, "b": "x"}},
	}}

	var buf strings.Builder
	if err := tally.PrintRecent(context.Background(), &buf, src, s, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := when.Local().Format("2006-01-02 15:04:05") + "\t1\tx\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestPrintRecent_MostRecentFirst(t *testing.T) {
	s := weightSchema()
	src := weightSource(s)

	var buf strings.Builder
	if err := tally.PrintRecent(context.Background(), &buf, src, s, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.HasSuffix(lines[0], "\t70.3") {
		t.Errorf("first line should be the 10:05 entry, got %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "\t70.1") {
		t.Errorf("second line should be the 10:00 entry, got %q", lines[1])
	}
}

func TestPrintRecent_Empty(t *testing.T) {
	s := weightSchema()
	var buf strings.Builder
	err := tally.PrintRecent(context.Background(), &buf, &fakeSource{}, s, 10)
	if !errors.Is(err, tally.ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("nothing should be written on empty result, got %q", buf.String())
	}
}

func TestPrintRecent_CountZeroIsEmpty(t *testing.T) {
	s := weightSchema()
	var buf strings.Builder
	err := tally.PrintRecent(context.Background(), &buf, weightSource(s), s, 0)
	if !errors.Is(err, tally.ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult for count=0, got %v", err)
	}
}

func TestPrintRecent_NilValueRendersEmpty(t *testing.T) {
	s := &tally.Schema{
		Name: "water",
		Fields: []tally.Field{
			{Name: "when", Type: tally.FieldDatetime},
			{Name: "glasses", Type: tally.FieldNumber, Optional: true},
		},
	}
	when := time.Date(2024, 8, 1, 12, 0, 0, 0, time.Local)
	src := &fakeSource{records: []tally.Record{
		{Schema: s, Data: map[string]any{"when": when}},
	}}

	var buf strings.Builder
	if err := tally.PrintRecent(context.Background(), &buf, src, s, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := when.Local().Format("2006-01-02 15:04:05") + "\t\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}
