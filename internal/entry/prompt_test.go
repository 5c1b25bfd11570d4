package entry_test

import (
	"testing"
	"time"

	"tally/internal/entry"
)

func TestParseDatetime(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2024-08-01 10:05:30", time.Date(2024, 8, 1, 10, 5, 30, 0, time.Local)},
		{"2024-08-01 10:05", time.Date(2024, 8, 1, 10, 5, 0, 0, time.Local)},
		{"2024-08-01", time.Date(2024, 8, 1, 0, 0, 0, 0, time.Local)},
	}
	for _, tc := range cases {
		got, err := entry.ParseDatetime(tc.in)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tc.in, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("%q: expected %v, got %v", tc.in, tc.want, got)
		}
	}
}

func TestParseDatetime_Invalid(t *testing.T) {
	if _, err := entry.ParseDatetime("yesterday-ish"); err == nil {
		t.Fatal("expected error for unparseable datetime")
	}
}
