package entry

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"tally/internal/tally"
)

// ── Interactive Entry ──────────────────────────────────────
// Builds a terminal form from a schema's fields and collects one
// record. The datetime field is prefilled with the current time so
// most entries are a single Enter press.

var datetimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC3339,
}

// Prompt collects one record of the schema from the terminal.
func Prompt(s *tally.Schema) (tally.Record, error) {
	texts := make([]string, len(s.Fields))
	bools := make([]bool, len(s.Fields))

	var fields []huh.Field
	for i, f := range s.Fields {
		switch f.Type {
		case tally.FieldBoolean:
			fields = append(fields, huh.NewConfirm().Title(f.Name).Value(&bools[i]))
		case tally.FieldDatetime:
			texts[i] = time.Now().Format("2006-01-02 15:04:05")
			fields = append(fields, huh.NewInput().
				Title(f.Name).
				Value(&texts[i]).
				Validate(validateDatetime(f)))
		case tally.FieldNumber:
			fields = append(fields, huh.NewInput().
				Title(f.Name).
				Value(&texts[i]).
				Validate(validateNumber(f)))
		default:
			fields = append(fields, huh.NewInput().
				Title(f.Name).
				Value(&texts[i]).
				Validate(validateText(f)))
		}
	}

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return tally.Record{}, err
	}

	data := make(map[string]any, len(s.Fields))
	for i, f := range s.Fields {
		if f.Type == tally.FieldBoolean {
			data[f.Name] = bools[i]
			continue
		}
		raw := strings.TrimSpace(texts[i])
		if raw == "" {
			// Optional fields may be left blank; validators already
			// rejected blank required fields.
			continue
		}
		switch f.Type {
		case tally.FieldDatetime:
			t, err := ParseDatetime(raw)
			if err != nil {
				return tally.Record{}, err
			}
			data[f.Name] = t
		case tally.FieldNumber:
			n, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return tally.Record{}, fmt.Errorf("field %q: %w", f.Name, err)
			}
			data[f.Name] = n
		default:
			data[f.Name] = raw
		}
	}
	return tally.Record{Schema: s, Data: data}, nil
}

// ParseDatetime parses user-entered datetime text in any of the
// accepted layouts, interpreted in local time.
func ParseDatetime(raw string) (time.Time, error) {
	for _, layout := range datetimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized datetime %q (try 2006-01-02 15:04:05)", raw)
}

func validateDatetime(f tally.Field) func(string) error {
	return func(raw string) error {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			if f.Optional {
				return nil
			}
			return fmt.Errorf("%s is required", f.Name)
		}
		_, err := ParseDatetime(raw)
		return err
	}
}

func validateNumber(f tally.Field) func(string) error {
	return func(raw string) error {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			if f.Optional {
				return nil
			}
			return fmt.Errorf("%s is required", f.Name)
		}
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			return fmt.Errorf("%s must be a number", f.Name)
		}
		return nil
	}
}

func validateText(f tally.Field) func(string) error {
	return func(raw string) error {
		if strings.TrimSpace(raw) == "" && !f.Optional {
			return fmt.Errorf("%s is required", f.Name)
		}
		return nil
	}
}
