package tally

import (
	"fmt"
	"time"
)

// ── Schema & Record ────────────────────────────────────────
// A Schema describes one kind of tallied entry (weight, food, ...).
// Records are field-keyed rows conforming to exactly one schema.

// FieldType is the semantic type of a schema field.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldNumber   FieldType = "number"
	FieldBoolean  FieldType = "boolean"
	FieldDatetime FieldType = "datetime"
)

// Field describes a single column of a schema.
// Optional marks a field whose value may be absent; it is transparent
// to type resolution.
type Field struct {
	Name     string    `json:"name" yaml:"name"`
	Type     FieldType `json:"type" yaml:"type"`
	Optional bool      `json:"optional,omitempty" yaml:"optional,omitempty"`
}

// Schema is a named, ordered set of fields. Schemas are built once
// (from config) and never mutated afterwards.
type Schema struct {
	Name   string  `json:"name" yaml:"name"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// FieldNames returns an ordered list of field names.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Record is a single entry. It carries a reference to its schema so
// consumers can recover field order and types from the value alone.
type Record struct {
	Schema *Schema        `json:"-"`
	Data   map[string]any `json:"data"`
}

// Get returns the value stored under the named field, or nil.
func (r Record) Get(name string) any {
	return r.Data[name]
}

// Time coerces the named field's value to a time.Time.
// Accepted wire forms: time.Time, epoch seconds (int/int64/float64),
// and common string layouts. Unparseable values yield the zero time,
// which sorts last in a descending recency query.
func (r Record) Time(name string) time.Time {
	switch v := r.Data[name].(type) {
	case time.Time:
		return v
	case int:
		return time.Unix(int64(v), 0)
	case int64:
		return time.Unix(v, 0)
	case float64:
		sec := int64(v)
		nsec := int64((v - float64(sec)) * 1e9)
		return time.Unix(sec, nsec)
	case string:
		for _, layout := range []string{
			time.RFC3339Nano,
			time.RFC3339,
			"2006-01-02 15:04:05",
			"2006-01-02",
		} {
			if t, err := time.Parse(layout, v); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}

// FormatValue renders a field value in its default string form.
// Absent (nil) values render as the empty string.
func FormatValue(v any) string {
	if v == nil {
		return ""
	}
	if t, ok := v.(time.Time); ok {
		return t.Local().Format("2006-01-02 15:04:05")
	}
	return fmt.Sprint(v)
}
