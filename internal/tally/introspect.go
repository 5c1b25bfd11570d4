package tally

import (
	"errors"
	"fmt"
)

// ── Introspection ──────────────────────────────────────────

// ErrFieldNotFound is returned when a schema declares no field of the
// requested type.
var ErrFieldNotFound = errors.New("field not found")

// ResolveField returns the name of the first field declared with the
// target type, scanning fields in declared order. The Optional flag is
// transparent: an optional datetime field still resolves as datetime.
func ResolveField(s *Schema, target FieldType) (string, error) {
	for _, f := range s.Fields {
		if f.Type == target {
			return f.Name, nil
		}
	}
	return "", fmt.Errorf("schema %q has no %s field: %w", s.Name, target, ErrFieldNotFound)
}

// TemporalField returns the name of the schema's datetime field, the
// sort key for recency queries.
func (s *Schema) TemporalField() (string, error) {
	return ResolveField(s, FieldDatetime)
}

// Validate checks that a schema is usable by the recency engine:
// a non-empty name, uniquely named fields of known types, and exactly
// one datetime field. Ambiguous schemas are rejected here, at load
// time, rather than surfacing as a runtime sort failure.
func (s *Schema) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("schema has no name")
	}
	if len(s.Fields) == 0 {
		return fmt.Errorf("schema %q has no fields", s.Name)
	}
	seen := make(map[string]bool, len(s.Fields))
	temporal := 0
	for _, f := range s.Fields {
		if f.Name == "" {
			return fmt.Errorf("schema %q has an unnamed field", s.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("schema %q declares field %q twice", s.Name, f.Name)
		}
		seen[f.Name] = true
		switch f.Type {
		case FieldText, FieldNumber, FieldBoolean, FieldDatetime:
		default:
			return fmt.Errorf("schema %q field %q has unknown type %q", s.Name, f.Name, f.Type)
		}
		if f.Type == FieldDatetime {
			temporal++
		}
	}
	if temporal != 1 {
		return fmt.Errorf("schema %q must declare exactly one datetime field, has %d", s.Name, temporal)
	}
	return nil
}
