package source

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"tally/internal/tally"
)

// ── Record Source ──────────────────────────────────────────
// A Driver fetches all record instances of a schema from one kind of
// backing store. Implementations live in this package, one file per
// driver, and register themselves via init().

// Config selects and configures a driver. Unused fields are ignored
// by drivers that don't need them.
type Config struct {
	Type string `yaml:"type" json:"type"` // "file" | "sql" | "mongo"

	// file
	Path string `yaml:"path,omitempty" json:"path,omitempty"`

	// sql
	Driver string `yaml:"driver,omitempty" json:"driver,omitempty"` // "sqlite" | "mysql" | "postgres"
	DSN    string `yaml:"dsn,omitempty" json:"dsn,omitempty"`
	Table  string `yaml:"table,omitempty" json:"table,omitempty"`

	// mongo
	URI        string `yaml:"uri,omitempty" json:"uri,omitempty"`
	Database   string `yaml:"database,omitempty" json:"database,omitempty"`
	Collection string `yaml:"collection,omitempty" json:"collection,omitempty"`
}

// ErrReadOnly is returned by Append on drivers that cannot write.
var ErrReadOnly = errors.New("record source is read-only")

// Driver is the interface every record-source backend implements.
type Driver interface {
	// Type returns the config type tag this driver handles.
	Type() string

	// FetchAll returns every record instance of the schema. The order
	// of the result is unspecified.
	FetchAll(ctx context.Context, cfg Config, s *tally.Schema) ([]tally.Record, error)

	// Append adds one record, or returns ErrReadOnly.
	Append(ctx context.Context, cfg Config, rec tally.Record) error
}

// ── Driver Registry ────────────────────────────────────────
// Compile-time registration via init() in each driver file.

var (
	registryMu sync.RWMutex
	registry   = map[string]Driver{}
)

// Register registers a driver by its type tag.
func Register(d Driver) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[d.Type()] = d
}

// Lookup returns a registered driver by type, or an error.
func Lookup(typ string) (Driver, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	d, ok := registry[typ]
	if !ok {
		return nil, fmt.Errorf("unknown source type: %q", typ)
	}
	return d, nil
}

// ── Bound Source ───────────────────────────────────────────

// Bound pairs a driver with its config. It implements tally.Source.
type Bound struct {
	driver Driver
	cfg    Config
}

// Open resolves the driver named by cfg and binds it.
func Open(cfg Config) (*Bound, error) {
	d, err := Lookup(cfg.Type)
	if err != nil {
		return nil, err
	}
	return &Bound{driver: d, cfg: cfg}, nil
}

// FetchAll returns all record instances of the schema.
func (b *Bound) FetchAll(ctx context.Context, s *tally.Schema) ([]tally.Record, error) {
	return b.driver.FetchAll(ctx, b.cfg, s)
}

// Append adds one record to the backing store.
func (b *Bound) Append(ctx context.Context, rec tally.Record) error {
	return b.driver.Append(ctx, b.cfg, rec)
}
