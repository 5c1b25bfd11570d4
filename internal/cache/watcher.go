package cache

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"

	"tally/internal/config"
)

// ── Mirror Daemon ──────────────────────────────────────────
// Keeps the cache store in step with the origin sources: a full
// rebuild on start and on a cron schedule, plus fsnotify-triggered
// re-mirrors when a datafile changes under the data directory.

// Mirror runs the cache refresh loop for one config.
type Mirror struct {
	cfg   *config.Config
	store *Store
}

// NewMirror creates a Mirror over an open store.
func NewMirror(cfg *config.Config, store *Store) *Mirror {
	return &Mirror{cfg: cfg, store: store}
}

// RebuildAll re-mirrors every configured schema from its origin.
// A failing schema is logged and skipped so the rest still refresh.
func (m *Mirror) RebuildAll(ctx context.Context) {
	for _, name := range m.cfg.SchemaNames() {
		if err := m.rebuild(ctx, name); err != nil {
			log.Printf("[CACHE] rebuild %s failed: %v", name, err)
		}
	}
}

func (m *Mirror) rebuild(ctx context.Context, name string) error {
	schema, src, err := m.cfg.OpenSource(name)
	if err != nil {
		return err
	}
	records, err := src.FetchAll(ctx, schema)
	if err != nil {
		return err
	}
	if err := m.store.Mirror(ctx, schema, records); err != nil {
		return err
	}
	log.Printf("[CACHE] mirrored %d record(s) for %s", len(records), name)
	return nil
}

// Run blocks until ctx is cancelled: initial full rebuild, scheduled
// full rebuilds, and per-schema re-mirrors on datafile writes.
func (m *Mirror) Run(ctx context.Context) error {
	m.RebuildAll(ctx)

	c := cron.New()
	if _, err := c.AddFunc(m.cfg.Cache.RebuildSchedule, func() {
		log.Printf("[CACHE] scheduled rebuild")
		m.RebuildAll(ctx)
	}); err != nil {
		return err
	}
	c.Start()
	defer c.Stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(m.cfg.DataDir); err != nil {
		// Data dir may not exist yet when all schemas use remote
		// sources; cron rebuilds still run.
		log.Printf("[CACHE] not watching %s: %v", m.cfg.DataDir, err)
	} else {
		log.Printf("[CACHE] watching %s", m.cfg.DataDir)
	}

	// datafile path → schema name
	pathToSchema := make(map[string]string)
	for _, name := range m.cfg.SchemaNames() {
		abs, err := filepath.Abs(m.cfg.DatafilePath(name))
		if err != nil {
			continue
		}
		pathToSchema[abs] = name
	}

	timers := make(map[string]*time.Timer)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			abs, _ := filepath.Abs(event.Name)
			name, ok := pathToSchema[abs]
			if !ok {
				continue
			}
			if t, exists := timers[name]; exists {
				t.Stop()
			}
			schemaName := name
			timers[name] = time.AfterFunc(500*time.Millisecond, func() {
				log.Printf("[CACHE] datafile changed, re-mirroring %s", schemaName)
				if err := m.rebuild(ctx, schemaName); err != nil {
					log.Printf("[CACHE] re-mirror %s failed: %v", schemaName, err)
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[CACHE] watcher error: %v", err)
		}
	}
}
