package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"tally/internal/source"
	"tally/internal/tally"
)

//go:embed default_config.yaml
var defaultConfig []byte

// SchemaConfig is one schema declaration, optionally with a source
// override. Without one, records live in the per-schema datafile.
type SchemaConfig struct {
	Name   string         `yaml:"name"`
	Fields []tally.Field  `yaml:"fields"`
	Source *source.Config `yaml:"source,omitempty"`
}

// CacheConfig configures the local SQLite mirror.
type CacheConfig struct {
	Path            string `yaml:"path"`
	RebuildSchedule string `yaml:"rebuild_schedule"`
}

// Config is the parsed tally configuration.
type Config struct {
	DataDir      string         `yaml:"data_dir"`
	DefaultCount int            `yaml:"default_count"`
	Extension    string         `yaml:"extension"`
	Cache        CacheConfig    `yaml:"cache"`
	Schemas      []SchemaConfig `yaml:"schemas"`

	schemas map[string]*tally.Schema
}

// DefaultPath returns the XDG location of the config file.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "tally", "config.yaml")
}

// Load reads and validates the config at path. An empty path means the
// default XDG location; if no file exists there, the embedded default
// config is written out first so the user has something to edit.
func Load(path string) (*Config, error) {
	data, err := readOrSeed(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()

	cfg.schemas = make(map[string]*tally.Schema, len(cfg.Schemas))
	for _, sc := range cfg.Schemas {
		s := &tally.Schema{Name: sc.Name, Fields: sc.Fields}
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if _, dup := cfg.schemas[s.Name]; dup {
			return nil, fmt.Errorf("config: schema %q declared twice", s.Name)
		}
		cfg.schemas[s.Name] = s
	}
	if len(cfg.schemas) == 0 {
		return nil, fmt.Errorf("config: no schemas declared")
	}
	return cfg, nil
}

func readOrSeed(path string) ([]byte, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		return data, nil
	}

	path = DefaultPath()
	if data, err := os.ReadFile(path); err == nil {
		return data, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, defaultConfig, 0o644); err != nil {
		return nil, fmt.Errorf("seed default config: %w", err)
	}
	return defaultConfig, nil
}

func (c *Config) applyDefaults() {
	if c.DataDir == "" {
		c.DataDir = filepath.Join(xdg.DataHome, "tally")
	}
	if c.DefaultCount <= 0 {
		c.DefaultCount = 10
	}
	if c.Extension == "" {
		c.Extension = "json"
	}
	if c.Cache.Path == "" {
		c.Cache.Path = filepath.Join(xdg.DataHome, "tally", "cache.db")
	}
	if c.Cache.RebuildSchedule == "" {
		c.Cache.RebuildSchedule = "@hourly"
	}
}

// Schema returns the named schema.
func (c *Config) Schema(name string) (*tally.Schema, error) {
	s, ok := c.schemas[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema: %q", name)
	}
	return s, nil
}

// SchemaNames returns schema names in declared order.
func (c *Config) SchemaNames() []string {
	names := make([]string, len(c.Schemas))
	for i, sc := range c.Schemas {
		names[i] = sc.Name
	}
	return names
}

// DatafilePath returns where the named schema's datafile lives.
func (c *Config) DatafilePath(name string) string {
	return filepath.Join(c.DataDir, name+"."+c.Extension)
}

// SourceFor returns the source config for a schema: its declared
// override, or the default per-schema datafile.
func (c *Config) SourceFor(name string) (source.Config, error) {
	for _, sc := range c.Schemas {
		if sc.Name != name {
			continue
		}
		if sc.Source != nil {
			return *sc.Source, nil
		}
		return source.Config{Type: "file", Path: c.DatafilePath(name)}, nil
	}
	return source.Config{}, fmt.Errorf("unknown schema: %q", name)
}

// OpenSource resolves a schema and binds its record source.
func (c *Config) OpenSource(name string) (*tally.Schema, *source.Bound, error) {
	s, err := c.Schema(name)
	if err != nil {
		return nil, nil, err
	}
	sc, err := c.SourceFor(name)
	if err != nil {
		return nil, nil, err
	}
	src, err := source.Open(sc)
	if err != nil {
		return nil, nil, err
	}
	return s, src, nil
}
