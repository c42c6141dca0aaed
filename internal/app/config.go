package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"runtime"

	"github.com/corey/aoi/internal/adapters/records"
	"gopkg.in/yaml.v3"
)

// Config is the resolved configuration. Precedence, lowest first: defaults,
// .aoi/config.yaml, command-line flags.
type Config struct {
	// Mapping is the mapping source file. Empty means the embedded vocabulary.
	Mapping string `yaml:"mapping"`
	// Workers bounds how many entities are resolved concurrently.
	Workers int `yaml:"workers"`
	// CacheSize is the raw→canonical memo size; 0 disables it.
	CacheSize int `yaml:"cache_size"`
	// Format is the output encoding, "yaml" or "json".
	Format string `yaml:"format"`
	// WarnOverlaps logs normalized variants claimed by several canonical terms.
	WarnOverlaps bool `yaml:"warn_overlaps"`

	LogJSON bool `yaml:"log_json"`
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Workers:      runtime.GOMAXPROCS(0),
		CacheSize:    4096,
		Format:       string(records.FormatYAML),
		WarnOverlaps: true,
	}
}

// LoadConfig reads path over the defaults. A missing file yields the defaults.
// Unknown keys are an error so typos do not pass silently.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must not be negative, got %d", c.CacheSize)
	}
	if _, err := records.ParseFormat(c.Format); err != nil {
		return err
	}
	return nil
}

// Save writes the config as YAML.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
