// Package app wires together all adapters and domain logic.
// It owns the lifecycle of one canonicalization session: load config and
// mapping, resolve entity files, persist runs, and re-run on file changes.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/corey/aoi/internal/adapters/bbolt"
	"github.com/corey/aoi/internal/adapters/records"
	"github.com/corey/aoi/internal/domain/canon"
	"github.com/corey/aoi/internal/domain/mapping"
	"github.com/corey/aoi/internal/ports"
	"github.com/corey/aoi/vocab"
)

// App is the top-level container wiring all components together.
type App struct {
	Paths  *Paths
	Config Config
	Logger ports.Logger

	Mapping *mapping.Store
	Canon   *canon.Canonicalizer

	now func() time.Time
}

// New loads the mapping named by cfg and builds the canonicalizer. A mapping
// LoadError is returned as is; there is no degraded mode with a broken mapping.
func New(paths *Paths, cfg Config, logger ports.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &App{Paths: paths, Config: cfg, Logger: logger, now: time.Now}

	store, err := a.LoadMapping()
	if err != nil {
		return nil, err
	}
	a.Mapping = store
	a.Canon = canon.New(store)
	return a, nil
}

// MappingPath returns the absolute mapping path, or "" for the embedded vocabulary.
func (a *App) MappingPath() string {
	return a.Paths.Resolve(a.Config.Mapping)
}

// LoadMapping loads a fresh store from the configured source and logs
// overlap warnings. It does not replace a.Mapping.
func (a *App) LoadMapping() (*mapping.Store, error) {
	var (
		store *mapping.Store
		err   error
	)
	if path := a.MappingPath(); path != "" {
		store, err = mapping.LoadFile(path)
	} else {
		store, err = mapping.LoadFS(vocab.FS, vocab.Default)
	}
	if err != nil {
		return nil, err
	}

	a.Logger.Debug("mapping loaded", "source", store.Source(), "terms", store.Len())
	if a.Config.WarnOverlaps {
		for _, o := range store.Overlaps() {
			a.Logger.Warn("normalized variant claimed by several canonical terms; first declared wins",
				"variant", o.Normalized, "claimants", o.Claimants, "winner", o.Claimants[0])
		}
	}
	return store, nil
}

// Canonicalize resolves every entity in the input file against the current
// mapping and returns the run. The run is not persisted; see SaveRun.
func (a *App) Canonicalize(ctx context.Context, inputPath string) (*ports.Run, error) {
	return a.canonicalizeWith(ctx, a.Canon, inputPath)
}

func (a *App) canonicalizeWith(ctx context.Context, c *canon.Canonicalizer, inputPath string) (*ports.Run, error) {
	entities, err := records.ReadFile(inputPath)
	if err != nil {
		return nil, err
	}
	return a.CanonicalizeRecords(ctx, c, inputPath, entities)
}

// CanonicalizeRecords resolves already-decoded entities with c.
func (a *App) CanonicalizeRecords(ctx context.Context, c *canon.Canonicalizer, inputSource string, entities []ports.EntityRecord) (*ports.Run, error) {
	start := a.now()

	p, err := NewPipeline(c, a.Config.Workers, a.Config.CacheSize)
	if err != nil {
		return nil, err
	}
	recs, err := p.Run(ctx, entities)
	if err != nil {
		return nil, fmt.Errorf("canonicalize %s: %w", inputSource, err)
	}
	unmapped := c.UnmappedRecords(entities)

	run := &ports.Run{
		ID:            uuid.NewString(),
		CreatedAt:     start.Unix(),
		MappingSource: c.Store().Source(),
		InputSource:   inputSource,
		Records:       recs,
		Unmapped:      unmapped,
	}

	a.Logger.Info("canonicalized",
		"entities", len(recs),
		"unmapped_terms", len(unmapped),
		"elapsed", a.now().Sub(start).String())
	return run, nil
}

// OpenRuns opens the project's run store, creating .aoi/ if needed.
// The caller must Close it.
func (a *App) OpenRuns() (*bbolt.Store, error) {
	if err := a.Paths.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("create %s: %w", a.Paths.Root, err)
	}
	return bbolt.NewStore(a.Paths.DB)
}

// ReadRuns opens the project's run store for reading. It creates nothing; a
// project without saved runs yields an error wrapping fs.ErrNotExist.
func (a *App) ReadRuns() (*bbolt.Store, error) {
	return bbolt.OpenReadOnly(a.Paths.DB)
}

// SaveRun persists run to store.
func (a *App) SaveRun(store ports.RunStore, run *ports.Run) error {
	if err := store.SaveRun(run); err != nil {
		return fmt.Errorf("save run %s: %w", run.ID, err)
	}
	a.Logger.Info("run saved", "id", run.ID, "db", a.Paths.DB)
	return nil
}
