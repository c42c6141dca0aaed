package app

import (
	"context"
	"path/filepath"
	"sync/atomic"

	"github.com/corey/aoi/internal/domain/canon"
	"github.com/corey/aoi/internal/ports"
)

// Watch canonicalizes inputPath once, then again every time the input or the
// mapping file changes, until ctx is done. Each cycle loads a fresh mapping
// store; a store is never mutated in place. onRun receives each result or the
// error of a failed cycle (a broken mapping or input file does not stop watching).
func (a *App) Watch(ctx context.Context, w ports.Watcher, inputPath string, onRun func(*ports.Run, error)) error {
	files := []string{inputPath}
	absMapping := ""
	if mp := a.MappingPath(); mp != "" {
		files = append(files, mp)
		absMapping, _ = filepath.Abs(mp)
	}

	// wake coalesces bursts into one re-run; mappingDirty survives the
	// coalescing so a mapping edit is never lost behind an input edit.
	wake := make(chan struct{}, 1)
	var mappingDirty atomic.Bool
	if err := w.Watch(files, func(path string) {
		if absMapping != "" && path == absMapping {
			mappingDirty.Store(true)
		}
		select {
		case wake <- struct{}{}:
		default:
		}
	}); err != nil {
		return err
	}
	defer w.Stop()

	onRun(a.Canonicalize(ctx, inputPath))

	c := a.Canon
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-wake:
			if mappingDirty.Swap(false) {
				a.Logger.Debug("mapping changed", "path", absMapping)
				store, err := a.LoadMapping()
				if err != nil {
					onRun(nil, err)
					continue
				}
				c = canon.New(store)
			}
			onRun(a.canonicalizeWith(ctx, c, inputPath))
		}
	}
}
