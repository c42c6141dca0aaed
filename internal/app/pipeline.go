package app

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/corey/aoi/internal/domain/canon"
	"github.com/corey/aoi/internal/ports"
)

// Pipeline canonicalizes many entities against one read-only Canonicalizer.
// Entities are independent, so they are sharded across a bounded worker pool;
// the only shared state is the Canonicalizer and a thread-safe memo.
type Pipeline struct {
	canon   *canon.Canonicalizer
	cache   *lru.Cache[string, string] // raw -> canonical; nil when disabled
	workers int
}

// NewPipeline creates a pipeline. workers < 1 is treated as 1; cacheSize 0
// disables memoization.
func NewPipeline(c *canon.Canonicalizer, workers, cacheSize int) (*Pipeline, error) {
	if workers < 1 {
		workers = 1
	}
	p := &Pipeline{canon: c, workers: workers}
	if cacheSize > 0 {
		cache, err := lru.New[string, string](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("resolution cache: %w", err)
		}
		p.cache = cache
	}
	return p, nil
}

// Resolve canonicalizes one raw term, consulting the memo first.
func (p *Pipeline) Resolve(raw string) string {
	if p.cache == nil {
		return p.canon.Resolve(raw)
	}
	if term, ok := p.cache.Get(raw); ok {
		return term
	}
	term := p.canon.Resolve(raw)
	p.cache.Add(raw, term)
	return term
}

// Run canonicalizes every entity. Output order matches input order regardless
// of worker count. Cancelling ctx stops scheduling further entities and
// returns ctx's error.
func (p *Pipeline) Run(ctx context.Context, entities []ports.EntityRecord) ([]ports.CanonicalRecord, error) {
	out := make([]ports.CanonicalRecord, len(entities))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i := range entities {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec := entities[i]
			out[i] = ports.CanonicalRecord{
				Name:      rec.Name,
				Interests: p.canon.ResolveListWith(rec.Interests, p.Resolve),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
