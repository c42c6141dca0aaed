// Package canon resolves raw interest strings to canonical terms.
//
// Resolution, first match wins:
//
//  1. the normalized input equals a canonical term's normalized form
//  2. the normalized input is in a canonical term's normalized variant set,
//     checked in declaration order
//  3. otherwise the normalized input is its own (unmapped) canonical term
//
// Variant sets may overlap after normalization; the earliest declared
// canonical term wins. Nothing here fails: unmapped input is a normal outcome.
package canon

import (
	"sort"

	"github.com/corey/aoi/internal/domain/mapping"
	"github.com/corey/aoi/internal/domain/normalize"
	"github.com/corey/aoi/internal/ports"
)

// Canonicalizer is a store with its lookups precomputed. It is read-only and
// safe for concurrent use.
type Canonicalizer struct {
	store    *mapping.Store
	direct   map[string]string // normalized canonical -> canonical
	variants map[string]string // normalized variant -> canonical
}

// New indexes store. A nil store behaves as an empty one.
func New(store *mapping.Store) *Canonicalizer {
	if store == nil {
		store = mapping.Empty()
	}
	c := &Canonicalizer{
		store:    store,
		direct:   make(map[string]string, store.Len()),
		variants: make(map[string]string),
	}
	for canonical, vs := range store.All() {
		n := normalize.Normalize(canonical)
		if _, taken := c.direct[n]; !taken {
			c.direct[n] = canonical
		}
		for _, v := range vs {
			nv := normalize.Normalize(v)
			if _, taken := c.variants[nv]; !taken {
				c.variants[nv] = canonical
			}
		}
	}
	return c
}

// Store returns the underlying mapping store.
func (c *Canonicalizer) Store() *mapping.Store { return c.store }

// Resolve returns the canonical term for raw.
func (c *Canonicalizer) Resolve(raw string) string {
	return c.resolveNormalized(normalize.Normalize(raw))
}

func (c *Canonicalizer) resolveNormalized(n string) string {
	if canonical, ok := c.direct[n]; ok {
		return canonical
	}
	if canonical, ok := c.variants[n]; ok {
		return canonical
	}
	return n
}

// Mapped reports whether term is a canonical term of the store, as opposed
// to a normalized fallback.
func (c *Canonicalizer) Mapped(term string) bool {
	return c.store.Has(term)
}

// ResolveList canonicalizes every raw term and returns the distinct, non-empty
// results in ascending byte order. The result is never nil.
func (c *Canonicalizer) ResolveList(raw []string) []string {
	return c.resolveListWith(raw, c.Resolve)
}

// ResolveListWith is ResolveList with a caller-supplied single-term resolver,
// e.g. a memoizing wrapper around Resolve.
func (c *Canonicalizer) ResolveListWith(raw []string, resolve func(string) string) []string {
	if resolve == nil {
		resolve = c.Resolve
	}
	return c.resolveListWith(raw, resolve)
}

func (c *Canonicalizer) resolveListWith(raw []string, resolve func(string) string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		term := resolve(r)
		if term == "" {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, term)
	}
	sort.Strings(out)
	return out
}

// ResolveRecord canonicalizes one entity's interests.
func (c *Canonicalizer) ResolveRecord(rec ports.EntityRecord) ports.CanonicalRecord {
	return ports.CanonicalRecord{Name: rec.Name, Interests: c.ResolveList(rec.Interests)}
}

// Resolve returns the canonical term for raw against store.
//
// It walks the store directly rather than building an index, so it suits
// one-off lookups. Repeated lookups should go through New.
func Resolve(raw string, store *mapping.Store) string {
	n := normalize.Normalize(raw)

	for canonical := range store.All() {
		if normalize.Normalize(canonical) == n {
			return canonical
		}
	}
	for canonical, vs := range store.All() {
		for _, v := range vs {
			if normalize.Normalize(v) == n {
				return canonical
			}
		}
	}
	return n
}

// ResolveList canonicalizes raw against store; see Canonicalizer.ResolveList.
func ResolveList(raw []string, store *mapping.Store) []string {
	return New(store).ResolveList(raw)
}
