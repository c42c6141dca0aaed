// Package mapping holds the canonical-term vocabulary: an ordered table of
// canonical terms, each with the raw variant spellings that resolve to it.
//
// The store is loaded once and never mutated. Variants are kept exactly as
// declared; normalization happens at lookup time, so a mapping file may list raw
// spellings like "Machine-Learning" or "ML".
//
// Variant sets are not required to be disjoint. When two canonical terms claim
// the same normalized variant, the one declared first wins during resolution.
// Overlaps reports such collisions without changing that order.
package mapping

import (
	"iter"

	"github.com/corey/aoi/internal/domain/normalize"
)

// Entry pairs a canonical term with its declared variant spellings.
type Entry struct {
	Canonical string
	Variants  []string
}

// Store is the read-only canonical→variants table, in declaration order.
type Store struct {
	source  string
	entries []Entry
	byKey   map[string]int // canonical -> index into entries
}

// Empty returns a store with no entries. Every term resolves to its own
// normalized form against it.
func Empty() *Store {
	return &Store{source: "(empty)", byKey: map[string]int{}}
}

// newStore builds a store from already-validated entries.
func newStore(source string, entries []Entry) *Store {
	byKey := make(map[string]int, len(entries))
	for i, e := range entries {
		byKey[e.Canonical] = i
	}
	return &Store{source: source, entries: entries, byKey: byKey}
}

// Source names where the store was loaded from.
func (s *Store) Source() string {
	if s == nil {
		return "(empty)"
	}
	return s.source
}

// Len returns the number of canonical terms.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Has reports whether canonical is a key of the store.
func (s *Store) Has(canonical string) bool {
	if s == nil {
		return false
	}
	_, ok := s.byKey[canonical]
	return ok
}

// VariantsOf returns a copy of the declared variants of canonical.
func (s *Store) VariantsOf(canonical string) ([]string, bool) {
	if s == nil {
		return nil, false
	}
	i, ok := s.byKey[canonical]
	if !ok {
		return nil, false
	}
	return append([]string(nil), s.entries[i].Variants...), true
}

// Canonicals returns the canonical terms in declaration order.
func (s *Store) Canonicals() []string {
	out := make([]string, 0, s.Len())
	for c := range s.All() {
		out = append(out, c)
	}
	return out
}

// Entries returns a copy of all entries in declaration order.
func (s *Store) Entries() []Entry {
	out := make([]Entry, 0, s.Len())
	for c, vs := range s.All() {
		out = append(out, Entry{Canonical: c, Variants: append([]string(nil), vs...)})
	}
	return out
}

// All iterates (canonical, variants) pairs in declaration order.
// The yielded slices are shared with the store and must not be modified.
func (s *Store) All() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		if s == nil {
			return
		}
		for _, e := range s.entries {
			if !yield(e.Canonical, e.Variants) {
				return
			}
		}
	}
}

// Overlap is a normalized form claimed by more than one canonical term.
// Claimants are listed in declaration order; the first one wins resolution.
type Overlap struct {
	Normalized string
	Claimants  []string
}

// Overlaps finds normalized forms (of canonical keys or variants) that more
// than one canonical term claims. Results are ordered by first claim.
func (s *Store) Overlaps() []Overlap {
	claims := make(map[string][]string)
	var order []string

	claim := func(norm, canonical string) {
		owners, seen := claims[norm]
		if !seen {
			order = append(order, norm)
		}
		for _, o := range owners {
			if o == canonical {
				return
			}
		}
		claims[norm] = append(owners, canonical)
	}

	for c, vs := range s.All() {
		claim(normalize.Normalize(c), c)
		for _, v := range vs {
			claim(normalize.Normalize(v), c)
		}
	}

	var out []Overlap
	for _, norm := range order {
		if owners := claims[norm]; len(owners) > 1 {
			out = append(out, Overlap{Normalized: norm, Claimants: owners})
		}
	}
	return out
}
