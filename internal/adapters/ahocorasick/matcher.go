// Package ahocorasick finds mapped interest terms inside free text using an
// Aho-Corasick automaton (github.com/petar-dambovaliev/aho-corasick).
//
// Matching is exact on normalized text: the text and every canonical term and
// variant are normalized first, and a match must cover whole words.
package ahocorasick

import (
	"sort"

	aho "github.com/petar-dambovaliev/aho-corasick"

	"github.com/corey/aoi/internal/domain/canon"
	"github.com/corey/aoi/internal/domain/normalize"
)

// Match is one term found in a text.
type Match struct {
	Term      string // normalized term as it appears in the text
	Canonical string // canonical term it resolves to
	Start     int    // byte offset in the normalized text (inclusive)
	End       int    // byte offset in the normalized text (exclusive)
}

// Scanner matches every normalized canonical term and variant of a mapping
// in one pass over the text.
type Scanner struct {
	automaton aho.AhoCorasick
	terms     []string // normalized term per pattern index
	canonical []string // canonical term per pattern index
}

// NewScanner compiles the terms of c's mapping. Each normalized term is a
// pattern once; its canonical is whatever c resolves it to, so overlap
// precedence matches Canonicalizer.Resolve.
func NewScanner(c *canon.Canonicalizer) *Scanner {
	s := &Scanner{}
	seen := make(map[string]bool)
	add := func(raw string) {
		n := normalize.Normalize(raw)
		if n == "" || seen[n] {
			return
		}
		seen[n] = true
		s.terms = append(s.terms, n)
		s.canonical = append(s.canonical, c.Resolve(n))
	}
	for canonical, variants := range c.Store().All() {
		add(canonical)
		for _, v := range variants {
			add(v)
		}
	}

	// Padding each pattern with spaces restricts matches to word boundaries
	// of the padded normalized text.
	patterns := make([]string, len(s.terms))
	for i, t := range s.terms {
		patterns[i] = " " + t + " "
	}
	builder := aho.NewAhoCorasickBuilder(aho.Opts{
		DFA: true,
	})
	s.automaton = builder.Build(patterns)
	return s
}

// PatternCount returns the number of distinct normalized terms compiled.
func (s *Scanner) PatternCount() int {
	return len(s.terms)
}

// Matches returns the terms found in text, ordered by position. A match
// lying inside a longer match is dropped: "physics informed machine learning"
// yields one match, not two.
func (s *Scanner) Matches(text string) []Match {
	if len(s.terms) == 0 {
		return nil
	}
	n := normalize.Normalize(text)
	if n == "" {
		return nil
	}
	padded := []byte(" " + n + " ")

	var all []Match
	iter := s.automaton.IterOverlappingByte(padded)
	for next := iter.Next(); next != nil; next = iter.Next() {
		m := *next
		// Offsets shift by one for the leading pad; the trailing pad is excluded.
		all = append(all, Match{
			Term:      s.terms[m.Pattern()],
			Canonical: s.canonical[m.Pattern()],
			Start:     m.Start(),
			End:       m.End() - 2,
		})
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].Start != all[j].Start {
			return all[i].Start < all[j].Start
		}
		return all[i].End > all[j].End
	})
	var out []Match
	for _, m := range all {
		if contained(m, out) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Scan returns the distinct canonical terms found in text in ascending byte
// order. The result is never nil.
func (s *Scanner) Scan(text string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, m := range s.Matches(text) {
		if seen[m.Canonical] {
			continue
		}
		seen[m.Canonical] = true
		out = append(out, m.Canonical)
	}
	sort.Strings(out)
	return out
}

// contained reports whether m lies within a kept match. Kept matches are
// sorted by start, longest first, so only spans starting at or before m
// can contain it.
func contained(m Match, kept []Match) bool {
	for _, k := range kept {
		if k.Start <= m.Start && m.End <= k.End {
			return true
		}
	}
	return false
}
