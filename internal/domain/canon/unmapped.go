package canon

import (
	"sort"

	"github.com/corey/aoi/internal/domain/mapping"
	"github.com/corey/aoi/internal/domain/normalize"
	"github.com/corey/aoi/internal/ports"
)

// Unmapped collects the raw terms that no canonical term or variant claims,
// grouped by normalized form. These are candidates for enriching the mapping.
//
// Results are ordered by Count (descending) then Term. Variants within a
// group keep first-seen order and are distinct.
func (c *Canonicalizer) Unmapped(raw []string) []ports.UnmappedTerm {
	groups := make(map[string]*ports.UnmappedTerm)
	for _, r := range raw {
		n := normalize.Normalize(r)
		if n == "" {
			continue
		}
		if c.Mapped(c.resolveNormalized(n)) {
			continue
		}
		g, ok := groups[n]
		if !ok {
			g = &ports.UnmappedTerm{Term: n}
			groups[n] = g
		}
		g.Count++
		if !containsString(g.Variants, r) {
			g.Variants = append(g.Variants, r)
		}
	}

	out := make([]ports.UnmappedTerm, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Term < out[j].Term
	})
	return out
}

// UnmappedRecords runs Unmapped over every interest of every record.
func (c *Canonicalizer) UnmappedRecords(recs []ports.EntityRecord) []ports.UnmappedTerm {
	var all []string
	for _, r := range recs {
		all = append(all, r.Interests...)
	}
	return c.Unmapped(all)
}

// Unmapped reports unmapped raw terms against store; see Canonicalizer.Unmapped.
func Unmapped(raw []string, store *mapping.Store) []ports.UnmappedTerm {
	return New(store).Unmapped(raw)
}

func containsString(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}
