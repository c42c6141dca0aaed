package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/corey/aoi/internal/domain/bipartite"
	"github.com/corey/aoi/internal/domain/mapping"
	"github.com/corey/aoi/internal/ports"
)

// ANSI color codes for terminal output.
const (
	colorReset   = "\033[0m"
	colorBold    = "\033[1m"
	colorCyan    = "\033[36m"
	colorMagenta = "\033[35m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorGray    = "\033[90m"
)

// palette wraps text in ANSI codes when color is enabled.
type palette struct{ on bool }

func (p palette) wrap(code, s string) string {
	if !p.on {
		return s
	}
	return code + s + colorReset
}

func (p palette) bold(s string) string    { return p.wrap(colorBold, s) }
func (p palette) cyan(s string) string    { return p.wrap(colorCyan, s) }
func (p palette) magenta(s string) string { return p.wrap(colorMagenta, s) }
func (p palette) green(s string) string   { return p.wrap(colorGreen, s) }
func (p palette) yellow(s string) string  { return p.wrap(colorYellow, s) }
func (p palette) gray(s string) string    { return p.wrap(colorGray, s) }

func absPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	return filepath.Abs(path)
}

// formatResolution formats raw → canonical lines. Unmapped terms are marked.
//
//	ML  →  machine learning
//	Quantum Computing  →  quantum computing  (unmapped)
func formatResolution(p palette, raw, canonical []string, mapped []bool) string {
	var sb strings.Builder
	for i := range raw {
		sb.WriteString(fmt.Sprintf("%s  →  %s", p.cyan(raw[i]), p.magenta(canonical[i])))
		if !mapped[i] {
			sb.WriteString("  " + p.gray("(unmapped)"))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatUnmapped formats enrichment candidates, most frequent first.
func formatUnmapped(p palette, terms []ports.UnmappedTerm) string {
	var sb strings.Builder
	sb.WriteString(p.bold(fmt.Sprintf("%d unmapped terms", len(terms))) + "\n")
	for _, t := range terms {
		sb.WriteString(fmt.Sprintf("  %s  %s", p.magenta(t.Term), p.gray(fmt.Sprintf("×%d", t.Count))))
		if len(t.Variants) > 1 || (len(t.Variants) == 1 && t.Variants[0] != t.Term) {
			quoted := make([]string, len(t.Variants))
			for i, v := range t.Variants {
				quoted[i] = fmt.Sprintf("%q", v)
			}
			sb.WriteString("  " + p.cyan(strings.Join(quoted, ", ")))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatValidation formats a mapping summary and its overlaps.
func formatValidation(p palette, store *mapping.Store) string {
	var sb strings.Builder
	variants := 0
	for _, vs := range store.All() {
		variants += len(vs)
	}
	sb.WriteString(fmt.Sprintf("%s %s\n", p.green("✓"), p.bold(store.Source())))
	sb.WriteString(fmt.Sprintf("  Terms:     %d\n", store.Len()))
	sb.WriteString(fmt.Sprintf("  Variants:  %d\n", variants))

	overlaps := store.Overlaps()
	if len(overlaps) == 0 {
		sb.WriteString(fmt.Sprintf("  Overlaps:  %s\n", p.green("none")))
		return sb.String()
	}
	sb.WriteString(fmt.Sprintf("  Overlaps:  %s\n", p.yellow(fmt.Sprintf("%d (first declared wins)", len(overlaps)))))
	for _, o := range overlaps {
		sb.WriteString(fmt.Sprintf("    %q → %s  %s\n",
			o.Normalized, p.magenta(o.Claimants[0]),
			p.gray("shadows "+strings.Join(o.Claimants[1:], ", "))))
	}
	return sb.String()
}

// formatGraph formats bipartite stats and the most connected interests.
func formatGraph(p palette, g *bipartite.Graph, top int) string {
	s := g.Stats()
	var sb strings.Builder
	sb.WriteString(p.bold("⚡ bipartite graph") + "\n")
	sb.WriteString(fmt.Sprintf("  Entities:   %d\n", s.Entities))
	sb.WriteString(fmt.Sprintf("  Interests:  %d\n", s.Interests))
	sb.WriteString(fmt.Sprintf("  Edges:      %d\n", s.Edges))
	if top > 0 {
		for _, d := range g.TopInterests(top) {
			sb.WriteString(fmt.Sprintf("    %s  %s\n", p.magenta(d.Label), p.gray(fmt.Sprintf("%d", d.Degree))))
		}
	}
	return sb.String()
}

// formatRuns formats saved run summaries.
func formatRuns(p palette, runs []ports.RunSummary) string {
	var sb strings.Builder
	sb.WriteString(p.bold(fmt.Sprintf("⚡ %d runs", len(runs))) + "\n")
	for _, r := range runs {
		ts := time.Unix(r.CreatedAt, 0).UTC().Format(time.RFC3339)
		sb.WriteString(fmt.Sprintf("  %s  %s  %d entities  %d unmapped  %s\n",
			p.cyan(r.ID), p.gray(ts), r.Entities, r.Unmapped, filepath.Base(r.InputSource)))
	}
	return sb.String()
}
