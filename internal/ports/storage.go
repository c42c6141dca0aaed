// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

// RunStore persists canonicalization runs so downstream consumers (graph
// export, diffing against a new mapping) can read them back later.
//
// Crash safety: SaveRun must be transactional. A crash mid-write must not
// corrupt previously committed runs.
type RunStore interface {
	// SaveRun persists a run under run.ID and marks it as the latest run.
	// Overwrites any prior run with the same ID.
	SaveRun(run *Run) error

	// LoadRun retrieves a run by ID. The ID "latest" resolves to the most
	// recently saved run. Returns nil, nil if no such run exists.
	LoadRun(id string) (*Run, error)

	// ListRuns returns summaries of all runs, oldest first.
	ListRuns() ([]RunSummary, error)

	// DeleteRun removes a run. Idempotent: deleting a nonexistent run is not an error.
	// If the run was the latest, the newest remaining run becomes the latest.
	DeleteRun(id string) error
}

// Run is the complete result of canonicalizing one entity file.
type Run struct {
	ID            string            `json:"id"`
	CreatedAt     int64             `json:"created_at"` // unix seconds
	MappingSource string            `json:"mapping_source"`
	InputSource   string            `json:"input_source"`
	Records       []CanonicalRecord `json:"records"`
	Unmapped      []UnmappedTerm    `json:"unmapped"`
}

// RunSummary is the listing form of a Run.
type RunSummary struct {
	ID            string `json:"id"`
	CreatedAt     int64  `json:"created_at"`
	MappingSource string `json:"mapping_source"`
	InputSource   string `json:"input_source"`
	Entities      int    `json:"entities"`
	Unmapped      int    `json:"unmapped"`
}

// Summary derives the listing form of r.
func (r *Run) Summary() RunSummary {
	return RunSummary{
		ID:            r.ID,
		CreatedAt:     r.CreatedAt,
		MappingSource: r.MappingSource,
		InputSource:   r.InputSource,
		Entities:      len(r.Records),
		Unmapped:      len(r.Unmapped),
	}
}
