package ports

// EntityRecord is one entity (e.g. a person) with its raw interest strings,
// as produced by an extractor. Interests keep their source order.
type EntityRecord struct {
	Name      string   `json:"name" yaml:"name"`
	Interests []string `json:"interests" yaml:"interests"`
}

// CanonicalRecord is an entity with its canonical interests: deduplicated,
// non-empty, and sorted in ascending byte order.
type CanonicalRecord struct {
	Name      string   `json:"name" yaml:"name"`
	Interests []string `json:"interests" yaml:"interests"`
}

// UnmappedTerm is a normalized term that resolved to itself because no
// canonical term or variant matched it. Variants lists the raw spellings seen.
type UnmappedTerm struct {
	Term     string   `json:"term" yaml:"term"`
	Variants []string `json:"variants" yaml:"variants"`
	Count    int      `json:"count" yaml:"count"`
}
