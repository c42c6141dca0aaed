// Package records reads entity files produced by an extractor and writes
// canonicalized records for graph builders.
//
// Two input shapes are accepted, both as YAML or JSON:
//
//	# name -> interests, in file order
//	Ada Lovelace:
//	  - Machine Learning
//	  - optimisation
//
//	# list of objects
//	- name: Ada Lovelace
//	  interests: [Machine Learning, optimisation]
//
// A record whose interests are null has no interests.
package records

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/corey/aoi/internal/ports"
	"gopkg.in/yaml.v3"
)

// Format selects the output encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat accepts "yaml", "yml" or "json" (any case).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yaml", "yml", "":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format %q (want yaml or json)", s)
	}
}

// ReadFile reads entity records from path.
func ReadFile(path string) ([]ports.EntityRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open entities: %w", err)
	}
	defer f.Close()
	recs, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

// Read decodes entity records from r. Entity names must be unique.
func Read(r io.Reader) ([]ports.EntityRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read entities: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse entities: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return []ports.EntityRecord{}, nil
	}

	var recs []ports.EntityRecord
	root := doc.Content[0]
	switch root.Kind {
	case yaml.MappingNode:
		recs, err = readMapping(root)
	case yaml.SequenceNode:
		recs, err = readSequence(root)
	default:
		err = fmt.Errorf("line %d: expected a mapping of name to interests or a list of records", root.Line)
	}
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(recs))
	for _, rec := range recs {
		if rec.Name == "" {
			return nil, errors.New("entity with empty name")
		}
		if seen[rec.Name] {
			return nil, fmt.Errorf("duplicate entity %q", rec.Name)
		}
		seen[rec.Name] = true
	}
	return recs, nil
}

func readMapping(root *yaml.Node) ([]ports.EntityRecord, error) {
	recs := make([]ports.EntityRecord, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		k, v := root.Content[i], root.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: entity name must be a string", k.Line)
		}
		var interests []string
		if err := v.Decode(&interests); err != nil {
			return nil, fmt.Errorf("line %d: interests of %q: %w", v.Line, k.Value, err)
		}
		recs = append(recs, ports.EntityRecord{Name: k.Value, Interests: nonNil(interests)})
	}
	return recs, nil
}

func readSequence(root *yaml.Node) ([]ports.EntityRecord, error) {
	recs := make([]ports.EntityRecord, 0, len(root.Content))
	for _, item := range root.Content {
		var rec ports.EntityRecord
		if err := item.Decode(&rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", item.Line, err)
		}
		rec.Interests = nonNil(rec.Interests)
		recs = append(recs, rec)
	}
	return recs, nil
}

func nonNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}

// Write encodes canonical records to w. YAML output is a name -> interests
// mapping in record order; JSON output is a list of {name, interests} objects.
func Write(w io.Writer, recs []ports.CanonicalRecord, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if recs == nil {
			recs = []ports.CanonicalRecord{}
		}
		return enc.Encode(recs)
	case FormatYAML, "":
		root := &yaml.Node{Kind: yaml.MappingNode}
		for _, rec := range recs {
			seq := &yaml.Node{Kind: yaml.SequenceNode}
			for _, interest := range rec.Interests {
				seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: interest})
			}
			if len(seq.Content) == 0 {
				seq.Style = yaml.FlowStyle
			}
			root.Content = append(root.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: rec.Name},
				seq,
			)
		}
		if len(root.Content) == 0 {
			root.Style = yaml.FlowStyle
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(root); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// WriteFile writes records to path, or to stdout when path is "" or "-".
func WriteFile(path string, recs []ports.CanonicalRecord, format Format) error {
	if path == "" || path == "-" {
		return Write(os.Stdout, recs, format)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := Write(f, recs, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
