package mapping

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadError reports a mapping source that is missing, unreadable or malformed.
// No partial store accompanies it.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load mapping %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// IsLoadError reports whether err (or anything it wraps) is a *LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}

// LoadFile reads a mapping file from disk. The file is opened, parsed fully
// and closed before returning.
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	defer f.Close()
	return Load(f, path)
}

// LoadFS reads a mapping file from an fs.FS, e.g. the embedded default vocabulary.
func LoadFS(fsys fs.FS, path string) (*Store, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	return parse(data, path)
}

// Load parses a mapping document from r. source names the document in errors.
//
// The document must be a YAML (or JSON) mapping whose keys are canonical terms
// and whose values are sequences of variant strings. A null or empty sequence
// declares a canonical term with no variants.
func Load(r io.Reader, source string) (*Store, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}
	return parse(data, source)
}

func parse(data []byte, source string) (*Store, error) {
	entries, err := decodeEntries(data)
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}
	return newStore(source, entries), nil
}

func decodeEntries(data []byte) ([]Entry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("empty document")
	}

	root := resolveAlias(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: root must be a mapping of canonical term to variants, got %s",
			root.Line, kindName(root))
	}

	entries := make([]Entry, 0, len(root.Content)/2)
	seen := make(map[string]int, len(root.Content)/2)

	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode := resolveAlias(root.Content[i])
		valNode := resolveAlias(root.Content[i+1])

		canonical, ok := scalarString(keyNode)
		if !ok {
			return nil, fmt.Errorf("line %d: canonical term must be a string, got %s", keyNode.Line, kindName(keyNode))
		}
		if canonical == "" {
			return nil, fmt.Errorf("line %d: empty canonical term", keyNode.Line)
		}
		if prev, dup := seen[canonical]; dup {
			return nil, fmt.Errorf("line %d: duplicate canonical term %q (first declared on line %d)",
				keyNode.Line, canonical, prev)
		}
		seen[canonical] = keyNode.Line

		variants, err := decodeVariants(canonical, valNode)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Canonical: canonical, Variants: variants})
	}
	return entries, nil
}

func decodeVariants(canonical string, n *yaml.Node) ([]string, error) {
	if isNull(n) {
		return []string{}, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: variants of %q must be a sequence of strings, got %s",
			n.Line, canonical, kindName(n))
	}
	variants := make([]string, 0, len(n.Content))
	for _, item := range n.Content {
		item = resolveAlias(item)
		v, ok := scalarString(item)
		if !ok {
			return nil, fmt.Errorf("line %d: variant of %q must be a string, got %s",
				item.Line, canonical, kindName(item))
		}
		variants = append(variants, v)
	}
	return variants, nil
}

// scalarString accepts any non-null scalar and returns its literal text.
// Unquoted numbers such as `3d` or `2024` stay as written.
func scalarString(n *yaml.Node) (string, bool) {
	if n.Kind != yaml.ScalarNode || isNull(n) {
		return "", false
	}
	return n.Value, true
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		if isNull(n) {
			return "null"
		}
		return "scalar " + n.Tag
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown node"
	}
}
