// Package bipartite builds the entity↔interest graph from canonicalized
// records. Entities form one partition and canonical interests the other;
// an edge means the entity lists the interest. Layout and drawing are left to
// whatever consumes the DOT output.
package bipartite

import (
	"fmt"
	"io"
	"sort"

	"github.com/corey/aoi/internal/ports"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
)

// Kind identifies the partition a node belongs to.
type Kind int

const (
	Entity   Kind = 0
	Interest Kind = 1
)

func (k Kind) String() string {
	if k == Entity {
		return "entity"
	}
	return "interest"
}

// Node is a labelled graph node. Entity and interest nodes with the same
// label are distinct nodes.
type Node struct {
	id    int64
	Label string
	Kind  Kind
}

// ID implements graph.Node.
func (n Node) ID() int64 { return n.id }

// DOTID implements dot.Node.
func (n Node) DOTID() string { return n.Label }

// Attributes implements encoding.Attributer.
func (n Node) Attributes() []encoding.Attribute {
	shape := "ellipse"
	if n.Kind == Entity {
		shape = "box"
	}
	return []encoding.Attribute{
		{Key: "bipartite", Value: fmt.Sprintf("%d", n.Kind)},
		{Key: "node_type", Value: n.Kind.String()},
		{Key: "shape", Value: shape},
	}
}

type key struct {
	label string
	kind  Kind
}

// Graph is an undirected bipartite graph over entities and interests.
type Graph struct {
	g     *simple.UndirectedGraph
	nodes map[key]Node
}

// Stats summarizes a graph.
type Stats struct {
	Entities  int
	Interests int
	Edges     int
}

// Degree pairs a node label with its degree.
type Degree struct {
	Label  string
	Degree int
}

// Build constructs the graph. Records are added in order; a repeated entity
// name merges into the existing node.
func Build(records []ports.CanonicalRecord) *Graph {
	b := &Graph{g: simple.NewUndirectedGraph(), nodes: make(map[key]Node)}
	for _, rec := range records {
		e := b.node(rec.Name, Entity)
		for _, interest := range rec.Interests {
			if interest == "" {
				continue
			}
			i := b.node(interest, Interest)
			b.g.SetEdge(simple.Edge{F: e, T: i})
		}
	}
	return b
}

func (b *Graph) node(label string, kind Kind) Node {
	k := key{label: label, kind: kind}
	if n, ok := b.nodes[k]; ok {
		return n
	}
	n := Node{id: int64(len(b.nodes)), Label: label, Kind: kind}
	b.g.AddNode(n)
	b.nodes[k] = n
	return n
}

// Stats returns node and edge counts.
func (b *Graph) Stats() Stats {
	var s Stats
	for k := range b.nodes {
		if k.kind == Entity {
			s.Entities++
		} else {
			s.Interests++
		}
	}
	s.Edges = b.g.Edges().Len()
	return s
}

// Degree returns the degree of a node, or -1 if it is not in the graph.
func (b *Graph) Degree(label string, kind Kind) int {
	n, ok := b.nodes[key{label: label, kind: kind}]
	if !ok {
		return -1
	}
	return b.g.From(n.ID()).Len()
}

// Neighbors returns the labels adjacent to a node, sorted.
func (b *Graph) Neighbors(label string, kind Kind) []string {
	n, ok := b.nodes[key{label: label, kind: kind}]
	if !ok {
		return nil
	}
	labels := make([]string, 0)
	for _, m := range graph.NodesOf(b.g.From(n.ID())) {
		labels = append(labels, m.(Node).Label)
	}
	sort.Strings(labels)
	return labels
}

// TopInterests returns up to n interests by degree, highest first, ties by label.
// n <= 0 returns all of them.
func (b *Graph) TopInterests(n int) []Degree {
	var out []Degree
	for k, node := range b.nodes {
		if k.kind != Interest {
			continue
		}
		out = append(out, Degree{Label: k.label, Degree: b.g.From(node.ID()).Len()})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Degree != out[j].Degree {
			return out[i].Degree > out[j].Degree
		}
		return out[i].Label < out[j].Label
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// WriteDOT writes the graph in Graphviz DOT format.
//
// DOT node IDs must be unique, so an interest whose label equals an entity
// name is written with an "interest:" prefix.
func (b *Graph) WriteDOT(w io.Writer, name string) error {
	out := simple.NewUndirectedGraph()
	for k, n := range b.nodes {
		label := n.Label
		if k.kind == Interest {
			if _, clash := b.nodes[key{label: label, kind: Entity}]; clash {
				label = "interest:" + label
			}
		}
		out.AddNode(dotNode{Node: n, dotID: label})
	}
	edges := b.g.Edges()
	for edges.Next() {
		e := edges.Edge()
		out.SetEdge(simple.Edge{F: out.Node(e.From().ID()), T: out.Node(e.To().ID())})
	}

	data, err := dot.Marshal(out, name, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal dot: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write dot: %w", err)
	}
	return nil
}

// dotNode overrides the DOT ID of a Node.
type dotNode struct {
	Node
	dotID string
}

func (n dotNode) DOTID() string { return n.dotID }
