// Package graph maps RDF triples to the node/link graph drawn by the viewer.
package graph

import (
	"encoding/json"
	"fmt"
)

// NodeType distinguishes resource nodes from the per-triple predicate nodes
// that carry an edge's label.
type NodeType int

const (
	NodeTypeNode NodeType = iota
	NodeTypePred
)

// String returns "node" or "pred".
func (t NodeType) String() string {
	switch t {
	case NodeTypeNode:
		return "node"
	case NodeTypePred:
		return "pred"
	default:
		return fmt.Sprintf("NodeType(%d)", int(t))
	}
}

// MarshalJSON encodes the type by name.
func (t NodeType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes "node" or "pred".
func (t *NodeType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch s {
	case "node":
		*t = NodeTypeNode
	case "pred":
		*t = NodeTypePred
	default:
		return fmt.Errorf("unknown node type %q", s)
	}
	return nil
}

// Node is a distinct RDF term, or one predicate occurrence.
// Layout state lives in the layout package, never here.
type Node struct {
	ID     string   `json:"id"`
	Label  string   `json:"label"`
	Weight float64  `json:"weight"`
	Type   NodeType `json:"type"`

	// Blank is captured from the parsed term kind.
	Blank bool `json:"blank,omitempty"`
	// OWLClass is set once the node is the object of an rdf:type edge.
	OWLClass bool `json:"owlClass"`
	// Instance is set once the node is the subject of an rdf:type edge.
	Instance bool `json:"instance"`
}

// Link is a directed edge between two node IDs.
type Link struct {
	Source    string  `json:"source"`
	Target    string  `json:"target"`
	Predicate string  `json:"predicate"`
	Weight    float64 `json:"weight"`
}

// Triples is the display record for one input triple.
type Triples struct {
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Object    string `json:"object"`
}

// Graph is rebuilt wholesale for every new input; it is never patched.
type Graph struct {
	Nodes       []Node    `json:"nodes"`
	Links       []Link    `json:"links"`
	NodeTriples []Triples `json:"nodeTriples"`

	index map[string]int
}

// Stats summarizes a graph.
type Stats struct {
	Nodes          int `json:"nodes"`
	PredicateNodes int `json:"predicate_nodes"`
	Links          int `json:"links"`
	Triples        int `json:"triples"`
	Classes        int `json:"classes"`
	Instances      int `json:"instances"`
	Blank          int `json:"blank"`
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (Node, bool) {
	if g == nil {
		return Node{}, false
	}
	if g.index == nil {
		g.reindex()
	}
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.Nodes[i], true
}

// Index returns the position of id in Nodes, or -1.
func (g *Graph) Index(id string) int {
	if g == nil {
		return -1
	}
	if g.index == nil {
		g.reindex()
	}
	if i, ok := g.index[id]; ok {
		return i
	}
	return -1
}

func (g *Graph) reindex() {
	g.index = make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		g.index[n.ID] = i
	}
}

// NodesOfType returns the nodes of type t in graph order.
func (g *Graph) NodesOfType(t NodeType) []Node {
	var out []Node
	for _, n := range g.Nodes {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}

// IsEmpty returns true if the graph has no nodes.
func (g *Graph) IsEmpty() bool {
	return g == nil || len(g.Nodes) == 0
}

// Stats counts nodes by role.
func (g *Graph) Stats() Stats {
	var s Stats
	if g == nil {
		return s
	}
	for _, n := range g.Nodes {
		if n.Type == NodeTypePred {
			s.PredicateNodes++
			continue
		}
		s.Nodes++
		if n.OWLClass {
			s.Classes++
		}
		if n.Instance {
			s.Instances++
		}
		if n.Blank {
			s.Blank++
		}
	}
	s.Links = len(g.Links)
	s.Triples = len(g.NodeTriples)
	return s
}
