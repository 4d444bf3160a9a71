package viz

import (
	"encoding/json"
	"fmt"

	"github.com/sparqlviz/sparqlviz/internal/graph"
	"github.com/sparqlviz/sparqlviz/internal/layout"
)

// NodeDoc is a graph node with its drawing attributes.
type NodeDoc struct {
	graph.Node
	Class string  `json:"class"`
	R     float64 `json:"r"`
}

// FrameDoc is a layout frame together with the view transform.
type FrameDoc struct {
	layout.Frame
	Transform layout.Transform `json:"transform"`
}

// Document is the JSON form of a graph and, optionally, its layout.
type Document struct {
	Nodes   []NodeDoc       `json:"nodes"`
	Links   []graph.Link    `json:"links"`
	Triples []graph.Triples `json:"triples"`
	Stats   graph.Stats     `json:"stats"`
	Frame   *FrameDoc       `json:"frame,omitempty"`
}

// NewDocument builds the JSON document for g. frame may be nil when no
// layout has run.
func NewDocument(g *graph.Graph, frame *layout.Frame, t layout.Transform) Document {
	doc := Document{
		Nodes:   []NodeDoc{},
		Links:   []graph.Link{},
		Triples: []graph.Triples{},
	}
	if g != nil {
		for _, n := range g.Nodes {
			doc.Nodes = append(doc.Nodes, NodeDoc{Node: n, Class: graph.Classify(n).String(), R: graph.Radius(n)})
		}
		doc.Links = append(doc.Links, g.Links...)
		doc.Triples = append(doc.Triples, g.NodeTriples...)
		doc.Stats = g.Stats()
	}
	if frame != nil {
		doc.Frame = &FrameDoc{Frame: *frame, Transform: t}
	}
	return doc
}

// ToJSON encodes g and frame as indented JSON.
func ToJSON(g *graph.Graph, frame *layout.Frame, t layout.Transform) ([]byte, error) {
	b, err := json.MarshalIndent(NewDocument(g, frame, t), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling graph document: %w", err)
	}
	return b, nil
}
