package viz

import (
	"encoding/json"
	"fmt"

	"github.com/sparqlviz/sparqlviz/internal/graph"
	"github.com/sparqlviz/sparqlviz/internal/layout"
)

// CytoscapeElements represents the Cytoscape.js data format.
type CytoscapeElements struct {
	Nodes []CytoscapeNode `json:"nodes"`
	Edges []CytoscapeEdge `json:"edges"`
}

// CytoscapeNode represents a node in Cytoscape.js format.
type CytoscapeNode struct {
	Data     CytoscapeNodeData `json:"data"`
	Position *layout.Vec       `json:"position,omitempty"`
}

// CytoscapeNodeData contains the node data fields.
type CytoscapeNodeData struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
	Class string `json:"class"`
}

// CytoscapeEdge represents an edge in Cytoscape.js format.
type CytoscapeEdge struct {
	Data CytoscapeEdgeData `json:"data"`
}

// CytoscapeEdgeData contains the edge data fields.
type CytoscapeEdgeData struct {
	ID        string `json:"id"`
	Source    string `json:"source"`
	Target    string `json:"target"`
	Predicate string `json:"predicate"`
}

// ToCytoscapeJSON converts the graph to Cytoscape.js JSON format, with
// preset positions when frame is non-nil.
func ToCytoscapeJSON(g *graph.Graph, frame *layout.Frame) (string, error) {
	if g == nil {
		return "", fmt.Errorf("graph cannot be nil")
	}
	elements := CytoscapeElements{
		Nodes: make([]CytoscapeNode, 0, len(g.Nodes)),
		Edges: make([]CytoscapeEdge, 0, len(g.Links)),
	}

	for _, n := range g.Nodes {
		cyNode := CytoscapeNode{Data: CytoscapeNodeData{
			ID:    n.ID,
			Label: n.Label,
			Type:  n.Type.String(),
			Class: graph.Classify(n).String(),
		}}
		if frame != nil {
			if p, ok := frame.Positions[n.ID]; ok {
				cyNode.Position = &p
			}
		}
		elements.Nodes = append(elements.Nodes, cyNode)
	}

	for i, l := range g.Links {
		elements.Edges = append(elements.Edges, CytoscapeEdge{
			Data: CytoscapeEdgeData{
				ID:        edgeID(l.Source, l.Target, i),
				Source:    l.Source,
				Target:    l.Target,
				Predicate: l.Predicate,
			},
		})
	}

	jsonBytes, err := json.Marshal(elements)
	if err != nil {
		return "", fmt.Errorf("marshaling Cytoscape elements to JSON: %w", err)
	}
	return string(jsonBytes), nil
}

// edgeID generates a unique edge ID for one export.
// IDs are based on slice position and are not stable across graph builds.
func edgeID(source, target string, index int) string {
	return fmt.Sprintf("%s-%s-%d", source, target, index)
}
