package viz

import (
	"strconv"
	"strings"

	"github.com/sparqlviz/sparqlviz/internal/graph"
	"github.com/sparqlviz/sparqlviz/internal/layout"
)

// Label offsets in simulation units.
const (
	NodeTextDX  = 12
	NodeTextDY  = 3
	LinkTextOff = 4
)

// NewScene places the graph's elements at the positions in frame. Nodes
// missing from the frame are drawn at the origin.
func NewScene(g *graph.Graph, frame layout.Frame, vp layout.Viewport, t layout.Transform) *Scene {
	s := &Scene{Width: vp.Width, Height: vp.Height, Transform: t}
	if g == nil {
		return s
	}

	for _, n := range g.NodesOfType(graph.NodeTypeNode) {
		p := frame.Positions[n.ID]
		s.Circles = append(s.Circles, Circle{
			ID:    n.ID,
			Label: n.Label,
			Class: graph.Classify(n).String(),
			R:     graph.Radius(n),
			X:     p.X,
			Y:     p.Y,
		})
		s.NodeTexts = append(s.NodeTexts, Text{Text: n.Label, X: p.X + NodeTextDX, Y: p.Y + NodeTextDY})
	}

	for _, tr := range g.NodeTriples {
		sp := frame.Positions[tr.Subject]
		pp := frame.Positions[tr.Predicate]
		op := frame.Positions[tr.Object]
		s.Links = append(s.Links, LinkPath{
			Subject:   tr.Subject,
			Predicate: tr.Predicate,
			Object:    tr.Object,
			D:         PathData(sp, pp, op),
		})

		label := tr.Predicate
		if n, ok := g.Node(tr.Predicate); ok {
			label = n.Label
		}
		c := sp.Add(pp).Add(op).Scale(1.0 / 3)
		s.LinkTexts = append(s.LinkTexts, Text{Text: label, X: c.X + LinkTextOff, Y: c.Y + LinkTextOff})
	}
	return s
}

// PathData is the SVG path for a triple: a smooth curve from the subject to
// the object bending through the predicate node.
func PathData(subject, predicate, object layout.Vec) string {
	var b strings.Builder
	b.WriteString("M ")
	writePoint(&b, subject)
	b.WriteString(" S ")
	writePoint(&b, predicate)
	b.WriteByte(' ')
	writePoint(&b, object)
	return b.String()
}

func writePoint(b *strings.Builder, p layout.Vec) {
	b.WriteString(num(p.X))
	b.WriteByte(',')
	b.WriteString(num(p.Y))
}

// num formats a coordinate with at most two decimals.
func num(x float64) string {
	s := strconv.FormatFloat(x, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
