package viz

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sparqlviz/sparqlviz/internal/graph"
	"github.com/sparqlviz/sparqlviz/internal/layout"
	"github.com/sparqlviz/sparqlviz/internal/rdf"
)

func testGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.Build([]rdf.Triple{
		rdf.NewTriple("ex:Alice", "a", "ex:Person"),
		rdf.NewTriple("ex:Alice", "ex:name", "<Alice & Bob>"),
	}, graph.Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

// fixedFrame places every node on a grid so expected coordinates are easy
// to compute.
func fixedFrame(g *graph.Graph) layout.Frame {
	f := layout.Frame{Positions: make(map[string]layout.Vec)}
	for i, n := range g.Nodes {
		f.Positions[n.ID] = layout.Vec{X: float64(10 * (i + 1)), Y: float64(20 * (i + 1))}
	}
	return f
}

func TestNewScene(t *testing.T) {
	g := testGraph(t)
	f := fixedFrame(g)
	s := NewScene(g, f, layout.Viewport{Width: 400, Height: 300}, layout.Identity())

	if len(s.Circles) != 3 {
		t.Fatalf("got %d circles, want 3 (predicate nodes are not drawn)", len(s.Circles))
	}
	if len(s.Links) != 2 || len(s.LinkTexts) != 2 {
		t.Fatalf("got %d links / %d link texts, want 2", len(s.Links), len(s.LinkTexts))
	}

	classes := map[string]string{}
	for _, c := range s.Circles {
		classes[c.ID] = c.Class
	}
	if classes["ex:Alice"] != "instance" {
		t.Errorf("ex:Alice class = %q, want instance", classes["ex:Alice"])
	}
	if classes["ex:Person"] != "class" {
		t.Errorf("ex:Person class = %q, want class", classes["ex:Person"])
	}

	for i, c := range s.Circles {
		txt := s.NodeTexts[i]
		if txt.X != c.X+12 || txt.Y != c.Y+3 {
			t.Errorf("node text for %s at (%v,%v), want (%v,%v)", c.ID, txt.X, txt.Y, c.X+12, c.Y+3)
		}
	}

	tr := g.NodeTriples[0]
	sp, pp, op := f.Positions[tr.Subject], f.Positions[tr.Predicate], f.Positions[tr.Object]
	want := PathData(sp, pp, op)
	if s.Links[0].D != want {
		t.Errorf("path = %q, want %q", s.Links[0].D, want)
	}
	cx := (sp.X+pp.X+op.X)/3 + 4
	if s.LinkTexts[0].X != cx {
		t.Errorf("link text x = %v, want %v", s.LinkTexts[0].X, cx)
	}
	if s.LinkTexts[0].Text != "a" {
		t.Errorf("link text = %q, want the predicate label", s.LinkTexts[0].Text)
	}
}

func TestNewScene_NilGraph(t *testing.T) {
	s := NewScene(nil, layout.Frame{}, layout.Viewport{Width: 1, Height: 1}, layout.Identity())
	if !s.IsEmpty() {
		t.Error("scene for nil graph should be empty")
	}
}

func TestPathData(t *testing.T) {
	got := PathData(layout.Vec{X: 1, Y: 2}, layout.Vec{X: 3.5, Y: -4.25}, layout.Vec{X: 100, Y: 0.001})
	want := "M 1,2 S 3.5,-4.25 100,0"
	if got != want {
		t.Errorf("PathData = %q, want %q", got, want)
	}
}

func TestRenderSVG(t *testing.T) {
	g := testGraph(t)
	s := NewScene(g, fixedFrame(g), layout.Viewport{Width: 400, Height: 300}, layout.Transform{X: 5, Y: 6, K: 2})

	var buf bytes.Buffer
	if err := RenderSVG(&buf, s); err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	out := buf.String()

	checks := []string{
		`<svg xmlns="http://www.w3.org/2000/svg" width="400" height="300"`,
		`marker-end="url(#end)"`,
		`transform="translate(5,6) scale(2)"`,
		`class="instance"`,
		`class="class"`,
		`class="link-text"`,
		`class="node-text"`,
	}
	for _, want := range checks {
		if !strings.Contains(out, want) {
			t.Errorf("svg missing %q", want)
		}
	}
	if strings.Contains(out, "<Alice & Bob>") {
		t.Error("literal label was not escaped")
	}
	if got := strings.Count(out, "<circle"); got != 3 {
		t.Errorf("got %d circles, want 3", got)
	}
}

func TestRenderSVG_Nil(t *testing.T) {
	if err := RenderSVG(&bytes.Buffer{}, nil); err == nil {
		t.Error("expected error for nil scene")
	}
}

func TestGenerateHTML(t *testing.T) {
	g := testGraph(t)
	s := NewScene(g, fixedFrame(g), layout.Viewport{Width: 400, Height: 300}, layout.Identity())

	html, err := GenerateHTML(s, DefaultOptions())
	if err != nil {
		t.Fatalf("GenerateHTML: %v", err)
	}
	for _, want := range []string{"<!DOCTYPE html>", "<svg", "sparql-viz-graph.svg", "wheel"} {
		if !strings.Contains(html, want) {
			t.Errorf("html missing %q", want)
		}
	}

	html, err = GenerateHTML(s, HTMLOptions{Title: "Static"})
	if err != nil {
		t.Fatalf("GenerateHTML: %v", err)
	}
	if strings.Contains(html, "'wheel'") {
		t.Error("zoom/pan script included when disabled")
	}
	if !strings.Contains(html, "<title>Static</title>") {
		t.Error("custom title missing")
	}
}

func TestGenerateHTML_Empty(t *testing.T) {
	s := NewScene(&graph.Graph{}, layout.Frame{}, layout.Viewport{Width: 1, Height: 1}, layout.Identity())
	html, err := GenerateHTML(s, DefaultOptions())
	if err != nil {
		t.Fatalf("GenerateHTML: %v", err)
	}
	if !strings.Contains(html, "No triples") {
		t.Error("expected empty-state page")
	}

	if _, err := GenerateHTML(nil, DefaultOptions()); err == nil {
		t.Error("expected error for nil scene")
	}
}

func TestGenerateViewerHTML(t *testing.T) {
	html, err := GenerateViewerHTML(ViewerOptions{BasePath: "/viz/"})
	if err != nil {
		t.Fatalf("GenerateViewerHTML: %v", err)
	}
	for _, want := range []string{"/api/events", "/api/drag/start", "/viz/api/export.svg", "circle.class"} {
		if !strings.Contains(html, want) {
			t.Errorf("viewer html missing %q", want)
		}
	}

	if _, err := GenerateViewerHTML(ViewerOptions{BasePath: "viz"}); err == nil {
		t.Error("expected error for relative base path")
	}
}

func TestGenerateViewerHTML_DragCallsAreSerialized(t *testing.T) {
	html, err := GenerateViewerHTML(ViewerOptions{})
	if err != nil {
		t.Fatalf("GenerateViewerHTML: %v", err)
	}
	for _, phase := range []string{"start", "move", "end"} {
		if strings.Contains(html, "post('/api/drag/"+phase+"'") {
			t.Errorf("drag %s is posted outside the gesture queue", phase)
		}
		if !strings.Contains(html, "enqueue('/api/drag/"+phase+"'") {
			t.Errorf("drag %s not sent through the gesture queue", phase)
		}
	}
	if !strings.Contains(html, "dragQueue.then(") {
		t.Error("gesture queue does not chain requests")
	}
}

func TestToJSON(t *testing.T) {
	g := testGraph(t)
	f := fixedFrame(g)
	b, err := ToJSON(g, &f, layout.Identity())
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	var doc struct {
		Nodes []struct {
			ID    string  `json:"id"`
			Type  string  `json:"type"`
			Class string  `json:"class"`
			R     float64 `json:"r"`
		} `json:"nodes"`
		Triples []graph.Triples `json:"triples"`
		Frame   struct {
			Positions map[string]layout.Vec `json:"positions"`
			Transform layout.Transform      `json:"transform"`
		} `json:"frame"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(doc.Nodes) != len(g.Nodes) {
		t.Errorf("got %d nodes, want %d", len(doc.Nodes), len(g.Nodes))
	}
	if len(doc.Triples) != 2 {
		t.Errorf("got %d triples, want 2", len(doc.Triples))
	}
	if len(doc.Frame.Positions) != len(g.Nodes) {
		t.Errorf("got %d positions, want %d", len(doc.Frame.Positions), len(g.Nodes))
	}
	if doc.Frame.Transform.K != 1 {
		t.Errorf("transform scale = %v, want 1", doc.Frame.Transform.K)
	}
	for _, n := range doc.Nodes {
		if n.Type == "pred" && n.Class != "pred" {
			t.Errorf("predicate node %s has class %q", n.ID, n.Class)
		}
		if n.R == 0 {
			t.Errorf("node %s has no radius", n.ID)
		}
	}
}

func TestToJSON_NoFrame(t *testing.T) {
	b, err := ToJSON(nil, nil, layout.Identity())
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	if strings.Contains(string(b), `"frame"`) {
		t.Error("frame should be omitted")
	}
	if !strings.Contains(string(b), `"nodes": []`) {
		t.Errorf("nodes should encode as an empty list, got %s", b)
	}
}

func TestToCytoscapeJSON(t *testing.T) {
	g := testGraph(t)
	f := fixedFrame(g)
	out, err := ToCytoscapeJSON(g, &f)
	if err != nil {
		t.Fatalf("ToCytoscapeJSON: %v", err)
	}

	var elements CytoscapeElements
	if err := json.Unmarshal([]byte(out), &elements); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(elements.Nodes) != len(g.Nodes) || len(elements.Edges) != len(g.Links) {
		t.Fatalf("got %d nodes / %d edges", len(elements.Nodes), len(elements.Edges))
	}
	seen := map[string]bool{}
	for _, e := range elements.Edges {
		if seen[e.Data.ID] {
			t.Errorf("duplicate edge id %s", e.Data.ID)
		}
		seen[e.Data.ID] = true
	}
	for _, n := range elements.Nodes {
		if n.Position == nil {
			t.Errorf("node %s has no preset position", n.Data.ID)
		}
	}

	if _, err := ToCytoscapeJSON(nil, nil); err == nil {
		t.Error("expected error for nil graph")
	}
}
