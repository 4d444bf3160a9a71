// Package viz turns a laid-out RDF graph into drawable elements, SVG
// images, and HTML pages.
package viz

import "github.com/sparqlviz/sparqlviz/internal/layout"

// Circle is one resource node. Predicate nodes are never drawn as circles.
type Circle struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Class string  `json:"class"` // "class", "blank", "instance" or "node"
	R     float64 `json:"r"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// LinkPath is the curve drawn for one triple, from the subject through the
// predicate node to the object.
type LinkPath struct {
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Object    string `json:"object"`
	D         string `json:"d"`
}

// Text is a positioned label.
type Text struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Scene holds everything needed to draw one frame.
type Scene struct {
	Width     float64          `json:"width"`
	Height    float64          `json:"height"`
	Transform layout.Transform `json:"transform"`
	Circles   []Circle         `json:"circles"`
	Links     []LinkPath       `json:"links"`
	NodeTexts []Text           `json:"nodeTexts"`
	LinkTexts []Text           `json:"linkTexts"`
}

// IsEmpty returns true if the scene has nothing to draw.
func (s *Scene) IsEmpty() bool {
	return s == nil || (len(s.Circles) == 0 && len(s.Links) == 0)
}
