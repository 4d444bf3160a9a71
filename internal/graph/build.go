package graph

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sparqlviz/sparqlviz/internal/rdf"
)

// DefaultLimit caps how many triples are mapped so the simulation stays interactive.
const DefaultLimit = 100

// ErrMalformedTriple is returned when any input triple lacks a component.
// No partial graph is produced.
var ErrMalformedTriple = errors.New("malformed triple")

// Options configures Build.
type Options struct {
	// Prefixes used to abbreviate IRIs. Nil means no abbreviation.
	Prefixes rdf.PrefixMap
	// Limit is the maximum number of triples mapped; <= 0 means DefaultLimit.
	Limit int
}

func (o Options) limit() int {
	if o.Limit <= 0 {
		return DefaultLimit
	}
	return o.Limit
}

// Build maps triples to a graph. Empty input yields a nil graph and no
// error: there is nothing to draw. Only the first Limit triples are used.
func Build(triples []rdf.Triple, opts Options) (*Graph, error) {
	if len(triples) == 0 {
		return nil, nil
	}
	if n := opts.limit(); len(triples) > n {
		triples = triples[:n]
	}

	for i, t := range triples {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("%w at position %d: %v", ErrMalformedTriple, i, err)
		}
	}

	b := newBuilder(len(triples))
	rows := make([]row, len(triples))
	for i, t := range triples {
		rows[i] = b.abbreviate(t, opts.Prefixes)
	}
	for i, r := range rows {
		b.add(i, r)
	}
	return b.g, nil
}

// BuildFromDataset maps a parsed dataset, abbreviating with the dataset's own
// prefixes laid over opts.Prefixes.
func BuildFromDataset(ds *rdf.Dataset, opts Options) (*Graph, error) {
	if ds == nil {
		return nil, nil
	}
	opts.Prefixes = opts.Prefixes.Merge(ds.Prefixes)
	return Build(ds.Triples, opts)
}

// row is one triple after abbreviation and rounding.
type row struct {
	subj, pred, obj     string
	subjBlank, objBlank bool
}

type builder struct {
	g *Graph
	// resources dedups subject and object nodes; predicate nodes never join it.
	resources map[string]int
	// taken holds every ID in use, so predicate IDs stay clear of resource IDs.
	taken map[string]bool
}

func newBuilder(n int) *builder {
	return &builder{
		g: &Graph{
			Nodes:       make([]Node, 0, 2*n),
			Links:       make([]Link, 0, 2*n),
			NodeTriples: make([]Triples, 0, n),
			index:       make(map[string]int, 2*n),
		},
		resources: make(map[string]int, 2*n),
		taken:     make(map[string]bool, 3*n),
	}
}

// abbreviate maps a triple to display values and reserves its resource IDs.
func (b *builder) abbreviate(t rdf.Triple, prefixes rdf.PrefixMap) row {
	r := row{
		subj:      prefixes.AbbreviateTerm(t.Subject),
		pred:      prefixes.AbbreviateTerm(t.Predicate),
		obj:       RoundNumeric(prefixes.AbbreviateTerm(t.Object)),
		subjBlank: t.Subject.Kind == rdf.Blank,
		objBlank:  t.Object.Kind == rdf.Blank,
	}
	b.taken[r.subj] = true
	b.taken[r.obj] = true
	return r
}

func (b *builder) add(pos int, r row) {
	predID := b.predicateID(pos, r.pred)
	b.push(Node{
		ID:     predID,
		Label:  r.pred,
		Weight: 1,
		Type:   NodeTypePred,
	})
	subj := b.lookupOrCreate(r.subj, r.subjBlank)
	obj := b.lookupOrCreate(r.obj, r.objBlank)

	if rdf.IsRDFType(r.pred) {
		b.g.Nodes[subj].Instance = true
		b.g.Nodes[obj].OWLClass = true
	}

	b.g.Links = append(b.g.Links,
		Link{Source: r.subj, Target: predID, Predicate: r.pred, Weight: 1},
		Link{Source: predID, Target: r.obj, Predicate: r.pred, Weight: 1},
	)
	b.g.NodeTriples = append(b.g.NodeTriples, Triples{Subject: r.subj, Predicate: predID, Object: r.obj})
}

// predicateID returns PredicateID(pos, label), suffixed with ~n when a
// resource already uses that ID.
func (b *builder) predicateID(pos int, label string) string {
	base := PredicateID(pos, label)
	id := base
	for n := 1; b.taken[id]; n++ {
		id = base + "~" + strconv.Itoa(n)
	}
	b.taken[id] = true
	return id
}

func (b *builder) push(n Node) int {
	b.g.Nodes = append(b.g.Nodes, n)
	i := len(b.g.Nodes) - 1
	b.g.index[n.ID] = i
	return i
}

func (b *builder) lookupOrCreate(id string, blank bool) int {
	if i, ok := b.resources[id]; ok {
		if blank {
			b.g.Nodes[i].Blank = true
		}
		return i
	}
	i := b.push(Node{ID: id, Label: id, Weight: 1, Type: NodeTypeNode, Blank: blank})
	b.resources[id] = i
	return i
}

// PredicateID names the predicate node created for the triple at pos.
// Predicate nodes are never shared between triples, so the position is part
// of the identity. A literal can still spell the same string; Build then
// suffixes the predicate ID.
func PredicateID(pos int, label string) string {
	return "#" + strconv.Itoa(pos) + " " + label
}

// RoundNumeric rounds a value that parses as a finite decimal number to two
// places. Integral values are written without a fraction. Anything else is
// returned unchanged.
func RoundNumeric(s string) string {
	if s == "" || strings.ContainsAny(s, "xXpP_") {
		return s
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return s
	}
	if f == 0 {
		f = 0 // drop the sign of -0
	}
	if f == math.Trunc(f) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}
