// Package rdf defines the RDF terms and triples consumed by the graph mapper,
// along with prefix handling and parsers for the supported serializations.
package rdf

import (
	"errors"
	"fmt"
	"strings"
)

// TermKind identifies what an RDF term denotes.
type TermKind int

const (
	// IRI is a globally identified resource.
	IRI TermKind = iota
	// Blank is a document-local node, written _:id.
	Blank
	// Literal is a plain, typed or language-tagged value.
	Literal
)

// String returns the lowercase name of the kind.
func (k TermKind) String() string {
	switch k {
	case IRI:
		return "iri"
	case Blank:
		return "blank"
	case Literal:
		return "literal"
	default:
		return fmt.Sprintf("TermKind(%d)", int(k))
	}
}

// MarshalText encodes the kind by name.
func (k TermKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *TermKind) UnmarshalText(b []byte) error {
	v, err := ParseTermKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// ParseTermKind is the inverse of TermKind.String.
func ParseTermKind(s string) (TermKind, error) {
	switch s {
	case "iri", "uri":
		return IRI, nil
	case "blank", "bnode":
		return Blank, nil
	case "literal", "typed-literal":
		return Literal, nil
	default:
		return 0, fmt.Errorf("unknown term kind %q", s)
	}
}

// RDFType is the full IRI of rdf:type.
const RDFType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

// Term is a single component of a triple.
type Term struct {
	Value    string   `json:"value"`
	Kind     TermKind `json:"kind"`
	Datatype string   `json:"datatype,omitempty"`
	Lang     string   `json:"lang,omitempty"`
}

// NewIRI returns an IRI term.
func NewIRI(v string) Term { return Term{Value: v, Kind: IRI} }

// NewBlank returns a blank node term. The _: marker is added when missing.
func NewBlank(id string) Term {
	if !strings.HasPrefix(id, "_:") {
		id = "_:" + id
	}
	return Term{Value: id, Kind: Blank}
}

// NewLiteral returns a plain literal term.
func NewLiteral(v string) Term { return Term{Value: v, Kind: Literal} }

// IsZero reports whether the term is absent. The empty literal "" is a
// value; an IRI or blank node without one is not.
func (t Term) IsZero() bool {
	return t.Value == "" && t.Kind != Literal
}

// GuessTerm classifies a bare string from a pre-parsed triple set.
// Values starting with _: are blank nodes; absolute IRIs and prefixed
// names are IRIs; everything else is a literal.
func GuessTerm(v string) Term {
	switch {
	case strings.HasPrefix(v, "_:"):
		return Term{Value: v, Kind: Blank}
	case v == "a":
		return Term{Value: v, Kind: IRI}
	case looksLikeIRI(v):
		return Term{Value: v, Kind: IRI}
	default:
		return Term{Value: v, Kind: Literal}
	}
}

func looksLikeIRI(v string) bool {
	if v == "" || strings.ContainsAny(v, " \t\n") {
		return false
	}
	i := strings.IndexByte(v, ':')
	if i <= 0 {
		return false
	}
	for _, r := range v[:i] {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_' || r == '.' || r == '+') {
			return false
		}
	}
	return true
}

// Triple is one RDF statement.
type Triple struct {
	Subject   Term `json:"subject"`
	Predicate Term `json:"predicate"`
	Object    Term `json:"object"`
}

// Validation errors.
var (
	ErrMissingSubject   = errors.New("triple subject is required")
	ErrMissingPredicate = errors.New("triple predicate is required")
	ErrMissingObject    = errors.New("triple object is required")
)

// Validate returns an error if any component is missing.
func (t Triple) Validate() error {
	if t.Subject.IsZero() {
		return ErrMissingSubject
	}
	if t.Predicate.IsZero() {
		return ErrMissingPredicate
	}
	if t.Object.IsZero() {
		return ErrMissingObject
	}
	return nil
}

// NewTriple builds a triple from bare strings using GuessTerm.
func NewTriple(s, p, o string) Triple {
	return Triple{Subject: GuessTerm(s), Predicate: GuessTerm(p), Object: GuessTerm(o)}
}

// IsRDFType reports whether label is one of the rdf:type aliases.
func IsRDFType(label string) bool {
	return label == "a" || label == "rdf:type" || label == RDFType
}
