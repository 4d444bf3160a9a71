package rdf

import (
	"fmt"
	"sort"
	"strings"
)

// Binding maps a short prefix to a namespace IRI.
type Binding struct {
	Prefix    string `json:"prefix" yaml:"prefix"`
	Namespace string `json:"namespace" yaml:"namespace"`
}

// PrefixMap is an ordered set of prefix bindings. A prefix appears at most once.
type PrefixMap []Binding

// DefaultPrefixes returns the built-in prefix table.
func DefaultPrefixes() PrefixMap {
	return PrefixMap{
		{"rdf", "http://www.w3.org/1999/02/22-rdf-syntax-ns#"},
		{"rdfs", "http://www.w3.org/2000/01/rdf-schema#"},
		{"xsd", "http://www.w3.org/2001/XMLSchema#"},
		{"prov", "http://www.w3.org/ns/prov#"},
		{"opm", "https://w3id.org/opm#"},
		{"seas", "https://w3id.org/seas/"},
		{"sd", "http://www.w3.org/ns/sparql-service-description#"},
		{"bot", "https://w3id.org/bot#"},
		{"cdt", "http://w3id.org/lindt/custom_datatypes#"},
		{"props", "https://w3id.org/product/props#"},
		{"inst", "https://www.niras.dk/proj100/"},
		{"owl", "http://www.w3.org/2002/07/owl#"},
	}
}

// Lookup returns the namespace bound to prefix.
func (m PrefixMap) Lookup(prefix string) (string, bool) {
	for _, b := range m {
		if b.Prefix == prefix {
			return b.Namespace, true
		}
	}
	return "", false
}

// Set binds prefix to ns, replacing an existing binding in place.
func (m PrefixMap) Set(prefix, ns string) PrefixMap {
	for i, b := range m {
		if b.Prefix == prefix {
			out := append(PrefixMap(nil), m...)
			out[i].Namespace = ns
			return out
		}
	}
	return append(append(PrefixMap(nil), m...), Binding{Prefix: prefix, Namespace: ns})
}

// Merge overlays other on m. Bindings in other win for the same prefix.
func (m PrefixMap) Merge(other PrefixMap) PrefixMap {
	out := append(PrefixMap(nil), m...)
	for _, b := range other {
		out = out.Set(b.Prefix, b.Namespace)
	}
	return out
}

// Abbreviate replaces the longest namespace that value starts with by
// "prefix:". Values without a matching namespace are returned unchanged,
// so abbreviating an abbreviated value is a no-op.
func (m PrefixMap) Abbreviate(value string) string {
	best := -1
	for i, b := range m {
		if b.Namespace == "" || !strings.HasPrefix(value, b.Namespace) {
			continue
		}
		if best < 0 || len(b.Namespace) > len(m[best].Namespace) {
			best = i
		}
	}
	if best < 0 {
		return value
	}
	return m[best].Prefix + ":" + value[len(m[best].Namespace):]
}

// Expand turns "prefix:local" into a full IRI when the prefix is bound.
func (m PrefixMap) Expand(curie string) string {
	if curie == "a" {
		return RDFType
	}
	i := strings.IndexByte(curie, ':')
	if i < 0 {
		return curie
	}
	ns, ok := m.Lookup(curie[:i])
	if !ok {
		return curie
	}
	return ns + curie[i+1:]
}

// AbbreviateTerm abbreviates IRI terms and leaves blank nodes and literals untouched.
func (m PrefixMap) AbbreviateTerm(t Term) string {
	if t.Kind != IRI {
		return t.Value
	}
	return m.Abbreviate(t.Value)
}

// ParseBinding parses "prefix=namespace" as given on the command line.
func ParseBinding(s string) (Binding, error) {
	prefix, ns, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(prefix) == "" || strings.TrimSpace(ns) == "" {
		return Binding{}, fmt.Errorf("invalid prefix binding %q: want prefix=namespace", s)
	}
	return Binding{Prefix: strings.TrimSpace(prefix), Namespace: strings.TrimSpace(ns)}, nil
}

// Sorted returns a copy ordered by prefix.
func (m PrefixMap) Sorted() PrefixMap {
	out := append(PrefixMap(nil), m...)
	sort.Slice(out, func(i, j int) bool { return out[i].Prefix < out[j].Prefix })
	return out
}
