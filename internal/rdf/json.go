package rdf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// jsonTerm accepts either a bare string or an object term. Object terms may
// use the SPARQL results shape ({"type","value","datatype","xml:lang"}) or
// the Term shape ({"value","kind"}). An absent or null field leaves the
// zero Term, which Validate reports as missing; "" is an empty literal.
type jsonTerm struct {
	Term
}

func (t *jsonTerm) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		t.Term = Term{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		t.Term = GuessTerm(s)
		return nil
	}
	var raw struct {
		Type     string `json:"type"`
		Kind     string `json:"kind"`
		Value    string `json:"value"`
		Datatype string `json:"datatype"`
		Lang     string `json:"lang"`
		XMLLang  string `json:"xml:lang"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	kindName := raw.Kind
	if kindName == "" {
		kindName = raw.Type
	}
	if kindName == "" {
		t.Term = GuessTerm(raw.Value)
	} else {
		kind, err := ParseTermKind(kindName)
		if err != nil {
			return err
		}
		t.Term = Term{Value: raw.Value, Kind: kind, Datatype: raw.Datatype, Lang: raw.Lang}
		if kind == Blank {
			t.Term = NewBlank(raw.Value)
		}
	}
	if raw.XMLLang != "" {
		t.Lang = raw.XMLLang
	}
	return nil
}

type jsonTriple struct {
	Subject   jsonTerm `json:"subject"`
	Predicate jsonTerm `json:"predicate"`
	Object    jsonTerm `json:"object"`
}

func (jt jsonTriple) triple() Triple {
	return Triple{Subject: jt.Subject.Term, Predicate: jt.Predicate.Term, Object: jt.Object.Term}
}

// jsonPrefixes accepts a list of bindings or a {prefix: namespace} object.
type jsonPrefixes struct {
	PrefixMap
}

func (p *jsonPrefixes) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var m map[string]string
		if err := json.Unmarshal(b, &m); err != nil {
			return err
		}
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			p.PrefixMap = p.PrefixMap.Set(k, m[k])
		}
		return nil
	}
	return json.Unmarshal(b, &p.PrefixMap)
}

type sparqlResults struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results *struct {
		Bindings []map[string]jsonTerm `json:"bindings"`
	} `json:"results"`
}

// parseJSON handles three shapes: a bare array of triples, a dataset object
// with "triples" and "prefixes", and SPARQL 1.1 JSON results whose bindings
// carry s/p/o (or subject/predicate/object) variables.
func parseJSON(data []byte) (*Dataset, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return &Dataset{}, nil
	}

	if trimmed[0] == '[' {
		var rows []jsonTriple
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		return &Dataset{Triples: collect(rows)}, nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	if _, ok := probe["results"]; ok {
		return parseSPARQLResults(trimmed)
	}

	var doc struct {
		Triples  []jsonTriple `json:"triples"`
		Prefixes jsonPrefixes `json:"prefixes"`
	}
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return &Dataset{Triples: collect(doc.Triples), Prefixes: doc.Prefixes.PrefixMap}, nil
}

func parseSPARQLResults(data []byte) (*Dataset, error) {
	var res sparqlResults
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if res.Results == nil {
		return nil, fmt.Errorf("%w: missing results", ErrParse)
	}
	s, p, o := "s", "p", "o"
	if hasVar(res.Head.Vars, "subject") {
		s, p, o = "subject", "predicate", "object"
	}
	ds := &Dataset{Triples: make([]Triple, 0, len(res.Results.Bindings))}
	for i, b := range res.Results.Bindings {
		t := Triple{Subject: b[s].Term, Predicate: b[p].Term, Object: b[o].Term}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("%w: binding %d: %v", ErrParse, i+1, err)
		}
		ds.Triples = append(ds.Triples, t)
	}
	return ds, nil
}

func hasVar(vars []string, name string) bool {
	for _, v := range vars {
		if v == name {
			return true
		}
	}
	return false
}

func collect(rows []jsonTriple) []Triple {
	out := make([]Triple, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.triple())
	}
	return out
}
