package rdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	knakk "github.com/knakk/rdf"
)

var (
	turtlePrefixRe = regexp.MustCompile(`(?im)^\s*(?:@prefix|prefix)\s+([A-Za-z][\w.-]*)?:\s*<([^>]*)>`)
	xmlnsRe        = regexp.MustCompile(`xmlns:([A-Za-z][\w.-]*)\s*=\s*"([^"]*)"`)
)

// parseKnakk decodes Turtle or RDF/XML. The decoder keeps its namespace
// table private, so declared prefixes are read from the directives.
func parseKnakk(data []byte, format Format) (*Dataset, error) {
	kf := knakk.Turtle
	re := turtlePrefixRe
	if format == FormatRDFXML {
		kf = knakk.RDFXML
		re = xmlnsRe
	}

	dec := knakk.NewTripleDecoder(bytes.NewReader(data), kf)
	ds := &Dataset{}
	for {
		tr, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		ds.Triples = append(ds.Triples, Triple{
			Subject:   fromKnakk(tr.Subj),
			Predicate: fromKnakk(tr.Pred),
			Object:    fromKnakk(tr.Obj),
		})
	}
	ds.Prefixes = scanPrefixes(data, re)
	return ds, nil
}

func scanPrefixes(data []byte, re *regexp.Regexp) PrefixMap {
	var pm PrefixMap
	for _, m := range re.FindAllSubmatch(data, -1) {
		// The empty prefix (@prefix : <ns>) is kept; IRIs under it abbreviate to :local.
		pm = pm.Set(string(m[1]), string(m[2]))
	}
	return pm
}

func fromKnakk(t knakk.Term) Term {
	if t == nil {
		return Term{}
	}
	switch t.Type() {
	case knakk.TermBlank:
		return NewBlank(strings.TrimPrefix(t.String(), "_:"))
	case knakk.TermLiteral:
		out := Term{Value: t.String(), Kind: Literal}
		if lit, ok := t.(knakk.Literal); ok {
			out.Lang = lit.Lang()
			if out.Lang == "" {
				out.Datatype = lit.DataType.String()
			}
		}
		return out
	default:
		return NewIRI(t.String())
	}
}
