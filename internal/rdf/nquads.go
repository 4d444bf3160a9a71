package rdf

import (
	"errors"
	"fmt"
	"io"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/nquads"
)

// parseNQuads reads N-Triples or N-Quads. Graph labels are dropped; the
// viewer shows a single merged graph.
func parseNQuads(r io.Reader) (*Dataset, error) {
	qr := nquads.NewReader(r, true)
	ds := &Dataset{}
	for {
		q, err := qr.ReadQuad()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		ds.Triples = append(ds.Triples, Triple{
			Subject:   fromQuad(q.Subject),
			Predicate: fromQuad(q.Predicate),
			Object:    fromQuad(q.Object),
		})
	}
	return ds, nil
}

func fromQuad(v quad.Value) Term {
	switch v := v.(type) {
	case nil:
		return Term{}
	case quad.IRI:
		return NewIRI(string(v))
	case quad.BNode:
		return NewBlank(string(v))
	case quad.String:
		return NewLiteral(string(v))
	case quad.TypedString:
		return Term{Value: string(v.Value), Kind: Literal, Datatype: string(v.Type)}
	case quad.LangString:
		return Term{Value: string(v.Value), Kind: Literal, Lang: v.Lang}
	default:
		return NewLiteral(v.String())
	}
}
