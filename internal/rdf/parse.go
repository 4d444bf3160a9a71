package rdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format names a supported serialization.
type Format string

// Supported formats.
const (
	FormatTurtle   Format = "turtle"
	FormatNTriples Format = "ntriples"
	FormatNQuads   Format = "nquads"
	FormatRDFXML   Format = "rdfxml"
	FormatJSON     Format = "json"
)

// ValidFormats lists the accepted --format values.
var ValidFormats = []Format{FormatTurtle, FormatNTriples, FormatNQuads, FormatRDFXML, FormatJSON}

// ErrParse wraps every syntax error. A failed parse never yields a partial dataset.
var ErrParse = errors.New("parse error")

// ErrUnknownFormat is returned for unsupported format names or file extensions.
var ErrUnknownFormat = errors.New("unknown format")

// Dataset is the result of a one-shot parse: the triples in document order
// and the prefixes declared by the source.
type Dataset struct {
	Triples  []Triple  `json:"triples"`
	Prefixes PrefixMap `json:"prefixes,omitempty"`
}

// Len returns the number of triples.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Triples)
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "turtle", "ttl":
		return FormatTurtle, nil
	case "ntriples", "nt":
		return FormatNTriples, nil
	case "nquads", "nq":
		return FormatNQuads, nil
	case "rdfxml", "rdf", "xml", "owl":
		return FormatRDFXML, nil
	case "json", "srj":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// DetectFormat picks a format from the file extension.
func DetectFormat(path string) (Format, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: no extension on %s", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// Parse reads a complete document in the given format.
func Parse(r io.Reader, format Format) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return ParseBytes(data, format)
}

// ParseBytes parses an in-memory document.
func ParseBytes(data []byte, format Format) (*Dataset, error) {
	var (
		ds  *Dataset
		err error
	)
	switch format {
	case FormatTurtle:
		ds, err = parseKnakk(data, FormatTurtle)
	case FormatRDFXML:
		ds, err = parseKnakk(data, FormatRDFXML)
	case FormatNTriples, FormatNQuads:
		ds, err = parseNQuads(bytes.NewReader(data))
	case FormatJSON:
		ds, err = parseJSON(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}
	for i, t := range ds.Triples {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("%w: triple %d: %v", ErrParse, i+1, err)
		}
	}
	return ds, nil
}

// ParseFile reads and parses a file. An empty format is detected from the extension.
func ParseFile(path string, format Format) (*Dataset, error) {
	if format == "" {
		f, err := DetectFormat(path)
		if err != nil {
			return nil, err
		}
		format = f
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseBytes(data, format)
}
