package store

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/crypto/blake2b"

	"github.com/sparqlviz/sparqlviz/internal/rdf"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// Fingerprint hashes the canonical form of a dataset: every triple in
// order, then every prefix binding. Two datasets with the same fingerprint
// render identically.
func Fingerprint(ds *rdf.Dataset) string {
	h, _ := blake2b.New256(nil) // only fails for keys longer than 64 bytes
	if ds == nil {
		ds = &rdf.Dataset{}
	}
	for _, t := range ds.Triples {
		writeTerm(h, t.Subject)
		writeTerm(h, t.Predicate)
		writeTerm(h, t.Object)
	}
	h.Write([]byte{1})
	for _, b := range ds.Prefixes {
		io.WriteString(h, b.Prefix)
		h.Write([]byte{0})
		io.WriteString(h, b.Namespace)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func writeTerm(w io.Writer, t rdf.Term) {
	io.WriteString(w, t.Kind.String())
	w.Write([]byte{0})
	io.WriteString(w, t.Value)
	w.Write([]byte{0})
	io.WriteString(w, t.Datatype)
	w.Write([]byte{0})
	io.WriteString(w, t.Lang)
	w.Write([]byte{0})
}

// ReadTriplesJSONL reads one JSON triple per line. Empty lines are
// skipped; the first malformed or incomplete triple fails the whole read.
func ReadTriplesJSONL(r io.Reader) ([]rdf.Triple, error) {
	var triples []rdf.Triple
	scanner := bufio.NewScanner(r)

	// Increase buffer size for long lines
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue // Skip empty lines
		}

		var t rdf.Triple
		if err := json.Unmarshal(line, &t); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		triples = append(triples, t)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading triples: %w", err)
	}

	return triples, nil
}

// WriteTriplesJSONL writes one JSON triple per line.
func WriteTriplesJSONL(w io.Writer, triples []rdf.Triple) error {
	bw := bufio.NewWriter(w)
	for i, t := range triples {
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("encoding triple %d: %w", i, err)
		}
		if _, err := bw.Write(data); err != nil {
			return fmt.Errorf("writing triple %d: %w", i, err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	return bw.Flush()
}
