package server

import (
	"encoding/hex"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"github.com/sparqlviz/sparqlviz/internal/graph"
	"github.com/sparqlviz/sparqlviz/internal/rdf"
)

// Load shows ds in the session and, when a store is configured, imports
// it. A dataset that fails to map leaves the current view in place.
func (s *Server) Load(ds *rdf.Dataset) error {
	if err := s.session.LoadDataset(ds); err != nil {
		return err
	}

	s.mu.Lock()
	s.dataset = ds
	s.mu.Unlock()

	if s.opts.Store != nil && ds.Len() > 0 {
		res, err := s.opts.Store.ImportDataset(s.opts.Dataset, ds)
		if err != nil {
			return fmt.Errorf("importing into store: %w", err)
		}
		s.logger.Info("dataset imported",
			zap.String("dataset", res.Dataset),
			zap.Int("triples", res.Triples),
			zap.Bool("skipped", res.Skipped))
	}
	return nil
}

// LoadFile parses path and loads it. Parsed files are cached by content
// hash, so reloading an unchanged file skips the parse.
func (s *Server) LoadFile(path string, format rdf.Format) error {
	if format == "" {
		f, err := rdf.DetectFormat(path)
		if err != nil {
			return err
		}
		format = f
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	key := contentKey(data, format)
	ds, ok := s.cache.Get(key)
	if ok {
		s.logger.Debug("parse cache hit", zap.String("path", path))
	} else {
		ds, err = rdf.ParseBytes(data, format)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
		s.cache.Add(key, ds)
	}

	if err := s.Load(ds); err != nil {
		return err
	}
	s.mu.Lock()
	s.source = path
	s.mu.Unlock()
	return nil
}

// Source returns the path of the last loaded file.
func (s *Server) Source() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

func contentKey(data []byte, format rdf.Format) string {
	sum := blake2b.Sum256(data)
	return string(format) + ":" + hex.EncodeToString(sum[:])
}

// prefixesFor returns the prefix table used to label ds.
func (s *Server) prefixesFor(ds *rdf.Dataset) rdf.PrefixMap {
	if ds == nil {
		return s.opts.Prefixes
	}
	return s.opts.Prefixes.Merge(ds.Prefixes)
}

// describeLoaded scans the loaded dataset for triples touching node id.
// IDs are compared the way the graph labels them.
func (s *Server) describeLoaded(id string) (rdf.PrefixMap, []rdf.Triple) {
	s.mu.RLock()
	ds := s.dataset
	s.mu.RUnlock()

	pm := s.prefixesFor(ds)
	if ds == nil {
		return pm, nil
	}
	var out []rdf.Triple
	for _, t := range ds.Triples {
		subj := pm.AbbreviateTerm(t.Subject)
		obj := graph.RoundNumeric(pm.AbbreviateTerm(t.Object))
		if subj == id || obj == id {
			out = append(out, t)
			if len(out) >= s.opts.DescribeLimit {
				break
			}
		}
	}
	return pm, out
}
