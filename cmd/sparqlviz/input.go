package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sparqlviz/sparqlviz/internal/graph"
	"github.com/sparqlviz/sparqlviz/internal/layout"
	"github.com/sparqlviz/sparqlviz/internal/rdf"
	"github.com/sparqlviz/sparqlviz/internal/store"
)

// inputFlags are shared by every command that reads an RDF document.
type inputFlags struct {
	format   string
	prefixes []string
	limit    int
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "Input format: turtle, ntriples, nquads, rdfxml, json, jsonl (default: from extension)")
	cmd.Flags().StringArrayVarP(&f.prefixes, "prefix", "p", nil, "Extra prefix binding prefix=namespace (repeatable)")
	cmd.Flags().IntVarP(&f.limit, "limit", "n", 0, "Maximum triples to map (default: config limit)")
}

// prefixMap returns the configured prefixes plus --prefix bindings.
func (f *inputFlags) prefixMap() rdf.PrefixMap {
	pm := cfg.PrefixMap()
	for _, s := range f.prefixes {
		b, err := rdf.ParseBinding(s)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		pm = pm.Set(b.Prefix, b.Namespace)
	}
	return pm
}

func (f *inputFlags) graphOptions() graph.Options {
	limit := f.limit
	if limit <= 0 {
		limit = cfg.Limit
	}
	return graph.Options{Prefixes: f.prefixMap(), Limit: limit}
}

// mustReadInput parses path ("-" for stdin), exits on error. Files ending
// in .jsonl are read as triple dumps.
func (f *inputFlags) mustReadInput(path string) *rdf.Dataset {
	ds, err := readInput(path, f.format)
	if err != nil {
		code := ExitError
		if errors.Is(err, rdf.ErrParse) || errors.Is(err, rdf.ErrUnknownFormat) {
			code = ExitDataError
		}
		exitWithError(code, "reading %s: %v", path, err)
	}
	logger.Debug("input parsed", zap.String("path", path), zap.Int("triples", ds.Len()))
	return ds
}

func readInput(path, format string) (*rdf.Dataset, error) {
	if format == "jsonl" || (format == "" && strings.EqualFold(filepath.Ext(path), ".jsonl")) {
		r := os.Stdin
		if path != "-" {
			file, err := os.Open(path)
			if err != nil {
				return nil, err
			}
			defer file.Close()
			r = file
		}
		triples, err := store.ReadTriplesJSONL(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", rdf.ErrParse, err)
		}
		return &rdf.Dataset{Triples: triples}, nil
	}

	var fmtName rdf.Format
	if format != "" {
		f, err := rdf.ParseFormat(format)
		if err != nil {
			return nil, err
		}
		fmtName = f
	}
	if path == "-" {
		if fmtName == "" {
			return nil, fmt.Errorf("%w: --format is required when reading stdin", rdf.ErrUnknownFormat)
		}
		return rdf.Parse(os.Stdin, fmtName)
	}
	return rdf.ParseFile(path, fmtName)
}

// mustBuildGraph maps ds, exits on error. A nil graph means the input was empty.
func mustBuildGraph(ds *rdf.Dataset, opts graph.Options) *graph.Graph {
	g, err := graph.BuildFromDataset(ds, opts)
	if err != nil {
		exitWithError(ExitDataError, "building graph: %v", err)
	}
	return g
}

// layoutFlags size the surface and bound the simulation.
type layoutFlags struct {
	width    float64
	height   float64
	maxTicks int
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.width, "width", 0, "Surface width (default: config width)")
	cmd.Flags().Float64Var(&f.height, "height", 0, "Surface height (default: config height)")
	cmd.Flags().IntVar(&f.maxTicks, "max-ticks", 0, "Maximum simulation steps (default: config max_ticks)")
}

func (f *layoutFlags) viewport() layout.Viewport {
	vp := layout.Viewport{Width: f.width, Height: f.height}
	if vp.Width <= 0 {
		vp.Width = cfg.Width
	}
	if vp.Height <= 0 {
		vp.Height = cfg.Height
	}
	return vp
}

func (f *layoutFlags) ticks() int {
	if f.maxTicks > 0 {
		return f.maxTicks
	}
	return cfg.MaxTicks
}

// mustSettle runs a fresh layout of g to rest, exits on error.
func (f *layoutFlags) mustSettle(g *graph.Graph) (layout.Frame, layout.Viewport) {
	vp := f.viewport()
	sim, err := layout.New(g, vp, layout.DefaultParams())
	if err != nil {
		exitWithError(ExitError, "starting layout: %v", err)
	}
	frame := sim.Run(f.ticks())
	logger.Debug("layout settled",
		zap.Int("ticks", frame.Tick),
		zap.String("state", frame.State.String()))
	return frame, vp
}
