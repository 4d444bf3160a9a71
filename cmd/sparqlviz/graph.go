package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sparqlviz/sparqlviz/internal/graph"
	"github.com/sparqlviz/sparqlviz/internal/layout"
	"github.com/sparqlviz/sparqlviz/internal/viz"
)

var graphInput inputFlags
var graphCytoscape bool

func init() {
	graphInput.register(graphCmd)
	graphCmd.Flags().BoolVar(&graphCytoscape, "cytoscape", false, "Output Cytoscape.js elements instead of the graph document")
	rootCmd.AddCommand(graphCmd)
}

var graphCmd = &cobra.Command{
	Use:   "graph <file>",
	Short: "Map triples to a node/link graph",
	Long: `Map RDF triples to the graph drawn by the viewer and print it as JSON.

Every subject and object becomes a node; every triple also gets its own
predicate node linking the two. Only the first --limit triples are used.

Examples:
  sparqlviz graph data.ttl
  sparqlviz graph results.srj --limit 500
  sparqlviz graph data.nt --prefix ex=https://example.org/
  cat data.ttl | sparqlviz graph - --format turtle
  sparqlviz graph data.ttl --cytoscape > elements.json`,
	Args: cobra.ExactArgs(1),
	RunE: runGraph,
}

func runGraph(cmd *cobra.Command, args []string) error {
	ds := graphInput.mustReadInput(args[0])
	g := mustBuildGraph(ds, graphInput.graphOptions())

	if humanOutput {
		printGraphHuman(g)
		return nil
	}

	if graphCytoscape {
		if g == nil {
			g = &graph.Graph{}
		}
		out, err := viz.ToCytoscapeJSON(g, nil)
		if err != nil {
			return fmt.Errorf("generating Cytoscape JSON: %w", err)
		}
		fmt.Println(out)
		return nil
	}
	return outputJSON(viz.NewDocument(g, nil, layout.Identity()))
}

func printGraphHuman(g *graph.Graph) {
	if g == nil || g.IsEmpty() {
		styleWarn.Println("No triples.")
		return
	}
	st := g.Stats()
	styleHeader.Println("Graph")
	fmt.Printf("  %s %d\n", styleKey.Sprint("triples:        "), st.Triples)
	fmt.Printf("  %s %d\n", styleKey.Sprint("resource nodes: "), st.Nodes)
	fmt.Printf("  %s %d\n", styleKey.Sprint("predicate nodes:"), st.PredicateNodes)
	fmt.Printf("  %s %d\n", styleKey.Sprint("links:          "), st.Links)
	fmt.Printf("  %s %d\n", styleKey.Sprint("classes:        "), st.Classes)
	fmt.Printf("  %s %d\n", styleKey.Sprint("instances:      "), st.Instances)
	fmt.Printf("  %s %d\n", styleKey.Sprint("blank nodes:    "), st.Blank)
	fmt.Println()
	for _, tr := range g.NodeTriples {
		label := tr.Predicate
		if n, ok := g.Node(tr.Predicate); ok {
			label = n.Label
		}
		fmt.Printf("  %s %s %s\n",
			styleKey.Sprint(truncateString(tr.Subject, TermMaxLen)),
			styleHeader.Sprint(label),
			truncateString(tr.Object, TermMaxLen))
	}
}
