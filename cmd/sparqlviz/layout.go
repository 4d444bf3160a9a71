package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/sparqlviz/sparqlviz/internal/graph"
	"github.com/sparqlviz/sparqlviz/internal/layout"
	"github.com/sparqlviz/sparqlviz/internal/viz"
)

var layoutInput inputFlags
var layoutSize layoutFlags

func init() {
	layoutInput.register(layoutCmd)
	layoutSize.register(layoutCmd)
	rootCmd.AddCommand(layoutCmd)
}

var layoutCmd = &cobra.Command{
	Use:   "layout <file>",
	Short: "Run the force layout to rest and print node positions",
	Long: `Map triples to a graph, run the force simulation until it comes to rest
(or --max-ticks steps), and print the graph with final positions.

The layout is deterministic: the same input and surface size always
produce the same positions.

Examples:
  sparqlviz layout data.ttl
  sparqlviz layout data.ttl --width 1200 --height 800
  sparqlviz layout data.ttl --human`,
	Args: cobra.ExactArgs(1),
	RunE: runLayout,
}

func runLayout(cmd *cobra.Command, args []string) error {
	ds := layoutInput.mustReadInput(args[0])
	g := mustBuildGraph(ds, layoutInput.graphOptions())
	if g.IsEmpty() {
		if humanOutput {
			styleWarn.Println("No triples.")
			return nil
		}
		return outputJSON(viz.NewDocument(nil, nil, layout.Identity()))
	}

	frame, _ := layoutSize.mustSettle(g)

	if humanOutput {
		printLayoutHuman(g, frame)
		return nil
	}
	return outputJSON(viz.NewDocument(g, &frame, layout.Identity()))
}

func printLayoutHuman(g *graph.Graph, frame layout.Frame) {
	styleHeader.Printf("Layout %s after %d ticks (alpha %.4f)\n", frame.State, frame.Tick, frame.Alpha)
	nodes := g.NodesOfType(graph.NodeTypeNode)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	for _, n := range nodes {
		p := frame.Positions[n.ID]
		fmt.Printf("  %8.2f %8.2f  %s %s\n", p.X, p.Y,
			truncateString(n.Label, TermMaxLen),
			styleSubtle.Sprint(graph.Classify(n)))
	}
}
