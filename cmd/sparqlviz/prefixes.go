package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sparqlviz/sparqlviz/internal/rdf"
)

var prefixesInput inputFlags
var prefixesDataset string

func init() {
	prefixesCmd.Flags().StringArrayVarP(&prefixesInput.prefixes, "prefix", "p", nil, "Extra prefix binding prefix=namespace (repeatable)")
	prefixesCmd.Flags().StringVar(&prefixesDataset, "dataset", "", "Include the prefixes stored with this dataset")
	rootCmd.AddCommand(prefixesCmd)
}

var prefixesCmd = &cobra.Command{
	Use:   "prefixes",
	Short: "List the prefix table used to abbreviate IRIs",
	Long: `List the prefixes in effect: the built-in table, then "prefixes" from the
config file, then --prefix flags, then (with --dataset) the prefixes stored
with a dataset. Later bindings win.

Examples:
  sparqlviz prefixes
  sparqlviz prefixes --dataset building --human`,
	Args: cobra.NoArgs,
	RunE: runPrefixes,
}

func runPrefixes(cmd *cobra.Command, args []string) error {
	pm := prefixesInput.prefixMap()
	if prefixesDataset != "" {
		db := mustOpenStore("")
		defer db.Close()
		stored, err := db.Prefixes(prefixesDataset)
		if err != nil {
			exitForStoreError(err, "reading prefixes of %s: %v", prefixesDataset, err)
		}
		pm = pm.Merge(stored)
	}
	pm = pm.Sorted()

	if !humanOutput {
		if pm == nil {
			pm = rdf.PrefixMap{}
		}
		return outputJSON(pm)
	}
	for _, b := range pm {
		fmt.Printf("%s %s\n", styleKey.Sprintf("%-10s", b.Prefix+":"), b.Namespace)
	}
	return nil
}
