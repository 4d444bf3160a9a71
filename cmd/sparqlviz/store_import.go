package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var storeImportInput inputFlags
var storeImportName string

func init() {
	storeImportCmd.Flags().StringVarP(&storeImportInput.format, "format", "f", "", "Input format (default: from extension)")
	storeImportCmd.Flags().StringVar(&storeImportName, "name", "", "Dataset name (default: file name without extension)")
	storeCmd.AddCommand(storeImportCmd)
}

var storeImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a document into the store",
	Long: `Parse a document and store its triples and prefixes as a dataset,
replacing any previous contents of that dataset.

Examples:
  sparqlviz store import data.ttl
  sparqlviz store import dump.jsonl --name building
  cat data.nt | sparqlviz store import - --format ntriples --name piped`,
	Args: cobra.ExactArgs(1),
	RunE: runStoreImport,
}

func runStoreImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	name := storeImportName
	if name == "" {
		name = datasetNameFromPath(path)
	}

	ds := storeImportInput.mustReadInput(path)

	db := mustOpenStore(storeDB)
	defer db.Close()

	res, err := db.ImportDataset(name, ds)
	if err != nil {
		exitForStoreError(err, "importing %s: %v", path, err)
	}
	logger.Info("dataset imported",
		zap.String("dataset", res.Dataset),
		zap.Int("triples", res.Triples),
		zap.Bool("skipped", res.Skipped))

	if humanOutput {
		if res.Skipped {
			styleSubtle.Printf("%s unchanged (%d triples)\n", res.Dataset, res.Triples)
		} else {
			styleHeader.Printf("Imported %d triples into %s\n", res.Triples, res.Dataset)
		}
		return nil
	}
	return outputJSON(res)
}
