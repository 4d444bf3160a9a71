package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var storeDB string

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Local triple store commands",
	Long: `Manage datasets in the local SQLite triple store.

Each dataset holds the triples and prefixes of one imported document.
Re-importing unchanged content is a no-op. JSONL dumps are the portable
form: one triple per line, readable by "store import" and every command
that takes an input file.`,
}

func init() {
	storeCmd.PersistentFlags().StringVar(&storeDB, "db", "", "Store path (default: config db_path)")
	rootCmd.AddCommand(storeCmd)
}

// datasetNameFromPath derives a dataset name from a file name.
func datasetNameFromPath(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" || name == "." || name == "-" {
		return "default"
	}
	return name
}
