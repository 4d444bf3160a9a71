package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sparqlviz/sparqlviz/internal/store"
)

func init() {
	storeCmd.AddCommand(storeListCmd)
	storeCmd.AddCommand(storeDeleteCmd)
	storeCmd.AddCommand(storeDumpCmd)
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List imported datasets",
	Args:  cobra.NoArgs,
	RunE:  runStoreList,
}

var storeDeleteCmd = &cobra.Command{
	Use:   "delete <dataset>",
	Short: "Delete a dataset and its triples",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoreDelete,
}

var storeDumpCmd = &cobra.Command{
	Use:   "dump <dataset>",
	Short: "Write a dataset's triples as JSONL to stdout",
	Long: `Write every triple of a dataset as one JSON object per line, in
document order. The dump can be imported again with "store import".

Examples:
  sparqlviz store dump building > building.jsonl`,
	Args: cobra.ExactArgs(1),
	RunE: runStoreDump,
}

func runStoreList(cmd *cobra.Command, args []string) error {
	db := mustOpenStore(storeDB)
	defer db.Close()

	infos, err := db.ListDatasets()
	if err != nil {
		exitWithError(ExitError, "listing datasets: %v", err)
	}
	if !humanOutput {
		if infos == nil {
			infos = []store.DatasetInfo{}
		}
		return outputJSON(infos)
	}
	if len(infos) == 0 {
		styleSubtle.Println("No datasets.")
		return nil
	}
	for _, info := range infos {
		fmt.Printf("%s  %s  %s\n",
			styleKey.Sprintf("%-24s", info.Name),
			fmt.Sprintf("%6d triples", info.Triples),
			styleSubtle.Sprint(info.ImportedAt.Local().Format("2006-01-02 15:04")))
	}
	return nil
}

func runStoreDelete(cmd *cobra.Command, args []string) error {
	db := mustOpenStore(storeDB)
	defer db.Close()

	if err := db.DeleteDataset(args[0]); err != nil {
		exitForStoreError(err, "deleting %s: %v", args[0], err)
	}
	if humanOutput {
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	}
	return outputJSON(StatusResponse{Status: "deleted"})
}

func runStoreDump(cmd *cobra.Command, args []string) error {
	db := mustOpenStore(storeDB)
	defer db.Close()

	ds, err := db.Dataset(args[0])
	if err != nil {
		exitForStoreError(err, "reading %s: %v", args[0], err)
	}
	if err := store.WriteTriplesJSONL(os.Stdout, ds.Triples); err != nil {
		return fmt.Errorf("writing dump: %w", err)
	}
	return nil
}
