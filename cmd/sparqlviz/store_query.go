package main

import (
	"github.com/spf13/cobra"

	"github.com/sparqlviz/sparqlviz/internal/rdf"
	"github.com/sparqlviz/sparqlviz/internal/store"
)

// DefaultQueryLimit caps query output unless --limit is given.
const DefaultQueryLimit = 100

var (
	storeQuerySubject   string
	storeQueryPredicate string
	storeQueryObject    string
	storeQueryLimit     int
)

func init() {
	storeQueryCmd.Flags().StringVarP(&storeQuerySubject, "subject", "s", "", "Subject IRI or prefixed name")
	storeQueryCmd.Flags().StringVarP(&storeQueryPredicate, "predicate", "p", "", "Predicate IRI or prefixed name (\"a\" for rdf:type)")
	storeQueryCmd.Flags().StringVarP(&storeQueryObject, "object", "o", "", "Object IRI, prefixed name or literal value")
	for _, c := range []*cobra.Command{storeQueryCmd, storeDescribeCmd, storeSearchCmd} {
		c.Flags().IntVarP(&storeQueryLimit, "limit", "n", DefaultQueryLimit, "Maximum triples to return (-1 for all)")
		storeCmd.AddCommand(c)
	}
}

var storeQueryCmd = &cobra.Command{
	Use:   "query <dataset>",
	Short: "Match a triple pattern",
	Long: `Return the triples of a dataset matching a pattern. Omitted components
match anything. Results keep the document order.

Examples:
  sparqlviz store query building --predicate a --object bot:Space
  sparqlviz store query building -s ex:room1
  sparqlviz store query building --limit -1`,
	Args: cobra.ExactArgs(1),
	RunE: runStoreQuery,
}

var storeDescribeCmd = &cobra.Command{
	Use:   "describe <dataset> <node>",
	Short: "List the triples that mention a node",
	Long: `List every triple where node is the subject or the object. This is the
query the viewer runs when a node is clicked.

Examples:
  sparqlviz store describe building ex:room1
  sparqlviz store describe building https://example.org/room1`,
	Args: cobra.ExactArgs(2),
	RunE: runStoreDescribe,
}

var storeSearchCmd = &cobra.Command{
	Use:   "search <dataset> <text>",
	Short: "Full-text search over subjects, predicates and objects",
	Args:  cobra.ExactArgs(2),
	RunE:  runStoreSearch,
}

func runStoreQuery(cmd *cobra.Command, args []string) error {
	db := mustOpenStore(storeDB)
	defer db.Close()

	triples, err := db.Match(store.Pattern{
		Dataset:   args[0],
		Subject:   storeQuerySubject,
		Predicate: storeQueryPredicate,
		Object:    storeQueryObject,
		Limit:     storeQueryLimit,
	})
	if err != nil {
		exitForStoreError(err, "querying %s: %v", args[0], err)
	}
	return outputTriples(db, args[0], triples)
}

func runStoreDescribe(cmd *cobra.Command, args []string) error {
	db := mustOpenStore(storeDB)
	defer db.Close()

	triples, err := db.Describe(args[0], args[1], storeQueryLimit)
	if err != nil {
		exitForStoreError(err, "describing %s: %v", args[1], err)
	}
	return outputTriples(db, args[0], triples)
}

func runStoreSearch(cmd *cobra.Command, args []string) error {
	db := mustOpenStore(storeDB)
	defer db.Close()

	triples, err := db.Search(args[0], args[1], storeQueryLimit)
	if err != nil {
		exitForStoreError(err, "searching %s: %v", args[0], err)
	}
	return outputTriples(db, args[0], triples)
}

// outputTriples prints query results. JSON output is always an array.
func outputTriples(db *store.DB, dataset string, triples []rdf.Triple) error {
	if !humanOutput {
		if triples == nil {
			triples = []rdf.Triple{}
		}
		return outputJSON(triples)
	}
	pm := cfg.PrefixMap()
	if stored, err := db.Prefixes(dataset); err == nil {
		pm = pm.Merge(stored)
	}
	printTriplesHuman(triples, pm)
	return nil
}
