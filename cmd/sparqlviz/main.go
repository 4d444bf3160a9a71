// Package main provides the sparqlviz CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sparqlviz/sparqlviz/internal/config"
	"github.com/sparqlviz/sparqlviz/internal/logging"
	"github.com/sparqlviz/sparqlviz/internal/store"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// verbose enables logging to stderr
var verbose bool

// cfg and logger are set before any command runs.
var (
	cfg    *config.Config
	logger = zap.NewNop()
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sparqlviz",
	Short: "Turn RDF triples into an interactive force-directed graph",
	Long: `sparqlviz maps RDF triples (Turtle, N-Triples, N-Quads, RDF/XML or
SPARQL JSON results) to a node/link graph and lays it out with a force
simulation.

Core features:
  - Graph and layout output as JSON for other tools
  - SVG and standalone HTML export
  - A live browser viewer with drag, zoom and click-to-describe
  - A local SQLite triple store for imported datasets

All commands output JSON by default; use --human for readable text.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log progress to stderr")
	rootCmd.Version = Version
}

// setup loads .env, the global config and the logger.
func setup(cmd *cobra.Command, args []string) error {
	// Load .env if present (ignore error if not found)
	_ = godotenv.Load()

	c, err := config.LoadGlobalConfig()
	switch {
	case err == nil:
		cfg = c
	case isConfigCommand(cmd):
		// A broken config file must still be fixable with "config set".
		cfg = config.Default()
	default:
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	l, err := logging.NewOrNop(verbose, cfg.LogLevel, humanOutput)
	if err != nil {
		exitWithError(ExitConfigError, "creating logger: %v", err)
	}
	logger = l
	return nil
}

func isConfigCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "config" && c.HasParent() && !c.Parent().HasParent() {
			return true
		}
	}
	return false
}

// mustOpenStore opens the triple store at path (the configured path when
// empty), exits on error. The caller is responsible for calling Close().
func mustOpenStore(path string) *store.DB {
	if path == "" {
		path = cfg.DBPath
	}
	db, err := store.OpenDB(config.ExpandPath(path))
	if err != nil {
		exitWithError(ExitError, "opening store: %v", err)
	}
	logger.Debug("store opened", zap.String("path", path))
	return db
}

// exitForStoreError maps store errors to exit codes.
func exitForStoreError(err error, format string, args ...any) {
	code := ExitError
	if errors.Is(err, store.ErrDatasetNotFound) || errors.Is(err, store.ErrInvalidName) {
		code = ExitDataError
	}
	exitWithError(code, format, args...)
}
