package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sparqlviz/sparqlviz/internal/graph"
	"github.com/sparqlviz/sparqlviz/internal/rdf"
	"github.com/sparqlviz/sparqlviz/internal/server"
	"github.com/sparqlviz/sparqlviz/internal/store"
	"github.com/sparqlviz/sparqlviz/internal/viewer"
)

var serveInput inputFlags
var serveSize layoutFlags
var serveAddr string
var serveWatch bool
var serveDB string
var serveNoStore bool
var serveDataset string
var serveTitle string

func init() {
	serveInput.register(serveCmd)
	serveSize.register(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: config addr)")
	serveCmd.Flags().BoolVarP(&serveWatch, "watch", "w", false, "Reload when the input file changes")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "Triple store path for click-to-describe (default: config db_path)")
	serveCmd.Flags().BoolVar(&serveNoStore, "no-store", false, "Describe clicked nodes from the loaded file only")
	serveCmd.Flags().StringVar(&serveDataset, "dataset", "", "Store dataset name (default: input file name)")
	serveCmd.Flags().StringVar(&serveTitle, "title", "", "Viewer page title")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve <file>",
	Short: "Open a live, interactive viewer for a file",
	Long: `Serve a live viewer for the triples in a file.

The browser page shows the force layout as it settles. Nodes can be
dragged, the view zoomed and panned, and clicking a node lists the triples
that mention it. With --watch the graph is rebuilt whenever the file is
saved; a file that fails to parse leaves the previous graph on screen.

The loaded data is also imported into the local triple store so clicks
are answered by store queries. Use --no-store to skip this.

Examples:
  sparqlviz serve data.ttl
  sparqlviz serve data.ttl --watch --addr :9000
  sparqlviz serve results.srj --no-store --verbose`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	path := args[0]
	if path == "-" {
		exitWithError(ExitError, "serve needs a file, not stdin")
	}
	format, err := serveFormat(path)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pm := serveInput.prefixMap()
	opts := serveInput.graphOptions()
	session := viewer.New(ctx, serveSize.viewport(), viewer.Options{
		Limit:    opts.Limit,
		Prefixes: pm,
		Height:   serveSize.viewport().Height,
		TickRate: cfg.TickRate,
		Logger:   logger,
	})
	defer session.Close()

	var db *store.DB
	if !serveNoStore {
		db = mustOpenStore(serveDB)
		defer db.Close()
	}
	dataset := serveDataset
	if dataset == "" {
		dataset = datasetNameFromPath(path)
	}

	srv, err := server.New(session, server.Options{
		Title:    serveTitle,
		Store:    db,
		Dataset:  dataset,
		Prefixes: pm,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	if err := srv.LoadFile(path, format); err != nil {
		code := ExitError
		if errors.Is(err, rdf.ErrParse) || errors.Is(err, graph.ErrMalformedTriple) {
			code = ExitDataError
		}
		exitWithError(code, "loading %s: %v", path, err)
	}

	if serveWatch {
		go func() {
			if err := srv.Watch(ctx, path, format, 0); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("watch stopped", zap.Error(err))
			}
		}()
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.Addr
	}
	if humanOutput {
		styleHeader.Printf("Viewer running at http://%s\n", addr)
		styleSubtle.Println("Press Ctrl+C to stop.")
	} else {
		outputJSON(map[string]string{"status": "serving", "addr": addr, "session": session.ID()})
	}

	if err := srv.ListenAndServe(ctx, addr); err != nil {
		return fmt.Errorf("viewer server: %w", err)
	}
	return nil
}

func serveFormat(path string) (rdf.Format, error) {
	if serveInput.format == "" {
		return rdf.DetectFormat(path)
	}
	return rdf.ParseFormat(serveInput.format)
}
