package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/sparqlviz/sparqlviz/internal/rdf"
)

// Human output styles.
var (
	styleHeader = color.New(color.FgHiGreen, color.Bold)
	styleKey    = color.New(color.FgCyan)
	styleSubtle = color.New(color.FgHiBlack)
	styleWarn   = color.New(color.FgYellow)
	styleError  = color.New(color.FgRed, color.Bold)
)

// TermMaxLen truncates long terms in human tables.
const TermMaxLen = 60

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		styleError.Fprint(os.Stderr, "error: ")
		fmt.Fprintln(os.Stderr, msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// truncateString shortens s to max runes with an ellipsis.
func truncateString(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// printTriplesHuman prints triples one per line, abbreviated with pm.
func printTriplesHuman(triples []rdf.Triple, pm rdf.PrefixMap) {
	if len(triples) == 0 {
		styleSubtle.Println("No triples.")
		return
	}
	for _, t := range triples {
		styleKey.Print(truncateString(pm.AbbreviateTerm(t.Subject), TermMaxLen))
		fmt.Print("  ")
		styleHeader.Print(truncateString(pm.AbbreviateTerm(t.Predicate), TermMaxLen))
		fmt.Print("  ")
		fmt.Println(truncateString(formatObject(t.Object, pm), TermMaxLen))
	}
	styleSubtle.Printf("%d triple(s)\n", len(triples))
}

func formatObject(t rdf.Term, pm rdf.PrefixMap) string {
	if t.Kind != rdf.Literal {
		return pm.AbbreviateTerm(t)
	}
	s := fmt.Sprintf("%q", t.Value)
	switch {
	case t.Lang != "":
		s += "@" + t.Lang
	case t.Datatype != "":
		s += "^^" + pm.Abbreviate(t.Datatype)
	}
	return s
}
