// Package store keeps imported RDF datasets in a local SQLite database and
// answers the triple-pattern and describe queries behind the viewer.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Errors returned by the store.
var (
	ErrDatasetNotFound = errors.New("dataset not found")
	ErrInvalidName     = errors.New("invalid dataset name")
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates a SQLite database at the given path.
// Parent directories are created as needed; ":memory:" is accepted.
func OpenDB(path string) (*DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS datasets (
			name TEXT PRIMARY KEY,
			fingerprint TEXT NOT NULL,
			imported_at TEXT NOT NULL,
			triple_count INTEGER NOT NULL
		);

		-- One row per triple; pos keeps the input order
		CREATE TABLE IF NOT EXISTS triples (
			dataset TEXT NOT NULL,
			pos INTEGER NOT NULL,
			s TEXT NOT NULL,
			s_kind TEXT NOT NULL,
			p TEXT NOT NULL,
			o TEXT NOT NULL,
			o_kind TEXT NOT NULL,
			o_datatype TEXT,
			o_lang TEXT,
			PRIMARY KEY (dataset, pos)
		);

		CREATE INDEX IF NOT EXISTS idx_triples_s ON triples(dataset, s);
		CREATE INDEX IF NOT EXISTS idx_triples_p ON triples(dataset, p);
		CREATE INDEX IF NOT EXISTS idx_triples_o ON triples(dataset, o);

		CREATE TABLE IF NOT EXISTS prefixes (
			dataset TEXT NOT NULL,
			prefix TEXT NOT NULL,
			ns TEXT NOT NULL,
			PRIMARY KEY (dataset, prefix)
		);

		-- Full-text search over triple components
		CREATE VIRTUAL TABLE IF NOT EXISTS triples_fts USING fts5(
			dataset UNINDEXED,
			pos UNINDEXED,
			s,
			p,
			o
		);
	`

	_, err := db.Exec(schema)
	return err
}

// formatTime and parseTime store timestamps as RFC 3339 text.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// nullableString returns nil for empty strings so optional columns stay NULL.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// PrepareFTSQuery escapes special characters for FTS5 queries.
func PrepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	// If query contains special chars, quote it
	if strings.ContainsAny(query, "\"*+-:/#.(){}[]^~") {
		// Escape internal quotes and wrap in quotes
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}

	return query
}
