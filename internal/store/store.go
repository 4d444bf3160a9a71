package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sparqlviz/sparqlviz/internal/rdf"
)

// DatasetInfo describes one imported dataset.
type DatasetInfo struct {
	Name        string    `json:"name"`
	Fingerprint string    `json:"fingerprint"`
	ImportedAt  time.Time `json:"imported_at"`
	Triples     int       `json:"triples"`
}

// ImportResult reports what ImportDataset did.
type ImportResult struct {
	Dataset     string `json:"dataset"`
	Triples     int    `json:"triples"`
	Prefixes    int    `json:"prefixes"`
	Fingerprint string `json:"fingerprint"`
	Skipped     bool   `json:"skipped"` // content was unchanged since the last import
}

// Pattern is a triple pattern. Empty components match anything. Subject,
// Predicate and Object may be full IRIs or prefixed names; "a" matches
// rdf:type.
type Pattern struct {
	Dataset   string
	Subject   string
	Predicate string
	Object    string
	Limit     int // 0 means no limit
}

// now is replaced in tests.
var now = time.Now

// ImportDataset replaces the contents of the named dataset with ds. When
// the fingerprint matches the stored one the database is left untouched.
func (d *DB) ImportDataset(name string, ds *rdf.Dataset) (ImportResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ImportResult{}, ErrInvalidName
	}
	if ds == nil {
		ds = &rdf.Dataset{}
	}
	for i, t := range ds.Triples {
		if err := t.Validate(); err != nil {
			return ImportResult{}, fmt.Errorf("triple %d: %w", i, err)
		}
	}

	fp := Fingerprint(ds)
	res := ImportResult{Dataset: name, Triples: len(ds.Triples), Prefixes: len(ds.Prefixes), Fingerprint: fp}

	var stored string
	err := d.db.QueryRow(`SELECT fingerprint FROM datasets WHERE name = ?`, name).Scan(&stored)
	if err != nil && err != sql.ErrNoRows {
		return ImportResult{}, fmt.Errorf("reading fingerprint: %w", err)
	}
	if stored == fp {
		res.Skipped = true
		return res, nil
	}

	tx, err := d.db.Begin()
	if err != nil {
		return ImportResult{}, fmt.Errorf("starting import: %w", err)
	}
	defer tx.Rollback()

	if err := clearDataset(tx, name); err != nil {
		return ImportResult{}, err
	}

	tripleStmt, err := tx.Prepare(`
		INSERT INTO triples (dataset, pos, s, s_kind, p, o, o_kind, o_datatype, o_lang)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return ImportResult{}, fmt.Errorf("preparing triples insert: %w", err)
	}
	defer tripleStmt.Close()

	ftsStmt, err := tx.Prepare(`INSERT INTO triples_fts (dataset, pos, s, p, o) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return ImportResult{}, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	for i, t := range ds.Triples {
		_, err := tripleStmt.Exec(name, i,
			t.Subject.Value, t.Subject.Kind.String(),
			t.Predicate.Value,
			t.Object.Value, t.Object.Kind.String(),
			nullableString(t.Object.Datatype), nullableString(t.Object.Lang),
		)
		if err != nil {
			return ImportResult{}, fmt.Errorf("inserting triple %d: %w", i, err)
		}
		if _, err := ftsStmt.Exec(name, i, t.Subject.Value, t.Predicate.Value, t.Object.Value); err != nil {
			return ImportResult{}, fmt.Errorf("inserting fts for triple %d: %w", i, err)
		}
	}

	for _, b := range ds.Prefixes {
		_, err := tx.Exec(`INSERT OR REPLACE INTO prefixes (dataset, prefix, ns) VALUES (?, ?, ?)`,
			name, b.Prefix, b.Namespace)
		if err != nil {
			return ImportResult{}, fmt.Errorf("inserting prefix %s: %w", b.Prefix, err)
		}
	}

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO datasets (name, fingerprint, imported_at, triple_count)
		VALUES (?, ?, ?, ?)
	`, name, fp, formatTime(now()), len(ds.Triples))
	if err != nil {
		return ImportResult{}, fmt.Errorf("recording dataset: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return ImportResult{}, fmt.Errorf("committing import: %w", err)
	}
	return res, nil
}

func clearDataset(tx *sql.Tx, name string) error {
	for _, table := range []string{"triples", "triples_fts", "prefixes"} {
		if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE dataset = ?", table), name); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

// DeleteDataset removes a dataset and all of its triples.
func (d *DB) DeleteDataset(name string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("starting delete: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`DELETE FROM datasets WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting dataset: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrDatasetNotFound, name)
	}
	if err := clearDataset(tx, name); err != nil {
		return err
	}
	return tx.Commit()
}

// ListDatasets returns all datasets ordered by name.
func (d *DB) ListDatasets() ([]DatasetInfo, error) {
	rows, err := d.db.Query(`SELECT name, fingerprint, imported_at, triple_count FROM datasets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing datasets: %w", err)
	}
	defer rows.Close()

	var out []DatasetInfo
	for rows.Next() {
		var info DatasetInfo
		var importedAt string
		if err := rows.Scan(&info.Name, &info.Fingerprint, &importedAt, &info.Triples); err != nil {
			return nil, fmt.Errorf("scanning dataset: %w", err)
		}
		info.ImportedAt = parseTime(importedAt)
		out = append(out, info)
	}
	return out, rows.Err()
}

// GetDataset returns information about one dataset.
func (d *DB) GetDataset(name string) (*DatasetInfo, error) {
	var info DatasetInfo
	var importedAt string
	err := d.db.QueryRow(`SELECT name, fingerprint, imported_at, triple_count FROM datasets WHERE name = ?`, name).
		Scan(&info.Name, &info.Fingerprint, &importedAt, &info.Triples)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}
	info.ImportedAt = parseTime(importedAt)
	return &info, nil
}

// Prefixes returns the prefixes declared by the dataset's source.
func (d *DB) Prefixes(dataset string) (rdf.PrefixMap, error) {
	if _, err := d.GetDataset(dataset); err != nil {
		return nil, err
	}
	rows, err := d.db.Query(`SELECT prefix, ns FROM prefixes WHERE dataset = ? ORDER BY prefix`, dataset)
	if err != nil {
		return nil, fmt.Errorf("reading prefixes: %w", err)
	}
	defer rows.Close()

	var m rdf.PrefixMap
	for rows.Next() {
		var b rdf.Binding
		if err := rows.Scan(&b.Prefix, &b.Namespace); err != nil {
			return nil, fmt.Errorf("scanning prefix: %w", err)
		}
		m = append(m, b)
	}
	return m, rows.Err()
}

// Dataset loads a whole dataset back, triples in import order.
func (d *DB) Dataset(name string) (*rdf.Dataset, error) {
	prefixes, err := d.Prefixes(name)
	if err != nil {
		return nil, err
	}
	triples, err := d.Match(Pattern{Dataset: name})
	if err != nil {
		return nil, err
	}
	return &rdf.Dataset{Triples: triples, Prefixes: prefixes}, nil
}

// Match returns the triples matching p in import order.
func (d *DB) Match(p Pattern) ([]rdf.Triple, error) {
	pm, err := d.queryPrefixes(p.Dataset)
	if err != nil {
		return nil, err
	}

	where := []string{"dataset = ?"}
	args := []any{p.Dataset}
	for _, c := range []struct {
		col, val string
	}{{"s", p.Subject}, {"p", p.Predicate}, {"o", p.Object}} {
		if c.val == "" {
			continue
		}
		cands := candidates(pm, c.val)
		where = append(where, c.col+" IN ("+placeholders(len(cands))+")")
		args = append(args, cands...)
	}

	return d.queryTriples(strings.Join(where, " AND "), args, p.Limit)
}

// Describe returns the triples in which node appears as subject or object,
// the follow-up query for a clicked node.
func (d *DB) Describe(dataset, node string, limit int) ([]rdf.Triple, error) {
	if strings.TrimSpace(node) == "" {
		return nil, fmt.Errorf("describe: empty node")
	}
	pm, err := d.queryPrefixes(dataset)
	if err != nil {
		return nil, err
	}
	cands := candidates(pm, node)
	ph := placeholders(len(cands))
	args := []any{dataset}
	args = append(args, cands...)
	args = append(args, cands...)
	return d.queryTriples("dataset = ? AND (s IN ("+ph+") OR o IN ("+ph+"))", args, limit)
}

// Search runs a full-text query over subjects, predicates and objects.
func (d *DB) Search(dataset, query string, limit int) ([]rdf.Triple, error) {
	if _, err := d.GetDataset(dataset); err != nil {
		return nil, err
	}
	fts := PrepareFTSQuery(query)
	if fts == "" {
		return nil, nil
	}
	return d.queryTriples(`dataset = ? AND pos IN (
		SELECT CAST(pos AS INTEGER) FROM triples_fts WHERE triples_fts MATCH ? AND dataset = ?
	)`, []any{dataset, fts, dataset}, limit)
}

// queryPrefixes returns the prefixes used to expand pattern values: the
// defaults overlaid with the dataset's own.
func (d *DB) queryPrefixes(dataset string) (rdf.PrefixMap, error) {
	own, err := d.Prefixes(dataset)
	if err != nil {
		return nil, err
	}
	return rdf.DefaultPrefixes().Merge(own), nil
}

// candidates lists the stored values a pattern value can match: the value
// itself and its expansion when it is a known prefixed name.
func candidates(pm rdf.PrefixMap, v string) []any {
	out := []any{v}
	if full := pm.Expand(v); full != v {
		out = append(out, full)
	}
	return out
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func (d *DB) queryTriples(where string, args []any, limit int) ([]rdf.Triple, error) {
	if limit <= 0 {
		limit = -1
	}
	args = append(args, limit)
	rows, err := d.db.Query(`
		SELECT s, s_kind, p, o, o_kind, o_datatype, o_lang
		FROM triples
		WHERE `+where+`
		ORDER BY pos
		LIMIT ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying triples: %w", err)
	}
	defer rows.Close()

	var out []rdf.Triple
	for rows.Next() {
		var t rdf.Triple
		var sKind, oKind string
		var datatype, lang sql.NullString
		if err := rows.Scan(&t.Subject.Value, &sKind, &t.Predicate.Value, &t.Object.Value, &oKind, &datatype, &lang); err != nil {
			return nil, fmt.Errorf("scanning triple: %w", err)
		}
		if t.Subject.Kind, err = rdf.ParseTermKind(sKind); err != nil {
			return nil, err
		}
		if t.Object.Kind, err = rdf.ParseTermKind(oKind); err != nil {
			return nil, err
		}
		t.Predicate.Kind = rdf.IRI
		t.Object.Datatype = datatype.String
		t.Object.Lang = lang.String
		out = append(out, t)
	}
	return out, rows.Err()
}
