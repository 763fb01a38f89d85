package datagen

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteDatasets serves demographic lists from the reference dataset
// database the product ships. The lists are read fully at open time; after
// that the provider is immutable and safe for concurrent use.
type SQLiteDatasets struct {
	family []string
	given  []string
	street []string
	city   []string
	state  []string
}

// dataset tables expected in the reference database.
var datasetQueries = []struct {
	query string
	dest  func(*SQLiteDatasets) *[]string
}{
	{"SELECT name FROM family_names ORDER BY name", func(d *SQLiteDatasets) *[]string { return &d.family }},
	{"SELECT name FROM given_names ORDER BY name", func(d *SQLiteDatasets) *[]string { return &d.given }},
	{"SELECT street FROM streets ORDER BY street", func(d *SQLiteDatasets) *[]string { return &d.street }},
	{"SELECT city FROM cities ORDER BY city", func(d *SQLiteDatasets) *[]string { return &d.city }},
	{"SELECT DISTINCT state FROM cities ORDER BY state", func(d *SQLiteDatasets) *[]string { return &d.state }},
}

// OpenSQLiteDatasets loads the demographic lists from the SQLite database
// at path and closes the connection before returning.
func OpenSQLiteDatasets(path string) (*SQLiteDatasets, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=query_only(1)")
	if err != nil {
		return nil, fmt.Errorf("datagen: open datasets: %w", err)
	}
	defer db.Close()

	d := &SQLiteDatasets{}
	for _, q := range datasetQueries {
		values, err := readColumn(db, q.query)
		if err != nil {
			return nil, err
		}
		*q.dest(d) = values
	}

	if len(d.family) == 0 || len(d.given) == 0 {
		return nil, fmt.Errorf("datagen: datasets at %s contain no names", path)
	}
	return d, nil
}

func readColumn(db *sql.DB, query string) ([]string, error) {
	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("datagen: %q: %w", query, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("datagen: scan: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (d *SQLiteDatasets) FamilyNames() []string { return d.family }
func (d *SQLiteDatasets) GivenNames() []string  { return d.given }
func (d *SQLiteDatasets) Streets() []string     { return d.street }
func (d *SQLiteDatasets) Cities() []string      { return d.city }
func (d *SQLiteDatasets) States() []string      { return d.state }
