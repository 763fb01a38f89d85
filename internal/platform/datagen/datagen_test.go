package datagen

import (
	"database/sql"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hl7kit/hl7kit/internal/platform/defs"
)

func TestGenerator_Deterministic(t *testing.T) {
	g := NewGenerator(nil)

	draw := func() []string {
		r := rand.New(rand.NewSource(42))
		var out []string
		for _, dt := range []string{"XPN", "CX", "DTM", "NM", "XAD", "XTN"} {
			v, err := g.ValueFor(Request{DataType: dt, Rand: r})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			out = append(out, v)
		}
		return out
	}

	first, second := draw(), draw()
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("draw %d not reproducible: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestGenerator_TableReferenceWins(t *testing.T) {
	g := NewGenerator(nil)
	table := &defs.TableDefinition{
		ID: 1, Name: "Administrative Sex", Type: defs.TableHL7,
		Entries: []defs.TableEntry{{Code: "F"}, {Code: "M"}, {Code: "U"}},
	}

	r := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		v, err := g.ValueFor(Request{DataType: "IS", Table: table, Rand: r})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !table.Contains(v) {
			t.Fatalf("value %q not in table", v)
		}
	}
}

func TestGenerator_MaxLengthTruncates(t *testing.T) {
	g := NewGenerator(nil)
	r := rand.New(rand.NewSource(1))
	v, err := g.ValueFor(Request{DataType: "XAD", MaxLength: 8, Rand: r})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(v) > 8 {
		t.Errorf("value %q exceeds max length", v)
	}
}

func TestGenerator_NoRand(t *testing.T) {
	g := NewGenerator(nil)
	if _, err := g.ValueFor(Request{DataType: "ST"}); err == nil {
		t.Error("expected error without a random source")
	}
}

func TestGenerator_TimestampsAnchored(t *testing.T) {
	g := NewGenerator(nil)
	r := rand.New(rand.NewSource(3))
	v, err := g.ValueFor(Request{DataType: "DTM", Rand: r})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(v) != 14 || !strings.HasPrefix(v, "202") {
		t.Errorf("unexpected timestamp shape: %q", v)
	}
}

func TestOpenSQLiteDatasets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datasets.db")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	stmts := []string{
		"CREATE TABLE family_names (name TEXT NOT NULL)",
		"CREATE TABLE given_names (name TEXT NOT NULL)",
		"CREATE TABLE streets (street TEXT NOT NULL)",
		"CREATE TABLE cities (city TEXT NOT NULL, state TEXT NOT NULL)",
		"INSERT INTO family_names VALUES ('Smith'), ('Jones')",
		"INSERT INTO given_names VALUES ('John'), ('Mary')",
		"INSERT INTO streets VALUES ('Main St')",
		"INSERT INTO cities VALUES ('Springfield', 'IL'), ('Salem', 'OR')",
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("exec %q: %v", s, err)
		}
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	d, err := OpenSQLiteDatasets(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.FamilyNames()) != 2 || d.FamilyNames()[0] != "Jones" {
		t.Errorf("unexpected family names: %v", d.FamilyNames())
	}
	if len(d.States()) != 2 {
		t.Errorf("unexpected states: %v", d.States())
	}

	g := NewGenerator(d)
	r := rand.New(rand.NewSource(5))
	v, err := g.ValueFor(Request{DataType: "XPN", Rand: r})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	parts := strings.SplitN(v, "^", 2)
	if len(parts) != 2 {
		t.Fatalf("unexpected XPN shape: %q", v)
	}
}

func TestOpenSQLiteDatasets_MissingTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := db.Exec("CREATE TABLE unrelated (x TEXT)"); err != nil {
		t.Fatalf("exec: %v", err)
	}
	db.Close()

	if _, err := OpenSQLiteDatasets(path); err == nil {
		t.Error("expected error for missing dataset tables")
	}
}
