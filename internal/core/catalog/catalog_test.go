package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"birdspot/internal/core/catalog"
	perr "birdspot/internal/platform/errors"
	"birdspot/internal/platform/testkit"
)

func fixture() *catalog.Catalog {
	return catalog.MustNew(
		catalog.Entry{ID: "amerob", SpeciesName: "American Robin", ScientificName: "Turdus migratorius"},
		catalog.Entry{ID: "eurbla", SpeciesName: "Common Blackbird", ScientificName: "Turdus merula"},
		catalog.Entry{ID: "norcar", SpeciesName: "Northern Cardinal", ScientificName: "Cardinalis cardinalis"},
	)
}

func TestMatch(t *testing.T) {
	c := fixture()
	cases := []struct {
		name, common, sci string
		wantID            string
		wantOK            bool
	}{
		{"scientific exact", "", "Turdus merula", "eurbla", true},
		{"scientific folded and trimmed", "", "  TURDUS MERULA ", "eurbla", true},
		{"common fallback", "northern cardinal", "Not a bird", "norcar", true},
		{"scientific wins over common", "American Robin", "Turdus merula", "eurbla", true},
		{"no match", "Dodo", "Raphus cucullatus", "", false},
		{"blank", " ", "", "", false},
		{"substring is not a match", "Robin", "Turdus", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, ok := c.Match(tc.common, tc.sci)
			if ok != tc.wantOK || e.ID != tc.wantID {
				t.Fatalf("Match(%q,%q) = %+v,%v", tc.common, tc.sci, e, ok)
			}
		})
	}
}

func TestByID(t *testing.T) {
	c := fixture()
	if e, ok := c.ByID("norcar"); !ok || e.SpeciesName != "Northern Cardinal" {
		t.Fatalf("ByID(norcar) = %+v,%v", e, ok)
	}
	if _, ok := c.ByID("NORCAR"); ok {
		t.Fatalf("ids are case sensitive")
	}
	var nilCat *catalog.Catalog
	if _, ok := nilCat.ByID("x"); ok || nilCat.Len() != 0 {
		t.Fatalf("nil catalog should be empty")
	}
	if _, ok := nilCat.Match("a", "b"); ok {
		t.Fatalf("nil catalog should not match")
	}
}

func TestNewRejectsBadEntries(t *testing.T) {
	if _, err := catalog.New([]catalog.Entry{{SpeciesName: "x"}}); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("missing id err = %v", err)
	}
	_, err := catalog.New([]catalog.Entry{{ID: "a"}, {ID: " a "}})
	if !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("duplicate id err = %v", err)
	}
	testkit.MustPanic(t, func() { catalog.MustNew(catalog.Entry{}) })
}

func TestFirstEntryWinsOnNameCollision(t *testing.T) {
	c := catalog.MustNew(
		catalog.Entry{ID: "one", SpeciesName: "Robin", ScientificName: "Turdus migratorius"},
		catalog.Entry{ID: "two", SpeciesName: "robin", ScientificName: "turdus migratorius"},
	)
	if e, _ := c.Match("robin", ""); e.ID != "one" {
		t.Fatalf("common collision resolved to %q", e.ID)
	}
	if e, _ := c.Match("", "TURDUS MIGRATORIUS"); e.ID != "one" {
		t.Fatalf("scientific collision resolved to %q", e.ID)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "species.json")
	yamlPath := filepath.Join(dir, "species.yaml")
	badPath := filepath.Join(dir, "bad.json")

	mustWrite(t, jsonPath, `[{"id":"amerob","species_name":"American Robin","scientific_name":"Turdus migratorius"}]`)
	mustWrite(t, yamlPath, "- id: norcar\n  species_name: Northern Cardinal\n  scientific_name: Cardinalis cardinalis\n")
	mustWrite(t, badPath, `{"id":`)

	c, err := catalog.Load(jsonPath)
	if err != nil || c.Len() != 1 {
		t.Fatalf("json load = %v, %v", c, err)
	}
	c, err = catalog.Load(yamlPath)
	if err != nil {
		t.Fatalf("yaml load: %v", err)
	}
	if e, ok := c.Match("", "cardinalis cardinalis"); !ok || e.ID != "norcar" {
		t.Fatalf("yaml entry not indexed: %+v", c.Entries())
	}
	if _, err := catalog.Load(badPath); !perr.IsCode(err, perr.ErrorCodeJSON) {
		t.Fatalf("bad json err = %v", err)
	}
	if _, err := catalog.Load(filepath.Join(dir, "missing.json")); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("missing file err = %v", err)
	}
}

func mustWrite(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
