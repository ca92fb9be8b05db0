// Package catalog holds the read-only species reference table
//
// A Catalog is built once at startup and injected wherever predictions are cross referenced.
// Lookups are exact after trimming and unicode case folding.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	perr "birdspot/internal/platform/errors"

	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

// Entry is one known species
type Entry struct {
	ID             string `json:"id" yaml:"id" example:"amerob"`
	SpeciesName    string `json:"species_name" yaml:"species_name" example:"American Robin"`
	ScientificName string `json:"scientific_name" yaml:"scientific_name" example:"Turdus migratorius"`
}

// Catalog is an immutable lookup table
// the zero value is an empty catalog
type Catalog struct {
	entries []Entry
	byID    map[string]int
	bySci   map[string]int
	byName  map[string]int
}

// New indexes entries; the first entry wins when names collide
func New(entries []Entry) (*Catalog, error) {
	c := &Catalog{
		entries: make([]Entry, 0, len(entries)),
		byID:    make(map[string]int, len(entries)),
		bySci:   make(map[string]int, len(entries)),
		byName:  make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		e.ID = strings.TrimSpace(e.ID)
		e.SpeciesName = strings.TrimSpace(e.SpeciesName)
		e.ScientificName = strings.TrimSpace(e.ScientificName)
		if e.ID == "" {
			return nil, perr.Validationf("catalog entry %d has no id", i)
		}
		if _, dup := c.byID[e.ID]; dup {
			return nil, perr.Validationf("catalog id %q is duplicated", e.ID)
		}
		idx := len(c.entries)
		c.entries = append(c.entries, e)
		c.byID[e.ID] = idx
		if k := fold(e.ScientificName); k != "" {
			if _, ok := c.bySci[k]; !ok {
				c.bySci[k] = idx
			}
		}
		if k := fold(e.SpeciesName); k != "" {
			if _, ok := c.byName[k]; !ok {
				c.byName[k] = idx
			}
		}
	}
	return c, nil
}

// MustNew is New for fixtures
func MustNew(entries ...Entry) *Catalog {
	c, err := New(entries)
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads a catalog from a JSON array or, for .yaml and .yml files, a YAML list
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeNotFound, "read species file %s", path)
	}
	entries, err := Decode(filepath.Ext(path), raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return New(entries)
}

// Decode parses raw by extension
func Decode(ext string, raw []byte) ([]Entry, error) {
	var entries []Entry
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &entries); err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "decode yaml catalog")
		}
	default:
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeJSON, "decode json catalog")
		}
	}
	return entries, nil
}

// Len returns the number of entries
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Entries returns a copy of every entry in file order
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	return append([]Entry(nil), c.entries...)
}

// ByID finds an entry by its exact id
func (c *Catalog) ByID(id string) (Entry, bool) {
	if c == nil || id == "" {
		return Entry{}, false
	}
	i, ok := c.byID[id]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Match resolves a predicted species, scientific name first and common name second
func (c *Catalog) Match(speciesName, scientificName string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	if k := fold(scientificName); k != "" {
		if i, ok := c.bySci[k]; ok {
			return c.entries[i], true
		}
	}
	if k := fold(speciesName); k != "" {
		if i, ok := c.byName[k]; ok {
			return c.entries[i], true
		}
	}
	return Entry{}, false
}

// fold builds a fresh caser per call since casers carry state
func fold(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return cases.Fold().String(s)
}
