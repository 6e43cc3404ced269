package ability

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownAbility is returned when an ability id does not resolve.
var ErrUnknownAbility = errors.New("unknown ability")

// Catalog holds ability definitions keyed by ID.
type Catalog struct {
	defs map[string]*Definition
}

// NewCatalog creates an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{defs: make(map[string]*Definition)}
}

// Register adds def, overwriting any existing entry with the same ID.
// Precondition: def must not be nil and def.ID must not be empty.
func (c *Catalog) Register(def *Definition) {
	c.defs[def.ID] = def
}

// Get returns the Definition for id, or (nil, false).
func (c *Catalog) Get(id string) (*Definition, bool) {
	d, ok := c.defs[id]
	return d, ok
}

// Require returns the Definition for id or an error wrapping ErrUnknownAbility.
func (c *Catalog) Require(id string) (*Definition, error) {
	d, ok := c.defs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAbility, id)
	}
	return d, nil
}

// All returns a snapshot of all definitions sorted by ID.
func (c *Catalog) All() []*Definition {
	out := make([]*Definition, 0, len(c.defs))
	for _, d := range c.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type catalogFile struct {
	Abilities []*Definition `yaml:"abilities"`
}

// LoadDirectory reads every *.yaml file in dir. Each file holds an
// `abilities:` list.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Catalog, or an error naming the first file
// that fails to parse or validate; duplicate ids across files are an error.
func LoadDirectory(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading ability dir %q: %w", dir, err)
	}
	cat := NewCatalog()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var file catalogFile
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&file); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		for _, def := range file.Abilities {
			if err := def.Validate(); err != nil {
				return nil, fmt.Errorf("loading %q: %w", path, err)
			}
			if _, dup := cat.Get(def.ID); dup {
				return nil, fmt.Errorf("loading %q: duplicate ability id %q", path, def.ID)
			}
			cat.Register(def)
		}
	}
	return cat, nil
}
