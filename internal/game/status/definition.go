package status

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/realm/internal/game/combatant"
)

// Definition is a named effect preset loaded from YAML. Zero-valued fields
// fall back to the defaults for its type.
type Definition struct {
	ID            string         `yaml:"id"`
	Name          string         `yaml:"name"`
	Type          string         `yaml:"type"`
	Duration      int            `yaml:"duration"`
	TickDamage    int            `yaml:"tick_damage"`
	TickHealing   int            `yaml:"tick_healing"`
	DamageType    string         `yaml:"damage_type"`
	StatModifiers map[string]int `yaml:"stat_modifiers"`
	MaxStacks     int            `yaml:"max_stacks"`
	// Hook names the Lua function prefix, e.g. "venom" dispatches venom_on_tick.
	Hook string `yaml:"hook"`
}

// Instantiate builds a fresh effect instance from d.
//
// Precondition: d.Type must name a known effect type.
func (d *Definition) Instantiate(source string) (*combatant.StatusEffect, error) {
	t, ok := LookupType(d.Type)
	if !ok {
		return nil, fmt.Errorf("effect %q: unknown type %q", d.ID, d.Type)
	}
	e := New(t, source)
	e.ID = d.ID + "-" + uuid.NewString()
	if d.Name != "" {
		e.Name = d.Name
	}
	if d.Duration > 0 {
		e.OriginalDuration = d.Duration
		e.RemainingDuration = d.Duration
	}
	if d.TickDamage > 0 {
		e.TickDamage = d.TickDamage
	}
	if d.TickHealing > 0 {
		e.TickHealing = d.TickHealing
	}
	if d.DamageType != "" {
		e.DamageType = d.DamageType
	}
	if len(d.StatModifiers) > 0 {
		e.StatModifiers = make(map[string]int, len(d.StatModifiers))
		for k, v := range d.StatModifiers {
			e.StatModifiers[k] = v
		}
	}
	if d.MaxStacks > 0 {
		e.MaxStacks = d.MaxStacks
		e.CanStack = d.MaxStacks > 1
	}
	e.Hook = d.Hook
	return e, nil
}

// Registry holds effect definitions keyed by ID.
type Registry struct {
	defs map[string]*Definition
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Definition)}
}

// Register adds def, overwriting any existing entry with the same ID.
// Precondition: def must not be nil and def.ID must not be empty.
func (r *Registry) Register(def *Definition) {
	r.defs[def.ID] = def
}

// Get returns the Definition for id, or (nil, false).
func (r *Registry) Get(id string) (*Definition, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// All returns a snapshot of all definitions sorted by ID.
func (r *Registry) All() []*Definition {
	out := make([]*Definition, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadDirectory reads every *.yaml file in dir as a Definition.
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails
// to parse or names an unknown type.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading effect dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def Definition
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if def.ID == "" {
			return nil, fmt.Errorf("parsing %q: missing id", path)
		}
		if _, ok := LookupType(def.Type); !ok {
			return nil, fmt.Errorf("parsing %q: unknown effect type %q", path, def.Type)
		}
		reg.Register(&def)
	}
	return reg, nil
}
