// Package npc provides enemy templates, spawning and loot generation.
package npc

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/realm/internal/game/ability"
	"github.com/cory-johannsen/realm/internal/game/combatant"
	"github.com/cory-johannsen/realm/internal/game/trait"
)

// Template defines a reusable enemy archetype loaded from YAML.
type Template struct {
	ID          string               `yaml:"id"`
	Name        string               `yaml:"name"`
	Description string               `yaml:"description"`
	Level       int                  `yaml:"level"`
	MaxHealth   int                  `yaml:"max_health"`
	Tier        string               `yaml:"tier"`
	Attributes  combatant.Attributes `yaml:"attributes"`

	BasePhysicalDamage int `yaml:"base_physical_damage"`
	BaseMagicDamage    int `yaml:"base_magic_damage"`
	XPReward           int `yaml:"xp_reward"`
	GoldReward         int `yaml:"gold_reward"`

	// Abilities lists ability ids in preference order.
	Abilities []string   `yaml:"abilities"`
	Traits    trait.Bag  `yaml:"traits"`
	Loot      *LootTable `yaml:"loot"`
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, Level >= 1,
// MaxHealth >= 1, rewards are >= 0, Tier is empty or a known tier, and the
// loot table is valid; returns an error on the first violation otherwise.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("enemy template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("enemy template %q: name must not be empty", t.ID)
	}
	if t.Level < 1 {
		return fmt.Errorf("enemy template %q: level must be >= 1", t.ID)
	}
	if t.MaxHealth < 1 {
		return fmt.Errorf("enemy template %q: max_health must be >= 1", t.ID)
	}
	if t.XPReward < 0 || t.GoldReward < 0 {
		return fmt.Errorf("enemy template %q: rewards must be >= 0", t.ID)
	}
	if t.Tier != "" {
		if _, ok := combatant.ParseTier(t.Tier); !ok {
			return fmt.Errorf("enemy template %q: unknown tier %q", t.ID, t.Tier)
		}
	}
	if t.Loot != nil {
		if err := t.Loot.Validate(); err != nil {
			return fmt.Errorf("enemy template %q: %w", t.ID, err)
		}
	}
	return nil
}

// ResolveAbilities checks every ability id against abilities.
//
// Postcondition: Returns an error wrapping ability.ErrUnknownAbility for the
// first id that does not resolve.
func (t *Template) ResolveAbilities(abilities *ability.Catalog) error {
	for _, id := range t.Abilities {
		if _, err := abilities.Require(id); err != nil {
			return fmt.Errorf("enemy template %q: %w", t.ID, err)
		}
	}
	return nil
}

// Spawn creates a fresh Enemy from the template with a unique instance id.
//
// Postcondition: Health == MaxHealth == t.MaxHealth; the enemy shares no
// mutable state with t.
func (t *Template) Spawn() *combatant.Enemy {
	tier, _ := combatant.ParseTier(t.Tier)
	e := &combatant.Enemy{
		ID:                 uuid.NewString(),
		TemplateID:         t.ID,
		Tier:               tier,
		BasePhysicalDamage: t.BasePhysicalDamage,
		BaseMagicDamage:    t.BaseMagicDamage,
		XPReward:           t.XPReward,
		GoldReward:         t.GoldReward,
		Abilities:          append([]string(nil), t.Abilities...),
	}
	e.Name = t.Name
	e.Level = t.Level
	e.Attributes = t.Attributes
	e.Traits = trait.Bag{}.Merge(t.Traits)
	e.SetMaxHealth(t.MaxHealth)
	return e
}

// LoadTemplateFromBytes parses a single enemy template from raw YAML bytes.
//
// Precondition: data must be valid YAML for a single Template.
// Postcondition: Returns a validated *Template, or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns the parsed templates.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse or validate
// failure; on error, the partial result is discarded.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading enemy dir %q: %w", dir, err)
	}

	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}

		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}

// Catalog indexes templates by ID.
type Catalog struct {
	templates map[string]*Template
}

// LoadCatalog loads the templates in dir and resolves their abilities.
//
// Postcondition: Returns an error for duplicate ids or any unresolved ability id.
func LoadCatalog(dir string, abilities *ability.Catalog) (*Catalog, error) {
	templates, err := LoadTemplates(dir)
	if err != nil {
		return nil, err
	}
	c := &Catalog{templates: make(map[string]*Template, len(templates))}
	for _, t := range templates {
		if _, dup := c.templates[t.ID]; dup {
			return nil, fmt.Errorf("enemy template %q: duplicate id", t.ID)
		}
		if err := t.ResolveAbilities(abilities); err != nil {
			return nil, err
		}
		c.templates[t.ID] = t
	}
	return c, nil
}

// Get returns the template for id, or (nil, false).
func (c *Catalog) Get(id string) (*Template, bool) {
	t, ok := c.templates[id]
	return t, ok
}

// IDs returns all template ids in sorted order.
func (c *Catalog) IDs() []string {
	out := make([]string, 0, len(c.templates))
	for id := range c.templates {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
