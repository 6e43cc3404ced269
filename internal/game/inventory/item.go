// Package inventory provides item definitions, the item catalog, backpacks
// and equipment aggregation onto combatants.
package inventory

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/realm/internal/game/combatant"
)

// Kind constants for ItemDef.Kind.
const (
	KindConsumable = "consumable"
	KindWeapon     = "weapon"
	KindArmor      = "armor"
	KindAccessory  = "accessory"
	KindJunk       = "junk"
)

var validKinds = map[string]bool{
	KindConsumable: true,
	KindWeapon:     true,
	KindArmor:      true,
	KindAccessory:  true,
	KindJunk:       true,
}

// Rarity ranks item drops.
type Rarity int

const (
	Common Rarity = iota
	Uncommon
	Rare
	Epic
	Legendary
)

var rarityNames = []string{"Common", "Uncommon", "Rare", "Epic", "Legendary"}

// String returns the rarity label.
func (r Rarity) String() string {
	if r < 0 || int(r) >= len(rarityNames) {
		return "Unknown"
	}
	return rarityNames[r]
}

// ParseRarity maps a case-insensitive label to a Rarity.
func ParseRarity(s string) (Rarity, bool) {
	for i, n := range rarityNames {
		if strings.EqualFold(n, s) {
			return Rarity(i), true
		}
	}
	return Common, false
}

// UnmarshalYAML decodes a rarity label.
func (r *Rarity) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, ok := ParseRarity(s)
	if !ok {
		return fmt.Errorf("unknown rarity %q at line %d", s, node.Line)
	}
	*r = parsed
	return nil
}

// ItemDef defines the static properties of an item loaded from YAML.
type ItemDef struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Kind        string `yaml:"kind"`
	Rarity      Rarity `yaml:"rarity"`
	Stackable   bool   `yaml:"stackable"`
	MaxStack    int    `yaml:"max_stack"`
	Value       int    `yaml:"value"`

	// Healing and ManaRestore are the amounts restored when a consumable is used.
	Healing     int `yaml:"healing"`
	ManaRestore int `yaml:"mana_restore"`

	// Slot is the equipment slot for weapons, armor and accessories.
	Slot string `yaml:"slot"`
	// Damage is the weapon damage rating added to physical attacks.
	Damage int `yaml:"damage"`
	// Bonuses are flat attribute bonuses while equipped.
	Bonuses combatant.Attributes `yaml:"bonuses"`
}

// IsConsumable reports whether d can be used from the combat item menu.
func (d *ItemDef) IsConsumable() bool { return d.Kind == KindConsumable }

// Validate checks that the ItemDef satisfies its invariants.
//
// Precondition: d is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (d *ItemDef) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if !validKinds[d.Kind] {
		errs = append(errs, fmt.Errorf("kind must be one of consumable, weapon, armor, accessory, junk; got %q", d.Kind))
	}
	if d.MaxStack < 1 {
		errs = append(errs, errors.New("max_stack must be >= 1"))
	}
	if d.Healing < 0 || d.ManaRestore < 0 || d.Damage < 0 {
		errs = append(errs, errors.New("healing, mana_restore and damage must be >= 0"))
	}
	switch d.Kind {
	case KindWeapon:
		if d.Slot != "" && d.Slot != SlotMainHand {
			errs = append(errs, fmt.Errorf("weapon slot must be %q; got %q", SlotMainHand, d.Slot))
		}
	case KindArmor, KindAccessory:
		if !validSlots[d.Slot] {
			errs = append(errs, fmt.Errorf("slot %q is not an equipment slot", d.Slot))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("item %q validation failed: %w", d.ID, errors.Join(errs...))
	}
	return nil
}

// LoadItems reads all *.yaml and *.yml files in dir. Each file holds an
// `items:` list.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid ItemDefs or the first encountered error.
func LoadItems(dir string) ([]*ItemDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading item dir %q: %w", dir, err)
	}

	var items []*ItemDef
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var file struct {
			Items []*ItemDef `yaml:"items"`
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&file); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		for _, d := range file.Items {
			if d.MaxStack == 0 {
				d.MaxStack = 1
			}
			if err := d.Validate(); err != nil {
				return nil, fmt.Errorf("loading %q: %w", path, err)
			}
			items = append(items, d)
		}
	}
	return items, nil
}
