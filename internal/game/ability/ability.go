// Package ability defines enemy abilities and the catalog they are loaded from.
package ability

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/realm/internal/game/dice"
	"github.com/cory-johannsen/realm/internal/game/trait"
)

// Category classifies what an ability does.
type Category int

const (
	Offensive Category = iota
	Defensive
	Healing
	Buff
	Debuff
	Support
	Utility
	CrowdControl
)

var categoryNames = []string{
	"Offensive", "Defensive", "Healing", "Buff", "Debuff", "Support", "Utility", "CrowdControl",
}

// String returns the category name.
func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "Unknown"
	}
	return categoryNames[c]
}

// ParseCategory maps a case-insensitive name to a Category. "Crowd_Control"
// is accepted for CrowdControl.
func ParseCategory(s string) (Category, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	for i, n := range categoryNames {
		if strings.EqualFold(n, s) {
			return Category(i), true
		}
	}
	return Offensive, false
}

// UnmarshalYAML decodes a category name.
func (c *Category) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, ok := ParseCategory(s)
	if !ok {
		return fmt.Errorf("unknown ability category %q at line %d", s, node.Line)
	}
	*c = parsed
	return nil
}

// Definition is a static enemy ability.
type Definition struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Category    Category `yaml:"category"`
	// Dice is the base power expression, e.g. "2d6+2"; empty uses the fallback power.
	Dice string `yaml:"dice"`
	// Cooldown is the number of enemy turns before the ability is ready again.
	Cooldown int       `yaml:"cooldown"`
	Traits   trait.Bag `yaml:"traits"`
}

// Validate checks the definition's invariants.
//
// Postcondition: Returns nil iff ID and Name are non-empty, Cooldown >= 0 and
// Dice, when set, parses.
func (d *Definition) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("ability: id must not be empty")
	}
	if d.Name == "" {
		return fmt.Errorf("ability %q: name must not be empty", d.ID)
	}
	if d.Cooldown < 0 {
		return fmt.Errorf("ability %q: cooldown must be >= 0", d.ID)
	}
	if d.Dice != "" {
		if _, err := dice.Parse(d.Dice); err != nil {
			return fmt.Errorf("ability %q: %w", d.ID, err)
		}
	}
	return nil
}

var keywordCategories = []struct {
	cat      Category
	keywords []string
}{
	{Healing, []string{"heal", "shield", "restore", "barrier"}},
	{Offensive, []string{"attack", "strike", "slash", "blast", "bolt", "damage"}},
	{Buff, []string{"buff", "enhance", "empower", "strengthen", "increase", "boost"}},
	{Debuff, []string{"weaken", "curse", "poison", "slow", "reduce", "debuff"}},
}

// EffectiveCategory returns the category used for decisions. Generic
// categories (Support, Utility) are narrowed by keywords in the name and
// description; unmatched generic abilities stay as declared.
func (d *Definition) EffectiveCategory() Category {
	if d.Category != Support && d.Category != Utility {
		return d.Category
	}
	text := strings.ToLower(d.Name + " " + d.Description)
	for _, kc := range keywordCategories {
		for _, kw := range kc.keywords {
			if strings.Contains(text, kw) {
				return kc.cat
			}
		}
	}
	return d.Category
}

// Power returns the average of Dice, or fallback when Dice is empty or invalid.
func (d *Definition) Power(fallback int) int {
	return dice.AverageOf(d.Dice, fallback)
}
