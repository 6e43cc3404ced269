package status

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/cory-johannsen/realm/internal/game/combatant"
	"github.com/cory-johannsen/realm/internal/game/dice"
	"github.com/cory-johannsen/realm/internal/game/trait"
)

// Trait keys read by ParseFromTraits.
const (
	TraitStatusEffect   = "statusEffect"
	TraitStatusDuration = "statusDuration"
	TraitStatusDamage   = "statusDamage"
	TraitStatusHealing  = "statusHealing"
	TraitStatusChance   = "statusChance"
	TraitDamageType     = "damageType"
	// TraitStatusPreset names an effect Definition id used instead of the other status traits.
	TraitStatusPreset = "statusPreset"
	// TraitStatModifierPrefix prefixes per-stat overrides, e.g. "statModifier.attack".
	TraitStatModifierPrefix = "statModifier."
)

var typeAliases = map[string]combatant.EffectType{
	"slowed":       combatant.Weakened,
	"charmed":      combatant.Confused,
	"regeneration": combatant.Regenerating,
	"poison":       combatant.Poisoned,
	"haste":        combatant.Hasted,
}

// LookupType maps a case-insensitive effect name, including aliases, to a type.
func LookupType(name string) (combatant.EffectType, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return combatant.EffectUnknown, false
	}
	if t, ok := typeAliases[name]; ok {
		return t, true
	}
	for _, t := range combatant.AllEffectTypes() {
		if strings.ToLower(t.String()) == name {
			return t, true
		}
	}
	return combatant.EffectUnknown, false
}

// ParseFromTraits builds the effect an ability would inflict from its traits.
// It returns (nil, false) when the statusEffect trait is absent or names no
// known type.
//
// Postcondition: a returned effect has StackCount 1 and a full duration.
func ParseFromTraits(abilityID, source string, traits trait.Bag) (*combatant.StatusEffect, bool) {
	t, ok := LookupType(traits.Str(TraitStatusEffect))
	if !ok {
		return nil, false
	}
	e := New(t, source)
	e.ID = fmt.Sprintf("%s-%s-%s", abilityID, strings.ToLower(t.String()), uuid.NewString())

	if traits.Has(TraitStatusDuration) {
		if d := traits.Int(TraitStatusDuration); d > 0 {
			e.OriginalDuration = d
			e.RemainingDuration = d
		}
	}
	switch e.Category {
	case combatant.DamageOverTime:
		if traits.Has(TraitStatusDamage) {
			e.TickDamage = traits.Int(TraitStatusDamage)
		}
	case combatant.HealOverTime:
		if traits.Has(TraitStatusHealing) {
			e.TickHealing = traits.Int(TraitStatusHealing)
		}
	}
	if dt := traits.Str(TraitDamageType); dt != "" {
		e.DamageType = dt
	}

	for key := range traits {
		stat, found := strings.CutPrefix(key, TraitStatModifierPrefix)
		if !found || stat == "" {
			continue
		}
		if e.StatModifiers == nil {
			e.StatModifiers = make(map[string]int)
		}
		e.StatModifiers[stat] = traits.Int(key)
	}
	return e, true
}

// ResolveFromTraits builds the effect an ability inflicts. A statusPreset
// trait naming a definition in presets is instantiated from that definition,
// hook included; otherwise ParseFromTraits applies.
func ResolveFromTraits(abilityID, source string, traits trait.Bag, presets *Registry) (*combatant.StatusEffect, bool) {
	if id := traits.Str(TraitStatusPreset); presets != nil && id != "" {
		if def, ok := presets.Get(id); ok {
			if e, err := def.Instantiate(source); err == nil {
				return e, true
			}
		}
	}
	return ParseFromTraits(abilityID, source, traits)
}

// Chance returns the statusChance trait clamped to [0, 100], defaulting to 100.
func Chance(traits trait.Bag) int {
	if !traits.Has(TraitStatusChance) {
		return 100
	}
	return min(max(traits.Int(TraitStatusChance), 0), 100)
}

// ShouldApply rolls the statusChance trait.
func ShouldApply(traits trait.Bag, src dice.Source) bool {
	return dice.Percent(src, float64(Chance(traits)))
}
