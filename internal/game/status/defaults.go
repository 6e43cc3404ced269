// Package status implements the status-effect lifecycle: application with
// immunity, resistance and stacking rules, per-round ticks and expiry.
package status

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/realm/internal/game/combatant"
)

// CategoryOf returns the category for an effect type.
func CategoryOf(t combatant.EffectType) combatant.EffectCategory {
	switch t {
	case combatant.Burning, combatant.Poisoned, combatant.Bleeding:
		return combatant.DamageOverTime
	case combatant.Regenerating:
		return combatant.HealOverTime
	case combatant.Frozen, combatant.Stunned, combatant.Paralyzed, combatant.Feared,
		combatant.Confused, combatant.Silenced, combatant.Taunted:
		return combatant.CrowdControl
	case combatant.Weakened, combatant.Cursed:
		return combatant.Debuff
	default:
		return combatant.Buff
	}
}

// DamageTypeOf returns the damage type tag used for resistance lookups.
func DamageTypeOf(t combatant.EffectType) string {
	switch t {
	case combatant.Burning:
		return "fire"
	case combatant.Poisoned:
		return "poison"
	case combatant.Frozen:
		return "ice"
	default:
		return "physical"
	}
}

// MaxStacksOf returns the stack cap for t; 1 means the type does not stack.
func MaxStacksOf(t combatant.EffectType) int {
	switch t {
	case combatant.Burning, combatant.Poisoned:
		return 5
	case combatant.Bleeding, combatant.Regenerating:
		return 3
	default:
		return 1
	}
}

// DefaultDuration returns the default duration in turns for a category.
func DefaultDuration(c combatant.EffectCategory) int {
	switch c {
	case combatant.HealOverTime:
		return 4
	case combatant.CrowdControl:
		return 2
	default:
		return 3
	}
}

// DefaultTickDamage returns the per-stack tick damage for damage-over-time types.
func DefaultTickDamage(t combatant.EffectType) int {
	switch t {
	case combatant.Burning:
		return 5
	case combatant.Poisoned:
		return 4
	default:
		return 3
	}
}

// DefaultTickHealing is the per-stack tick healing for heal-over-time types.
const DefaultTickHealing = 8

// DefaultStatModifiers returns the per-stack stat deltas for t, or nil.
func DefaultStatModifiers(t combatant.EffectType) map[string]int {
	switch t {
	case combatant.Weakened:
		return map[string]int{"attack": -5}
	case combatant.Cursed:
		return map[string]int{"attack": -3, "defense": -3}
	case combatant.Strengthened:
		return map[string]int{"attack": 10}
	case combatant.Protected:
		return map[string]int{"defense": 10}
	case combatant.Hasted:
		return map[string]int{"speed": 15}
	case combatant.Blessed:
		return map[string]int{"attack": 5, "defense": 5}
	case combatant.Enraged:
		return map[string]int{"attack": 15, "defense": -5}
	default:
		return nil
	}
}

// DisplayName returns the player-facing name of t.
func DisplayName(t combatant.EffectType) string {
	switch t {
	case combatant.Regenerating:
		return "Regeneration"
	case combatant.Hasted:
		return "Haste"
	default:
		return t.String()
	}
}

// New builds an effect of type t from the defaults, with a fresh id.
//
// Postcondition: StackCount == 1 and RemainingDuration == OriginalDuration.
func New(t combatant.EffectType, source string) *combatant.StatusEffect {
	cat := CategoryOf(t)
	dur := DefaultDuration(cat)
	e := &combatant.StatusEffect{
		ID:                uuid.NewString(),
		Type:              t,
		Category:          cat,
		Name:              DisplayName(t),
		Source:            source,
		OriginalDuration:  dur,
		RemainingDuration: dur,
		DamageType:        DamageTypeOf(t),
		StatModifiers:     DefaultStatModifiers(t),
		MaxStacks:         MaxStacksOf(t),
		StackCount:        1,
	}
	e.CanStack = e.MaxStacks > 1
	switch cat {
	case combatant.DamageOverTime:
		e.TickDamage = DefaultTickDamage(t)
	case combatant.HealOverTime:
		e.TickHealing = DefaultTickHealing
	}
	return e
}
