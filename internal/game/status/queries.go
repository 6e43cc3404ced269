package status

import "github.com/cory-johannsen/realm/internal/game/combatant"

// IsIncapacitated reports whether b cannot act this turn.
func IsIncapacitated(b *combatant.Base) bool {
	if b == nil {
		return false
	}
	return b.HasEffect(combatant.Stunned) ||
		b.HasEffect(combatant.Frozen) ||
		b.HasEffect(combatant.Paralyzed)
}

// CanCast reports whether b may use abilities.
func CanCast(b *combatant.Base) bool {
	return b != nil && !b.HasEffect(combatant.Silenced)
}

// StatModifierTotal sums the stack-scaled modifier for stat across b's active effects.
func StatModifierTotal(b *combatant.Base, stat string) int {
	if b == nil {
		return 0
	}
	total := 0
	for _, e := range b.Effects {
		total += e.StatModifiers[stat] * e.Stacks()
	}
	return total
}
