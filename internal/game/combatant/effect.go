package combatant

// EffectType names a status effect.
type EffectType int

const (
	EffectUnknown EffectType = iota
	Burning
	Poisoned
	Bleeding
	Frozen
	Stunned
	Paralyzed
	Feared
	Confused
	Silenced
	Weakened
	Cursed
	Regenerating
	Shielded
	Strengthened
	Hasted
	Protected
	Blessed
	Enraged
	Invisible
	Taunted
)

var effectTypeNames = map[EffectType]string{
	Burning:      "Burning",
	Poisoned:     "Poisoned",
	Bleeding:     "Bleeding",
	Frozen:       "Frozen",
	Stunned:      "Stunned",
	Paralyzed:    "Paralyzed",
	Feared:       "Feared",
	Confused:     "Confused",
	Silenced:     "Silenced",
	Weakened:     "Weakened",
	Cursed:       "Cursed",
	Regenerating: "Regenerating",
	Shielded:     "Shielded",
	Strengthened: "Strengthened",
	Hasted:       "Hasted",
	Protected:    "Protected",
	Blessed:      "Blessed",
	Enraged:      "Enraged",
	Invisible:    "Invisible",
	Taunted:      "Taunted",
}

// String returns the effect type name.
func (t EffectType) String() string {
	if n, ok := effectTypeNames[t]; ok {
		return n
	}
	return "Unknown"
}

// AllEffectTypes returns every known effect type in declaration order.
func AllEffectTypes() []EffectType {
	out := make([]EffectType, 0, len(effectTypeNames))
	for t := Burning; t <= Taunted; t++ {
		out = append(out, t)
	}
	return out
}

// ParseEffectType maps a case-sensitive name to an EffectType. "Regeneration"
// and "Poison" are accepted as aliases.
func ParseEffectType(name string) (EffectType, bool) {
	switch name {
	case "Regeneration":
		return Regenerating, true
	case "Poison":
		return Poisoned, true
	}
	for t, n := range effectTypeNames {
		if n == name {
			return t, true
		}
	}
	return EffectUnknown, false
}

// EffectCategory groups effect types by how a tick treats them.
type EffectCategory int

const (
	DamageOverTime EffectCategory = iota
	HealOverTime
	Buff
	Debuff
	CrowdControl
)

// String returns the category name.
func (c EffectCategory) String() string {
	switch c {
	case DamageOverTime:
		return "DamageOverTime"
	case HealOverTime:
		return "HealOverTime"
	case Buff:
		return "Buff"
	case Debuff:
		return "Debuff"
	case CrowdControl:
		return "CrowdControl"
	default:
		return "Unknown"
	}
}

// StatusEffect is one timed effect instance on a combatant.
//
// Invariant: 1 <= StackCount <= MaxStacks while active.
type StatusEffect struct {
	ID       string
	Type     EffectType
	Category EffectCategory
	Name     string
	// Source names what applied the effect (an ability id or item id).
	Source string

	OriginalDuration  int
	RemainingDuration int

	// TickDamage and TickHealing are per-stack amounts.
	TickDamage  int
	TickHealing int
	DamageType  string

	// StatModifiers maps stat name ("attack", "defense", "speed") to a per-stack delta.
	StatModifiers map[string]int

	CanStack   bool
	MaxStacks  int
	StackCount int

	// Hook names a scripted handler set for this effect; empty means none.
	Hook string
}

// Clone returns a deep copy of e.
func (e *StatusEffect) Clone() *StatusEffect {
	c := *e
	if e.StatModifiers != nil {
		c.StatModifiers = make(map[string]int, len(e.StatModifiers))
		for k, v := range e.StatModifiers {
			c.StatModifiers[k] = v
		}
	}
	return &c
}

// Stacks returns max(1, StackCount).
func (e *StatusEffect) Stacks() int { return max(1, e.StackCount) }
