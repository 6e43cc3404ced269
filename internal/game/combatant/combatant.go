// Package combatant defines the combat-relevant state shared by players and
// enemies: attributes, health, active status effects, cooldowns and traits.
package combatant

import "github.com/cory-johannsen/realm/internal/game/trait"

// Kind distinguishes player combatants from enemy combatants.
type Kind int

const (
	KindPlayer Kind = iota
	KindEnemy
)

// String returns "player" or "enemy".
func (k Kind) String() string {
	if k == KindPlayer {
		return "player"
	}
	return "enemy"
}

// Attributes holds the six core attribute scores.
type Attributes struct {
	Strength     int `yaml:"strength"`
	Dexterity    int `yaml:"dexterity"`
	Constitution int `yaml:"constitution"`
	Intelligence int `yaml:"intelligence"`
	Wisdom       int `yaml:"wisdom"`
	Charisma     int `yaml:"charisma"`
}

// Plus returns the element-wise sum of a and b.
func (a Attributes) Plus(b Attributes) Attributes {
	return Attributes{
		Strength:     a.Strength + b.Strength,
		Dexterity:    a.Dexterity + b.Dexterity,
		Constitution: a.Constitution + b.Constitution,
		Intelligence: a.Intelligence + b.Intelligence,
		Wisdom:       a.Wisdom + b.Wisdom,
		Charisma:     a.Charisma + b.Charisma,
	}
}

// Combatant is the capability set every engine operates on.
type Combatant interface {
	// Core returns the shared mutable state. Engines mutate it in place.
	Core() *Base
	// Kind reports whether this is a player or an enemy.
	Kind() Kind
}

// Base is the state shared by both combatant kinds.
//
// Invariant: 0 <= Health <= MaxHealth after every mutation made through its methods.
type Base struct {
	Name      string
	Level     int
	Health    int
	MaxHealth int

	Attributes Attributes
	// Equipment holds attribute bonus totals from equipped items, resolved externally.
	Equipment Attributes
	// Traits holds named resistances, immunities and passive bonuses.
	Traits trait.Bag

	// Effects is ordered by insertion; that order is the tick and display order.
	Effects []*StatusEffect
	// Cooldowns maps ability id to remaining turns.
	Cooldowns map[string]int
}

// Core returns b so that structs embedding Base satisfy part of Combatant.
func (b *Base) Core() *Base { return b }

// IsAlive reports whether Health > 0.
func (b *Base) IsAlive() bool { return b.Health > 0 }

// HealthRatio returns Health/MaxHealth, or 0 when MaxHealth is 0.
func (b *Base) HealthRatio() float64 {
	if b.MaxHealth <= 0 {
		return 0
	}
	return float64(b.Health) / float64(b.MaxHealth)
}

// ApplyDamage reduces Health by amount, flooring at zero, and returns the
// health actually removed. Negative amounts are treated as zero.
//
// Postcondition: Health == max(0, old - amount).
func (b *Base) ApplyDamage(amount int) int {
	if amount < 0 {
		amount = 0
	}
	before := b.Health
	b.Health = clamp(b.Health-amount, 0, b.MaxHealth)
	return before - b.Health
}

// Heal raises Health by amount, capping at MaxHealth, and returns the health
// actually restored. Negative amounts are treated as zero.
//
// Postcondition: Health == min(MaxHealth, old + amount).
func (b *Base) Heal(amount int) int {
	if amount < 0 {
		amount = 0
	}
	before := b.Health
	b.Health = clamp(b.Health+amount, 0, b.MaxHealth)
	return b.Health - before
}

// SetMaxHealth replaces MaxHealth and refills Health.
//
// Precondition: n >= 0.
func (b *Base) SetMaxHealth(n int) {
	n = max(n, 0)
	b.MaxHealth = n
	b.Health = n
}

// Total returns base attributes plus equipment bonuses.
func (b *Base) Total() Attributes { return b.Attributes.Plus(b.Equipment) }

// DodgeChance returns the dodge percentage: 0.5 per point of total Dexterity
// plus the dodgeBonus trait.
func (b *Base) DodgeChance() float64 {
	return float64(b.Total().Dexterity)*0.5 + b.Traits.Number(trait.DodgeBonus)
}

// CritChance returns the critical hit percentage: 0.3 per point of total
// Dexterity plus the critBonus trait.
func (b *Base) CritChance() float64 {
	return float64(b.Total().Dexterity)*0.3 + b.Traits.Number(trait.CritBonus)
}

// PhysicalDefense returns total Constitution.
func (b *Base) PhysicalDefense() int { return b.Total().Constitution }

// Cooldown returns the remaining turns for ability id, 0 when ready.
func (b *Base) Cooldown(id string) int { return b.Cooldowns[id] }

// SetCooldown starts a cooldown of turns for ability id.
func (b *Base) SetCooldown(id string, turns int) {
	if b.Cooldowns == nil {
		b.Cooldowns = make(map[string]int)
	}
	if turns < 0 {
		turns = 0
	}
	b.Cooldowns[id] = turns
}

// TickCooldowns decrements every cooldown by one turn, never below zero.
func (b *Base) TickCooldowns() {
	for id, turns := range b.Cooldowns {
		if turns > 0 {
			b.Cooldowns[id] = turns - 1
		}
	}
}

// CooldownSnapshot returns a copy of Cooldowns.
func (b *Base) CooldownSnapshot() map[string]int {
	out := make(map[string]int, len(b.Cooldowns))
	for k, v := range b.Cooldowns {
		out[k] = v
	}
	return out
}

// Effect returns the active effect of type t, or nil.
func (b *Base) Effect(t EffectType) *StatusEffect {
	for _, e := range b.Effects {
		if e.Type == t {
			return e
		}
	}
	return nil
}

// HasEffect reports whether an effect of type t is active.
func (b *Base) HasEffect(t EffectType) bool { return b.Effect(t) != nil }

// EffectTypes returns the active effect types in insertion order.
func (b *Base) EffectTypes() []EffectType {
	out := make([]EffectType, 0, len(b.Effects))
	for _, e := range b.Effects {
		out = append(out, e.Type)
	}
	return out
}

// Player is a player-controlled combatant.
type Player struct {
	Base
	Mana       int
	MaxMana    int
	Gold       int
	Experience int
	// WeaponDamage is the equipped weapon's damage rating; 0 means unarmed.
	WeaponDamage int
}

// Kind returns KindPlayer.
func (p *Player) Kind() Kind { return KindPlayer }

// RestoreMana raises Mana by amount, capping at MaxMana, and returns the mana restored.
func (p *Player) RestoreMana(amount int) int {
	if amount < 0 {
		amount = 0
	}
	before := p.Mana
	p.Mana = clamp(p.Mana+amount, 0, p.MaxMana)
	return p.Mana - before
}

// SpendMana lowers Mana by amount when enough is available.
//
// Postcondition: Returns false and leaves Mana unchanged if Mana < amount.
func (p *Player) SpendMana(amount int) bool {
	if amount < 0 || p.Mana < amount {
		return false
	}
	p.Mana -= amount
	return true
}

// Tier is the enemy's difficulty rank; it drives loot chance and rarity.
type Tier int

const (
	TierEasy Tier = iota
	TierNormal
	TierHard
	TierElite
	TierBoss
)

// String returns the tier label.
func (t Tier) String() string {
	switch t {
	case TierEasy:
		return "Easy"
	case TierNormal:
		return "Normal"
	case TierHard:
		return "Hard"
	case TierElite:
		return "Elite"
	case TierBoss:
		return "Boss"
	default:
		return "Unknown"
	}
}

// ParseTier maps a tier label to a Tier; unknown labels yield (TierEasy, false).
func ParseTier(s string) (Tier, bool) {
	for t := TierEasy; t <= TierBoss; t++ {
		if t.String() == s {
			return t, true
		}
	}
	return TierEasy, false
}

// Enemy is an AI-controlled combatant spawned from a template.
type Enemy struct {
	Base
	ID         string
	TemplateID string
	Tier       Tier

	BasePhysicalDamage int
	BaseMagicDamage    int
	XPReward           int
	GoldReward         int

	// Abilities lists ability ids in preference order.
	Abilities []string
}

// Kind returns KindEnemy.
func (e *Enemy) Kind() Kind { return KindEnemy }

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

// BaseOf returns c's shared state, or nil when c is nil or a typed nil pointer.
func BaseOf(c Combatant) *Base {
	switch v := c.(type) {
	case nil:
		return nil
	case *Player:
		if v == nil {
			return nil
		}
	case *Enemy:
		if v == nil {
			return nil
		}
	}
	return c.Core()
}
