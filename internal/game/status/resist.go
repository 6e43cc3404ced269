package status

import (
	"strings"

	"github.com/cory-johannsen/realm/internal/game/combatant"
	"github.com/cory-johannsen/realm/internal/game/trait"
)

// wisdomResistPerPoint is the resistance percent a player gains per point of
// Wisdom when no explicit trait applies.
const wisdomResistPerPoint = 0.1

// immunityKey maps effect families to their boolean immunity trait.
var immunityKey = map[combatant.EffectType]string{
	combatant.Poisoned:  trait.ImmuneToPoison,
	combatant.Burning:   trait.ImmuneToFire,
	combatant.Frozen:    trait.ImmuneToIce,
	combatant.Bleeding:  trait.ImmuneToBleeding,
	combatant.Stunned:   trait.ImmuneToStun,
	combatant.Paralyzed: trait.ImmuneToStun,
	combatant.Feared:    trait.ImmuneToFear,
	combatant.Confused:  trait.ImmuneToConfusion,
}

// IsImmune reports whether traits grant immunity to e, either through the
// immuneToStatusEffects list ("all" or the type name, case-insensitive), the
// per-family boolean for e.Type, or an immuneTo{DamageType} boolean.
func IsImmune(traits trait.Bag, e *combatant.StatusEffect) bool {
	for _, name := range traits.StringList(trait.ImmuneToStatusEffects) {
		if strings.EqualFold(name, "all") || strings.EqualFold(name, e.Type.String()) {
			return true
		}
	}
	if key, ok := immunityKey[e.Type]; ok && traits.Bool(key) {
		return true
	}
	if dt := e.DamageType; dt != "" && !strings.EqualFold(dt, "magic") {
		if traits.Bool("immuneTo" + strings.ToUpper(dt[:1]) + dt[1:]) {
			return true
		}
	}
	return false
}

// Resistance resolves the percent chance that target shrugs off e, capped at
// 100. The first applicable source wins:
//
//  1. explicit traits: resist{DamageType} (non-magic) plus resist{EffectType}
//  2. resistMagic, halved
//  3. for players only, Wisdom at wisdomResistPerPoint
func Resistance(target combatant.Combatant, e *combatant.StatusEffect) float64 {
	b := target.Core()
	traits := b.Traits

	var explicit float64
	found := false
	if dt := strings.ToLower(e.DamageType); dt != "" && dt != "magic" {
		if key := trait.ResistKey(dt); traits.Has(key) {
			explicit += traits.Number(key)
			found = true
		}
	}
	if key := trait.ResistKey(e.Type.String()); traits.Has(key) {
		explicit += traits.Number(key)
		found = true
	}

	var pct float64
	switch {
	case found:
		pct = explicit
	case traits.Has(trait.ResistMagic):
		pct = traits.Number(trait.ResistMagic) / 2
	case target.Kind() == combatant.KindPlayer:
		pct = float64(b.Total().Wisdom) * wisdomResistPerPoint
	}
	return min(max(pct, 0), 100)
}
