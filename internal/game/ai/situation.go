package ai

import (
	"github.com/cory-johannsen/realm/internal/game/ability"
	"github.com/cory-johannsen/realm/internal/game/combatant"
)

// Situation is the snapshot an enemy decides from.
type Situation struct {
	EnemyHealthRatio  float64
	PlayerHealthRatio float64
	// Available holds the enemy's ready abilities in the enemy's preference order.
	Available []*ability.Definition
}

// Catalog resolves ability ids to definitions.
type Catalog interface {
	Get(id string) (*ability.Definition, bool)
}

// BuildSituation snapshots enemy and player for a decision. An ability is
// ready when cooldowns has no entry for it or the entry is 0. Ids the
// catalog cannot resolve are returned in unresolved.
//
// Precondition: enemy and catalog must not be nil.
func BuildSituation(enemy *combatant.Enemy, player combatant.Combatant, cooldowns map[string]int, catalog Catalog) (s Situation, unresolved []string) {
	s.EnemyHealthRatio = enemy.HealthRatio()
	if b := combatant.BaseOf(player); b != nil {
		s.PlayerHealthRatio = b.HealthRatio()
	}
	for _, id := range enemy.Abilities {
		if cooldowns[id] != 0 {
			continue
		}
		def, ok := catalog.Get(id)
		if !ok {
			unresolved = append(unresolved, id)
			continue
		}
		s.Available = append(s.Available, def)
	}
	return s, unresolved
}

// ByCategory returns the available abilities whose effective category is in cats.
func (s Situation) ByCategory(cats ...ability.Category) []*ability.Definition {
	var out []*ability.Definition
	for _, def := range s.Available {
		c := def.EffectiveCategory()
		for _, want := range cats {
			if c == want {
				out = append(out, def)
				break
			}
		}
	}
	return out
}
