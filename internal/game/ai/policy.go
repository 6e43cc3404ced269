// Package ai decides which ability, if any, an enemy uses on its turn.
package ai

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/realm/internal/game/ability"
	"github.com/cory-johannsen/realm/internal/game/combatant"
	"github.com/cory-johannsen/realm/internal/game/dice"
)

// Decision thresholds and roll chances.
const (
	LowHealthRatio    = 0.20
	HighHealthRatio   = 0.80
	OpeningRatio      = 0.95
	StrongPlayerRatio = 0.70

	HealChance    = 70
	BuffChance    = 50
	DebuffChance  = 45
	OffenseChance = 40
)

// rule gates one ability family on the situation and rolls chance when the gate holds.
type rule struct {
	name   string
	cats   []ability.Category
	chance float64
	when   func(Situation) bool
}

// rules are evaluated in descending chance order; the first successful roll wins.
var rules = []rule{
	{"heal", []ability.Category{ability.Healing, ability.Defensive}, HealChance,
		func(s Situation) bool { return s.EnemyHealthRatio < LowHealthRatio }},
	{"buff", []ability.Category{ability.Buff}, BuffChance,
		func(s Situation) bool { return s.EnemyHealthRatio >= OpeningRatio }},
	{"debuff", []ability.Category{ability.Debuff, ability.CrowdControl}, DebuffChance,
		func(s Situation) bool { return s.PlayerHealthRatio > StrongPlayerRatio }},
	{"offense", []ability.Category{ability.Offensive}, OffenseChance,
		func(s Situation) bool { return s.EnemyHealthRatio > HighHealthRatio }},
}

// Policy is the enemy ability decision procedure.
type Policy struct {
	catalog Catalog
	src     dice.Source
	logger  *zap.Logger
}

// NewPolicy creates a Policy.
//
// Precondition: catalog and src must not be nil.
func NewPolicy(catalog Catalog, src dice.Source, logger *zap.Logger) *Policy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Policy{catalog: catalog, src: src, logger: logger}
}

// DecideAbilityUsage returns the id of the ability enemy should use, or
// ("", false) for a basic attack. cooldowns is consulted instead of the
// enemy's own cooldown map.
//
// Postcondition: a returned id is never on cooldown in cooldowns.
func (p *Policy) DecideAbilityUsage(enemy *combatant.Enemy, player combatant.Combatant, cooldowns map[string]int) (string, bool) {
	if enemy == nil || len(enemy.Abilities) == 0 {
		return "", false
	}
	s, unresolved := BuildSituation(enemy, player, cooldowns, p.catalog)
	for _, id := range unresolved {
		p.logger.Warn("enemy ability not in catalog", zap.String("enemy", enemy.Name), zap.String("ability", id))
	}
	if len(s.Available) == 0 {
		return "", false
	}
	for _, r := range rules {
		if !r.when(s) {
			continue
		}
		candidates := s.ByCategory(r.cats...)
		if len(candidates) == 0 {
			continue
		}
		if !dice.Percent(p.src, r.chance) {
			continue
		}
		pick := candidates[dice.Between(p.src, 0, len(candidates)-1)]
		p.logger.Debug("enemy ability chosen",
			zap.String("enemy", enemy.Name),
			zap.String("ability", pick.ID),
			zap.String("rule", r.name),
		)
		return pick.ID, true
	}
	return "", false
}
