package combat

import (
	"github.com/cory-johannsen/realm/internal/game/combatant"
)

// FleeChance returns the percent chance that player escapes enemy: the base
// chance adjusted per point of Dexterity difference, clamped to the
// configured range.
func (e *Engine) FleeChance(player, enemy combatant.Combatant) float64 {
	p, en := combatant.BaseOf(player), combatant.BaseOf(enemy)
	if p == nil || en == nil {
		return 0
	}
	diff := float64(p.Total().Dexterity - en.Total().Dexterity)
	chance := e.cfg.FleeBaseChance + diff*e.cfg.FleePerDex
	return max(e.cfg.FleeMinChance, min(e.cfg.FleeMaxChance, chance))
}

// AttemptFlee rolls one escape attempt. Failure costs the player their turn;
// the orchestrator handles that.
func (e *Engine) AttemptFlee(player, enemy combatant.Combatant) Result {
	if e.chance("flee", e.FleeChance(player, enemy)) {
		return Result{Success: true, Message: "You successfully fled from combat!"}
	}
	return Result{Message: "Failed to escape! The enemy blocks your path!"}
}
