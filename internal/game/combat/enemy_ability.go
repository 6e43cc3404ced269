package combat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/realm/internal/game/ability"
	"github.com/cory-johannsen/realm/internal/game/combatant"
	"github.com/cory-johannsen/realm/internal/game/dice"
	"github.com/cory-johannsen/realm/internal/game/status"
)

// abilityFallbackPower is the base amount used when an ability has no dice expression.
const abilityFallbackPower = 10

// ExecuteEnemyAbility asks the decider whether enemy uses an ability this
// turn and resolves it. It returns false when the enemy should make a basic
// attack instead, including when the chosen id does not resolve.
//
// Postcondition: on true, the ability's cooldown has been started on enemy.
func (e *Engine) ExecuteEnemyAbility(enemy *combatant.Enemy, player combatant.Combatant) (AbilityResult, bool) {
	if e.decider == nil || e.abilities == nil || enemy == nil || combatant.BaseOf(player) == nil {
		return AbilityResult{}, false
	}
	id, ok := e.decider.DecideAbilityUsage(enemy, player, enemy.CooldownSnapshot())
	if !ok {
		return AbilityResult{}, false
	}
	def, ok := e.abilities.Get(id)
	if !ok {
		e.logger.Warn("enemy used unknown ability",
			zap.String("enemy", enemy.Name),
			zap.String("ability", id),
		)
		return AbilityResult{}, false
	}

	enemy.SetCooldown(def.ID, def.Cooldown)
	res := AbilityResult{
		Result:      Result{Success: true},
		AbilityID:   def.ID,
		AbilityName: def.Name,
		Category:    def.EffectiveCategory(),
	}
	intel := enemy.Total().Intelligence

	switch res.Category {
	case ability.Offensive:
		dmg := max(1, dice.Vary(e.src, def.Power(abilityFallbackPower)+intel, e.cfg.EnemyVariance))
		player.Core().ApplyDamage(dmg)
		res.Damage = dmg
		res.Message = fmt.Sprintf("%s used %s! You took %d damage!", enemy.Name, def.Name, dmg)
	case ability.Healing, ability.Defensive:
		amount := max(1, dice.Vary(e.src, def.Power(abilityFallbackPower)+intel/2, e.cfg.EnemyVariance))
		res.Healing = enemy.Heal(amount)
		res.Message = fmt.Sprintf("%s used %s and restored %d health!", enemy.Name, def.Name, res.Healing)
	case ability.Debuff, ability.CrowdControl:
		res.Message = fmt.Sprintf("%s used %s on you!", enemy.Name, def.Name)
	default:
		res.Message = fmt.Sprintf("%s used %s!", enemy.Name, def.Name)
	}

	if applied, ok := e.applyAbilityEffect(def, enemy, player); ok {
		res.Effect = &applied
		res.Message += " " + applied.Message
	}

	e.logger.Info("enemy used ability",
		zap.String("enemy", enemy.Name),
		zap.String("ability", def.ID),
		zap.String("category", res.Category.String()),
		zap.Int("damage", res.Damage),
		zap.Int("healing", res.Healing),
	)
	return res, true
}

// applyAbilityEffect applies the status effect named by def's traits. Buffs
// and heal-over-time effects land on the user; everything else on the player.
func (e *Engine) applyAbilityEffect(def *ability.Definition, enemy *combatant.Enemy, player combatant.Combatant) (status.ApplyResult, bool) {
	effect, ok := status.ResolveFromTraits(def.ID, enemy.Name, def.Traits, e.presets)
	if !ok || !status.ShouldApply(def.Traits, e.src) {
		return status.ApplyResult{}, false
	}
	var target combatant.Combatant = player
	if effect.Category == combatant.Buff || effect.Category == combatant.HealOverTime {
		target = enemy
	}
	return e.status.ApplyStatusEffect(target, effect, effect.CanStack, true), true
}
