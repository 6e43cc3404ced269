package combat

import (
	"fmt"

	"github.com/cory-johannsen/realm/internal/game/combatant"
	"github.com/cory-johannsen/realm/internal/game/dice"
	"github.com/cory-johannsen/realm/internal/game/status"
	"github.com/cory-johannsen/realm/internal/game/trait"
)

const (
	statAttack  = "attack"
	statDefense = "defense"
)

// ExecutePlayerAttack resolves player attacking enemy.
func (e *Engine) ExecutePlayerAttack(player *combatant.Player, enemy *combatant.Enemy) Result {
	return e.ResolveAttack(player, enemy, false)
}

// ExecuteEnemyAttack resolves a basic enemy attack on player.
func (e *Engine) ExecuteEnemyAttack(enemy *combatant.Enemy, player *combatant.Player, playerDefending bool) Result {
	return e.ResolveAttack(enemy, player, playerDefending)
}

// ResolveAttack resolves one physical attack and applies its damage to defender.
//
// The order is fixed: dodge, critical roll, base damage less defense,
// defending mitigation, floor at 1, critical multiplier, block (enemy
// attackers only), difficulty multiplier.
//
// Precondition: attacker and defender are non-nil.
// Postcondition: a dodged result has Damage == 0; otherwise Damage >= 1 and
// defender.Health == max(0, old - Damage).
func (e *Engine) ResolveAttack(attacker, defender combatant.Combatant, defending bool) Result {
	a, d := combatant.BaseOf(attacker), combatant.BaseOf(defender)
	if a == nil || d == nil {
		return Result{Message: "No valid combatants for attack."}
	}

	res := Result{Success: true}
	if e.chance("dodge", d.DodgeChance()) {
		res.IsDodged = true
		res.Message = dodgeMessage(attacker, defender)
		return res
	}
	res.IsCritical = e.chance("critical", a.CritChance())

	dmg := e.baseDamage(attacker)
	dmg -= d.PhysicalDefense() + status.StatModifierTotal(d, statDefense)
	if defending {
		dmg -= max(1, d.Total().Constitution/2)
	}
	dmg = max(1, dmg)

	if res.IsCritical {
		dmg = int(float64(dmg) * e.cfg.CritMultiplier)
	}
	if attacker.Kind() == combatant.KindEnemy && e.chance("block", e.cfg.BlockChance+d.Traits.Number(trait.BlockBonus)) {
		res.IsBlocked = true
		dmg = max(1, int(float64(dmg)*(1-e.cfg.BlockReduction)))
	}
	dmg = max(1, int(float64(dmg)*e.damageMultiplier(attacker)))

	d.ApplyDamage(dmg)
	res.Damage = dmg
	res.Message = hitMessage(attacker, defender, res, defending)
	return res
}

// baseDamage is the attacker's raw physical damage before defense.
func (e *Engine) baseDamage(attacker combatant.Combatant) int {
	b := attacker.Core()
	mod := status.StatModifierTotal(b, statAttack)
	switch c := attacker.(type) {
	case *combatant.Player:
		weapon := c.WeaponDamage
		if weapon <= 0 {
			weapon = e.cfg.UnarmedDamage
		}
		return b.Total().Strength + weapon + mod
	case *combatant.Enemy:
		return dice.Vary(e.src, c.BasePhysicalDamage+b.Total().Strength, e.cfg.EnemyVariance) + mod
	default:
		return b.Total().Strength + mod
	}
}

func (e *Engine) damageMultiplier(attacker combatant.Combatant) float64 {
	if attacker.Kind() == combatant.KindEnemy {
		return e.profile.EnemyDamageMultiplier
	}
	return e.profile.PlayerDamageMultiplier
}

func dodgeMessage(attacker, defender combatant.Combatant) string {
	switch {
	case attacker.Kind() == combatant.KindPlayer:
		return fmt.Sprintf("%s dodged your attack!", defender.Core().Name)
	case defender.Kind() == combatant.KindPlayer:
		return fmt.Sprintf("You dodged %s's attack!", attacker.Core().Name)
	default:
		return fmt.Sprintf("%s dodged %s's attack!", defender.Core().Name, attacker.Core().Name)
	}
}

func hitMessage(attacker, defender combatant.Combatant, res Result, defending bool) string {
	an, dn := attacker.Core().Name, defender.Core().Name
	switch {
	case attacker.Kind() == combatant.KindPlayer && res.IsCritical:
		return fmt.Sprintf("CRITICAL HIT! You dealt %d damage to %s!", res.Damage, dn)
	case attacker.Kind() == combatant.KindPlayer:
		return fmt.Sprintf("You dealt %d damage to %s.", res.Damage, dn)
	case defender.Kind() != combatant.KindPlayer:
		return fmt.Sprintf("%s hit %s for %d damage.", an, dn, res.Damage)
	case res.IsCritical:
		return fmt.Sprintf("%s scored a CRITICAL HIT! You took %d damage!", an, res.Damage)
	case res.IsBlocked:
		return fmt.Sprintf("You blocked part of %s's attack and took %d damage.", an, res.Damage)
	case defending:
		return fmt.Sprintf("%s attacked! You defended and took %d damage.", an, res.Damage)
	default:
		return fmt.Sprintf("%s attacked! You took %d damage.", an, res.Damage)
	}
}
