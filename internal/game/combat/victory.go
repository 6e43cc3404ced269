package combat

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/realm/internal/game/combatant"
)

// GenerateVictoryOutcome computes the rewards for defeating enemy. XP and
// gold are the enemy's configured rewards plus any dropped currency; the
// difficulty gold/XP multiplier is applied by the reward handler, not here.
func (e *Engine) GenerateVictoryOutcome(player *combatant.Player, enemy *combatant.Enemy) VictoryOutcome {
	if enemy == nil {
		return VictoryOutcome{}
	}
	out := VictoryOutcome{
		XPGained:   enemy.XPReward,
		GoldGained: enemy.GoldReward,
	}
	if e.loot != nil {
		loot := e.loot.RollLoot(enemy)
		out.GoldGained += loot.Currency
		out.LootDropped = loot.Items
	}
	out.Summary = victorySummary(enemy.Name, out)

	playerName := ""
	if player != nil {
		playerName = player.Name
	}
	e.logger.Info("victory",
		zap.String("player", playerName),
		zap.String("enemy", enemy.Name),
		zap.Int("xp", out.XPGained),
		zap.Int("gold", out.GoldGained),
		zap.Int("loot", len(out.LootDropped)),
	)
	return out
}

func victorySummary(enemyName string, out VictoryOutcome) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Victory! Defeated %s!\n\n", enemyName)
	fmt.Fprintf(&sb, "+%d XP\n", out.XPGained)
	fmt.Fprintf(&sb, "+%d Gold\n", out.GoldGained)
	if len(out.LootDropped) > 0 {
		sb.WriteString("\nLoot:\n")
		for _, item := range out.LootDropped {
			fmt.Fprintf(&sb, "  • %s (%s)\n", item.Name, item.Rarity)
		}
	}
	return sb.String()
}
