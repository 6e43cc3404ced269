package encounter

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/cory-johannsen/realm/internal/game/combat"
	"github.com/cory-johannsen/realm/internal/game/combatant"
	"github.com/cory-johannsen/realm/internal/game/difficulty"
	"github.com/cory-johannsen/realm/internal/game/inventory"
)

// State is the read-only view handed to Input when the player must act.
type State struct {
	EncounterID string
	Round       int
	Player      *combatant.Player
	Enemy       *combatant.Enemy
	// Consumables lists the items usable from the item menu.
	Consumables []*inventory.ItemDef
}

// Input supplies the player's choices. It is the only blocking point of an encounter.
type Input interface {
	// ChooseAction returns the player's action for this turn.
	ChooseAction(ctx context.Context, state State) (combat.ActionType, error)
	// ChooseItem picks one of options; ok is false when the menu is cancelled.
	ChooseItem(ctx context.Context, player *combatant.Player, options []*inventory.ItemDef) (item *inventory.ItemDef, ok bool, err error)
}

// Rewards is what the player actually received for a victory.
type Rewards struct {
	XP   int
	Gold int
}

// RewardHandler grants victory rewards to the player.
type RewardHandler interface {
	Grant(ctx context.Context, player *combatant.Player, outcome combat.VictoryOutcome) Rewards
}

// DifficultyRewards grants XP and gold scaled by the profile's GoldXPMultiplier.
type DifficultyRewards struct {
	Profile difficulty.Profile
}

// Grant adds the scaled rewards to player.
//
// Postcondition: player.Experience and player.Gold grow by the returned amounts.
func (d DifficultyRewards) Grant(_ context.Context, player *combatant.Player, outcome combat.VictoryOutcome) Rewards {
	m := d.Profile.GoldXPMultiplier
	r := Rewards{
		XP:   int(math.Round(float64(outcome.XPGained) * m)),
		Gold: int(math.Round(float64(outcome.GoldGained) * m)),
	}
	player.Experience += r.XP
	player.Gold += r.Gold
	return r
}

// LevelUpChecker applies any level-ups the player has earned and reports how many.
type LevelUpChecker interface {
	CheckLevelUp(player *combatant.Player) int
}

// XPCurve levels a player while Experience covers Level*PerLevel, spending
// the experience and fully restoring health and mana on each level.
type XPCurve struct {
	// PerLevel is the experience required per current level; 0 means 100.
	PerLevel int
}

// CheckLevelUp applies earned levels.
func (c XPCurve) CheckLevelUp(player *combatant.Player) int {
	per := c.PerLevel
	if per <= 0 {
		per = 100
	}
	gained := 0
	for player.Experience >= max(1, player.Level)*per {
		player.Experience -= max(1, player.Level) * per
		player.Level = max(1, player.Level) + 1
		player.Health = player.MaxHealth
		player.Mana = player.MaxMana
		gained++
	}
	return gained
}

// Record is the persisted summary of one finished encounter.
type Record struct {
	ID         string
	PlayerName string
	EnemyName  string
	Difficulty string
	Outcome    Outcome
	Rounds     int
	XPGained   int
	GoldGained int
	Summary    string
	CreatedAt  time.Time
}

// Saver persists an encounter record after a victory.
type Saver interface {
	SaveEncounter(ctx context.Context, rec Record) error
}

// Penalty is what a defeat cost the player.
type Penalty struct {
	GoldLost   int
	XPLost     int
	Permadeath bool
	Message    string
}

// DefeatHandler applies the consequences of losing an encounter.
type DefeatHandler interface {
	HandleDefeat(ctx context.Context, player *combatant.Player, enemy *combatant.Enemy) Penalty
}

// PenaltyHandler applies the profile's gold and XP loss. Outside permadeath
// the player is revived at a quarter of MaxHealth.
type PenaltyHandler struct {
	Profile difficulty.Profile
}

// HandleDefeat applies the penalty to player.
func (h PenaltyHandler) HandleDefeat(_ context.Context, player *combatant.Player, enemy *combatant.Enemy) Penalty {
	p := Penalty{
		GoldLost:   int(float64(player.Gold) * h.Profile.GoldLossPercent),
		XPLost:     int(float64(player.Experience) * h.Profile.XPLossPercent),
		Permadeath: h.Profile.IsPermadeath,
	}
	player.Gold = max(0, player.Gold-p.GoldLost)
	player.Experience = max(0, player.Experience-p.XPLost)

	enemyName := "enemy"
	if enemy != nil {
		enemyName = enemy.Name
	}
	if p.Permadeath {
		p.Message = fmt.Sprintf("You were slain by the %s. Your journey ends here.", enemyName)
		return p
	}
	player.Health = max(1, player.MaxHealth/4)
	p.Message = fmt.Sprintf("The %s proved too powerful. You lost %d gold and %d XP.", enemyName, p.GoldLost, p.XPLost)
	return p
}
