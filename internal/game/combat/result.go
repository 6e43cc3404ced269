package combat

import (
	"github.com/cory-johannsen/realm/internal/game/ability"
	"github.com/cory-johannsen/realm/internal/game/npc"
	"github.com/cory-johannsen/realm/internal/game/status"
)

// Result records the outcome of one resolved combat action.
//
// Expected negatives (a dodge, a failed flee, an unusable item) are reported
// with Success false or IsDodged true, never as errors.
type Result struct {
	Success    bool
	Damage     int
	Healing    int
	IsCritical bool
	IsDodged   bool
	IsBlocked  bool
	Message    string
}

// AbilityResult is the outcome of an enemy ability.
type AbilityResult struct {
	Result
	AbilityID   string
	AbilityName string
	Category    ability.Category
	// Effect is set when the ability attempted to apply a status effect.
	Effect *status.ApplyResult
}

// VictoryOutcome is the reward summary produced when an enemy falls.
type VictoryOutcome struct {
	XPGained    int
	GoldGained  int
	LootDropped []npc.LootItem
	Summary     string
}
