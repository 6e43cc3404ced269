package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cory-johannsen/realm/internal/game/combat"
	"github.com/cory-johannsen/realm/internal/game/combatant"
	"github.com/cory-johannsen/realm/internal/game/encounter"
	"github.com/cory-johannsen/realm/internal/game/inventory"
)

// Thresholds on the player's health ratio that drive the automated strategies.
const (
	healBelow  = 0.5
	braceBelow = 0.3
	fleeBelow  = 0.25
)

// strategy is an automated encounter.Input.
type strategy struct {
	name   string
	decide func(state encounter.State) combat.ActionType
}

var strategies = map[string]func(encounter.State) combat.ActionType{
	// aggressive always attacks.
	"aggressive": func(encounter.State) combat.ActionType { return combat.ActionAttack },
	// defensive drinks potions when hurt and braces when it has none.
	"defensive": func(s encounter.State) combat.ActionType {
		ratio := s.Player.HealthRatio()
		switch {
		case ratio < healBelow && len(s.Consumables) > 0:
			return combat.ActionUseItem
		case ratio < braceBelow:
			return combat.ActionDefend
		}
		return combat.ActionAttack
	},
	// cautious heals when hurt and runs once out of potions and nearly dead.
	"cautious": func(s encounter.State) combat.ActionType {
		ratio := s.Player.HealthRatio()
		switch {
		case ratio < healBelow && len(s.Consumables) > 0:
			return combat.ActionUseItem
		case ratio < fleeBelow:
			return combat.ActionFlee
		}
		return combat.ActionAttack
	},
}

// strategyNames returns the accepted -strategy values in sorted order.
func strategyNames() []string {
	out := make([]string, 0, len(strategies))
	for name := range strategies {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// newStrategy resolves name to an Input.
func newStrategy(name string) (*strategy, error) {
	decide, ok := strategies[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q (want one of %s)", name, strings.Join(strategyNames(), ", "))
	}
	return &strategy{name: strings.ToLower(name), decide: decide}, nil
}

// ChooseAction implements encounter.Input.
func (s *strategy) ChooseAction(ctx context.Context, state encounter.State) (combat.ActionType, error) {
	if err := ctx.Err(); err != nil {
		return combat.ActionUnknown, err
	}
	return s.decide(state), nil
}

// ChooseItem picks the option that restores the most health.
func (s *strategy) ChooseItem(_ context.Context, _ *combatant.Player, options []*inventory.ItemDef) (*inventory.ItemDef, bool, error) {
	var best *inventory.ItemDef
	for _, o := range options {
		if best == nil || o.Healing > best.Healing {
			best = o
		}
	}
	return best, best != nil, nil
}
