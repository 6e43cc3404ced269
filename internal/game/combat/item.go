package combat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/realm/internal/game/combatant"
	"github.com/cory-johannsen/realm/internal/game/inventory"
)

// UseItemInCombat applies a consumable's healing and mana restore to player.
// Removing the item from the backpack is the caller's job.
//
// Postcondition: Success is false and player is unchanged when item is nil
// or not a consumable.
func (e *Engine) UseItemInCombat(player *combatant.Player, item *inventory.ItemDef) Result {
	if player == nil || item == nil {
		return Result{Message: "No item selected."}
	}
	if !item.IsConsumable() {
		return Result{Message: fmt.Sprintf("%s cannot be used in combat.", item.Name)}
	}

	res := Result{Success: true}
	healed := player.Heal(item.Healing)
	mana := player.RestoreMana(item.ManaRestore)
	res.Healing = healed

	switch {
	case item.Healing > 0 && item.ManaRestore > 0:
		res.Message = fmt.Sprintf("You used %s and restored %d health and %d mana!", item.Name, healed, mana)
	case item.Healing > 0:
		res.Message = fmt.Sprintf("You used %s and restored %d health!", item.Name, healed)
	case item.ManaRestore > 0:
		res.Message = fmt.Sprintf("You used %s and restored %d mana!", item.Name, mana)
	default:
		res.Message = fmt.Sprintf("You used %s.", item.Name)
	}
	e.logger.Debug("item used",
		zap.String("item", item.ID),
		zap.Int("healed", healed),
		zap.Int("mana", mana),
	)
	return res
}
