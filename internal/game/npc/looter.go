package npc

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/realm/internal/game/combatant"
	"github.com/cory-johannsen/realm/internal/game/dice"
	"github.com/cory-johannsen/realm/internal/game/inventory"
)

// Looter rolls the drops for a defeated enemy: its template's loot table
// plus one tier-gated bonus item drawn from the item registry.
type Looter struct {
	templates *Catalog
	items     *inventory.Registry
	src       dice.Source
	logger    *zap.Logger
}

// NewLooter creates a Looter. templates and items may be nil, which
// disables template tables and tier drops respectively.
//
// Precondition: src must be non-nil.
func NewLooter(templates *Catalog, items *inventory.Registry, src dice.Source, logger *zap.Logger) *Looter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Looter{templates: templates, items: items, src: src, logger: logger}
}

// RollLoot generates loot for enemy.
//
// Postcondition: every returned item carries a fresh InstanceID; item names
// and rarities are filled from the registry when known.
func (l *Looter) RollLoot(enemy *combatant.Enemy) LootResult {
	var result LootResult
	if l.templates != nil {
		if tmpl, ok := l.templates.Get(enemy.TemplateID); ok && tmpl.Loot != nil {
			result = GenerateLoot(*tmpl.Loot, l.src)
		}
	}
	if l.items != nil && dice.Percent(l.src, TierLootChance(enemy.Tier)) {
		rarity := TierRarity(enemy.Tier, l.src)
		if pool := l.items.ByRarity(rarity); len(pool) > 0 {
			def := pool[dice.Between(l.src, 0, len(pool)-1)]
			result.Items = append(result.Items, LootItem{
				ItemDefID:  def.ID,
				InstanceID: uuid.New().String(),
				Quantity:   1,
			})
		} else {
			l.logger.Debug("no items of rolled rarity", zap.String("rarity", rarity.String()))
		}
	}
	for i := range result.Items {
		it := &result.Items[i]
		it.Name = it.ItemDefID
		if l.items == nil {
			continue
		}
		if def, ok := l.items.Item(it.ItemDefID); ok {
			it.Name = def.Name
			it.Rarity = def.Rarity
		}
	}
	return result
}
