package npc

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cory-johannsen/realm/internal/game/combatant"
	"github.com/cory-johannsen/realm/internal/game/dice"
	"github.com/cory-johannsen/realm/internal/game/inventory"
)

// CurrencyDrop defines the range of gold an enemy can drop on death.
type CurrencyDrop struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// ItemDrop defines a single item entry in a loot table with a drop chance.
type ItemDrop struct {
	ItemID string  `yaml:"item"`
	Chance float64 `yaml:"chance"`
	MinQty int     `yaml:"min_qty"`
	MaxQty int     `yaml:"max_qty"`
}

// LootTable defines the possible loot drops for an enemy template.
type LootTable struct {
	Currency *CurrencyDrop `yaml:"currency"`
	Items    []ItemDrop    `yaml:"items"`
}

// Validate checks that the loot table satisfies its invariants.
//
// Precondition: lt must not be nil.
// Postcondition: Returns nil iff all currency and item constraints hold;
// an empty loot table (no currency, no items) is valid.
func (lt *LootTable) Validate() error {
	if lt.Currency != nil {
		if lt.Currency.Min < 0 {
			return fmt.Errorf("loot table: currency min must be >= 0, got %d", lt.Currency.Min)
		}
		if lt.Currency.Min > lt.Currency.Max {
			return fmt.Errorf("loot table: currency min (%d) must be <= max (%d)", lt.Currency.Min, lt.Currency.Max)
		}
	}
	for i, item := range lt.Items {
		if item.ItemID == "" {
			return fmt.Errorf("loot table: item[%d] must have a non-empty item id", i)
		}
		if item.Chance <= 0 || item.Chance > 1.0 {
			return fmt.Errorf("loot table: item[%d] chance must be in (0, 1.0], got %f", i, item.Chance)
		}
		if item.MinQty < 1 {
			return fmt.Errorf("loot table: item[%d] min_qty must be >= 1, got %d", i, item.MinQty)
		}
		if item.MinQty > item.MaxQty {
			return fmt.Errorf("loot table: item[%d] min_qty (%d) must be <= max_qty (%d)", i, item.MinQty, item.MaxQty)
		}
	}
	return nil
}

// LootItem represents a single item stack in a loot result.
type LootItem struct {
	ItemDefID  string
	InstanceID string
	Name       string
	Rarity     inventory.Rarity
	Quantity   int
}

// LootResult holds the generated loot from a single kill.
type LootResult struct {
	Currency int
	Items    []LootItem
}

// GenerateLoot rolls loot from lt with src.
//
// Precondition: lt must have passed Validate(); src must be non-nil.
// Postcondition: Currency is in [Currency.Min, Currency.Max] if currency is set;
// each item's Quantity is in [MinQty, MaxQty] for items that pass the chance roll.
func GenerateLoot(lt LootTable, src dice.Source) LootResult {
	var result LootResult

	if lt.Currency != nil && lt.Currency.Max > 0 {
		result.Currency = dice.Between(src, lt.Currency.Min, lt.Currency.Max)
	}

	for _, item := range lt.Items {
		if !dice.Percent(src, item.Chance*100) {
			continue
		}
		result.Items = append(result.Items, LootItem{
			ItemDefID:  item.ItemID,
			InstanceID: uuid.New().String(),
			Quantity:   dice.Between(src, item.MinQty, item.MaxQty),
		})
	}

	return result
}

// TierLootChance returns the percent chance that an enemy of tier drops a
// bonus item.
func TierLootChance(t combatant.Tier) float64 {
	switch t {
	case combatant.TierEasy:
		return 20
	case combatant.TierNormal:
		return 40
	case combatant.TierHard:
		return 60
	case combatant.TierElite:
		return 80
	case combatant.TierBoss:
		return 100
	default:
		return 0
	}
}

// TierRarity rolls the rarity of a tier bonus drop.
func TierRarity(t combatant.Tier, src dice.Source) inventory.Rarity {
	pick := func(chance float64, lo, hi inventory.Rarity) inventory.Rarity {
		if dice.Percent(src, chance) {
			return lo
		}
		return hi
	}
	switch t {
	case combatant.TierNormal:
		return pick(70, inventory.Common, inventory.Uncommon)
	case combatant.TierHard:
		return pick(50, inventory.Uncommon, inventory.Rare)
	case combatant.TierElite:
		return pick(60, inventory.Rare, inventory.Epic)
	case combatant.TierBoss:
		return pick(30, inventory.Epic, inventory.Legendary)
	default:
		return inventory.Common
	}
}
