package main

import (
	"fmt"

	"github.com/cory-johannsen/realm/internal/config"
	"github.com/cory-johannsen/realm/internal/game/ability"
	"github.com/cory-johannsen/realm/internal/game/inventory"
	"github.com/cory-johannsen/realm/internal/game/npc"
	"github.com/cory-johannsen/realm/internal/game/status"
)

// catalogs is every YAML catalog the simulator needs.
type catalogs struct {
	abilities *ability.Catalog
	effects   *status.Registry
	enemies   *npc.Catalog
	items     *inventory.Registry
}

// loadCatalogs reads the content directories named by cfg and cross-checks
// the references between them.
//
// Postcondition: every enemy ability, statusPreset trait and loot item id resolves.
func loadCatalogs(cfg config.ContentConfig) (*catalogs, error) {
	abilities, err := ability.LoadDirectory(cfg.AbilitiesDir)
	if err != nil {
		return nil, fmt.Errorf("loading abilities: %w", err)
	}
	effects, err := status.LoadDirectory(cfg.EffectsDir)
	if err != nil {
		return nil, fmt.Errorf("loading effects: %w", err)
	}
	enemies, err := npc.LoadCatalog(cfg.EnemiesDir, abilities)
	if err != nil {
		return nil, fmt.Errorf("loading enemies: %w", err)
	}
	items, err := inventory.LoadRegistry(cfg.ItemsDir)
	if err != nil {
		return nil, fmt.Errorf("loading items: %w", err)
	}

	for _, def := range abilities.All() {
		id := def.Traits.Str(status.TraitStatusPreset)
		if id == "" {
			continue
		}
		if _, ok := effects.Get(id); !ok {
			return nil, fmt.Errorf("ability %q: unknown status preset %q", def.ID, id)
		}
	}
	for _, enemyID := range enemies.IDs() {
		tmpl, _ := enemies.Get(enemyID)
		if tmpl.Loot == nil {
			continue
		}
		for _, drop := range tmpl.Loot.Items {
			if _, ok := items.Item(drop.ItemID); !ok {
				return nil, fmt.Errorf("enemy %q: unknown loot item %q", enemyID, drop.ItemID)
			}
		}
	}
	return &catalogs{abilities: abilities, effects: effects, enemies: enemies, items: items}, nil
}
