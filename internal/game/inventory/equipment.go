package inventory

import (
	"fmt"
	"sort"

	"github.com/cory-johannsen/realm/internal/game/combatant"
)

// Equipment slot identifiers.
const (
	SlotMainHand = "main"
	SlotHead     = "head"
	SlotTorso    = "torso"
	SlotHands    = "hands"
	SlotLegs     = "legs"
	SlotFeet     = "feet"
	SlotNeck     = "neck"
	SlotRing     = "ring"
)

var validSlots = map[string]bool{
	SlotMainHand: true,
	SlotHead:     true,
	SlotTorso:    true,
	SlotHands:    true,
	SlotLegs:     true,
	SlotFeet:     true,
	SlotNeck:     true,
	SlotRing:     true,
}

var slotDisplayNames = map[string]string{
	SlotMainHand: "Main Hand",
	SlotHead:     "Head",
	SlotTorso:    "Torso",
	SlotHands:    "Hands",
	SlotLegs:     "Legs",
	SlotFeet:     "Feet",
	SlotNeck:     "Neck",
	SlotRing:     "Ring",
}

// SlotDisplayName returns the human-readable label for a slot identifier,
// or slot itself if unknown.
func SlotDisplayName(slot string) string {
	if label, ok := slotDisplayNames[slot]; ok {
		return label
	}
	return slot
}

// Equipment maps slot to the item definition id equipped there.
type Equipment struct {
	slots map[string]string
}

// NewEquipment returns an empty Equipment.
func NewEquipment() *Equipment {
	return &Equipment{slots: make(map[string]string)}
}

// Equip places def into its slot and returns the id it replaced, if any.
//
// Precondition: def must be a weapon, armor or accessory.
func (e *Equipment) Equip(def *ItemDef) (string, error) {
	slot := def.Slot
	if def.Kind == KindWeapon {
		slot = SlotMainHand
	}
	if !validSlots[slot] || def.Kind == KindConsumable || def.Kind == KindJunk {
		return "", fmt.Errorf("equipment: %q cannot be equipped", def.ID)
	}
	prev := e.slots[slot]
	e.slots[slot] = def.ID
	return prev, nil
}

// Unequip clears slot and returns the id that was there.
func (e *Equipment) Unequip(slot string) string {
	prev := e.slots[slot]
	delete(e.slots, slot)
	return prev
}

// Slots returns the occupied slots in sorted order.
func (e *Equipment) Slots() []string {
	out := make([]string, 0, len(e.slots))
	for s := range e.slots {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Bonuses sums the attribute bonuses and weapon damage of every equipped item.
// Ids missing from reg are skipped.
func (e *Equipment) Bonuses(reg *Registry) (combatant.Attributes, int) {
	var total combatant.Attributes
	weapon := 0
	for _, id := range e.slots {
		def, ok := reg.Item(id)
		if !ok {
			continue
		}
		total = total.Plus(def.Bonuses)
		if def.Kind == KindWeapon {
			weapon += def.Damage
		}
	}
	return total, weapon
}

// ApplyTo writes the aggregated bonuses onto p.
//
// Postcondition: p.Equipment and p.WeaponDamage reflect exactly the equipped items.
func (e *Equipment) ApplyTo(p *combatant.Player, reg *Registry) {
	p.Equipment, p.WeaponDamage = e.Bonuses(reg)
}
