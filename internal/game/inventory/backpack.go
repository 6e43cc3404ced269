package inventory

import (
	"fmt"

	"github.com/google/uuid"
)

// ItemInstance represents a concrete stack of an item in a backpack.
type ItemInstance struct {
	InstanceID string
	ItemDefID  string
	Quantity   int
}

// Backpack is a slot-limited item container. Stackable items merge into
// existing stacks up to their MaxStack before opening a new slot.
type Backpack struct {
	MaxSlots int
	items    []ItemInstance
}

// NewBackpack creates a Backpack with maxSlots slots.
//
// Precondition: maxSlots >= 0.
func NewBackpack(maxSlots int) *Backpack {
	return &Backpack{MaxSlots: maxSlots}
}

// Add places quantity units of itemDefID into the backpack. It is atomic:
// if the slot limit would be exceeded, no state is modified.
//
// Precondition: quantity > 0, itemDefID exists in reg.
// Postcondition: on error, backpack state is unchanged.
func (b *Backpack) Add(itemDefID string, quantity int, reg *Registry) error {
	def, ok := reg.Item(itemDefID)
	if !ok {
		return fmt.Errorf("backpack: unknown item %q", itemDefID)
	}
	if quantity <= 0 {
		return fmt.Errorf("backpack: quantity must be > 0")
	}

	maxStack := 1
	if def.Stackable {
		maxStack = def.MaxStack
	}

	// Plan merges into partial stacks, then count the new slots the remainder needs.
	remaining := quantity
	merges := map[int]int{}
	if def.Stackable {
		for i := range b.items {
			if remaining == 0 {
				break
			}
			if b.items[i].ItemDefID != def.ID || b.items[i].Quantity >= maxStack {
				continue
			}
			take := min(remaining, maxStack-b.items[i].Quantity)
			merges[i] = take
			remaining -= take
		}
	}
	newSlots := (remaining + maxStack - 1) / maxStack
	if len(b.items)+newSlots > b.MaxSlots {
		return fmt.Errorf("backpack: not enough slots for %d of %q", quantity, itemDefID)
	}

	for i, take := range merges {
		b.items[i].Quantity += take
	}
	for remaining > 0 {
		q := min(remaining, maxStack)
		b.items = append(b.items, ItemInstance{
			InstanceID: uuid.New().String(),
			ItemDefID:  def.ID,
			Quantity:   q,
		})
		remaining -= q
	}
	return nil
}

// Remove removes quantity units from the instance identified by instanceID.
//
// Precondition: instanceID exists in the backpack, quantity > 0 and <= instance.Quantity.
// Postcondition: if quantity == instance.Quantity, instance is removed; otherwise quantity is decremented.
func (b *Backpack) Remove(instanceID string, quantity int) error {
	for i := range b.items {
		if b.items[i].InstanceID != instanceID {
			continue
		}
		if quantity <= 0 || quantity > b.items[i].Quantity {
			return fmt.Errorf("backpack: cannot remove %d from instance with quantity %d",
				quantity, b.items[i].Quantity)
		}
		if quantity == b.items[i].Quantity {
			b.items = append(b.items[:i], b.items[i+1:]...)
		} else {
			b.items[i].Quantity -= quantity
		}
		return nil
	}
	return fmt.Errorf("backpack: instance %q not found", instanceID)
}

// RemoveOne removes a single unit of itemDefID from its first stack.
//
// Postcondition: returns false and leaves state unchanged when no unit is held.
func (b *Backpack) RemoveOne(itemDefID string) bool {
	for _, inst := range b.items {
		if inst.ItemDefID == itemDefID {
			return b.Remove(inst.InstanceID, 1) == nil
		}
	}
	return false
}

// Count returns the total quantity held of itemDefID.
func (b *Backpack) Count(itemDefID string) int {
	n := 0
	for _, inst := range b.items {
		if inst.ItemDefID == itemDefID {
			n += inst.Quantity
		}
	}
	return n
}

// Items returns a snapshot copy of all items in the backpack.
func (b *Backpack) Items() []ItemInstance {
	out := make([]ItemInstance, len(b.items))
	copy(out, b.items)
	return out
}

// UsedSlots returns the number of occupied slots.
func (b *Backpack) UsedSlots() int {
	return len(b.items)
}

// Consumables returns the distinct consumable definitions held, in slot order.
func (b *Backpack) Consumables(reg *Registry) []*ItemDef {
	seen := map[string]bool{}
	var out []*ItemDef
	for _, inst := range b.items {
		if seen[inst.ItemDefID] {
			continue
		}
		if def, ok := reg.Item(inst.ItemDefID); ok && def.IsConsumable() {
			seen[def.ID] = true
			out = append(out, def)
		}
	}
	return out
}
