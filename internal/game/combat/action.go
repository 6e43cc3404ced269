package combat

import "strings"

// ActionType identifies what the player intends to do on their turn.
// The zero value (ActionUnknown) is intentionally invalid.
type ActionType int

const (
	ActionUnknown ActionType = iota // zero value; intentionally invalid
	ActionAttack
	ActionDefend
	ActionUseItem
	ActionFlee
)

// String returns the human-readable name of the ActionType.
// Postcondition: returns "attack", "defend", "use_item", "flee", or "unknown".
func (a ActionType) String() string {
	switch a {
	case ActionAttack:
		return "attack"
	case ActionDefend:
		return "defend"
	case ActionUseItem:
		return "use_item"
	case ActionFlee:
		return "flee"
	default:
		return "unknown"
	}
}

// ParseAction maps a case-insensitive action name to an ActionType.
// Postcondition: unrecognized names yield (ActionUnknown, false).
func ParseAction(s string) (ActionType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "attack", "a":
		return ActionAttack, true
	case "defend", "d":
		return ActionDefend, true
	case "use_item", "item", "i":
		return ActionUseItem, true
	case "flee", "f":
		return ActionFlee, true
	default:
		return ActionUnknown, false
	}
}
