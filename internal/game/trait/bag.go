package trait

import "strings"

// Well-known trait keys.
const (
	ResistFire      = "resistFire"
	ResistIce       = "resistIce"
	ResistLightning = "resistLightning"
	ResistPoison    = "resistPoison"
	ResistPhysical  = "resistPhysical"
	ResistMagic     = "resistMagic"

	ImmuneToStatusEffects = "immuneToStatusEffects"
	ImmuneToPoison        = "immuneToPoison"
	ImmuneToFire          = "immuneToFire"
	ImmuneToIce           = "immuneToIce"
	ImmuneToBleeding      = "immuneToBleeding"
	ImmuneToStun          = "immuneToStun"
	ImmuneToFear          = "immuneToFear"
	ImmuneToConfusion     = "immuneToConfusion"

	DodgeBonus = "dodgeBonus"
	CritBonus  = "critBonus"
	BlockBonus = "blockBonus"
)

// ResistKey returns the conventional resistance key for a damage type or
// effect name, e.g. "poison" -> "resistPoison".
func ResistKey(name string) string {
	if name == "" {
		return ""
	}
	return "resist" + strings.ToUpper(name[:1]) + name[1:]
}

// Bag is a keyed collection of trait values. A nil Bag is empty and readable.
type Bag map[string]Value

// Get returns the value for key and whether it was present.
func (b Bag) Get(key string) (Value, bool) {
	v, ok := b[key]
	return v, ok
}

// Has reports whether key is present.
func (b Bag) Has(key string) bool {
	_, ok := b[key]
	return ok
}

// Set stores v under key.
//
// Precondition: b must be non-nil.
func (b Bag) Set(key string, v Value) { b[key] = v }

// Number returns the numeric value of key, or 0.
func (b Bag) Number(key string) float64 { return b[key].AsFloat() }

// Int returns the integer value of key, or 0.
func (b Bag) Int(key string) int { return b[key].AsInt() }

// Bool returns the boolean value of key, or false.
func (b Bag) Bool(key string) bool { return b[key].AsBool() }

// Str returns the string value of key, or "".
func (b Bag) Str(key string) string { return b[key].AsString() }

// StringList returns the list value of key, or nil.
func (b Bag) StringList(key string) []string { return b[key].AsStringList() }

// Merge returns a new Bag holding b overlaid by other; other wins on conflict.
//
// Postcondition: Neither b nor other is modified.
func (b Bag) Merge(other Bag) Bag {
	out := make(Bag, len(b)+len(other))
	for k, v := range b {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}
