// Package trait implements the typed key/value bag used for resistances,
// immunities and ability parameters.
package trait

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind tags the active member of a Value.
type Kind int

const (
	KindNone Kind = iota
	KindNumber
	KindBool
	KindString
	KindList
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindList:
		return "list"
	default:
		return "none"
	}
}

// Value is a tagged union over number, bool, string and string list.
// The zero Value has KindNone and converts to zero values.
type Value struct {
	kind Kind
	num  float64
	b    bool
	str  string
	list []string
}

// Number returns a numeric Value.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// String returns a string Value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// List returns a string-list Value holding a copy of items.
func List(items ...string) Value {
	return Value{kind: KindList, list: append([]string(nil), items...)}
}

// Kind reports which member is set.
func (v Value) Kind() Kind { return v.kind }

// AsFloat converts v to a float64. Bools map to 0/1, numeric strings parse,
// anything else is 0.
func (v Value) AsFloat() float64 {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindBool:
		if v.b {
			return 1
		}
		return 0
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// AsInt converts v to an int, truncating toward zero.
func (v Value) AsInt() int { return int(v.AsFloat()) }

// AsBool converts v to a bool. Non-zero numbers and the strings "true", "yes", "1" are true.
func (v Value) AsBool() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.num != 0
	case KindString:
		switch strings.ToLower(strings.TrimSpace(v.str)) {
		case "true", "yes", "1":
			return true
		}
		return false
	case KindList:
		return len(v.list) > 0
	default:
		return false
	}
}

// AsString converts v to its string form. Lists join with ",".
func (v Value) AsString() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindList:
		return strings.Join(v.list, ",")
	default:
		return ""
	}
}

// AsStringList converts v to a list. A string becomes a single-element list,
// or is split on commas when it contains any.
func (v Value) AsStringList() []string {
	switch v.kind {
	case KindList:
		return append([]string(nil), v.list...)
	case KindString:
		if v.str == "" {
			return nil
		}
		parts := strings.Split(v.str, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	default:
		return nil
	}
}

// UnmarshalYAML decodes scalars into number/bool/string and sequences into lists.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return fmt.Errorf("trait list: %w", err)
		}
		*v = List(items...)
		return nil
	case yaml.ScalarNode:
		switch node.Tag {
		case "!!int", "!!float":
			f, err := strconv.ParseFloat(node.Value, 64)
			if err != nil {
				return fmt.Errorf("trait number %q: %w", node.Value, err)
			}
			*v = Number(f)
		case "!!bool":
			var b bool
			if err := node.Decode(&b); err != nil {
				return fmt.Errorf("trait bool %q: %w", node.Value, err)
			}
			*v = Bool(b)
		default:
			*v = String(node.Value)
		}
		return nil
	default:
		return fmt.Errorf("trait value at line %d must be a scalar or a sequence", node.Line)
	}
}
