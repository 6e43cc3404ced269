package dice

import (
	"math"
	"sort"
)

// Roll evaluates expr with src.
//
// Precondition: expr must come from Parse; src must be non-nil.
// Postcondition: len(result.Dice) == Count, or KeepHighest when set.
func Roll(expr Expression, src Source) RollResult {
	rolled := make([]int, expr.Count)
	for i := range rolled {
		rolled[i] = src.Intn(expr.Sides) + 1
	}
	if expr.KeepHighest > 0 {
		sort.Sort(sort.Reverse(sort.IntSlice(rolled)))
		rolled = rolled[:expr.KeepHighest]
	}
	return RollResult{Expression: expr.Raw, Dice: rolled, Modifier: expr.Modifier}
}

// RollExpr parses expr and rolls it in a single call.
func RollExpr(expr string, src Source) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return Roll(e, src), nil
}

// Percent reports whether a roll against chance percent succeeds. Chance is
// resolved to hundredths of a percent; chance <= 0 never succeeds and
// chance >= 100 always does.
//
// Precondition: src must be non-nil.
func Percent(src Source, chance float64) bool {
	if chance <= 0 {
		return false
	}
	if chance >= 100 {
		return true
	}
	return src.Intn(10000) < int(math.Round(chance*100))
}

// Between returns a uniform int in [lo, hi].
//
// Precondition: lo <= hi.
func Between(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + src.Intn(hi-lo+1)
}

// Vary scales base by a uniform factor in [1-spread, 1+spread] at whole
// percent resolution and truncates toward zero.
//
// Precondition: 0 <= spread < 1.
func Vary(src Source, base int, spread float64) int {
	pct := int(math.Round(spread * 100))
	if pct <= 0 {
		return base
	}
	factor := Between(src, 100-pct, 100+pct)
	return base * factor / 100
}
