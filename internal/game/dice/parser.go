package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Expression is a parsed dice expression.
//
// A constant expression such as "10" has Count == 0 and only a Modifier.
type Expression struct {
	Raw         string
	Count       int
	Sides       int
	Modifier    int
	KeepHighest int // 0 = keep all
}

// Average returns the integer expected value of the expression using
// count*(sides+1)/2, so "2d6" averages 7 and "1d8+2" averages 6.
//
// Postcondition: For constant expressions returns Modifier.
func (e Expression) Average() int {
	n := e.Count
	if e.KeepHighest > 0 {
		n = e.KeepHighest
	}
	return n*(e.Sides+1)/2 + e.Modifier
}

// Parse parses "d20", "2d6", "2d6+3", "4d8-2", "4d6kh3" or a bare integer such as "10".
//
// Precondition: expr must be non-empty.
// Postcondition: Returns an Expression or a descriptive error.
func Parse(expr string) (Expression, error) {
	raw := strings.TrimSpace(expr)
	if raw == "" {
		return Expression{}, fmt.Errorf("dice: empty expression")
	}
	s := strings.ToLower(raw)

	dIdx := strings.IndexByte(s, 'd')
	if dIdx < 0 {
		mod, err := strconv.Atoi(s)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: %q is neither a dice expression nor an integer", raw)
		}
		return Expression{Raw: raw, Modifier: mod}, nil
	}

	count := 1
	if dIdx > 0 {
		n, err := strconv.Atoi(s[:dIdx])
		if err != nil || n <= 0 {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q", raw)
		}
		count = n
	}

	body, modStr := splitModifier(s[dIdx+1:])

	keep := 0
	if khIdx := strings.Index(body, "kh"); khIdx >= 0 {
		kh, err := strconv.Atoi(body[khIdx+2:])
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid kh value in %q: %w", raw, err)
		}
		if kh <= 0 || kh >= count {
			return Expression{}, fmt.Errorf("dice: kh value %d must be > 0 and < count %d in %q", kh, count, raw)
		}
		keep = kh
		body = body[:khIdx]
	}

	sides, err := strconv.Atoi(body)
	if err != nil || sides < 2 {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q", raw)
	}

	mod := 0
	if modStr != "" {
		mod, err = strconv.Atoi(modStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid modifier in %q: %w", raw, err)
		}
	}

	return Expression{Raw: raw, Count: count, Sides: sides, Modifier: mod, KeepHighest: keep}, nil
}

// splitModifier splits "6kh3+2" into ("6kh3", "+2").
func splitModifier(s string) (string, string) {
	for i := 1; i < len(s); i++ {
		if s[i] == '+' || s[i] == '-' {
			return s[:i], s[i:]
		}
	}
	return s, ""
}

// MustParse parses expr and panics on error. Useful for package-level values.
func MustParse(expr string) Expression {
	e, err := Parse(expr)
	if err != nil {
		panic("dice: MustParse failed for expression " + expr + ": " + err.Error())
	}
	return e
}

// AverageOf parses expr and returns its average, or fallback when expr is
// empty or malformed.
func AverageOf(expr string, fallback int) int {
	if expr == "" {
		return fallback
	}
	e, err := Parse(expr)
	if err != nil {
		return fallback
	}
	return e.Average()
}
