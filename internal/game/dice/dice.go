// Package dice provides the process-wide randomness abstraction, dice
// expressions and percentage rolls used by every combat engine.
package dice

import "fmt"

// Source is the randomness provider for every roll in the engine.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// RollResult records one evaluated dice expression.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string // original expression string, e.g. "2d6+3"
	Dice       []int  // kept die results before modifier
	Modifier   int    // flat modifier (may be negative)
}

// Total returns the sum of all kept die results plus the modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String renders the roll as "2d6+3 = [4 5] +3 = 12".
func (r RollResult) String() string {
	return fmt.Sprintf("%s = %v %+d = %d", r.Expression, r.Dice, r.Modifier, r.Total())
}
