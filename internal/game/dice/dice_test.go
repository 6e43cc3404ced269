package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/realm/internal/game/dice"
)

// fixedSource always returns val, clamped into [0, n).
type fixedSource struct{ val int }

func (f fixedSource) Intn(n int) int {
	if f.val >= n {
		return n - 1
	}
	return f.val
}

func TestRollResult_Total(t *testing.T) {
	r := dice.RollResult{Expression: "2d6+3", Dice: []int{4, 5}, Modifier: 3}
	assert.Equal(t, 12, r.Total())
	assert.Equal(t, "2d6+3 = [4 5] +3 = 12", r.String())
}

func TestParse_Forms(t *testing.T) {
	cases := []struct {
		in                      string
		count, sides, mod, keep int
	}{
		{"d20", 1, 20, 0, 0},
		{"2d6", 2, 6, 0, 0},
		{"2d6+3", 2, 6, 3, 0},
		{"4d8-2", 4, 8, -2, 0},
		{"4d6kh3", 4, 6, 0, 3},
		{"4d6kh3+1", 4, 6, 1, 3},
		{"10", 0, 0, 10, 0},
		{" 1D8 ", 1, 8, 0, 0},
	}
	for _, tc := range cases {
		e, err := dice.Parse(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.count, e.Count, tc.in)
		assert.Equal(t, tc.sides, e.Sides, tc.in)
		assert.Equal(t, tc.mod, e.Modifier, tc.in)
		assert.Equal(t, tc.keep, e.KeepHighest, tc.in)
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"", "abc", "0d6", "2d1", "2dx", "4d6kh4", "2d6+x"} {
		_, err := dice.Parse(in)
		assert.Error(t, err, in)
	}
}

func TestExpression_Average(t *testing.T) {
	assert.Equal(t, 7, dice.MustParse("2d6").Average())
	assert.Equal(t, 10, dice.MustParse("2d6+3").Average())
	assert.Equal(t, 4, dice.MustParse("1d8").Average())
	assert.Equal(t, 10, dice.MustParse("10").Average())
}

func TestAverageOf_Fallback(t *testing.T) {
	assert.Equal(t, 10, dice.AverageOf("", 10))
	assert.Equal(t, 10, dice.AverageOf("garbage", 10))
	assert.Equal(t, 7, dice.AverageOf("2d6", 10))
}

func TestRoll_KeepHighest(t *testing.T) {
	r := dice.Roll(dice.MustParse("4d6kh3"), fixedSource{val: 2})
	assert.Len(t, r.Dice, 3)
	assert.Equal(t, 9, r.Total())
}

func TestPercent_Bounds(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 200; i++ {
		assert.False(t, dice.Percent(src, 0))
		assert.False(t, dice.Percent(src, -5))
		assert.True(t, dice.Percent(src, 100))
	}
}

func TestPercent_Threshold(t *testing.T) {
	// 25% resolves to 2500 hundredths: 2499 succeeds, 2500 fails.
	assert.True(t, dice.Percent(fixedSource{val: 2499}, 25))
	assert.False(t, dice.Percent(fixedSource{val: 2500}, 25))
}

func TestVary_Endpoints(t *testing.T) {
	assert.Equal(t, 80, dice.Vary(fixedSource{val: 0}, 100, 0.2))
	assert.Equal(t, 120, dice.Vary(fixedSource{val: 1000}, 100, 0.2))
	assert.Equal(t, 100, dice.Vary(fixedSource{val: 7}, 100, 0))
}

func TestRoller_LogsRolls(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := dice.NewLoggedRoller(fixedSource{val: 3}, zap.New(core))

	res, err := r.RollExpr("2d6+1")
	require.NoError(t, err)
	assert.Equal(t, 9, res.Total())
	assert.True(t, r.Chance("dodge", 100))

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "dice roll", logs.All()[0].Message)
	assert.Equal(t, "dodge", logs.All()[1].ContextMap()["check"])
}

func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

func TestCryptoSource_Intn_PanicsOnZero(t *testing.T) {
	assert.Panics(t, func() { dice.NewCryptoSource().Intn(0) })
}

func TestPropertyRollWithinBounds(t *testing.T) {
	src := dice.NewCryptoSource()
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, 10).Draw(rt, "count")
		sides := rapid.IntRange(2, 20).Draw(rt, "sides")
		mod := rapid.IntRange(-5, 5).Draw(rt, "mod")
		e := dice.Expression{Raw: "x", Count: count, Sides: sides, Modifier: mod}
		total := dice.Roll(e, src).Total()
		if total < count+mod || total > count*sides+mod {
			rt.Fatalf("total %d outside [%d, %d]", total, count+mod, count*sides+mod)
		}
	})
}

func TestPropertyBetweenInclusive(t *testing.T) {
	src := dice.NewCryptoSource()
	rapid.Check(t, func(rt *rapid.T) {
		lo := rapid.IntRange(-50, 50).Draw(rt, "lo")
		hi := rapid.IntRange(lo, lo+50).Draw(rt, "hi")
		v := dice.Between(src, lo, hi)
		if v < lo || v > hi {
			rt.Fatalf("Between(%d,%d) = %d", lo, hi, v)
		}
	})
}
