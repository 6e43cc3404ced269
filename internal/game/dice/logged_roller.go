package dice

import "go.uber.org/zap"

// Roller wraps a Source and logs every roll at debug level. It satisfies
// Source itself so engines can take a *Roller wherever a Source is expected.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs to logger.
//
// Precondition: src must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Roller{src: src, logger: logger}
}

// Intn delegates to the wrapped Source without logging.
func (r *Roller) Intn(n int) int { return r.src.Intn(n) }

// RollExpr parses and rolls expr, logging expression, dice, modifier and total.
func (r *Roller) RollExpr(expr string) (RollResult, error) {
	result, err := RollExpr(expr, r.src)
	if err != nil {
		return RollResult{}, err
	}
	r.logger.Debug("dice roll",
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Dice),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
	)
	return result, nil
}

// Chance rolls a percentage check and logs the label, chance and outcome.
func (r *Roller) Chance(label string, chance float64) bool {
	ok := Percent(r.src, chance)
	r.logger.Debug("chance roll",
		zap.String("check", label),
		zap.Float64("chance", chance),
		zap.Bool("success", ok),
	)
	return ok
}
