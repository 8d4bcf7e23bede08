package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged dice rolling.
// All rolls are logged at debug level with expression, dice values, modifier, and total.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Roll evaluates expr and logs the result at debug level.
func (r *Roller) Roll(expr Expression) RollResult {
	result := Roll(expr, r.src)
	r.logger.Debug("dice roll",
		zap.Stringer("roll", result),
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Dice),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
	)
	return result
}

// D rolls a single die and returns a value uniformly distributed in [1, sides].
//
// Precondition: sides >= 1.
func (r *Roller) D(sides int) int {
	return r.Roll(Die(sides)).Total()
}

// Pick returns a uniformly chosen index in [0, n).
//
// Precondition: n > 0.
func (r *Roller) Pick(n int) int {
	idx := r.src.Intn(n)
	r.logger.Debug("dice pick", zap.Int("n", n), zap.Int("index", idx))
	return idx
}
