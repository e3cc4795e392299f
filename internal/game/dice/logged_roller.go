package dice

import "go.uber.org/zap"

// Roller is the Source an encounter rolls through. It logs expression rolls
// and labelled percentile checks at debug level. Raw Intn draws pass straight
// to the wrapped source, so a Roller and its source share one sequence.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller over src.
//
// Precondition: src must be non-nil. A nil logger is replaced with a no-op logger.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	if src == nil {
		panic("dice: NewLoggedRoller called with nil source")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Roller{src: src, logger: logger.Named("dice")}
}

// Intn draws from the wrapped Source.
func (r *Roller) Intn(n int) int {
	return r.src.Intn(n)
}

// Roll evaluates expr and logs the result.
func (r *Roller) Roll(expr Expression) RollResult {
	res := Roll(expr, r.src)
	r.logger.Debug("dice roll",
		zap.String("expression", res.Expression),
		zap.Ints("dice", res.Dice),
		zap.Int("total", res.Total()),
	)
	return res
}

// RollExpr parses expr and rolls it.
func (r *Roller) RollExpr(expr string) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return r.Roll(e), nil
}

// Check performs a logged percentile check.
//
// Postcondition: Equivalent to Percent(r, chance).
func (r *Roller) Check(label string, chance int) bool {
	ok := Percent(r.src, chance)
	r.logger.Debug("percent check",
		zap.String("check", label),
		zap.Int("chance", chance),
		zap.Bool("success", ok),
	)
	return ok
}
