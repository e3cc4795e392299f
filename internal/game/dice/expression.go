package dice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Expression is a parsed dice expression. Count == 0 marks a constant whose
// value is Modifier.
//
// Invariant: Count == 0 or (1 <= Count <= MaxCount and Sides >= 2).
type Expression struct {
	Raw      string
	Count    int
	Sides    int
	Modifier int
}

// MaxCount bounds the number of dice in one expression.
const MaxCount = 20

var exprPattern = regexp.MustCompile(`^(\d*)d(\d+)([+-]\d+)?$`)

// Parse accepts "d4", "2d6", "1d3+1", "2d4-1" and plain integers such as "2".
//
// Postcondition: Returns an Expression satisfying its invariant or an error.
func Parse(s string) (Expression, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Expression{}, fmt.Errorf("dice: empty expression")
	}
	lower := strings.ToLower(raw)
	if n, err := strconv.Atoi(lower); err == nil {
		return Expression{Raw: raw, Modifier: n}, nil
	}

	m := exprPattern.FindStringSubmatch(lower)
	if m == nil {
		return Expression{}, fmt.Errorf("dice: malformed expression %q", raw)
	}
	e := Expression{Raw: raw, Count: 1}
	if m[1] != "" {
		e.Count, _ = strconv.Atoi(m[1])
	}
	if e.Count < 1 || e.Count > MaxCount {
		return Expression{}, fmt.Errorf("dice: die count in %q must be 1-%d", raw, MaxCount)
	}
	e.Sides, _ = strconv.Atoi(m[2])
	if e.Sides < 2 {
		return Expression{}, fmt.Errorf("dice: die sides in %q must be >= 2", raw)
	}
	if m[3] != "" {
		e.Modifier, _ = strconv.Atoi(m[3])
	}
	return e, nil
}

// MustParse parses s and panics on error, for built-in content.
func MustParse(s string) Expression {
	e, err := Parse(s)
	if err != nil {
		panic(err.Error())
	}
	return e
}

// Min returns the smallest total e can produce.
func (e Expression) Min() int { return e.Count + e.Modifier }

// Max returns the largest total e can produce.
func (e Expression) Max() int { return e.Count*e.Sides + e.Modifier }

// IsConstant reports whether e rolls no dice.
func (e Expression) IsConstant() bool { return e.Count == 0 }

// Roll evaluates e with src. A constant consumes nothing from src.
//
// Precondition: e came from Parse; src non-nil.
// Postcondition: e.Min() <= result.Total() <= e.Max().
func Roll(e Expression, src Source) RollResult {
	res := RollResult{Expression: e.Raw, Modifier: e.Modifier}
	if e.Count > 0 {
		res.Dice = make([]int, e.Count)
		for i := range res.Dice {
			res.Dice[i] = src.Intn(e.Sides) + 1
		}
	}
	return res
}
