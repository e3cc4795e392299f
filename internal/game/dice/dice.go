// Package dice provides the randomness abstraction, seeded sources and the
// small dice expressions content files use for status potency and duration.
package dice

import (
	"strconv"
	"strings"
)

// Source is the randomness provider for every roll in an encounter.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// RollResult records one evaluated expression.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string
	Dice       []int
	Modifier   int
}

// Total returns the sum of the dice plus the modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String renders the roll for logs, e.g. "1d3+1 [2]+1 = 3". A constant
// expression renders as "2 = 2".
func (r RollResult) String() string {
	var b strings.Builder
	b.WriteString(r.Expression)
	if len(r.Dice) > 0 {
		b.WriteString(" [")
		for i, d := range r.Dice {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strconv.Itoa(d))
		}
		b.WriteByte(']')
		if r.Modifier != 0 {
			if r.Modifier > 0 {
				b.WriteByte('+')
			}
			b.WriteString(strconv.Itoa(r.Modifier))
		}
	}
	b.WriteString(" = ")
	b.WriteString(strconv.Itoa(r.Total()))
	return b.String()
}
