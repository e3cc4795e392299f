package dice

// Percent rolls a percentile check and reports whether it succeeded.
//
// Postcondition: chance <= 0 never succeeds and chance >= 100 always succeeds,
// and neither consumes a value from src.
func Percent(src Source, chance int) bool {
	if chance <= 0 {
		return false
	}
	if chance >= 100 {
		return true
	}
	return src.Intn(100) < chance
}

// Weighted picks an index from weights with probability proportional to its
// weight. Non-positive weights are never picked.
//
// Postcondition: Returns -1 iff the sum of positive weights is zero; otherwise
// returns an index i with weights[i] > 0.
func Weighted(src Source, weights []int) int {
	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total == 0 {
		return -1
	}
	roll := src.Intn(total)
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if roll < w {
			return i
		}
		roll -= w
	}
	return -1
}
