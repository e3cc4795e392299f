package inventory

import (
	"fmt"
	"sort"
)

// Bag counts the items a player carries into an encounter. It is owned by a
// single encounter and is not safe for concurrent use.
//
// Invariant: every stored count is > 0.
type Bag struct {
	counts map[string]int
}

// NewBag returns a Bag seeded from counts. Non-positive counts are dropped.
func NewBag(counts map[string]int) *Bag {
	b := &Bag{counts: make(map[string]int, len(counts))}
	for id, n := range counts {
		if n > 0 {
			b.counts[id] = n
		}
	}
	return b
}

// Count returns how many of id the bag holds.
func (b *Bag) Count(id string) int {
	return b.counts[id]
}

// Add places quantity units of id into the bag.
//
// Precondition: quantity > 0.
func (b *Bag) Add(id string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("bag: quantity must be > 0")
	}
	b.counts[id] += quantity
	return nil
}

// Remove takes quantity units of id out of the bag.
// It is atomic: if the bag holds fewer than quantity, no state is modified.
func (b *Bag) Remove(id string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("bag: quantity must be > 0")
	}
	have := b.counts[id]
	if have < quantity {
		return fmt.Errorf("bag: have %d of %q, need %d", have, id, quantity)
	}
	if have == quantity {
		delete(b.counts, id)
	} else {
		b.counts[id] = have - quantity
	}
	return nil
}

// Snapshot returns a copy of the bag's counts.
func (b *Bag) Snapshot() map[string]int {
	out := make(map[string]int, len(b.counts))
	for id, n := range b.counts {
		out[id] = n
	}
	return out
}

// IDs returns the carried item IDs in lexical order.
func (b *Bag) IDs() []string {
	out := make([]string, 0, len(b.counts))
	for id := range b.counts {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
