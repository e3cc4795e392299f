// Package element provides the elemental typing system: the seven element
// kinds, the attacker-versus-defender advantage matrix, and terrain bonuses.
package element

import (
	"fmt"
	"strings"
)

// Kind enumerates the elements an attack or a combatant can carry.
type Kind int

const (
	// Physical is the untyped element of plain weapon strikes.
	Physical Kind = iota
	Fire
	Water
	Earth
	Air
	Shadow
	Light
)

// All lists every element kind in declaration order.
var All = []Kind{Physical, Fire, Water, Earth, Air, Shadow, Light}

var kindNames = [...]string{"physical", "fire", "water", "earth", "air", "shadow", "light"}

// String returns the lower-case element name, or "unknown" for out-of-range values.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Valid reports whether k is one of the seven declared kinds.
func (k Kind) Valid() bool {
	return k >= Physical && k <= Light
}

// ParseKind converts a case-insensitive element name to a Kind.
//
// Postcondition: Returns a valid Kind or a non-nil error.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return Physical, fmt.Errorf("element: unknown kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("element: cannot marshal kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so content files can
// name elements directly.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Multiplier values produced by Advantage.
const (
	Resisted  = 0.5
	Neutral   = 1.0
	Effective = 1.5
)

type relation struct {
	strong []Kind
	weak   []Kind
}

var matrix = map[Kind]relation{
	Physical: {strong: []Kind{Earth}, weak: []Kind{Air}},
	Fire:     {strong: []Kind{Air, Shadow}, weak: []Kind{Water, Earth}},
	Water:    {strong: []Kind{Fire, Earth}, weak: []Kind{Air, Light}},
	Earth:    {strong: []Kind{Light}, weak: []Kind{Fire, Water}},
	Air:      {strong: []Kind{Physical, Earth}, weak: []Kind{Fire, Shadow}},
	Shadow:   {strong: []Kind{Light, Water}, weak: []Kind{Fire}},
	Light:    {strong: []Kind{Shadow}, weak: []Kind{Earth}},
}

// Advantage returns the damage multiplier for an attack of element attacker
// landing on a defender typed defender.
//
// Postcondition: Returns exactly one of Resisted, Neutral or Effective. Pairs
// involving an undeclared kind are Neutral.
func Advantage(attacker, defender Kind) float64 {
	rel, ok := matrix[attacker]
	if !ok {
		return Neutral
	}
	for _, k := range rel.strong {
		if k == defender {
			return Effective
		}
	}
	for _, k := range rel.weak {
		if k == defender {
			return Resisted
		}
	}
	return Neutral
}

// StrongAgainst returns a copy of the kinds attacker deals Effective damage to.
func StrongAgainst(attacker Kind) []Kind {
	return append([]Kind(nil), matrix[attacker].strong...)
}

// WeakAgainst returns a copy of the kinds attacker deals Resisted damage to.
func WeakAgainst(attacker Kind) []Kind {
	return append([]Kind(nil), matrix[attacker].weak...)
}
