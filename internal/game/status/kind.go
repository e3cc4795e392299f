// Package status implements timed status effects: their definitions, the
// per-combatant effect set, and the turn-start tick that expires effects and
// reports the flags combat resolution consults.
package status

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/centaur/internal/game/element"
)

// Kind enumerates the status effects.
type Kind int

const (
	Burn Kind = iota
	Chill
	Stun
	Confusion
	Bleed
	Blind
	Weaken
)

// AllKinds lists every Kind in declaration order.
var AllKinds = []Kind{Burn, Chill, Stun, Confusion, Bleed, Blind, Weaken}

var kindNames = [...]string{"burn", "chill", "stun", "confusion", "bleed", "blind", "weaken"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind converts a case-insensitive effect name to a Kind.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return Burn, fmt.Errorf("status: unknown kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

var signatures = map[element.Kind]Kind{
	element.Physical: Bleed,
	element.Fire:     Burn,
	element.Water:    Chill,
	element.Earth:    Stun,
	element.Air:      Confusion,
	element.Shadow:   Blind,
	element.Light:    Weaken,
}

// SignatureOf returns the status effect an attack of element e may inflict.
//
// Postcondition: ok is false only for an undeclared element.
func SignatureOf(e element.Kind) (Kind, bool) {
	k, ok := signatures[e]
	return k, ok
}
