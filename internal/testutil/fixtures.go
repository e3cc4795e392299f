// Package testutil provides deterministic randomness and combatant fixtures
// shared by package tests.
package testutil

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/centaur/internal/game/combat"
	"github.com/cory-johannsen/centaur/internal/game/dice"
	"github.com/cory-johannsen/centaur/internal/game/element"
	"github.com/cory-johannsen/centaur/internal/game/status"
)

// ScriptedSource replays a fixed sequence of values, cycling when exhausted.
// Intn(n) returns the next value modulo n.
type ScriptedSource struct {
	vals  []int
	calls int
}

// NewScriptedSource returns a ScriptedSource over vals.
//
// Precondition: len(vals) > 0.
func NewScriptedSource(vals ...int) *ScriptedSource {
	if len(vals) == 0 {
		panic("testutil: NewScriptedSource requires at least one value")
	}
	return &ScriptedSource{vals: vals}
}

// Intn returns the next scripted value modulo n.
func (s *ScriptedSource) Intn(n int) int {
	v := s.vals[s.calls%len(s.vals)] % n
	s.calls++
	return v
}

// Calls returns how many values have been drawn.
func (s *ScriptedSource) Calls() int { return s.calls }

// Roller wraps src in a dice.Roller with a no-op logger.
func Roller(src dice.Source) *dice.Roller {
	return dice.NewLoggedRoller(src, zap.NewNop())
}

// NeverRoller returns a Roller whose percentile checks always fail.
func NeverRoller() *dice.Roller {
	return Roller(NewScriptedSource(99))
}

// AlwaysRoller returns a Roller whose percentile checks always succeed.
func AlwaysRoller() *dice.Roller {
	return Roller(NewScriptedSource(0))
}

// NewPlayer returns a player with 100 health, 50 stamina, 20 attack power
// and no dodge, defense or critical chance.
func NewPlayer() *combat.Combatant {
	c := &combat.Combatant{
		ID:          "player",
		Name:        "Wanderer",
		Kind:        combat.KindPlayer,
		Health:      100,
		MaxHealth:   100,
		Stamina:     50,
		MaxStamina:  50,
		AttackPower: 20,
		Element:     element.Physical,
		Effects:     status.NewSet(),
		Special: &combat.Ability{
			ID: "special", Name: "Special", Kind: combat.AbilityStrike,
			Element: element.Physical, Power: 1.5, StaminaCost: 20,
		},
	}
	c.EnsureEffects(nil)
	return c
}

// NewEnemy returns an enemy of the given archetype and typing with the same
// baseline stats as NewPlayer.
func NewEnemy(archetype string, e element.Kind) *combat.Combatant {
	c := &combat.Combatant{
		ID:          "enemy",
		Name:        archetype,
		Kind:        combat.KindEnemy,
		Health:      100,
		MaxHealth:   100,
		Stamina:     50,
		MaxStamina:  50,
		AttackPower: 20,
		Element:     e,
		Archetype:   archetype,
		Affinities:  map[element.Kind]float64{},
		Effects:     status.NewSet(),
	}
	c.EnsureEffects(nil)
	return c
}

// Calculator returns a combat.Calculator with default tuning, the default
// status registry and critical hits disabled unless crit is true.
func Calculator(crit bool) *combat.Calculator {
	t := combat.DefaultTuning()
	if !crit {
		t.CritChance = 0
	}
	return combat.NewCalculator(t, status.DefaultRegistry(), zap.NewNop())
}
