package ai

import (
	"fmt"

	"github.com/cory-johannsen/centaur/internal/game/combat"
	"github.com/cory-johannsen/centaur/internal/game/dice"
	"github.com/cory-johannsen/centaur/internal/game/element"
	"github.com/cory-johannsen/centaur/internal/game/status"
)

// Phase is one stage of a boss fight.
type Phase struct {
	Name string `yaml:"name"`
	// Threshold is the health fraction at or below which this phase begins.
	Threshold float64           `yaml:"threshold"`
	Abilities []*combat.Ability `yaml:"abilities"`
}

// Transition records one forward phase change.
type Transition struct {
	From           int
	To             int
	Turn           int
	HealthFraction float64
}

// BossController tracks the boss's phase and draws abilities from the
// current phase's pool.
//
// Invariant: the phase index never decreases.
type BossController struct {
	phases      []Phase
	current     int
	transitions []Transition
}

// NewBossController validates phases and returns a controller in phase 0.
//
// Precondition: phases[0].Threshold == 1; thresholds strictly decrease;
// every phase has at least one ability with positive weight.
func NewBossController(phases []Phase) (*BossController, error) {
	if len(phases) == 0 {
		return nil, fmt.Errorf("ai.BossController: at least one phase is required")
	}
	if phases[0].Threshold != 1 {
		return nil, fmt.Errorf("ai.BossController: first phase threshold must be 1.0, got %v", phases[0].Threshold)
	}
	for i, ph := range phases {
		if i > 0 && (ph.Threshold >= phases[i-1].Threshold || ph.Threshold <= 0) {
			return nil, fmt.Errorf("ai.BossController: phase %d threshold %v must be in (0, %v)", i, ph.Threshold, phases[i-1].Threshold)
		}
		total := 0
		for _, a := range ph.Abilities {
			if err := a.Validate(); err != nil {
				return nil, fmt.Errorf("ai.BossController: phase %d: %w", i, err)
			}
			total += a.Weight
		}
		if total <= 0 {
			return nil, fmt.Errorf("ai.BossController: phase %d has no weighted abilities", i)
		}
	}
	return &BossController{phases: append([]Phase(nil), phases...)}, nil
}

// Phase returns the current phase index.
func (b *BossController) Phase() int { return b.current }

// PhaseCount returns the number of phases.
func (b *BossController) PhaseCount() int { return len(b.phases) }

// Pool returns the current phase's abilities.
func (b *BossController) Pool() []*combat.Ability {
	return b.phases[b.current].Abilities
}

// Transitions returns a copy of the recorded phase changes.
func (b *BossController) Transitions() []Transition {
	return append([]Transition(nil), b.transitions...)
}

// TargetPhase returns the latest phase whose threshold fraction is at or below.
func (b *BossController) TargetPhase(fraction float64) int {
	target := 0
	for i, ph := range b.phases {
		if fraction <= ph.Threshold {
			target = i
		}
	}
	return target
}

// Observe moves forward to the phase implied by fraction, possibly skipping
// phases. A fraction implying an earlier phase leaves the phase unchanged.
//
// Postcondition: Phase() is non-decreasing; changed reports a transition.
func (b *BossController) Observe(fraction float64, turn int) (changed bool, err error) {
	target := b.TargetPhase(fraction)
	if target <= b.current {
		return false, nil
	}
	from := b.current
	if err := b.SetPhase(target); err != nil {
		return false, err
	}
	b.transitions = append(b.transitions, Transition{From: from, To: target, Turn: turn, HealthFraction: fraction})
	return true, nil
}

// SetPhase moves to phase i.
//
// Postcondition: returns CodeInvariantViolation if i is behind the current
// phase or out of range; the phase is unchanged on error.
func (b *BossController) SetPhase(i int) error {
	if i < 0 || i >= len(b.phases) {
		return combat.InvariantViolationf("boss phase %d out of range [0, %d)", i, len(b.phases))
	}
	if i < b.current {
		return combat.InvariantViolationf("boss phase cannot move backward from %d to %d", b.current, i)
	}
	b.current = i
	return nil
}

// Choose draws a weighted ability from the current pool. Abilities self
// cannot afford are excluded; if none remain the boss uses a basic attack
// with its own element.
func (b *BossController) Choose(self, opp *combat.Combatant, src dice.Source) combat.Action {
	pool := b.Pool()
	weights := make([]int, len(pool))
	for i, a := range pool {
		if a.StaminaCost <= self.Stamina {
			weights[i] = a.Weight
		}
	}
	if i := dice.Weighted(src, weights); i >= 0 {
		return combat.UseAbility(opp.ID, pool[i])
	}
	return combat.UseAbility(opp.ID, combat.BasicAttack(self.Element, 1))
}

// ShadowCentaurPhases returns the built-in four-phase ability tables of the
// Shadow Centaur.
func ShadowCentaurPhases() []Phase {
	sh := element.Shadow
	return []Phase{
		{Name: "Awakening", Threshold: 1.0, Abilities: []*combat.Ability{
			combat.BasicAttack(sh, 60),
			{ID: "shadow_wave", Name: "Shadow Wave", Kind: combat.AbilityStrike, Element: sh, Power: 0.8, Weight: 40,
				Effects: []combat.EffectGrant{{Kind: status.Weaken, Chance: 30, Potency: 2, Duration: 3}}},
		}},
		{Name: "Fury", Threshold: 0.75, Abilities: []*combat.Ability{
			combat.BasicAttack(sh, 40),
			{ID: "shadow_strike", Name: "Shadow Strike", Kind: combat.AbilityStrike, Element: sh, Power: 1.2, Weight: 35,
				Effects: []combat.EffectGrant{{Kind: status.Blind, Chance: 50, Potency: 2, Duration: 2}}},
			{ID: "void_shield", Name: "Void Shield", Kind: combat.AbilityShield, Element: sh, ReflectFraction: 0.5, Weight: 25},
		}},
		{Name: "Desperation", Threshold: 0.5, Abilities: []*combat.Ability{
			combat.BasicAttack(sh, 30),
			{ID: "shadow_nova", Name: "Shadow Nova", Kind: combat.AbilityStrike, Element: sh, Power: 1.5, Weight: 40,
				RandomEffect: true, Effects: []combat.EffectGrant{
					{Kind: status.Burn, Potency: 2, Duration: 2},
					{Kind: status.Confusion, Potency: 2, Duration: 2},
					{Kind: status.Weaken, Potency: 2, Duration: 2},
				}},
			{ID: "life_drain", Name: "Life Drain", Kind: combat.AbilityDrain, Element: sh, Power: 1.0, HealFraction: 0.7, Weight: 30},
		}},
		{Name: "Oblivion", Threshold: 0.25, Abilities: []*combat.Ability{
			{ID: "shadow_explosion", Name: "Shadow Explosion", Kind: combat.AbilityStrike, Element: sh, Power: 2.0, Weight: 35},
			{ID: "void_consumption", Name: "Void Consumption", Kind: combat.AbilityStrike, Element: sh, Power: 1.2, Weight: 35,
				Effects: []combat.EffectGrant{
					{Kind: status.Weaken, Potency: 2, Duration: 3},
					{Kind: status.Confusion, Potency: 2, Duration: 2},
				}},
			{ID: "reality_tear", Name: "Reality Tear", Kind: combat.AbilityStrike, Element: sh, Power: 1.5, Weight: 30,
				IgnoreDefense: true, Effects: []combat.EffectGrant{{Kind: status.Stun, Chance: 30, Potency: 1, Duration: 1}}},
		}},
	}
}
