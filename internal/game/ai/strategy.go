package ai

import (
	"github.com/cory-johannsen/centaur/internal/game/combat"
	"github.com/cory-johannsen/centaur/internal/game/dice"
	"github.com/cory-johannsen/centaur/internal/game/element"
	"github.com/cory-johannsen/centaur/internal/game/status"
)

// TurnContext carries encounter-level inputs to action selection.
type TurnContext struct {
	Turn    int
	Terrain element.TerrainContext
}

// Strategy is the tagged variant over enemy archetypes. Exactly one of
// Policy (regular archetypes) or Boss (ArchetypeBoss) is set.
type Strategy struct {
	Archetype Archetype
	Policy    *Policy
	Boss      *BossController
}

// NewPolicyStrategy wraps a regular archetype policy.
//
// Precondition: p must not be nil and must pass Validate.
func NewPolicyStrategy(p *Policy) *Strategy {
	return &Strategy{Archetype: p.Archetype, Policy: p}
}

// NewBossStrategy wraps a boss controller.
//
// Precondition: b must not be nil.
func NewBossStrategy(b *BossController) *Strategy {
	return &Strategy{Archetype: ArchetypeBoss, Boss: b}
}

// ChooseAction selects self's action against opp. For the boss, the phase is
// re-evaluated from self's health before the ability draw.
//
// Precondition: self and opp non-nil; src non-nil.
// Postcondition: the same inputs and Source state yield the same Action.
// Returns CodeInvariantViolation if the boss phase would move backward.
func (s *Strategy) ChooseAction(self, opp *combat.Combatant, ctx TurnContext, src dice.Source) (combat.Action, error) {
	switch s.Archetype {
	case ArchetypeBoss:
		if _, err := s.Boss.Observe(self.HealthFraction(), ctx.Turn); err != nil {
			return combat.Action{}, err
		}
		return s.Boss.Choose(self, opp, src), nil
	default:
		return choosePolicyAction(s.Policy, self, opp, src), nil
	}
}

func choosePolicyAction(p *Policy, self, opp *combat.Combatant, src dice.Source) combat.Action {
	w := p.WeightsFor(self.HealthFraction())
	if self.Special == nil || self.Stamina < self.Special.StaminaCost || self.Flags.Confused {
		w.Special = 0
	}
	switch dice.Weighted(src, []int{w.Attack, w.Defend, w.Dodge, w.Special}) {
	case 1:
		return combat.Defend()
	case 2:
		return combat.Dodge()
	case 3:
		return combat.Special(opp.ID)
	default:
		return combat.Attack(opp.ID, chooseElement(p, self, opp, src))
	}
}

// chooseElement draws an attack element from the policy, skipping elements
// self cannot channel.
func chooseElement(p *Policy, self, opp *combat.Combatant, src dice.Source) element.Kind {
	weights := make([]int, len(p.Elements))
	for i, ew := range p.Elements {
		if !self.CanChannel(ew.Element) {
			continue
		}
		weights[i] = ew.Weight
		if p.StackEffects && opp.Effects != nil && opponentCarries(opp.Effects, ew.Element) {
			weights[i] = max(1, ew.Weight/2)
		}
	}
	if i := dice.Weighted(src, weights); i >= 0 {
		return p.Elements[i].Element
	}
	if self.CanChannel(self.Element) {
		return self.Element
	}
	return element.Physical
}

func opponentCarries(effects *status.Set, e element.Kind) bool {
	k, ok := status.SignatureOf(e)
	return ok && effects.Has(k)
}
