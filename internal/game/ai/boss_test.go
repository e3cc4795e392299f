package ai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/centaur/internal/game/ai"
	"github.com/cory-johannsen/centaur/internal/game/combat"
	"github.com/cory-johannsen/centaur/internal/game/dice"
	"github.com/cory-johannsen/centaur/internal/game/element"
	"github.com/cory-johannsen/centaur/internal/testutil"
)

func newBoss(t require.TestingT) *ai.BossController {
	b, err := ai.NewBossController(ai.ShadowCentaurPhases())
	require.NoError(t, err)
	return b
}

func poolIDs(pool []*combat.Ability) []string {
	var out []string
	for _, a := range pool {
		out = append(out, a.ID)
	}
	return out
}

func TestBoss_TransitionsOnceAtThreshold(t *testing.T) {
	b := newBoss(t)
	s := ai.NewBossStrategy(b)
	boss := testutil.NewEnemy("boss", element.Shadow)
	player := testutil.NewPlayer()
	src := dice.NewSeededSource(3)

	boss.Health = 80
	_, err := s.ChooseAction(boss, player, ai.TurnContext{Turn: 1}, src)
	require.NoError(t, err)
	assert.Equal(t, 0, b.Phase())

	boss.Health = 74
	phase1 := poolIDs(ai.ShadowCentaurPhases()[1].Abilities)
	for turn := 2; turn < 30; turn++ {
		act, err := s.ChooseAction(boss, player, ai.TurnContext{Turn: turn}, src)
		require.NoError(t, err)
		require.Equal(t, combat.ActionAbility, act.Type)
		assert.Contains(t, phase1, act.Ability.ID)
	}
	assert.Equal(t, 1, b.Phase())
	require.Len(t, b.Transitions(), 1)
	assert.Equal(t, ai.Transition{From: 0, To: 1, Turn: 2, HealthFraction: 0.74}, b.Transitions()[0])
}

func TestBoss_ThresholdIsInclusive(t *testing.T) {
	b := newBoss(t)
	changed, err := b.Observe(0.75, 1)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 1, b.Phase())
}

func TestBoss_SkipsPhases(t *testing.T) {
	b := newBoss(t)
	changed, err := b.Observe(0.10, 4)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 3, b.Phase())
	assert.Equal(t, []string{"shadow_explosion", "void_consumption", "reality_tear"}, poolIDs(b.Pool()))
}

func TestBoss_NeverMovesBackward(t *testing.T) {
	b := newBoss(t)
	_, err := b.Observe(0.4, 1)
	require.NoError(t, err)
	require.Equal(t, 2, b.Phase())

	changed, err := b.Observe(0.95, 2)
	require.NoError(t, err)
	assert.False(t, changed, "healing does not restore an earlier phase")
	assert.Equal(t, 2, b.Phase())

	err = b.SetPhase(1)
	assert.True(t, combat.IsInvariantViolation(err))
	assert.Equal(t, 2, b.Phase())
	assert.True(t, combat.IsInvariantViolation(b.SetPhase(9)))
}

func TestBoss_Property_PhaseNonDecreasing(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		b := newBoss(rt)
		fractions := rapid.SliceOfN(rapid.Float64Range(0, 1), 1, 40).Draw(rt, "fractions")
		prev := b.Phase()
		for i, f := range fractions {
			_, err := b.Observe(f, i)
			require.NoError(rt, err)
			require.GreaterOrEqual(rt, b.Phase(), prev)
			prev = b.Phase()
		}
		assert.Equal(rt, b.TargetPhase(minOf(fractions)), b.Phase())
	})
}

func minOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		m = min(m, x)
	}
	return m
}

func TestBoss_ChooseSkipsUnaffordableAbilities(t *testing.T) {
	phases := []ai.Phase{{Name: "only", Threshold: 1, Abilities: []*combat.Ability{
		{ID: "costly", Kind: combat.AbilityStrike, Element: element.Fire, Power: 2, StaminaCost: 99, Weight: 100},
		{ID: "cheap", Kind: combat.AbilityStrike, Element: element.Fire, Power: 1, Weight: 1},
	}}}
	b, err := ai.NewBossController(phases)
	require.NoError(t, err)
	boss := testutil.NewEnemy("boss", element.Fire)

	act := b.Choose(boss, testutil.NewPlayer(), testutil.NewScriptedSource(0))
	assert.Equal(t, "cheap", act.Ability.ID)

	boss.Stamina = 0
	phases[0].Abilities[1].StaminaCost = 5
	act = b.Choose(boss, testutil.NewPlayer(), testutil.NewScriptedSource(0))
	assert.Equal(t, "attack", act.Ability.ID, "falls back to a basic attack")
	assert.Equal(t, element.Fire, act.Element)
}

func TestNewBossController_Validation(t *testing.T) {
	atk := combat.BasicAttack(element.Shadow, 1)
	cases := map[string][]ai.Phase{
		"empty":            nil,
		"first not 1":      {{Threshold: 0.9, Abilities: []*combat.Ability{atk}}},
		"not decreasing":   {{Threshold: 1, Abilities: []*combat.Ability{atk}}, {Threshold: 1, Abilities: []*combat.Ability{atk}}},
		"no weight":        {{Threshold: 1, Abilities: []*combat.Ability{combat.BasicAttack(element.Shadow, 0)}}},
		"invalid ability":  {{Threshold: 1, Abilities: []*combat.Ability{{ID: "x", Power: 0, Weight: 1}}}},
		"non-positive end": {{Threshold: 1, Abilities: []*combat.Ability{atk}}, {Threshold: 0, Abilities: []*combat.Ability{atk}}},
	}
	for name, phases := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ai.NewBossController(phases)
			assert.Error(t, err)
		})
	}
}
