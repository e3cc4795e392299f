package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/centaur/internal/game/combat"
	"github.com/cory-johannsen/centaur/internal/game/dice"
	"github.com/cory-johannsen/centaur/internal/game/element"
	"github.com/cory-johannsen/centaur/internal/game/status"
	"github.com/cory-johannsen/centaur/internal/testutil"
)

func TestResolveAttack_LightOnShadowInRuins(t *testing.T) {
	calc := testutil.Calculator(false)
	player := testutil.NewPlayer()
	enemy := testutil.NewEnemy("shadow", element.Shadow)

	res, err := calc.ResolveAttack(testutil.NeverRoller(), combat.AttackRequest{
		Attacker:  player,
		Defender:  enemy,
		Element:   element.Light,
		BasePower: 10,
		Terrain:   element.NewTerrain(element.Ruins),
	})
	require.NoError(t, err)
	assert.InDelta(t, 1.8, res.Multiplier, 1e-9)
	assert.Equal(t, 18, res.Damage)
	assert.Equal(t, 82, enemy.Health)
	assert.False(t, res.WasDodged)
	assert.Nil(t, res.EffectApplied)
}

func TestResolveAttack_IgnoreDefenseSkipsDefendingStance(t *testing.T) {
	calc := testutil.Calculator(false)
	for _, ignore := range []bool{false, true} {
		player := testutil.NewPlayer()
		player.Stance = combat.StanceDefending
		boss := testutil.NewEnemy("boss", element.Shadow)

		res, err := calc.ResolveAttack(testutil.NeverRoller(), combat.AttackRequest{
			Attacker:      boss,
			Defender:      player,
			Element:       element.Shadow,
			BasePower:     40,
			IgnoreDefense: ignore,
		})
		require.NoError(t, err)
		if ignore {
			assert.InDelta(t, 1.0, res.Multiplier, 1e-9)
			assert.Equal(t, 40, res.Damage)
		} else {
			assert.InDelta(t, 0.7, res.Multiplier, 1e-9)
			assert.Equal(t, 28, res.Damage)
		}
		assert.Equal(t, combat.StanceNone, player.Stance, "stance is spent by the exposure")
	}
}

func TestResolveAttack_IgnoreDefenseSkipsMitigationKeepsWeaken(t *testing.T) {
	calc := testutil.Calculator(false)
	weaken, _ := status.DefaultRegistry().Get(status.Weaken)

	mk := func() *combat.Combatant {
		p := testutil.NewPlayer()
		p.BaseDefense = 50
		_, err := p.Effects.Apply(weaken, 1, 3, "boss")
		require.NoError(t, err)
		p.Flags = p.Effects.Flags()
		return p
	}

	plain := mk()
	res, err := calc.ResolveAttack(testutil.NeverRoller(), combat.AttackRequest{
		Attacker: testutil.NewEnemy("boss", element.Shadow), Defender: plain,
		Element: element.Physical, BasePower: 40,
	})
	require.NoError(t, err)
	assert.InDelta(t, 1.25, res.Multiplier, 1e-9)
	assert.InDelta(t, 0.5, res.Mitigation, 1e-9)
	assert.Equal(t, 25, res.Damage)

	ignored := mk()
	res, err = calc.ResolveAttack(testutil.NeverRoller(), combat.AttackRequest{
		Attacker: testutil.NewEnemy("boss", element.Shadow), Defender: ignored,
		Element: element.Physical, BasePower: 40, IgnoreDefense: true,
	})
	require.NoError(t, err)
	assert.InDelta(t, 1.25, res.Multiplier, 1e-9, "weaken still amplifies")
	assert.InDelta(t, 1.0, res.Mitigation, 1e-9)
	assert.Equal(t, 50, res.Damage)
}

func TestResolveAttack_IgnoreDefenseNeverDealsLess(t *testing.T) {
	calc := testutil.Calculator(false)
	weaken, _ := status.DefaultRegistry().Get(status.Weaken)

	rapid.Check(t, func(rt *rapid.T) {
		baseDefense := rapid.IntRange(0, 100).Draw(rt, "baseDefense")
		weakened := rapid.Bool().Draw(rt, "weakened")
		defending := rapid.Bool().Draw(rt, "defending")
		power := rapid.IntRange(1, 200).Draw(rt, "power")

		hit := func(ignore bool) int {
			p := testutil.NewPlayer()
			p.BaseDefense = baseDefense
			if weakened {
				_, err := p.Effects.Apply(weaken, 1, 3, "boss")
				require.NoError(rt, err)
				p.Flags = p.Effects.Flags()
			}
			if defending {
				p.Stance = combat.StanceDefending
			}
			res, err := calc.ResolveAttack(testutil.NeverRoller(), combat.AttackRequest{
				Attacker: testutil.NewEnemy("boss", element.Shadow), Defender: p,
				Element: element.Physical, BasePower: power, IgnoreDefense: ignore,
			})
			require.NoError(rt, err)
			return res.Damage
		}
		assert.GreaterOrEqual(rt, hit(true), hit(false))
	})
}

func TestResolveAttack_IgnoreDefenseStillRollsDodge(t *testing.T) {
	calc := testutil.Calculator(false)
	player := testutil.NewPlayer()
	player.DodgeChance = 30
	player.Stance = combat.StanceDodging

	src := testutil.NewScriptedSource(54)
	res, err := calc.ResolveAttack(testutil.Roller(src), combat.AttackRequest{
		Attacker:      testutil.NewEnemy("boss", element.Shadow),
		Defender:      player,
		Element:       element.Shadow,
		BasePower:     80,
		IgnoreDefense: true,
	})
	require.NoError(t, err)
	assert.True(t, res.WasDodged, "roll 54 is under 30+25")
	assert.Equal(t, 0, res.Damage)
	assert.Equal(t, 100, player.Health)
	assert.Equal(t, 1, src.Calls())
	assert.Equal(t, combat.StanceNone, player.Stance)
}

func TestResolveAttack_CriticalDoublesAndInflictsSignature(t *testing.T) {
	calc := testutil.Calculator(true)
	player := testutil.NewPlayer()
	enemy := testutil.NewEnemy("construct", element.Earth)

	res, err := calc.ResolveAttack(testutil.AlwaysRoller(), combat.AttackRequest{
		Attacker: player, Defender: enemy, Element: element.Physical, BasePower: 10,
	})
	require.NoError(t, err)
	assert.True(t, res.IsCritical)
	assert.Equal(t, 30, res.Damage, "10 * 1.5 advantage * 2 critical")
	require.NotNil(t, res.EffectApplied)
	assert.Equal(t, status.Bleed, res.EffectApplied.Kind)
	assert.Equal(t, "player", res.EffectApplied.AppliedBy)
	assert.True(t, enemy.Effects.Has(status.Bleed))
}

func TestResolveAttack_DamageFloor(t *testing.T) {
	calc := testutil.Calculator(false)
	enemy := testutil.NewEnemy("spirit", element.Air)
	enemy.Stance = combat.StanceDefending

	res, err := calc.ResolveAttack(testutil.NeverRoller(), combat.AttackRequest{
		Attacker: testutil.NewPlayer(), Defender: enemy, Element: element.Physical, BasePower: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Damage, "0.35 rounds to 0 and is floored to 1")
}

func TestResolveAttack_ZeroAffinityDealsNothing(t *testing.T) {
	calc := testutil.Calculator(false)
	player := testutil.NewPlayer()
	player.Affinities = map[element.Kind]float64{element.Fire: 0}

	res, err := calc.ResolveAttack(testutil.NeverRoller(), combat.AttackRequest{
		Attacker: player, Defender: testutil.NewEnemy("shadow", element.Shadow),
		Element: element.Fire, BasePower: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Multiplier)
	assert.Equal(t, 0, res.Damage)
}

func TestResolveAttack_NegativeAffinityIsInvariantViolation(t *testing.T) {
	calc := testutil.Calculator(false)
	player := testutil.NewPlayer()
	player.Affinities = map[element.Kind]float64{element.Water: -1}

	_, err := calc.ResolveAttack(testutil.NeverRoller(), combat.AttackRequest{
		Attacker: player, Defender: testutil.NewEnemy("shadow", element.Shadow),
		Element: element.Water, BasePower: 30,
	})
	assert.True(t, combat.IsInvariantViolation(err))
}

func TestResolveAttack_RejectsNonPositivePower(t *testing.T) {
	calc := testutil.Calculator(false)
	for _, p := range []int{0, -5} {
		_, err := calc.ResolveAttack(testutil.NeverRoller(), combat.AttackRequest{
			Attacker: testutil.NewPlayer(), Defender: testutil.NewEnemy("x", element.Fire), BasePower: p,
		})
		assert.Equal(t, combat.CodeInternal, combat.CodeOf(err))
	}
}

func TestResolveAttack_DefeatedTargetIsNoOp(t *testing.T) {
	calc := testutil.Calculator(true)
	enemy := testutil.NewEnemy("shadow", element.Shadow)
	enemy.Health = 0
	enemy.Stance = combat.StanceDodging
	src := testutil.NewScriptedSource(0)

	res, err := calc.ResolveAttack(testutil.Roller(src), combat.AttackRequest{
		Attacker: testutil.NewPlayer(), Defender: enemy, Element: element.Shadow, BasePower: 30,
	})
	require.NoError(t, err)
	assert.True(t, res.NoOp)
	assert.Equal(t, 0, res.Damage)
	assert.Nil(t, res.EffectApplied)
	assert.Equal(t, 0, enemy.Effects.Len())
	assert.Equal(t, 0, src.Calls(), "no rolls for a defeated target")
}

func TestResolveAttack_Reflect(t *testing.T) {
	calc := testutil.Calculator(false)
	player := testutil.NewPlayer()
	boss := testutil.NewEnemy("boss", element.Physical)
	boss.Reflect = 0.5

	res, err := calc.ResolveAttack(testutil.NeverRoller(), combat.AttackRequest{
		Attacker: player, Defender: boss, Element: element.Physical, BasePower: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, 20, res.Damage)
	assert.Equal(t, 10, res.Reflected)
	assert.Equal(t, 90, player.Health)
	assert.Equal(t, 0.0, boss.Reflect)
}

func TestResolveAttack_BlindedAttackerMissesMore(t *testing.T) {
	calc := testutil.Calculator(false)
	blind, _ := status.DefaultRegistry().Get(status.Blind)
	player := testutil.NewPlayer()
	_, err := player.Effects.Apply(blind, 3, 2, "enemy")
	require.NoError(t, err)
	player.Flags = player.Effects.Flags()
	enemy := testutil.NewEnemy("construct", element.Earth)
	enemy.DodgeChance = 5

	assert.Equal(t, 35, calc.DodgeChance(player, enemy))
	assert.Equal(t, 0, calc.DodgeChance(enemy, player), "blindness does not make the bearer easier to hit")
}

type attackInput struct {
	seed       int64
	atkElem    element.Kind
	defElem    element.Kind
	power      int
	dodge      int
	defense    int
	stance     combat.Stance
	terrain    element.TerrainKind
	ignoreDef  bool
	healthLeft int
}

func drawAttackInput(rt *rapid.T) attackInput {
	return attackInput{
		seed:       rapid.Int64().Draw(rt, "seed"),
		atkElem:    element.Kind(rapid.IntRange(0, 6).Draw(rt, "atk")),
		defElem:    element.Kind(rapid.IntRange(0, 6).Draw(rt, "def")),
		power:      rapid.IntRange(1, 200).Draw(rt, "power"),
		dodge:      rapid.IntRange(0, 100).Draw(rt, "dodge"),
		defense:    rapid.IntRange(0, 200).Draw(rt, "defense"),
		stance:     combat.Stance(rapid.IntRange(0, 2).Draw(rt, "stance")),
		terrain:    element.TerrainKind(rapid.IntRange(0, 6).Draw(rt, "terrain")),
		ignoreDef:  rapid.Bool().Draw(rt, "ignore"),
		healthLeft: rapid.IntRange(0, 100).Draw(rt, "health"),
	}
}

func runAttack(rt *rapid.T, in attackInput) (combat.AttackResult, *combat.Combatant) {
	calc := testutil.Calculator(true)
	def := testutil.NewEnemy("x", in.defElem)
	def.DodgeChance = in.dodge
	def.BaseDefense = in.defense
	def.Stance = in.stance
	def.Health = in.healthLeft
	res, err := calc.ResolveAttack(testutil.Roller(dice.NewSeededSource(in.seed)), combat.AttackRequest{
		Attacker:      testutil.NewPlayer(),
		Defender:      def,
		Element:       in.atkElem,
		BasePower:     in.power,
		Terrain:       element.NewTerrain(in.terrain),
		IgnoreDefense: in.ignoreDef,
	})
	require.NoError(rt, err)
	return res, def
}

func TestResolveAttack_Property_Deterministic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		in := drawAttackInput(rt)
		a, defA := runAttack(rt, in)
		b, defB := runAttack(rt, in)
		assert.Equal(rt, a, b)
		assert.Equal(rt, defA.Health, defB.Health)
		assert.Equal(rt, defA.Effects.All(), defB.Effects.All())
	})
}

func TestResolveAttack_Property_DamageBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		in := drawAttackInput(rt)
		res, def := runAttack(rt, in)
		assert.GreaterOrEqual(rt, res.Damage, 0)
		assert.GreaterOrEqual(rt, def.Health, 0)
		if res.WasDodged || res.NoOp {
			assert.Equal(rt, 0, res.Damage)
			assert.Nil(rt, res.EffectApplied)
		} else {
			assert.GreaterOrEqual(rt, res.Damage, 1)
		}
	})
}
