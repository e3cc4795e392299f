package status_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/centaur/internal/game/dice"
	"github.com/cory-johannsen/centaur/internal/game/element"
	"github.com/cory-johannsen/centaur/internal/game/status"
)

func mustDef(t require.TestingT, k status.Kind) *status.Definition {
	def, ok := status.DefaultRegistry().Get(k)
	require.True(t, ok, "missing default %s", k)
	return def
}

func TestSignatureOf_EveryElement(t *testing.T) {
	want := map[element.Kind]status.Kind{
		element.Physical: status.Bleed,
		element.Fire:     status.Burn,
		element.Water:    status.Chill,
		element.Earth:    status.Stun,
		element.Air:      status.Confusion,
		element.Shadow:   status.Blind,
		element.Light:    status.Weaken,
	}
	for e, k := range want {
		got, ok := status.SignatureOf(e)
		require.True(t, ok)
		assert.Equal(t, k, got, e.String())
	}
}

func TestDefaultRegistry_Complete(t *testing.T) {
	reg := status.DefaultRegistry()
	for _, k := range status.AllKinds {
		def, ok := reg.Get(k)
		require.True(t, ok, k.String())
		assert.GreaterOrEqual(t, def.ApplyChance, 25)
		assert.LessOrEqual(t, def.ApplyChance, 35)
		sig, _ := status.SignatureOf(def.Element)
		assert.Equal(t, k, sig, "definition element must map back to its kind")
	}
	assert.Len(t, reg.All(), 7)
}

func TestApply_RefreshTakesMax(t *testing.T) {
	s := status.NewSet()
	burn := mustDef(t, status.Burn)

	_, err := s.Apply(burn, 2, 3, "player")
	require.NoError(t, err)
	inst, err := s.Apply(burn, 1, 2, "enemy")
	require.NoError(t, err)

	assert.Equal(t, 1, s.Len(), "re-applying must not add a second instance")
	assert.Equal(t, 3, inst.Remaining)
	assert.Equal(t, 2, inst.Potency)
	assert.Equal(t, "enemy", inst.AppliedBy)

	inst, err = s.Apply(burn, 3, 4, "enemy")
	require.NoError(t, err)
	assert.Equal(t, 4, inst.Remaining)
	assert.Equal(t, 3, inst.Potency)
}

func TestApply_RejectsBadInput(t *testing.T) {
	s := status.NewSet()
	_, err := s.Apply(nil, 1, 1, "")
	assert.Error(t, err)
	_, err = s.Apply(mustDef(t, status.Burn), 1, 0, "")
	assert.Error(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestTick_ExpiresAfterExactlyN_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 6).Draw(rt, "duration")
		k := status.AllKinds[rapid.IntRange(0, 6).Draw(rt, "kind")]
		s := status.NewSet()
		_, err := s.Apply(mustDef(rt, k), 1, n, "x")
		require.NoError(rt, err)

		for i := 1; i < n; i++ {
			res := s.Tick(100)
			require.Empty(rt, res.Expired, "tick %d of %d", i, n)
			inst, ok := s.Get(k)
			require.True(rt, ok)
			require.Equal(rt, n-i, inst.Remaining)
		}
		res := s.Tick(100)
		assert.Equal(rt, []status.Kind{k}, res.Expired)
		assert.False(rt, s.Has(k))
	})
}

func TestTick_DamageOverTime(t *testing.T) {
	s := status.NewSet()
	_, err := s.Apply(mustDef(t, status.Burn), 1, 2, "x")
	require.NoError(t, err)
	_, err = s.Apply(mustDef(t, status.Bleed), 1, 2, "x")
	require.NoError(t, err)

	res := s.Tick(100)
	assert.Equal(t, 6+5, res.Damage)

	small := status.NewSet()
	_, err = small.Apply(mustDef(t, status.Bleed), 1, 1, "x")
	require.NoError(t, err)
	assert.Equal(t, 1, small.Tick(3).Damage, "damage-over-time has a floor of 1")
}

func TestTick_FlagsIncludeExpiringEffects(t *testing.T) {
	s := status.NewSet()
	_, err := s.Apply(mustDef(t, status.Stun), 1, 1, "x")
	require.NoError(t, err)

	res := s.Tick(50)
	assert.True(t, res.Flags.Stunned)
	assert.Equal(t, []status.Kind{status.Stun}, res.Expired)
	assert.False(t, s.Flags().Stunned)
}

func TestFlags_Modifiers(t *testing.T) {
	s := status.NewSet()
	assert.Equal(t, 1.0, s.Flags().Incoming())
	assert.Equal(t, 1.0, s.Flags().Outgoing())

	for _, k := range []status.Kind{status.Blind, status.Confusion, status.Chill, status.Weaken} {
		_, err := s.Apply(mustDef(t, k), 2, 3, "x")
		require.NoError(t, err)
	}
	f := s.Flags()
	assert.True(t, f.Confused)
	assert.False(t, f.Stunned)
	assert.Equal(t, 2*10+2*5, f.AccuracyPenalty)
	assert.Equal(t, 10, f.DodgePenalty)
	assert.InDelta(t, 0.8*0.9, f.Outgoing(), 1e-9)
	assert.InDelta(t, 1.25, f.Incoming(), 1e-9)
}

type recordingHooks struct {
	calls    []string
	override map[string]int
}

func (r *recordingHooks) CallStatusHook(hook string, ev status.HookEvent) (int, bool) {
	r.calls = append(r.calls, hook+":"+ev.Kind.String()+":"+ev.BearerID)
	d, ok := r.override[hook]
	return d, ok
}

func TestSet_Hooks(t *testing.T) {
	def := *mustDef(t, status.Burn)
	def.LuaOnApply = "burn_apply"
	def.LuaOnTick = "burn_tick"
	def.LuaOnExpire = "burn_expire"
	hooks := &recordingHooks{override: map[string]int{"burn_tick": 9}}

	s := status.NewSet()
	s.Attach("hero", hooks)
	_, err := s.Apply(&def, 1, 1, "boss")
	require.NoError(t, err)
	res := s.Tick(100)

	assert.Equal(t, 9, res.Damage, "tick hook may replace damage")
	assert.Equal(t, []string{"burn_apply:burn:hero", "burn_tick:burn:hero", "burn_expire:burn:hero"}, hooks.calls)
}

func TestSet_RemoveAndClear(t *testing.T) {
	s := status.NewSet()
	_, _ = s.Apply(mustDef(t, status.Burn), 1, 3, "x")
	_, _ = s.Apply(mustDef(t, status.Blind), 1, 3, "x")
	assert.True(t, s.Remove(status.Burn))
	assert.False(t, s.Remove(status.Burn))
	assert.Equal(t, []status.Kind{status.Blind}, s.Clear())
	assert.Equal(t, 0, s.Len())
}

func TestRollDurationAndPotency_InRange(t *testing.T) {
	r := dice.NewLoggedRoller(dice.NewSeededSource(11), zap.NewNop())
	for _, def := range status.DefaultRegistry().All() {
		for i := 0; i < 50; i++ {
			d := def.RollDuration(r)
			assert.GreaterOrEqual(t, d, status.MinDuration)
			assert.LessOrEqual(t, d, 4)
			p := def.RollPotency(r)
			assert.GreaterOrEqual(t, p, 1)
			assert.LessOrEqual(t, p, 3)
		}
	}
}

func TestRollDuration_ConstantExpression(t *testing.T) {
	def := &status.Definition{Kind: status.Stun, Name: "Stun", Element: element.Earth, Duration: "9", Potency: "2"}
	require.NoError(t, def.Validate())
	src := dice.NewSeededSource(3)
	r := dice.NewLoggedRoller(src, nil)
	assert.Equal(t, status.MaxDuration, def.RollDuration(r), "constant is clamped")
	assert.Equal(t, 2, def.RollPotency(r))
	assert.Equal(t, dice.NewSeededSource(3).Intn(100), src.Intn(100), "constants consume no rolls")
}

func TestLoadDirectory_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	yml := `kind: burn
name: Searing Burn
element: fire
apply_chance: 50
duration: "2d2"
dot_fraction: 0.1
lua_on_tick: burn_tick
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "burn.yaml"), []byte(yml), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.txt"), []byte("ignored"), 0o644))

	reg, err := status.LoadDirectory(dir)
	require.NoError(t, err)
	burn, ok := reg.Get(status.Burn)
	require.True(t, ok)
	assert.Equal(t, "Searing Burn", burn.Name)
	assert.Equal(t, 50, burn.ApplyChance)
	assert.Equal(t, "1d3", burn.Potency, "omitted potency falls back to the default expression")
	_, ok = reg.Get(status.Weaken)
	assert.True(t, ok, "kinds absent from the directory keep their defaults")
}

func TestLoadDirectory_Errors(t *testing.T) {
	_, err := status.LoadDirectory(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("kind: burn\nunknown_field: 1\n"), 0o644))
	_, err = status.LoadDirectory(dir)
	assert.Error(t, err, "unknown fields are rejected")

	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("kind: burn\nname: B\napply_chance: 140\n"), 0o644))
	_, err = status.LoadDirectory(dir)
	assert.Error(t, err)
}
