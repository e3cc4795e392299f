package ai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/centaur/internal/game/ai"
	"github.com/cory-johannsen/centaur/internal/game/element"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := ai.NewRegistry()
	_, ok := r.Get(ai.ArchetypeShadow)
	assert.False(t, ok)

	p := &ai.Policy{
		Archetype:       ai.ArchetypeShadow,
		HealthThreshold: 0.5,
		Above:           ai.ActionWeights{Attack: 3, Special: 1},
		Below:           ai.ActionWeights{Attack: 1, Defend: 1},
		Elements:        []ai.ElementWeight{{Element: element.Shadow, Weight: 1}},
	}
	require.NoError(t, r.Register(p))
	got, ok := r.Get(ai.ArchetypeShadow)
	require.True(t, ok)
	assert.Same(t, p, got)

	s, err := r.Strategy(ai.ArchetypeShadow)
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestRegistry_InvalidPolicyNotStored(t *testing.T) {
	r := ai.NewRegistry()
	assert.Error(t, r.Register(&ai.Policy{Archetype: ai.ArchetypeSpirit, HealthThreshold: 2}))
	_, ok := r.Get(ai.ArchetypeSpirit)
	assert.False(t, ok)
}

func TestRegistry_Errors(t *testing.T) {
	r := ai.DefaultRegistry()
	p, _ := r.Get(ai.ArchetypeShadow)
	assert.Error(t, r.Register(p), "duplicate archetype")
	_, err := r.Strategy(ai.ArchetypeBoss)
	assert.Error(t, err)
	_, err = ai.NewRegistry().Strategy(ai.ArchetypeConstruct)
	assert.Error(t, err)

	_, err = ai.ParseArchetype("dragon")
	assert.Error(t, err)
	a, err := ai.ParseArchetype("Spirit")
	require.NoError(t, err)
	assert.Equal(t, ai.ArchetypeSpirit, a)
}

func TestDefaultRegistry_CoversRegularArchetypes(t *testing.T) {
	r := ai.DefaultRegistry()
	for _, a := range []ai.Archetype{ai.ArchetypeShadow, ai.ArchetypeConstruct, ai.ArchetypeSpirit} {
		s, err := r.Strategy(a)
		require.NoError(t, err, a.String())
		assert.NotNil(t, s)
	}
}

func TestParseArchetype_Property_RoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := ai.Archetype(rapid.IntRange(0, 3).Draw(rt, "archetype"))
		got, err := ai.ParseArchetype(a.String())
		require.NoError(rt, err)
		assert.Equal(rt, a, got)
	})
}
