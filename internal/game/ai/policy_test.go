package ai_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/centaur/internal/game/ai"
	"github.com/cory-johannsen/centaur/internal/game/element"
)

func TestPolicy_Validate(t *testing.T) {
	for _, p := range ai.DefaultPolicies() {
		require.NoError(t, p.Validate(), p.Archetype.String())
	}

	cases := map[string]ai.Policy{
		"boss":      {Archetype: ai.ArchetypeBoss},
		"threshold": {Archetype: ai.ArchetypeShadow, HealthThreshold: 1.5},
		"zero weights": {Archetype: ai.ArchetypeShadow, HealthThreshold: 0.5,
			Above: ai.ActionWeights{Attack: 1}, Elements: []ai.ElementWeight{{Element: element.Fire, Weight: 1}}},
		"negative": {Archetype: ai.ArchetypeShadow, HealthThreshold: 0.5,
			Above: ai.ActionWeights{Attack: 1, Dodge: -1}, Below: ai.ActionWeights{Attack: 1},
			Elements: []ai.ElementWeight{{Element: element.Fire, Weight: 1}}},
		"no elements": {Archetype: ai.ArchetypeShadow, HealthThreshold: 0.5,
			Above: ai.ActionWeights{Attack: 1}, Below: ai.ActionWeights{Attack: 1}},
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, p.Validate())
		})
	}
}

func TestLoadRegistry_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	yml := `policy:
  archetype: construct
  description: glass cannon golem
  health_threshold: 0.5
  above_threshold: {attack: 100}
  below_threshold: {attack: 10, defend: 90}
  elements:
    - {element: earth, weight: 1}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "construct.yaml"), []byte(yml), 0o644))

	reg, err := ai.LoadRegistry(dir)
	require.NoError(t, err)
	p, ok := reg.Get(ai.ArchetypeConstruct)
	require.True(t, ok)
	assert.Equal(t, "glass cannon golem", p.Description)
	assert.Equal(t, 90, p.WeightsFor(0.1).Defend)
	_, ok = reg.Get(ai.ArchetypeSpirit)
	assert.True(t, ok)
}

func TestLoadPolicies_Errors(t *testing.T) {
	_, err := ai.LoadPolicies(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.yaml"), []byte("archetype: shadow\n"), 0o644))
	_, err = ai.LoadPolicies(dir)
	assert.ErrorContains(t, err, "missing top-level 'policy' key")

	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.yaml"), []byte("policy:\n  archetype: boss\n"), 0o644))
	_, err = ai.LoadPolicies(dir)
	assert.Error(t, err)
}
