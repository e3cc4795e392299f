package simulation_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/centaur/internal/config"
	"github.com/cory-johannsen/centaur/internal/game/combat"
	"github.com/cory-johannsen/centaur/internal/game/encounter"
	"github.com/cory-johannsen/centaur/internal/game/encounter/mock"
	"github.com/cory-johannsen/centaur/internal/game/npc"
	"github.com/cory-johannsen/centaur/internal/simulation"
)

const contentRoot = "../../content"

func repoContent() config.ContentConfig {
	return config.ContentConfig{
		StatusDir:  filepath.Join(contentRoot, "status"),
		AIDir:      filepath.Join(contentRoot, "ai"),
		EnemiesDir: filepath.Join(contentRoot, "enemies"),
		ItemsDir:   filepath.Join(contentRoot, "items"),
		ScriptsDir: filepath.Join(contentRoot, "scripts"),
	}
}

func enemyYAML(id string, health, attack int) string {
	return fmt.Sprintf(`
id: %s
name: Training Dummy
archetype: shadow
element: shadow
stats:
  max_health: %d
  max_stamina: 10
  attack_power: %d
drops:
  currency: 5
  items:
    - item: shadow_essence
      quantity: 2
`, id, health, attack)
}

func writeEnemies(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, src := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0644))
	}
	return dir
}

func simConfig(enemy string, script ...string) config.SimulationConfig {
	return config.SimulationConfig{
		Encounters:  6,
		Concurrency: 3,
		Enemy:       enemy,
		Path:        "warrior",
		Terrain:     "plain",
		Script:      script,
		Items:       map[string]int{"health_potion": 1},
		MaxTurns:    100,
	}
}

func newRunner(t *testing.T, content *simulation.Content, rec encounter.Recorder) *simulation.Runner {
	t.Helper()
	calc := combat.NewCalculator(combat.DefaultTuning(), content.Statuses, zap.NewNop())
	return simulation.NewRunner(content, calc, rec, zap.NewNop())
}

func dummyContent(t *testing.T, health, attack int) *simulation.Content {
	t.Helper()
	dir := writeEnemies(t, map[string]string{"dummy.yaml": enemyYAML("dummy", health, attack)})
	content, err := simulation.LoadContent(config.ContentConfig{EnemiesDir: dir}, zap.NewNop())
	require.NoError(t, err)
	return content
}

func TestLoadContent_RepositoryContent(t *testing.T) {
	content, err := simulation.LoadContent(repoContent(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(content.Close)

	assert.Equal(t,
		[]string{"crystal_golem", "mana_wraith", "shadow_centaur", "shadow_hound", "twilight_wisp"},
		content.Enemies.IDs())
	assert.Len(t, content.Statuses.All(), 7)
	require.NotNil(t, content.Scripts)
	assert.NotNil(t, content.Hooks())
	assert.True(t, content.Scripts.HasHook("bleed_on_tick"))

	_, ok := content.Items.Item("field_kit")
	assert.True(t, ok, "items directory overlays the built-in catalog")
	_, ok = content.Items.Item("health_potion")
	assert.True(t, ok)

	boss, ok := content.Enemies.Get("shadow_centaur")
	require.True(t, ok)
	assert.Len(t, boss.Phases, 4)
}

func TestLoadContent_DefaultsWithoutDirectories(t *testing.T) {
	content := dummyContent(t, 10, 1)
	assert.Nil(t, content.Scripts)
	assert.Nil(t, content.Hooks(), "no scripts must yield a nil interface, not a typed nil")
	assert.Len(t, content.Statuses.All(), 7)
	content.Close()
}

func TestLoadContent_Errors(t *testing.T) {
	badDrop := `
id: thief
name: Thief
archetype: shadow
element: physical
stats: {max_health: 10, attack_power: 3}
drops:
  items:
    - item: crown_jewels
      quantity: 1
`
	scripts := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(scripts, "bad.lua"), []byte(`@@@`), 0644))
	good := writeEnemies(t, map[string]string{"dummy.yaml": enemyYAML("dummy", 10, 1)})

	cases := map[string]config.ContentConfig{
		"missing enemies dir": {EnemiesDir: filepath.Join(t.TempDir(), "nope")},
		"unknown drop item":   {EnemiesDir: writeEnemies(t, map[string]string{"thief.yaml": badDrop})},
		"bad script":          {EnemiesDir: good, ScriptsDir: scripts},
		"missing status dir":  {EnemiesDir: good, StatusDir: filepath.Join(t.TempDir(), "nope")},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := simulation.LoadContent(cfg, zap.NewNop())
			assert.Error(t, err)
		})
	}
}

func TestRunner_OneHitVictories(t *testing.T) {
	content := dummyContent(t, 1, 1)
	sum, err := newRunner(t, content, nil).Run(context.Background(), simConfig("dummy", "attack"), 100)
	require.NoError(t, err)

	assert.Equal(t, 6, sum.Encounters)
	assert.Equal(t, 6, sum.Victories)
	assert.Equal(t, 6, sum.Turns)
	assert.Equal(t, 30, sum.Currency)
	assert.Equal(t, map[string]int{"shadow_essence": 12}, sum.Items)
}

func TestRunner_TurnCapAbandons(t *testing.T) {
	content := dummyContent(t, 10_000, 1)
	cfg := simConfig("dummy", "defend")
	cfg.MaxTurns = 5
	sum, err := newRunner(t, content, nil).Run(context.Background(), cfg, 7)
	require.NoError(t, err)
	assert.Equal(t, 6, sum.Abandoned)
	assert.Equal(t, 30, sum.Turns)
	assert.Zero(t, sum.Victories+sum.Defeats+sum.Fled)
	assert.Empty(t, sum.Items)
}

func TestRunner_RejectedActionFallsBackToAttack(t *testing.T) {
	content := dummyContent(t, 1, 1)
	cfg := simConfig("dummy", "use health potion")
	cfg.Items = nil
	sum, err := newRunner(t, content, nil).Run(context.Background(), cfg, 3)
	require.NoError(t, err)
	assert.Equal(t, 6, sum.Rejected)
	assert.Equal(t, 6, sum.Victories)
}

func TestRunner_RejectsBadInput(t *testing.T) {
	content := dummyContent(t, 1, 1)
	r := newRunner(t, content, nil)
	cases := map[string]config.SimulationConfig{
		"unknown enemy":  simConfig("ghost", "attack"),
		"bad script":     simConfig("dummy", "dance"),
		"status command": simConfig("dummy", "status"),
	}
	unknownItem := simConfig("dummy", "attack")
	unknownItem.Items = map[string]int{"elixir_of_life": 1}
	cases["unknown item"] = unknownItem
	badPath := simConfig("dummy", "attack")
	badPath.Path = "bard"
	cases["unknown path"] = badPath

	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := r.Run(context.Background(), cfg, 1)
			assert.Error(t, err)
		})
	}
}

func TestRunner_CancelledContext(t *testing.T) {
	content := dummyContent(t, 10_000, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newRunner(t, content, nil).Run(ctx, simConfig("dummy", "attack"), 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunner_RecordsEveryOutcome(t *testing.T) {
	content := dummyContent(t, 1, 1)
	ctrl := gomock.NewController(t)
	rec := mock.NewMockRecorder(ctrl)
	rec.EXPECT().RecordTurn(gomock.Any(), gomock.Any()).Times(6)
	rec.EXPECT().
		RecordOutcome(gomock.Any(), encounter.OutcomeVictory, npc.DropTable{
			Currency: 5,
			Items:    []npc.Drop{{ItemID: "shadow_essence", Quantity: 2}},
		}).
		Times(6)

	_, err := newRunner(t, content, rec).Run(context.Background(), simConfig("dummy", "attack"), 50)
	require.NoError(t, err)
}

func TestRunner_RepositoryContentIsReproducible(t *testing.T) {
	content, err := simulation.LoadContent(repoContent(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(content.Close)
	r := newRunner(t, content, nil)

	for _, enemy := range content.Enemies.IDs() {
		t.Run(enemy, func(t *testing.T) {
			cfg := simConfig(enemy, "attack", "special", "attack", "use health potion", "defend")
			cfg.Concurrency = 1
			serial, err := r.Run(context.Background(), cfg, 11)
			require.NoError(t, err)

			cfg.Concurrency = 4
			parallel, err := r.Run(context.Background(), cfg, 11)
			require.NoError(t, err)

			assert.Equal(t, serial, parallel)
			assert.Equal(t, cfg.Encounters,
				serial.Victories+serial.Defeats+serial.Fled+serial.Abandoned)
		})
	}
}

func TestProperty_SummaryAccountsForEveryEncounter(t *testing.T) {
	content := dummyContent(t, 40, 12)
	r := newRunner(t, content, nil)
	scripts := [][]string{{"attack"}, {"attack", "dodge"}, {"defend", "attack"}, {"flee"}, {"special", "attack"}}
	rapid.Check(t, func(rt *rapid.T) {
		cfg := simConfig("dummy", scripts[rapid.IntRange(0, len(scripts)-1).Draw(rt, "script")]...)
		cfg.Encounters = rapid.IntRange(1, 8).Draw(rt, "encounters")
		cfg.Concurrency = rapid.IntRange(1, 4).Draw(rt, "concurrency")
		seed := rapid.Int64Range(0, 1<<40).Draw(rt, "seed")

		sum, err := r.Run(context.Background(), cfg, seed)
		if err != nil {
			rt.Fatalf("run: %v", err)
		}
		if got := sum.Victories + sum.Defeats + sum.Fled + sum.Abandoned; got != cfg.Encounters {
			rt.Fatalf("outcomes %d != encounters %d", got, cfg.Encounters)
		}
		if sum.Currency != 5*sum.Victories {
			rt.Fatalf("currency %d for %d victories", sum.Currency, sum.Victories)
		}
	})
}
