package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/centaur/internal/game/dice"
)

// fixedSrc returns values from a fixed slice, cycling.
type fixedSrc struct {
	vals []int
	i    int
}

func (f *fixedSrc) Intn(n int) int {
	v := f.vals[f.i%len(f.vals)] % n
	f.i++
	return v
}

func TestSeededSource_Deterministic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Int64().Draw(rt, "seed")
		a := dice.NewSeededSource(seed)
		b := dice.NewSeededSource(seed)
		for i := 0; i < 50; i++ {
			require.Equal(rt, a.Intn(100), b.Intn(100))
		}
		assert.Equal(rt, seed, a.Seed())
	})
}

func TestSeededSource_PanicsOnZero(t *testing.T) {
	assert.Panics(t, func() { dice.NewSeededSource(1).Intn(0) })
}

func TestNewSeed_NonNegative(t *testing.T) {
	for i := 0; i < 100; i++ {
		assert.GreaterOrEqual(t, dice.NewSeed(), int64(0))
	}
}

func TestPercent_Bounds(t *testing.T) {
	src := &fixedSrc{vals: []int{0}}
	assert.False(t, dice.Percent(src, 0))
	assert.True(t, dice.Percent(src, 100))
	assert.Equal(t, 0, src.i, "boundary chances must not consume rolls")

	assert.True(t, dice.Percent(&fixedSrc{vals: []int{24}}, 25))
	assert.False(t, dice.Percent(&fixedSrc{vals: []int{25}}, 25))
}

func TestWeighted(t *testing.T) {
	weights := []int{0, 30, 0, 70}
	assert.Equal(t, 1, dice.Weighted(&fixedSrc{vals: []int{0}}, weights))
	assert.Equal(t, 1, dice.Weighted(&fixedSrc{vals: []int{29}}, weights))
	assert.Equal(t, 3, dice.Weighted(&fixedSrc{vals: []int{30}}, weights))
	assert.Equal(t, -1, dice.Weighted(&fixedSrc{vals: []int{0}}, []int{0, -5}))
}

func TestWeighted_Property_NeverPicksZeroWeight(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		weights := rapid.SliceOfN(rapid.IntRange(-5, 20), 1, 8).Draw(rt, "weights")
		seed := rapid.Int64().Draw(rt, "seed")
		idx := dice.Weighted(dice.NewSeededSource(seed), weights)
		if idx < 0 {
			for _, w := range weights {
				assert.LessOrEqual(rt, w, 0)
			}
			return
		}
		assert.Greater(rt, weights[idx], 0)
	})
}

func TestRoller_LogsRollsAndSharesSequence(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := dice.NewLoggedRoller(dice.NewSeededSource(7), zap.New(core))

	res, err := r.RollExpr("1d3+1")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.Total(), 2)
	assert.LessOrEqual(t, res.Total(), 4)
	r.Check("dodge", 100)

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "dice roll", logs.All()[0].Message)
	assert.Equal(t, "percent check", logs.All()[1].Message)

	plain := dice.NewSeededSource(7)
	logged := dice.NewLoggedRoller(dice.NewSeededSource(7), nil)
	for i := 0; i < 10; i++ {
		assert.Equal(t, plain.Intn(10), logged.Intn(10))
	}
}
