package simulation

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/centaur/internal/config"
	"github.com/cory-johannsen/centaur/internal/game/character"
	"github.com/cory-johannsen/centaur/internal/game/combat"
	"github.com/cory-johannsen/centaur/internal/game/command"
	"github.com/cory-johannsen/centaur/internal/game/element"
	"github.com/cory-johannsen/centaur/internal/game/encounter"
	"github.com/cory-johannsen/centaur/internal/game/npc"
)

// PlayerID is the combatant ID of the simulated player.
const PlayerID = "player"

// Summary aggregates the results of a batch.
type Summary struct {
	Encounters int
	Victories  int
	Defeats    int
	Fled       int
	// Abandoned counts encounters cut off at the turn cap.
	Abandoned int
	// Turns is the total number of resolved turns.
	Turns int
	// Rejected counts scripted actions the encounter refused; each was
	// replaced by a physical attack.
	Rejected int
	Currency int
	Items    map[string]int
}

type encounterResult struct {
	outcome   encounter.Outcome
	abandoned bool
	turns     int
	rejected  int
	drops     npc.DropTable
}

func (s *Summary) add(r encounterResult) {
	s.Encounters++
	s.Turns += r.turns
	s.Rejected += r.rejected
	switch {
	case r.abandoned:
		s.Abandoned++
	case r.outcome == encounter.OutcomeVictory:
		s.Victories++
		s.Currency += r.drops.Currency
		for _, d := range r.drops.Items {
			s.Items[d.ItemID] += d.Quantity
		}
	case r.outcome == encounter.OutcomeDefeat:
		s.Defeats++
	case r.outcome == encounter.OutcomeFled:
		s.Fled++
	}
}

// Runner plays scripted encounters against loaded content.
type Runner struct {
	content  *Content
	commands *command.Registry
	manager  *encounter.Manager
	recorder encounter.Recorder
	logger   *zap.Logger
}

// NewRunner creates a Runner. recorder may be nil.
//
// Precondition: content, calc and logger must be non-nil.
func NewRunner(content *Content, calc *combat.Calculator, recorder encounter.Recorder, logger *zap.Logger) *Runner {
	return &Runner{
		content:  content,
		commands: command.DefaultRegistry(),
		manager:  encounter.NewManager(calc, logger),
		recorder: recorder,
		logger:   logger,
	}
}

// Run plays cfg.Encounters encounters, at most cfg.Concurrency at a time.
// Encounter i is seeded with seed+i, so a batch is reproducible from its
// base seed regardless of scheduling.
//
// Precondition: cfg passes config validation; seed >= 0.
// Postcondition: returns the aggregate Summary, or the first error; an
// aborted encounter or a cancelled ctx fails the batch.
func (r *Runner) Run(ctx context.Context, cfg config.SimulationConfig, seed int64) (Summary, error) {
	def, ok := r.content.Enemies.Get(cfg.Enemy)
	if !ok {
		return Summary{}, fmt.Errorf("simulation: unknown enemy %q", cfg.Enemy)
	}
	path, err := character.ParsePath(cfg.Path)
	if err != nil {
		return Summary{}, fmt.Errorf("simulation: %w", err)
	}
	terrain, err := element.ParseTerrain(cfg.Terrain)
	if err != nil {
		return Summary{}, fmt.Errorf("simulation: %w", err)
	}
	for _, line := range cfg.Script {
		if _, err := r.commands.ParseAction(line, def.ID); err != nil {
			return Summary{}, fmt.Errorf("simulation: script line %q: %w", line, err)
		}
	}
	for id := range cfg.Items {
		if _, ok := r.content.Items.Item(id); !ok {
			return Summary{}, fmt.Errorf("simulation: unknown starting item %q", id)
		}
	}

	var (
		mu  sync.Mutex
		sum = Summary{Items: make(map[string]int)}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)
	for i := 0; i < cfg.Encounters; i++ {
		g.Go(func() error {
			res, err := r.play(gctx, cfg, def, path, element.NewTerrain(terrain), seed+int64(i))
			if err != nil {
				return err
			}
			mu.Lock()
			sum.add(res)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	r.logger.Info("simulation complete",
		zap.String("enemy", def.ID),
		zap.Int64("seed", seed),
		zap.Int("encounters", sum.Encounters),
		zap.Int("victories", sum.Victories),
		zap.Int("defeats", sum.Defeats),
		zap.Int("fled", sum.Fled),
		zap.Int("abandoned", sum.Abandoned),
	)
	return sum, nil
}

// play runs one encounter to its end or the turn cap, cycling the script.
func (r *Runner) play(ctx context.Context, cfg config.SimulationConfig, def *npc.Definition, path character.Path, terrain element.TerrainContext, seed int64) (encounterResult, error) {
	snap := character.New("Player", path)
	snap.Items = maps.Clone(cfg.Items)
	strategy, err := def.Strategy(r.content.Policies)
	if err != nil {
		return encounterResult{}, err
	}
	enemy := def.NewCombatant()

	enc, err := r.manager.Start(encounter.Config{
		Seed:     seed,
		Player:   snap.ToCombatant(PlayerID),
		Enemy:    enemy,
		Strategy: strategy,
		Terrain:  terrain,
		Drops:    def.Drops,
		Items:    r.content.Items,
		Bag:      snap.Bag(),
		Hooks:    r.content.Hooks(),
		Recorder: r.recorder,
	})
	if err != nil {
		return encounterResult{}, err
	}
	defer r.manager.End(enc.ID())

	var res encounterResult
	for step := 0; enc.State() != encounter.StateTerminal; step++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if enc.NextTurn() > cfg.MaxTurns {
			res.abandoned = true
			break
		}
		action, err := r.commands.ParseAction(cfg.Script[step%len(cfg.Script)], enemy.ID)
		if err != nil {
			return res, err
		}
		_, err = enc.ResolveTurn(enc.NextTurn(), action)
		if combat.IsRejection(err) {
			res.rejected++
			_, err = enc.ResolveTurn(enc.NextTurn(), combat.Attack(enemy.ID, element.Physical))
		}
		if err != nil {
			return res, fmt.Errorf("encounter %s (seed %d): %w", enc.ID(), seed, err)
		}
	}
	res.turns = enc.NextTurn() - 1
	res.outcome = enc.Outcome()
	res.drops, _ = enc.Drops()
	return res, nil
}
