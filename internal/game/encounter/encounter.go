package encounter

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/centaur/internal/game/ai"
	"github.com/cory-johannsen/centaur/internal/game/combat"
	"github.com/cory-johannsen/centaur/internal/game/dice"
	"github.com/cory-johannsen/centaur/internal/game/element"
	"github.com/cory-johannsen/centaur/internal/game/inventory"
	"github.com/cory-johannsen/centaur/internal/game/npc"
	"github.com/cory-johannsen/centaur/internal/game/status"
	"github.com/cory-johannsen/centaur/internal/observability"
)

// Config describes a new encounter.
type Config struct {
	// ID is assigned by Manager.Start when empty.
	ID string
	// Seed fixes the encounter's random sequence.
	Seed int64
	// Source replaces the seeded source when set. Tests use it to script rolls.
	Source   dice.Source
	Player   *combat.Combatant
	Enemy    *combat.Combatant
	Strategy *ai.Strategy
	Terrain  element.TerrainContext
	Drops    npc.DropTable
	// Items and Bag back UseItem actions. Both may be nil, in which case every
	// UseItem is rejected.
	Items *inventory.Catalog
	Bag   *inventory.Bag
	// Hooks dispatches status lifecycle hooks; nil disables them.
	Hooks    status.HookCaller
	Recorder Recorder
}

// Encounter is one fight. It owns both combatants and its random source and
// is not safe for concurrent use; callers serialise ResolveTurn.
//
// Invariant: no turn is processed once State() is StateTerminal.
type Encounter struct {
	id       string
	calc     *combat.Calculator
	player   *combat.Combatant
	enemy    *combat.Combatant
	strategy *ai.Strategy
	terrain  element.TerrainContext
	drops    npc.DropTable
	items    *inventory.Catalog
	bag      *inventory.Bag
	recorder Recorder
	logger   *zap.Logger

	seed int64
	rng  *dice.Roller

	turns   int
	state   State
	outcome Outcome
	err     error
}

// New validates cfg and returns an encounter awaiting the player's first action.
//
// Precondition: calc must be non-nil.
// Postcondition: returns error if either combatant is missing, has the wrong
// kind, or violates its resource invariants, or if Strategy is nil.
func New(calc *combat.Calculator, cfg Config, logger *zap.Logger) (*Encounter, error) {
	if calc == nil {
		panic("encounter: New: calc must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	switch {
	case cfg.Player == nil || cfg.Enemy == nil:
		return nil, fmt.Errorf("encounter: player and enemy are required")
	case !cfg.Player.IsPlayer():
		return nil, fmt.Errorf("encounter: player %q is not a player combatant", cfg.Player.ID)
	case cfg.Enemy.IsPlayer():
		return nil, fmt.Errorf("encounter: enemy %q is a player combatant", cfg.Enemy.ID)
	case cfg.Player.ID == cfg.Enemy.ID:
		return nil, fmt.Errorf("encounter: combatant IDs must differ, both are %q", cfg.Player.ID)
	case cfg.Strategy == nil:
		return nil, fmt.Errorf("encounter: enemy strategy is required")
	}
	for _, c := range []*combat.Combatant{cfg.Player, cfg.Enemy} {
		if err := c.CheckInvariants(); err != nil {
			return nil, fmt.Errorf("encounter: %w", err)
		}
		if c.IsDefeated() {
			return nil, fmt.Errorf("encounter: %s starts defeated", c.ID)
		}
		c.EnsureEffects(cfg.Hooks)
	}
	if err := cfg.Drops.Validate(); err != nil {
		return nil, fmt.Errorf("encounter: %w", err)
	}
	rec := cfg.Recorder
	if rec == nil {
		rec = nopRecorder{}
	}
	var src dice.Source = cfg.Source
	if src == nil {
		src = dice.NewSeededSource(cfg.Seed)
	}
	log := observability.ForEncounter(logger, cfg.ID, cfg.Seed)
	return &Encounter{
		id:       cfg.ID,
		calc:     calc,
		player:   cfg.Player,
		enemy:    cfg.Enemy,
		strategy: cfg.Strategy,
		terrain:  cfg.Terrain,
		drops:    cfg.Drops.Clone(),
		items:    cfg.Items,
		bag:      cfg.Bag,
		recorder: rec,
		logger:   log,
		seed:     cfg.Seed,
		rng:      dice.NewLoggedRoller(src, log),
		state:    StateAwaitingPlayerAction,
	}, nil
}

// ID returns the encounter ID.
func (e *Encounter) ID() string { return e.id }

// Seed returns the seed of the encounter's random source.
func (e *Encounter) Seed() int64 { return e.seed }

// NextTurn returns the index ResolveTurn expects next, starting at 1.
func (e *Encounter) NextTurn() int { return e.turns + 1 }

// State returns the current state.
func (e *Encounter) State() State { return e.state }

// Outcome returns the outcome; OutcomeInProgress until the encounter ends.
func (e *Encounter) Outcome() Outcome { return e.outcome }

// Err returns the error that aborted the encounter, or nil.
func (e *Encounter) Err() error { return e.err }

// Player returns the player combatant.
func (e *Encounter) Player() *combat.Combatant { return e.player }

// Enemy returns the enemy combatant.
func (e *Encounter) Enemy() *combat.Combatant { return e.enemy }

// Terrain returns the terrain the fight takes place on.
func (e *Encounter) Terrain() element.TerrainContext { return e.terrain }

// Drops returns the enemy's static drop table after a victory.
//
// Postcondition: ok is true iff Outcome() == OutcomeVictory.
func (e *Encounter) Drops() (npc.DropTable, bool) {
	if e.outcome != OutcomeVictory {
		return npc.DropTable{}, false
	}
	return e.drops.Clone(), true
}

// BossPhase returns the boss phase index, or -1 for a non-boss enemy.
func (e *Encounter) BossPhase() int {
	if e.strategy.Boss == nil {
		return -1
	}
	return e.strategy.Boss.Phase()
}

// ResolveTurn resolves one exchange: the player's turn and, unless the fight
// ends first, the enemy's reply. Each side's turn begins with its status tick.
//
// Precondition: turn == NextTurn().
// Postcondition: on a CodeInvalidAction or CodeInsufficientResource error
// nothing is mutated and NextTurn() is unchanged. On success NextTurn()
// advances by exactly one. An invariant violation aborts the encounter and
// every later call returns the same error.
func (e *Encounter) ResolveTurn(turn int, action combat.Action) (TurnResult, error) {
	if e.err != nil {
		return TurnResult{}, e.err
	}
	if e.state == StateTerminal {
		return TurnResult{}, combat.InvalidActionf("encounter is over (%s)", e.outcome).WithMeta("turn", turn)
	}
	if turn != e.NextTurn() {
		if turn < e.NextTurn() {
			return TurnResult{}, combat.InvalidActionf("turn %d already resolved", turn).WithMeta("next", e.NextTurn())
		}
		return TurnResult{}, combat.InvalidActionf("turn %d is ahead of turn %d", turn, e.NextTurn())
	}
	if err := e.validatePlayerAction(action); err != nil {
		return TurnResult{}, err
	}

	res := TurnResult{Turn: turn}
	if err := e.exchange(turn, action, &res); err != nil {
		return TurnResult{}, e.abort(err)
	}
	e.turns++
	if e.outcome.IsTerminal() {
		e.state = StateTerminal
	} else {
		e.state = StateAwaitingPlayerAction
	}
	e.fill(&res)
	e.recorder.RecordTurn(e.id, res)
	if e.state == StateTerminal {
		drops, _ := e.Drops()
		e.recorder.RecordOutcome(e.id, e.outcome, drops)
		e.logger.Info("encounter ended",
			zap.String("outcome", e.outcome.String()),
			zap.Int("turns", e.turns),
		)
	}
	return res, nil
}

func (e *Encounter) exchange(turn int, action combat.Action, res *TurnResult) error {
	e.state = StateResolvingPlayerAction
	if acted := e.startTurn(e.player, res); acted {
		ev, err := e.resolvePlayerAction(action)
		if err != nil {
			return err
		}
		res.Events = append(res.Events, ev)
	} else if !e.player.IsDefeated() {
		res.Events = append(res.Events, Event{Kind: EventSkipped, Actor: e.player.ID, Action: action})
	}
	if err := e.evaluate(); err != nil || e.outcome.IsTerminal() {
		return err
	}

	e.state = StateEnemyTurn
	if acted := e.startTurn(e.enemy, res); acted {
		e.state = StateResolvingEnemyTurn
		if err := e.enemyAction(turn, res); err != nil {
			return err
		}
	} else if !e.enemy.IsDefeated() {
		res.Events = append(res.Events, Event{Kind: EventSkipped, Actor: e.enemy.ID})
	}
	if err := e.evaluate(); err != nil || e.outcome.IsTerminal() {
		return err
	}

	regen := e.calc.Tuning().StaminaRegen
	if regen > 0 {
		before := e.capture()
		e.player.RestoreStamina(regen)
		e.enemy.RestoreStamina(regen)
		ev := Event{Kind: EventRegen}
		e.deltas(&ev, before)
		if ev.Player != (Delta{}) || ev.Enemy != (Delta{}) {
			res.Events = append(res.Events, ev)
		}
	}
	return nil
}

// startTurn clears c's stance, ticks its effects and applies status damage.
// It reports whether c may act.
func (e *Encounter) startTurn(c *combat.Combatant, res *TurnResult) bool {
	before := e.capture()
	c.ClearStance()
	tick := c.Effects.Tick(c.MaxHealth)
	c.Flags = tick.Flags
	c.ApplyDamage(tick.Damage)
	if tick.Damage > 0 || len(tick.Expired) > 0 {
		ev := Event{Kind: EventStatusTick, Actor: c.ID, StatusDamage: tick.Damage, Expired: tick.Expired}
		e.deltas(&ev, before)
		res.Events = append(res.Events, ev)
	}
	return !c.IsDefeated() && !tick.Flags.Stunned
}

func (e *Encounter) enemyAction(turn int, res *TurnResult) error {
	var phaseBefore int
	if e.strategy.Boss != nil {
		phaseBefore = e.strategy.Boss.Phase()
	}
	action, err := e.strategy.ChooseAction(e.enemy, e.player, ai.TurnContext{Turn: turn, Terrain: e.terrain}, e.rng)
	if err != nil {
		return err
	}
	if b := e.strategy.Boss; b != nil && b.Phase() != phaseBefore {
		ts := b.Transitions()
		tr := ts[len(ts)-1]
		res.Events = append(res.Events, Event{Kind: EventPhaseChange, Actor: e.enemy.ID, Transition: &tr})
		e.logger.Info("boss phase transition",
			zap.Int("from", tr.From),
			zap.Int("to", tr.To),
			zap.Int("turn", turn),
			zap.Float64("health_fraction", tr.HealthFraction),
		)
	}
	ev, err := e.resolveEnemyAction(action)
	if err != nil {
		return err
	}
	res.Events = append(res.Events, ev)
	return nil
}

// evaluate checks invariants and sets the outcome. An enemy at zero health
// is a victory even if the player fell in the same step.
func (e *Encounter) evaluate() error {
	prev := e.state
	e.state = StateEvaluatingOutcome
	for _, c := range []*combat.Combatant{e.player, e.enemy} {
		if err := c.CheckInvariants(); err != nil {
			return err
		}
	}
	switch {
	case e.outcome.IsTerminal():
	case e.enemy.IsDefeated():
		e.outcome = OutcomeVictory
	case e.player.IsDefeated():
		e.outcome = OutcomeDefeat
	}
	e.state = prev
	return nil
}

func (e *Encounter) abort(err error) error {
	if combat.CodeOf(err) == "" {
		err = combat.Wrap(err, combat.CodeInternal, "resolving turn")
	}
	e.err = err
	e.state = StateTerminal
	e.logger.Error("encounter aborted", zap.Error(err), zap.Int("turn", e.NextTurn()))
	return err
}

func (e *Encounter) fill(res *TurnResult) {
	res.Player = vitalsOf(e.player)
	res.Enemy = vitalsOf(e.enemy)
	res.PlayerEffects = e.player.Effects.All()
	res.EnemyEffects = e.enemy.Effects.All()
	res.BossPhase = e.BossPhase()
	res.State = e.state
	res.Outcome = e.outcome
}

type vitalsPair struct {
	player, enemy Vitals
}

func (e *Encounter) capture() vitalsPair {
	return vitalsPair{player: vitalsOf(e.player), enemy: vitalsOf(e.enemy)}
}

func (e *Encounter) deltas(ev *Event, before vitalsPair) {
	ev.Player = Delta{Health: e.player.Health - before.player.Health, Stamina: e.player.Stamina - before.player.Stamina}
	ev.Enemy = Delta{Health: e.enemy.Health - before.enemy.Health, Stamina: e.enemy.Stamina - before.enemy.Stamina}
}
