package encounter

import (
	"github.com/cory-johannsen/centaur/internal/game/ai"
	"github.com/cory-johannsen/centaur/internal/game/combat"
	"github.com/cory-johannsen/centaur/internal/game/inventory"
	"github.com/cory-johannsen/centaur/internal/game/status"
)

// EventKind classifies an Event.
type EventKind int

const (
	// EventAction is a resolved player or enemy action.
	EventAction EventKind = iota
	// EventStatusTick is a turn-start status tick that dealt damage or expired effects.
	EventStatusTick
	// EventSkipped is a turn lost to a skip-turn effect.
	EventSkipped
	// EventPhaseChange is a boss phase transition.
	EventPhaseChange
	// EventRegen is the end-of-exchange stamina regeneration.
	EventRegen
)

var eventKindNames = [...]string{"action", "status_tick", "skipped", "phase_change", "regen"}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventKindNames) {
		return "unknown"
	}
	return eventKindNames[k]
}

// Delta is the change in one combatant's resources caused by an event.
type Delta struct {
	Health  int
	Stamina int
}

// Event is one step of a turn. Only the fields relevant to Kind are set.
type Event struct {
	Kind  EventKind
	Actor string
	// Action is the action taken for EventAction and EventSkipped.
	Action combat.Action
	Attack *combat.AttackResult
	// Ability is set for Special and boss ability actions.
	Ability *combat.AbilityResult
	Item    *inventory.UseResult
	// Stance is the stance raised by a Defend or Dodge action.
	Stance combat.Stance
	// Fled reports the outcome of a flee attempt.
	Fled         bool
	StatusDamage int
	Expired      []status.Kind
	Transition   *ai.Transition

	Player Delta
	Enemy  Delta
}

// Vitals is a combatant's resource snapshot.
type Vitals struct {
	Health     int
	MaxHealth  int
	Stamina    int
	MaxStamina int
}

// TurnResult is the structured outcome of one exchange.
type TurnResult struct {
	Turn          int
	Events        []Event
	Player        Vitals
	Enemy         Vitals
	PlayerEffects []status.Instance
	EnemyEffects  []status.Instance
	// BossPhase is the boss's phase index after the exchange; -1 for non-boss enemies.
	BossPhase int
	State     State
	Outcome   Outcome
}

func vitalsOf(c *combat.Combatant) Vitals {
	return Vitals{Health: c.Health, MaxHealth: c.MaxHealth, Stamina: c.Stamina, MaxStamina: c.MaxStamina}
}
