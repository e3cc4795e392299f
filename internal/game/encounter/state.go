// Package encounter runs one player against one enemy, turn by turn, as an
// explicit state machine that owns both combatants and its random source.
package encounter

// State is the encounter's position in its turn cycle.
type State int

const (
	StateAwaitingPlayerAction State = iota
	StateResolvingPlayerAction
	StateEnemyTurn
	StateResolvingEnemyTurn
	StateEvaluatingOutcome
	StateTerminal
)

var stateNames = [...]string{
	"awaiting_player_action",
	"resolving_player_action",
	"enemy_turn",
	"resolving_enemy_turn",
	"evaluating_outcome",
	"terminal",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Outcome is how an encounter ended.
type Outcome int

const (
	OutcomeInProgress Outcome = iota
	OutcomeVictory
	OutcomeDefeat
	OutcomeFled
)

var outcomeNames = [...]string{"in_progress", "victory", "defeat", "fled"}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return "unknown"
	}
	return outcomeNames[o]
}

// IsTerminal reports whether no further turns may be processed.
func (o Outcome) IsTerminal() bool { return o != OutcomeInProgress }
