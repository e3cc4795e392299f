package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/centaur/internal/game/encounter"
	"github.com/cory-johannsen/centaur/internal/game/npc"
)

// ErrOutcomeNotFound is returned when no outcome is archived for an encounter.
var ErrOutcomeNotFound = errors.New("encounter outcome not found")

// ErrOutcomeExists is returned when an encounter's outcome is archived twice.
var ErrOutcomeExists = errors.New("encounter outcome already archived")

// TurnRecord is one archived turn.
type TurnRecord struct {
	EncounterID   string
	Turn          int
	PlayerHealth  int
	PlayerStamina int
	EnemyHealth   int
	EnemyStamina  int
	BossPhase     int
	Events        int
	State         string
}

// OutcomeRecord is the archived end of one encounter.
type OutcomeRecord struct {
	EncounterID string
	Outcome     string
	Turns       int
	Currency    int
	Drops       []npc.Drop
	RecordedAt  time.Time
}

// dropJSON is the JSONB shape of one drop.
type dropJSON struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
}

// Archive provides encounter archive persistence operations.
type Archive struct {
	db *pgxpool.Pool
}

// NewArchive creates an Archive backed by the given pool.
//
// Precondition: db must be a valid, open connection pool with the
// encounter archive migrations applied.
func NewArchive(db *pgxpool.Pool) *Archive {
	return &Archive{db: db}
}

// TurnRecordOf flattens res into a TurnRecord.
func TurnRecordOf(encounterID string, res encounter.TurnResult) TurnRecord {
	return TurnRecord{
		EncounterID:   encounterID,
		Turn:          res.Turn,
		PlayerHealth:  res.Player.Health,
		PlayerStamina: res.Player.Stamina,
		EnemyHealth:   res.Enemy.Health,
		EnemyStamina:  res.Enemy.Stamina,
		BossPhase:     res.BossPhase,
		Events:        len(res.Events),
		State:         res.State.String(),
	}
}

// SaveTurn inserts one turn. Re-saving the same (encounter, turn) overwrites it.
//
// Precondition: rec.EncounterID non-empty; rec.Turn >= 1.
func (a *Archive) SaveTurn(ctx context.Context, rec TurnRecord) error {
	_, err := a.db.Exec(ctx,
		`INSERT INTO encounter_turns
		   (encounter_id, turn, player_health, player_stamina, enemy_health, enemy_stamina, boss_phase, events, state)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (encounter_id, turn) DO UPDATE SET
		   player_health = EXCLUDED.player_health,
		   player_stamina = EXCLUDED.player_stamina,
		   enemy_health = EXCLUDED.enemy_health,
		   enemy_stamina = EXCLUDED.enemy_stamina,
		   boss_phase = EXCLUDED.boss_phase,
		   events = EXCLUDED.events,
		   state = EXCLUDED.state`,
		rec.EncounterID, rec.Turn, rec.PlayerHealth, rec.PlayerStamina,
		rec.EnemyHealth, rec.EnemyStamina, rec.BossPhase, rec.Events, rec.State,
	)
	if err != nil {
		return fmt.Errorf("saving turn %d of %s: %w", rec.Turn, rec.EncounterID, err)
	}
	return nil
}

// Turns returns the archived turns of encounterID in turn order.
func (a *Archive) Turns(ctx context.Context, encounterID string) ([]TurnRecord, error) {
	rows, err := a.db.Query(ctx,
		`SELECT encounter_id, turn, player_health, player_stamina, enemy_health, enemy_stamina, boss_phase, events, state
		 FROM encounter_turns WHERE encounter_id = $1 ORDER BY turn`,
		encounterID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing turns of %s: %w", encounterID, err)
	}
	defer rows.Close()

	var out []TurnRecord
	for rows.Next() {
		var r TurnRecord
		if err := rows.Scan(&r.EncounterID, &r.Turn, &r.PlayerHealth, &r.PlayerStamina,
			&r.EnemyHealth, &r.EnemyStamina, &r.BossPhase, &r.Events, &r.State); err != nil {
			return nil, fmt.Errorf("scanning turn: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SaveOutcome inserts the outcome of an encounter.
//
// Postcondition: returns ErrOutcomeExists if the encounter already has one.
func (a *Archive) SaveOutcome(ctx context.Context, rec OutcomeRecord) error {
	drops := make([]dropJSON, 0, len(rec.Drops))
	for _, d := range rec.Drops {
		drops = append(drops, dropJSON{Item: d.ItemID, Quantity: d.Quantity})
	}
	tag, err := a.db.Exec(ctx,
		`INSERT INTO encounter_outcomes (encounter_id, outcome, turns, currency, drops)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (encounter_id) DO NOTHING`,
		rec.EncounterID, rec.Outcome, rec.Turns, rec.Currency, drops,
	)
	if err != nil {
		return fmt.Errorf("saving outcome of %s: %w", rec.EncounterID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOutcomeExists
	}
	return nil
}

// Outcome returns the archived outcome of encounterID.
//
// Postcondition: returns ErrOutcomeNotFound if none is archived.
func (a *Archive) Outcome(ctx context.Context, encounterID string) (OutcomeRecord, error) {
	var (
		rec   OutcomeRecord
		drops []dropJSON
	)
	err := a.db.QueryRow(ctx,
		`SELECT encounter_id, outcome, turns, currency, drops, recorded_at
		 FROM encounter_outcomes WHERE encounter_id = $1`,
		encounterID,
	).Scan(&rec.EncounterID, &rec.Outcome, &rec.Turns, &rec.Currency, &drops, &rec.RecordedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return OutcomeRecord{}, ErrOutcomeNotFound
	}
	if err != nil {
		return OutcomeRecord{}, fmt.Errorf("loading outcome of %s: %w", encounterID, err)
	}
	for _, d := range drops {
		rec.Drops = append(rec.Drops, npc.Drop{ItemID: d.Item, Quantity: d.Quantity})
	}
	return rec, nil
}

// Tally counts archived outcomes by outcome name.
func (a *Archive) Tally(ctx context.Context) (map[string]int, error) {
	rows, err := a.db.Query(ctx, `SELECT outcome, COUNT(*) FROM encounter_outcomes GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("tallying outcomes: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var (
			outcome string
			n       int
		)
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("scanning tally: %w", err)
		}
		out[outcome] = n
	}
	return out, rows.Err()
}
