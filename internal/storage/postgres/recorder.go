package postgres

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/centaur/internal/game/encounter"
	"github.com/cory-johannsen/centaur/internal/game/npc"
)

// ArchiveRecorder writes encounter turns and outcomes to an Archive.
// Write failures are logged and never interrupt the encounter.
type ArchiveRecorder struct {
	archive *Archive
	timeout time.Duration
	logger  *zap.Logger

	mu    sync.Mutex
	turns map[string]int
}

var _ encounter.Recorder = (*ArchiveRecorder)(nil)

// NewArchiveRecorder creates an ArchiveRecorder.
//
// Precondition: archive non-nil; timeout > 0.
func NewArchiveRecorder(archive *Archive, timeout time.Duration, logger *zap.Logger) *ArchiveRecorder {
	if archive == nil {
		panic("postgres: NewArchiveRecorder: archive must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArchiveRecorder{archive: archive, timeout: timeout, logger: logger, turns: make(map[string]int)}
}

// RecordTurn archives res.
func (r *ArchiveRecorder) RecordTurn(encounterID string, res encounter.TurnResult) {
	r.mu.Lock()
	r.turns[encounterID] = max(r.turns[encounterID], res.Turn)
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if err := r.archive.SaveTurn(ctx, TurnRecordOf(encounterID, res)); err != nil {
		r.logger.Error("archiving turn", zap.String("encounter", encounterID), zap.Int("turn", res.Turn), zap.Error(err))
	}
}

// RecordOutcome archives the terminal outcome with the number of turns seen.
func (r *ArchiveRecorder) RecordOutcome(encounterID string, outcome encounter.Outcome, drops npc.DropTable) {
	r.mu.Lock()
	turns := r.turns[encounterID]
	delete(r.turns, encounterID)
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	err := r.archive.SaveOutcome(ctx, OutcomeRecord{
		EncounterID: encounterID,
		Outcome:     outcome.String(),
		Turns:       turns,
		Currency:    drops.Currency,
		Drops:       drops.Items,
	})
	if err != nil {
		r.logger.Error("archiving outcome", zap.String("encounter", encounterID), zap.Error(err))
	}
}
