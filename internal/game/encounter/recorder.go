package encounter

//go:generate mockgen -source=recorder.go -destination=mock/recorder_mock.go -package=mock

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/centaur/internal/game/npc"
)

// Recorder receives every resolved exchange and the terminal outcome.
type Recorder interface {
	RecordTurn(encounterID string, res TurnResult)
	RecordOutcome(encounterID string, outcome Outcome, drops npc.DropTable)
}

// LogRecorder writes turn summaries to a zap logger.
type LogRecorder struct {
	logger *zap.Logger
}

// NewLogRecorder creates a LogRecorder. A nil logger is replaced with a no-op logger.
func NewLogRecorder(logger *zap.Logger) *LogRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogRecorder{logger: logger}
}

// RecordTurn logs res at debug level.
func (r *LogRecorder) RecordTurn(encounterID string, res TurnResult) {
	r.logger.Debug("turn resolved",
		zap.String("encounter", encounterID),
		zap.Int("turn", res.Turn),
		zap.Int("events", len(res.Events)),
		zap.Int("player_health", res.Player.Health),
		zap.Int("enemy_health", res.Enemy.Health),
		zap.Int("boss_phase", res.BossPhase),
		zap.String("state", res.State.String()),
	)
}

// RecordOutcome logs the terminal outcome at info level.
func (r *LogRecorder) RecordOutcome(encounterID string, outcome Outcome, drops npc.DropTable) {
	r.logger.Info("encounter ended",
		zap.String("encounter", encounterID),
		zap.String("outcome", outcome.String()),
		zap.Int("currency", drops.Currency),
		zap.Int("item_drops", len(drops.Items)),
	)
}

type nopRecorder struct{}

func (nopRecorder) RecordTurn(string, TurnResult) {}
func (nopRecorder) RecordOutcome(string, Outcome, npc.DropTable) {}

// Recorders fans every call out to each non-nil recorder in order.
func Recorders(rs ...Recorder) Recorder {
	var out multiRecorder
	for _, r := range rs {
		if r != nil {
			out = append(out, r)
		}
	}
	switch len(out) {
	case 0:
		return nopRecorder{}
	case 1:
		return out[0]
	}
	return out
}

type multiRecorder []Recorder

func (m multiRecorder) RecordTurn(id string, res TurnResult) {
	for _, r := range m {
		r.RecordTurn(id, res)
	}
}

func (m multiRecorder) RecordOutcome(id string, outcome Outcome, drops npc.DropTable) {
	for _, r := range m {
		r.RecordOutcome(id, outcome, drops)
	}
}
