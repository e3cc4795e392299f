package encounter

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/centaur/internal/game/combat"
)

// Manager tracks all live encounters, keyed by ID.
// All methods are safe for concurrent use; each Encounter itself is not.
type Manager struct {
	mu         sync.RWMutex
	encounters map[string]*Encounter
	calc       *combat.Calculator
	logger     *zap.Logger
}

// NewManager creates an empty Manager.
//
// Precondition: calc must be non-nil.
func NewManager(calc *combat.Calculator, logger *zap.Logger) *Manager {
	if calc == nil {
		panic("encounter: NewManager: calc must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{encounters: make(map[string]*Encounter), calc: calc, logger: logger}
}

// Start creates and registers an encounter. An empty cfg.ID is replaced with
// a fresh UUID.
//
// Postcondition: returns error if cfg is invalid or its ID is already live.
func (m *Manager) Start(cfg Config) (*Encounter, error) {
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	enc, err := New(m.calc, cfg, m.logger)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.encounters[cfg.ID]; exists {
		return nil, fmt.Errorf("encounter %q already active", cfg.ID)
	}
	m.encounters[cfg.ID] = enc
	m.logger.Info("encounter started",
		zap.String("encounter", cfg.ID),
		zap.String("player", cfg.Player.ID),
		zap.String("enemy", cfg.Enemy.ID),
		zap.Int64("seed", cfg.Seed),
		zap.String("terrain", cfg.Terrain.Kind.String()),
	)
	return enc, nil
}

// Get returns the encounter with id.
//
// Postcondition: Returns (encounter, true) if found, or (nil, false) otherwise.
func (m *Manager) Get(id string) (*Encounter, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	enc, ok := m.encounters[id]
	return enc, ok
}

// End removes the encounter with id. Ending an unknown ID is a no-op.
//
// Postcondition: reports whether an encounter was removed.
func (m *Manager) End(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.encounters[id]
	delete(m.encounters, id)
	return ok
}

// Len returns the number of live encounters.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.encounters)
}
