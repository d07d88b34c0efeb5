package coordinator

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Manager holds one Coordinator per live game id behind a mutex; each
// Coordinator still owns its own state exclusively once constructed, so
// the mutex only ever guards the map of which games are currently live.
type Manager struct {
	store    PersistenceAdapter
	clock    Clock
	log      zerolog.Logger
	quizRepo QuizRepository

	mu           sync.RWMutex
	coordinators map[string]*Coordinator
}

func NewManager(store PersistenceAdapter, clock Clock, log zerolog.Logger, quizRepo QuizRepository) *Manager {
	return &Manager{
		store:        store,
		clock:        clock,
		log:          log,
		quizRepo:     quizRepo,
		coordinators: make(map[string]*Coordinator),
	}
}

// GetOrCreate returns the live Coordinator for gameID, constructing one
// (running its blockConcurrencyWhile initialization) on first access.
// pinHint is only consulted when gameID has no persisted snapshot yet; pass
// "" to let the Coordinator mint its own PIN.
func (m *Manager) GetOrCreate(ctx context.Context, gameID string, pinHint string) (*Coordinator, error) {
	m.mu.RLock()
	if c, ok := m.coordinators[gameID]; ok {
		m.mu.RUnlock()
		return c, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.coordinators[gameID]; ok {
		return c, nil
	}

	c, err := New(ctx, gameID, m.store, m.clock, m.log, m.evict, pinHint, m.quizRepo)
	if err != nil {
		return nil, err
	}
	m.coordinators[gameID] = c
	return c, nil
}

// Get returns the live Coordinator for gameID without creating one.
func (m *Manager) Get(gameID string) (*Coordinator, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.coordinators[gameID]
	return c, ok
}

func (m *Manager) evict(gameID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.coordinators[gameID]; ok {
		c.Stop()
		delete(m.coordinators, gameID)
	}
}
