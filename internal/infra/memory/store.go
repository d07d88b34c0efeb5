package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/leo-ars/cfhoot/internal/domain"
)

// Store is an in-memory implementation of coordinator.PersistenceAdapter,
// used by default and in unit tests. Snapshots are round-tripped through
// JSON on Save so callers can mutate their in-memory state freely
// afterward without corrupting what's stored.
type Store struct {
	mu    sync.RWMutex
	games map[string][]byte
}

func NewStore() *Store {
	return &Store{games: make(map[string][]byte)}
}

func (s *Store) Load(_ context.Context, gameID string) (*domain.GameState, error) {
	s.mu.RLock()
	raw, ok := s.games[gameID]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrGameNotFound
	}
	var state domain.GameState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *Store) Save(_ context.Context, gameID string, state *domain.GameState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.games[gameID] = raw
	s.mu.Unlock()
	return nil
}
