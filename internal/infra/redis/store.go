package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/leo-ars/cfhoot/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Store is a Redis-backed coordinator.PersistenceAdapter: one JSON snapshot
// per game key, refreshed to ttl on every Save, since a Coordinator is
// evicted from memory on idle and must be reloadable from that snapshot.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func (s *Store) Load(ctx context.Context, gameID string) (*domain.GameState, error) {
	raw, err := s.client.Get(ctx, s.key(gameID)).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}
	var state domain.GameState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *Store) Save(ctx context.Context, gameID string, state *domain.GameState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(gameID), raw, s.ttl).Err()
}

func (s *Store) key(gameID string) string {
	return "game:" + gameID + ":state"
}
