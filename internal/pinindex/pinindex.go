// Package pinindex resolves the 6-digit PIN a player types on a join screen
// to the internal game id a Coordinator is addressed by. A game's PIN and
// its id are different things on purpose: the id is stable and URL-safe,
// the PIN is short-lived and only meaningful while the lobby is open.
package pinindex

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrPINNotFound indicates no live game is registered under a PIN.
var ErrPINNotFound = errors.New("pin not found")

// Index maps a game PIN to its game id.
type Index interface {
	Register(ctx context.Context, pin, gameID string) error
	// RegisterIfAbsent registers pin only if it isn't already taken,
	// reporting false without error on collision. The HTTP gateway's
	// POST /games handler uses this to retry PIN generation, since this
	// index is the sole authority on whether a PIN is already live.
	RegisterIfAbsent(ctx context.Context, pin, gameID string) (bool, error)
	Resolve(ctx context.Context, pin string) (string, error)
	Unregister(ctx context.Context, pin string) error
}

// RedisIndex is the production Index, backed by a TTL'd key per PIN
// (`SET pin:{pin} {gameID} EX ttl`) so an abandoned game's PIN eventually
// frees up on its own even if Unregister is never called.
type RedisIndex struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisIndex(client *redis.Client, ttl time.Duration) *RedisIndex {
	return &RedisIndex{client: client, ttl: ttl}
}

func (idx *RedisIndex) Register(ctx context.Context, pin, gameID string) error {
	return idx.client.Set(ctx, idx.key(pin), gameID, idx.ttl).Err()
}

func (idx *RedisIndex) RegisterIfAbsent(ctx context.Context, pin, gameID string) (bool, error) {
	ok, err := idx.client.SetNX(ctx, idx.key(pin), gameID, idx.ttl).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (idx *RedisIndex) Resolve(ctx context.Context, pin string) (string, error) {
	gameID, err := idx.client.Get(ctx, idx.key(pin)).Result()
	if err == redis.Nil {
		return "", ErrPINNotFound
	}
	if err != nil {
		return "", err
	}
	return gameID, nil
}

func (idx *RedisIndex) Unregister(ctx context.Context, pin string) error {
	return idx.client.Del(ctx, idx.key(pin)).Err()
}

func (idx *RedisIndex) key(pin string) string {
	return "pin:" + pin
}

// MemoryIndex is an in-memory Index for single-instance deployments and
// tests, mirroring the in-memory/Redis adapter pairing used throughout
// internal/infra.
type MemoryIndex struct {
	mu  sync.RWMutex
	pin map[string]string
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{pin: make(map[string]string)}
}

func (idx *MemoryIndex) Register(_ context.Context, pin, gameID string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.pin[pin] = gameID
	return nil
}

func (idx *MemoryIndex) RegisterIfAbsent(_ context.Context, pin, gameID string) (bool, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if _, taken := idx.pin[pin]; taken {
		return false, nil
	}
	idx.pin[pin] = gameID
	return true, nil
}

func (idx *MemoryIndex) Resolve(_ context.Context, pin string) (string, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	gameID, ok := idx.pin[pin]
	if !ok {
		return "", ErrPINNotFound
	}
	return gameID, nil
}

func (idx *MemoryIndex) Unregister(_ context.Context, pin string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	delete(idx.pin, pin)
	return nil
}
