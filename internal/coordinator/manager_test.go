package coordinator

import (
	"context"
	"testing"

	"github.com/leo-ars/cfhoot/internal/domain"
	"github.com/leo-ars/cfhoot/internal/infra/memory"
)

func TestManagerGetOrCreateReturnsSameCoordinator(t *testing.T) {
	clock := NewRealClock()
	m := NewManager(memory.NewStore(), clock, testLogger(), nil)

	c1, err := m.GetOrCreate(context.Background(), "game-1", "")
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	c2, err := m.GetOrCreate(context.Background(), "game-1", "")
	if err != nil {
		t.Fatalf("get or create again: %v", err)
	}
	if c1 != c2 {
		t.Fatalf("expected the same coordinator instance for a repeated gameID")
	}
	c1.Stop()
}

func TestManagerGetOrCreateUsesPinHintForFreshGame(t *testing.T) {
	clock := NewRealClock()
	m := NewManager(memory.NewStore(), clock, testLogger(), nil)

	c, err := m.GetOrCreate(context.Background(), "game-2", "424242")
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	defer c.Stop()

	pin, phase := c.Snapshot()
	if pin != "424242" || phase != domain.PhaseLobby {
		t.Fatalf("expected pin 424242 in lobby phase, got pin=%q phase=%q", pin, phase)
	}
}

func TestManagerEvictStopsAndRemovesCoordinator(t *testing.T) {
	clock := NewRealClock()
	m := NewManager(memory.NewStore(), clock, testLogger(), nil)

	c, err := m.GetOrCreate(context.Background(), "game-3", "")
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	_ = c

	m.evict("game-3")
	if _, ok := m.Get("game-3"); ok {
		t.Fatalf("expected coordinator to be removed after eviction")
	}
}
