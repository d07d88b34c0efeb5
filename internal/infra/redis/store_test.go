package redis

import (
	"context"
	"testing"
	"time"

	"github.com/leo-ars/cfhoot/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestStoreLoadMissingReturnsErrGameNotFound(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewStore(client, time.Minute)

	if _, err := store.Load(context.Background(), "game-1"); err != domain.ErrGameNotFound {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
}

func TestStoreSaveThenLoadRoundTripsAndSetsTTL(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewStore(client, time.Minute)

	state := domain.NewGameState("654321")
	state.AddPlayer(&domain.Player{ID: "p1", Nickname: "Eve", Answers: map[string]domain.PlayerAnswer{}})

	if err := store.Save(context.Background(), "game-1", state); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !mr.Exists("game:game-1:state") {
		t.Fatalf("expected redis key to be set")
	}
	if ttl := mr.TTL("game:game-1:state"); ttl <= 0 {
		t.Fatalf("expected a positive TTL on the snapshot key, got %v", ttl)
	}

	loaded, err := store.Load(context.Background(), "game-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.GamePin != "654321" || loaded.Players["p1"].Nickname != "Eve" {
		t.Fatalf("unexpected round-tripped state: %+v", loaded)
	}
}
