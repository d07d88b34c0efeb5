package coordinator

import (
	"context"
	"errors"
	"fmt"

	"github.com/leo-ars/cfhoot/internal/domain"
	"github.com/rs/zerolog"
)

// PersistenceAdapter loads and saves a game's full snapshot. Implementations
// live in internal/infra/memory and internal/infra/redis. Load must return
// domain.ErrGameNotFound when no snapshot exists yet, distinguishing "fresh
// game" from a genuine storage failure.
type PersistenceAdapter interface {
	Load(ctx context.Context, gameID string) (*domain.GameState, error)
	Save(ctx context.Context, gameID string, state *domain.GameState) error
}

// QuizRepository loads previously authored quiz content by id, letting a
// host re-run a quiz without resending its full JSON over the WebSocket
// every time. Implementations live in internal/infra/memory,
// internal/infra/redis and internal/infra/postgres; it is optional — a
// Coordinator built with a nil QuizRepository only accepts inline quizzes.
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// QuizInvalidator is an optional capability a QuizRepository may implement:
// dropping a cached quiz when a host sends an inline quiz under an existing
// id, so the next by-id load goes back to the loader instead of returning a
// stale TTL entry. internal/infra/memory and internal/infra/redis both
// implement it.
type QuizInvalidator interface {
	Invalidate(ctx context.Context, quizID string) error
}

// Coordinator is the per-game, single-writer actor owning one game's state.
// All state mutation happens inside run(), which drains inbox serially —
// a mailbox of closures instead of a mutex, so no caller ever needs to
// reason about interleaving with another caller's mutation.
type Coordinator struct {
	gameID   string
	store    PersistenceAdapter
	clock    Clock
	log      zerolog.Logger
	onEmpty  func(gameID string)
	quizRepo QuizRepository

	state    *domain.GameState
	registry *registry

	inbox  chan func()
	stopCh chan struct{}

	countdown     *countdown
	questionEnding bool
	timerStarting  bool
}

// New constructs a Coordinator for gameID, performing the blocking
// blockConcurrencyWhile-style initialization synchronously, before the
// mailbox goroutine is started. onEmpty is called
// (from within the mailbox goroutine, so it must not block) when the last
// session leaves and no timer is running, giving Manager a chance to evict
// the coordinator.
// pinHint, when non-empty, is used as the PIN for a freshly created game
// instead of minting one internally — the HTTP gateway's POST /games
// handler generates and collision-checks a PIN against internal/pinindex
// before a Coordinator exists, so construction must accept it rather than
// silently generating a second, unregistered one.
// quizRepo may be nil; handleHostCreateQuiz only consults it when the host
// references a quiz by id instead of sending one inline.
func New(ctx context.Context, gameID string, store PersistenceAdapter, clock Clock, log zerolog.Logger, onEmpty func(gameID string), pinHint string, quizRepo QuizRepository) (*Coordinator, error) {
	state, err := blockConcurrencyWhileInit(ctx, gameID, store, clock, pinHint)
	if err != nil {
		return nil, err
	}

	c := &Coordinator{
		gameID:   gameID,
		store:    store,
		clock:    clock,
		log:      log.With().Str("gameId", gameID).Logger(),
		onEmpty:  onEmpty,
		quizRepo: quizRepo,
		state:    state,
		registry: newRegistry(),
		inbox:    make(chan func(), 64),
		stopCh:   make(chan struct{}),
	}

	go c.run()

	// If we loaded mid-question with time still remaining, the timer is
	// reconstructed lazily when the next client connects — we don't
	// proactively start a ticker with nobody listening.
	return c, nil
}

// blockConcurrencyWhileInit loads or creates the game's state, then
// normalizes connection flags and fast-forwards an already-expired question
// phase. Named for the Cloudflare Durable Objects primitive this behavior
// mirrors: synchronous work that must complete before any event is accepted.
func blockConcurrencyWhileInit(ctx context.Context, gameID string, store PersistenceAdapter, clock Clock, pinHint string) (*domain.GameState, error) {
	state, err := store.Load(ctx, gameID)
	if err != nil {
		if errors.Is(err, domain.ErrGameNotFound) {
			pin := pinHint
			if pin == "" {
				pin = generatePIN()
			}
			return domain.NewGameState(pin), nil
		}
		return nil, fmt.Errorf("load game state: %w", err)
	}

	state.HostConnected = false
	for _, p := range state.Players {
		p.Connected = false
	}

	if state.Phase == domain.PhaseQuestion {
		q := state.CurrentQuestion()
		if q != nil {
			elapsed := nowMillis(clock) - state.QuestionStartTime
			if elapsed >= int64(q.TimerSeconds)*1000 {
				state.Phase = domain.PhaseLeaderboard
			}
		}
	}

	return state, nil
}

// Post enqueues fn to run inside the mailbox goroutine. Transport and timer
// callbacks use this exclusively; nothing outside run() touches c.state.
func (c *Coordinator) Post(fn func()) {
	select {
	case c.inbox <- fn:
	case <-c.stopCh:
	}
}

// Stop halts the mailbox loop and cancels any active timer. Used by Manager
// when evicting an idle coordinator.
func (c *Coordinator) Stop() {
	close(c.stopCh)
}

func (c *Coordinator) run() {
	for {
		select {
		case fn := <-c.inbox:
			fn()
		case <-c.stopCh:
			c.cancelCountdown()
			return
		}
	}
}

// Snapshot returns a copy of the game's PIN and phase for read-only HTTP
// endpoints that must not touch c.state directly, since only the mailbox
// goroutine may do that.
func (c *Coordinator) Snapshot() (pin string, phase domain.Phase) {
	done := make(chan struct{})
	c.Post(func() {
		pin, phase = c.state.GamePin, c.state.Phase
		close(done)
	})
	<-done
	return pin, phase
}

// FullState returns a deep-enough copy of the full game state for the
// debug/introspection endpoint (GET /games/{gameID}). Players and the quiz
// are copied by value/pointer-to-fresh-struct so the HTTP handler can encode
// them without racing the mailbox goroutine's later mutations.
func (c *Coordinator) FullState() domain.GameState {
	done := make(chan struct{})
	var state domain.GameState
	c.Post(func() {
		state = c.state.Clone()
		close(done)
	})
	<-done
	return state
}

func (c *Coordinator) persist(ctx context.Context) error {
	if err := c.store.Save(ctx, c.gameID, c.state); err != nil {
		c.log.Error().Err(err).Msg("failed to persist game state")
		return err
	}
	return nil
}

func (c *Coordinator) broadcast(msg OutboundMessage) {
	c.registry.broadcast(msg)
}
