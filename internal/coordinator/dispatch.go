package coordinator

import (
	"context"
	"encoding/json"

	"github.com/leo-ars/cfhoot/internal/domain"
)

// Admit registers a newly connected session, flips hostConnected/resumes
// the timer if the host just reconnected mid-question, sends game_state,
// then runs the phase-specific catch-up.
func (c *Coordinator) Admit(sessionID string, isHost bool, conn Connection) {
	c.Post(func() {
		c.registry.add(&session{id: sessionID, conn: conn, isHost: isHost})

		if isHost {
			c.state.HostConnected = true
			if c.state.Phase == domain.PhaseQuestion && c.state.TimerPaused {
				c.resumeCountdown()
				c.broadcast(OutboundMessage{Type: "game_resumed"})
			}
			_ = c.persist(context.Background())
		}

		conn.Send(OutboundMessage{Type: "game_state", Payload: gameStatePayload{State: c.state}})
		c.sendCatchUp(conn, isHost)
	})
}

// Disconnect removes a session from the registry and reacts to who left:
// a departing host pauses the timer, a departing player is marked
// disconnected rather than removed from the roster.
func (c *Coordinator) Disconnect(sessionID string) {
	c.Post(func() {
		s := c.registry.remove(sessionID)
		if s == nil {
			return
		}

		if s.isHost {
			c.state.HostConnected = false
			if c.state.Phase == domain.PhaseQuestion && c.countdown != nil && !c.state.TimerPaused {
				secondsLeft := c.currentSecondsLeftForCatchUp()
				c.pauseCountdown(secondsLeft)
				c.broadcast(OutboundMessage{Type: "game_paused", Payload: gamePausedPayload{Reason: "Host disconnected"}})
			}
			_ = c.persist(context.Background())
		} else if s.playerID != "" {
			if p := c.state.Players[s.playerID]; p != nil {
				p.Connected = false
				_ = c.persist(context.Background())
				c.broadcast(OutboundMessage{Type: "player_left", Payload: playerLeftPayload{
					PlayerID:    s.playerID,
					PlayerCount: c.state.ConnectedPlayerCount(),
				}})
			}
		}

		if c.registry.count() == 0 {
			c.cancelCountdown()
			if c.onEmpty != nil {
				c.onEmpty(c.gameID)
			}
		}
	})
}

// HandleMessage decodes one inbound JSON message and routes it through the
// dispatch table: validate role/phase, mutate, persist, broadcast. Unknown
// types or malformed JSON reply with an error message and do not mutate.
func (c *Coordinator) HandleMessage(sessionID string, raw []byte) {
	c.Post(func() {
		c.registry.mu.RLock()
		s := c.registry.sessions[sessionID]
		c.registry.mu.RUnlock()
		if s == nil {
			return
		}

		var in inboundMessage
		if err := json.Unmarshal(raw, &in); err != nil {
			s.conn.Send(errorMessage("malformed message"))
			return
		}

		handler, ok := dispatchTable[in.Type]
		if !ok {
			s.conn.Send(errorMessage("unsupported message type"))
			return
		}
		if err := handler(c, s, in.Payload); err != nil {
			s.conn.Send(errorMessage(err.Error()))
		}
	})
}

type handlerFunc func(c *Coordinator, s *session, payload json.RawMessage) error

var dispatchTable = map[string]handlerFunc{
	"host_create_quiz":      handleHostCreateQuiz,
	"host_start_game":       handleHostStartGame,
	"host_next_question":    handleHostNextQuestion,
	"host_show_leaderboard": handleHostShowLeaderboard,
	"host_show_podium":      handleHostShowPodium,
	"player_join":           handlePlayerJoin,
	"player_rejoin":         handlePlayerRejoin,
	"player_answer":         handlePlayerAnswer,
}
