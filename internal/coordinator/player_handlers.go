package coordinator

import (
	"context"
	"encoding/json"

	"github.com/leo-ars/cfhoot/internal/domain"
)

func requirePlayer(s *session) error {
	if s.isHost {
		return domain.ErrWrongRole
	}
	return nil
}

// handlePlayerJoin admits a new player during the lobby phase.
func handlePlayerJoin(c *Coordinator, s *session, payload json.RawMessage) error {
	if err := requirePlayer(s); err != nil {
		return err
	}
	if c.state.Phase != domain.PhaseLobby {
		return domain.ErrWrongPhase
	}
	var in playerJoinPayload
	if err := json.Unmarshal(payload, &in); err != nil {
		return domain.ErrMalformedPayload
	}
	nickname, err := domain.ValidateNickname(in.Nickname)
	if err != nil {
		return err
	}
	if c.state.PlayerByNickname(nickname) != nil {
		return domain.ErrNicknameTaken
	}
	if len(c.state.Players) >= 200 {
		return domain.ErrGameFull
	}

	player := &domain.Player{
		ID:        newPlayerID(),
		Nickname:  nickname,
		Answers:   make(map[string]domain.PlayerAnswer),
		Connected: true,
	}
	c.state.AddPlayer(player)
	s.playerID = player.ID

	if err := c.persist(context.Background()); err != nil {
		return err
	}
	c.broadcast(OutboundMessage{Type: "player_joined", Payload: playerJoinedPayload{
		Player:      player,
		PlayerCount: c.state.ConnectedPlayerCount(),
	}})
	s.conn.Send(OutboundMessage{Type: "game_state", Payload: gameStatePayload{State: c.state}})
	return nil
}

// handlePlayerRejoin reconnects a known player by id, falling back to a
// fresh join if the game is still in the lobby and the id is unrecognized.
func handlePlayerRejoin(c *Coordinator, s *session, payload json.RawMessage) error {
	if err := requirePlayer(s); err != nil {
		return err
	}
	var in playerRejoinPayload
	if err := json.Unmarshal(payload, &in); err != nil {
		return domain.ErrMalformedPayload
	}

	player, ok := c.state.Players[in.PlayerID]
	if !ok {
		if c.state.Phase == domain.PhaseLobby {
			return handlePlayerJoin(c, s, mustMarshal(playerJoinPayload{Nickname: in.Nickname}))
		}
		return domain.ErrPlayerNotFound
	}
	if domain.NormalizeNickname(player.Nickname) != domain.NormalizeNickname(in.Nickname) {
		return domain.ErrNicknameMismatch
	}

	player.Connected = true
	s.playerID = player.ID
	if err := c.persist(context.Background()); err != nil {
		return err
	}
	c.broadcast(OutboundMessage{Type: "player_rejoined", Payload: playerJoinedPayload{
		Player:      player,
		PlayerCount: c.state.ConnectedPlayerCount(),
	}})
	s.conn.Send(OutboundMessage{Type: "game_state", Payload: gameStatePayload{State: c.state}})
	c.phaseCatchUp(s.conn, false)
	return nil
}

// handlePlayerAnswer records a player's answer for the active question,
// rejecting a second submission for the same question as a no-op error.
func handlePlayerAnswer(c *Coordinator, s *session, payload json.RawMessage) error {
	if err := requirePlayer(s); err != nil {
		return err
	}
	if s.playerID == "" {
		return domain.ErrPlayerNotFound
	}
	player, ok := c.state.Players[s.playerID]
	if !ok {
		return domain.ErrPlayerNotFound
	}
	if c.state.Phase != domain.PhaseQuestion {
		return domain.ErrWrongPhase
	}
	q := c.state.CurrentQuestion()
	if q == nil {
		return domain.ErrNoCurrentQuestion
	}

	var in playerAnswerPayload
	if err := json.Unmarshal(payload, &in); err != nil {
		return domain.ErrMalformedPayload
	}
	if in.QuestionID != q.ID {
		return domain.ErrNoCurrentQuestion
	}
	if err := domain.ValidateAnswerIndices(in.AnswerIndices); err != nil {
		return err
	}
	if _, already := player.Answers[q.ID]; already {
		return domain.ErrDuplicateAnswer
	}

	player.Answers[q.ID] = domain.PlayerAnswer{
		AnswerIndices: in.AnswerIndices,
		Timestamp:     nowMillis(c.clock),
	}
	if err := c.persist(context.Background()); err != nil {
		return err
	}
	c.broadcast(OutboundMessage{Type: "answer_received", Payload: answerReceivedPayload{PlayerID: player.ID}})

	c.maybeEndQuestionEarly()
	return nil
}

// maybeEndQuestionEarly ends the question early once every currently
// connected player has answered — there is no reason to wait out the clock.
func (c *Coordinator) maybeEndQuestionEarly() {
	if c.state.Phase != domain.PhaseQuestion || c.countdown == nil || c.state.TimerPaused {
		return
	}
	q := c.state.CurrentQuestion()
	if q == nil {
		return
	}

	connected := 0
	for _, id := range c.state.PlayerOrder {
		p := c.state.Players[id]
		if p == nil || !p.Connected {
			continue
		}
		connected++
		if _, answered := p.Answers[q.ID]; !answered {
			return
		}
	}
	if connected == 0 {
		return
	}
	c.endQuestion()
}

func mustMarshal(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("{}")
	}
	return b
}
