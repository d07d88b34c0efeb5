package coordinator

import "github.com/leo-ars/cfhoot/internal/domain"

// sendCatchUp sends whatever phase-specific messages let the client render
// the correct screen without replaying history. The caller sends
// game_state first; this function does not send it.
func (c *Coordinator) sendCatchUp(conn Connection, isHost bool) {
	c.phaseCatchUp(conn, isHost)
}

// phaseCatchUp is the phase-specific half of the catch-up sequence, shared
// between fresh admission (Admit) and player_rejoin, both of which already
// sent game_state separately.
func (c *Coordinator) phaseCatchUp(conn Connection, isHost bool) {
	switch c.state.Phase {
	case domain.PhaseQuestion:
		q := c.state.CurrentQuestion()
		if q == nil {
			return
		}
		conn.Send(OutboundMessage{Type: "question_start", Payload: questionStartPayload{
			Question:       toWireQuestion(*q, isHost),
			QuestionIndex:  c.state.CurrentQuestionIndex,
			TotalQuestions: len(c.state.Quiz.Questions),
		}})
		conn.Send(OutboundMessage{Type: "timer_tick", Payload: timerTickPayload{
			SecondsLeft: c.currentSecondsLeftForCatchUp(),
		}})
		c.restartCountdownAfterEviction()

	case domain.PhaseLeaderboard:
		conn.Send(OutboundMessage{Type: "leaderboard_update", Payload: leaderboardUpdatePayload{
			Leaderboard: buildLeaderboard(c.state, ""),
		}})

	case domain.PhasePodium, domain.PhaseFinished:
		leaderboard := buildLeaderboard(c.state, "")
		for _, position := range []int{3, 2, 1} {
			conn.Send(OutboundMessage{Type: "podium_reveal", Payload: podiumRevealPayload{
				Position: position,
				Player:   leaderboardEntryAt(leaderboard, position),
			}})
		}
		if c.state.Phase == domain.PhaseFinished {
			conn.Send(OutboundMessage{Type: "game_finished", Payload: gameFinishedPayload{FinalLeaderboard: leaderboard}})
		}
	}
}
