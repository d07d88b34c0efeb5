package coordinator

import (
	"context"
	"time"

	"github.com/leo-ars/cfhoot/internal/domain"
)

// startQuestion moves to the question phase, persists, fans out
// question_start (host variant includes imageUrl, players don't), and
// starts the countdown.
func (c *Coordinator) startQuestion(index int) {
	q := &c.state.Quiz.Questions[index]
	c.state.Phase = domain.PhaseQuestion
	c.questionEnding = false
	c.state.CurrentQuestionIndex = index
	c.state.QuestionStartTime = nowMillis(c.clock)
	c.state.TimerPaused = false
	c.state.PausedAtSecondsLeft = 0

	if err := c.persist(context.Background()); err != nil {
		return
	}

	total := len(c.state.Quiz.Questions)
	c.sendQuestionStartPerRole(*q, index, total)
	c.startCountdown(q.TimerSeconds)
}

func (c *Coordinator) sendQuestionStartPerRole(q domain.Question, index, total int) {
	for _, s := range c.registry.hostSessions() {
		s.conn.Send(OutboundMessage{Type: "question_start", Payload: questionStartPayload{
			Question:       toWireQuestion(q, true),
			QuestionIndex:  index,
			TotalQuestions: total,
		}})
	}
	playerPayload := questionStartPayload{
		Question:       toWireQuestion(q, false),
		QuestionIndex:  index,
		TotalQuestions: total,
	}
	for _, s := range c.registry.nonHostSessions() {
		s.conn.Send(OutboundMessage{Type: "question_start", Payload: playerPayload})
	}
}

// endQuestion is idempotent via the questionEnding guard: it scores the
// question, persists, broadcasts question_end, and schedules the next
// phase 3 seconds out. The guard stays set until startQuestion clears it,
// so a second call while the phase is still question is a no-op.
func (c *Coordinator) endQuestion() {
	if c.state.Phase != domain.PhaseQuestion || c.questionEnding {
		return
	}
	c.questionEnding = true

	c.cancelCountdown()

	q := c.state.CurrentQuestion()
	if q == nil {
		return
	}
	for _, playerID := range c.state.PlayerOrder {
		p := c.state.Players[playerID]
		if p == nil {
			continue
		}
		answer, ok := p.Answers[q.ID]
		if !ok {
			continue
		}
		if correct, points := scoreAnswer(*q, answer, c.state.QuestionStartTime); correct {
			p.Score += points
		}
	}

	if err := c.persist(context.Background()); err != nil {
		return
	}

	leaderboard := buildLeaderboard(c.state, q.ID)
	c.broadcast(OutboundMessage{Type: "question_end", Payload: questionEndPayload{
		CorrectIndices: q.CorrectIndices,
		Scores:         leaderboard,
	}})

	if c.state.CurrentQuestionIndex == len(c.state.Quiz.Questions)-1 {
		c.after(3*time.Second, c.showPodium)
	} else {
		c.after(3*time.Second, c.showLeaderboard)
	}
}

// showLeaderboard moves to the leaderboard phase and broadcasts it.
func (c *Coordinator) showLeaderboard() {
	c.state.Phase = domain.PhaseLeaderboard
	if err := c.persist(context.Background()); err != nil {
		return
	}
	c.broadcast(OutboundMessage{Type: "leaderboard_update", Payload: leaderboardUpdatePayload{
		Leaderboard: buildLeaderboard(c.state, ""),
	}})
}

// showPodium persists the podium phase immediately, then schedules the
// three reveals at +1s/+3s/+5s. Each reveal re-checks the phase at delivery
// time so a delayed transition that fires after the game has moved on (or
// been evicted and restarted) is a no-op instead of a stale broadcast.
func (c *Coordinator) showPodium() {
	c.state.Phase = domain.PhasePodium
	if err := c.persist(context.Background()); err != nil {
		return
	}

	leaderboard := buildLeaderboard(c.state, "")
	c.after(1*time.Second, func() { c.revealPodiumPosition(leaderboard, 3) })
	c.after(3*time.Second, func() { c.revealPodiumPosition(leaderboard, 2) })
	c.after(5*time.Second, func() { c.finishPodium(leaderboard) })
}

func (c *Coordinator) revealPodiumPosition(leaderboard []domain.LeaderboardEntry, position int) {
	if c.state.Phase != domain.PhasePodium {
		return
	}
	c.broadcast(OutboundMessage{Type: "podium_reveal", Payload: podiumRevealPayload{
		Position: position,
		Player:   leaderboardEntryAt(leaderboard, position),
	}})
}

func (c *Coordinator) finishPodium(leaderboard []domain.LeaderboardEntry) {
	if c.state.Phase != domain.PhasePodium {
		return
	}
	c.broadcast(OutboundMessage{Type: "podium_reveal", Payload: podiumRevealPayload{
		Position: 1,
		Player:   leaderboardEntryAt(leaderboard, 1),
	}})
	c.state.Phase = domain.PhaseFinished
	if err := c.persist(context.Background()); err != nil {
		return
	}
	c.broadcast(OutboundMessage{Type: "game_finished", Payload: gameFinishedPayload{FinalLeaderboard: leaderboard}})
}

// leaderboardEntryAt returns the entry at 1-based rank, or nil if fewer
// players exist than that rank.
func leaderboardEntryAt(leaderboard []domain.LeaderboardEntry, rank int) *domain.LeaderboardEntry {
	if rank < 1 || rank > len(leaderboard) {
		return nil
	}
	e := leaderboard[rank-1]
	return &e
}
