package coordinator

import (
	"context"
	"encoding/json"
	"time"

	"github.com/leo-ars/cfhoot/internal/domain"
)

func requireHost(s *session) error {
	if !s.isHost {
		return domain.ErrWrongRole
	}
	return nil
}

// handleHostCreateQuiz attaches a quiz to the game. A host may either send
// a quiz inline or, if a prior quiz was authored and cached via
// QuizRepository, reference it by QuizID to avoid resending full
// question/answer content.
func handleHostCreateQuiz(c *Coordinator, s *session, payload json.RawMessage) error {
	if err := requireHost(s); err != nil {
		return err
	}
	var in hostCreateQuizPayload
	if err := json.Unmarshal(payload, &in); err != nil {
		return domain.ErrMalformedPayload
	}

	quiz := in.Quiz
	if quiz.ID == "" && in.QuizID != "" {
		if c.quizRepo == nil {
			return domain.ErrQuizNotFound
		}
		loaded, err := c.quizRepo.GetQuiz(context.Background(), in.QuizID)
		if err != nil {
			return err
		}
		quiz = loaded
	} else if quiz.ID != "" {
		if invalidator, ok := c.quizRepo.(QuizInvalidator); ok {
			_ = invalidator.Invalidate(context.Background(), quiz.ID)
		}
	}
	if err := domain.ValidateQuiz(quiz); err != nil {
		return err
	}

	c.state.Quiz = &quiz
	if err := c.persist(context.Background()); err != nil {
		return err
	}
	c.broadcast(OutboundMessage{Type: "game_state", Payload: gameStatePayload{State: c.state}})
	return nil
}

// handleHostStartGame kicks off the first question after a 3-second
// countdown, once a quiz is attached and at least one player is connected.
func handleHostStartGame(c *Coordinator, s *session, _ json.RawMessage) error {
	if err := requireHost(s); err != nil {
		return err
	}
	if c.state.Quiz == nil || len(c.state.Quiz.Questions) == 0 {
		return domain.ErrInvalidQuiz
	}
	if c.state.ConnectedPlayerCount() == 0 {
		return domain.ErrNoCurrentQuestion
	}

	c.broadcast(OutboundMessage{Type: "game_starting"})
	c.after(3*time.Second, func() { c.startQuestion(0) })
	return nil
}

// handleHostNextQuestion advances from the leaderboard to the next
// question, or to the podium if the quiz is exhausted.
func handleHostNextQuestion(c *Coordinator, s *session, _ json.RawMessage) error {
	if err := requireHost(s); err != nil {
		return err
	}
	if c.state.Phase != domain.PhaseLeaderboard {
		return domain.ErrWrongPhase
	}
	next := c.state.CurrentQuestionIndex + 1
	if next < len(c.state.Quiz.Questions) {
		c.startQuestion(next)
	} else {
		c.showPodium()
	}
	return nil
}

// handleHostShowLeaderboard lets the host force an early leaderboard view.
func handleHostShowLeaderboard(c *Coordinator, s *session, _ json.RawMessage) error {
	if err := requireHost(s); err != nil {
		return err
	}
	c.showLeaderboard()
	return nil
}

// handleHostShowPodium lets the host force the podium sequence early.
func handleHostShowPodium(c *Coordinator, s *session, _ json.RawMessage) error {
	if err := requireHost(s); err != nil {
		return err
	}
	c.showPodium()
	return nil
}
