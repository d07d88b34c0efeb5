package coordinator

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/leo-ars/cfhoot/internal/domain"
	"github.com/leo-ars/cfhoot/internal/infra/memory"
)

type fakeQuizRepo struct {
	quizzes     map[string]domain.Quiz
	invalidated []string
}

func (r *fakeQuizRepo) GetQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	quiz, ok := r.quizzes[quizID]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return quiz, nil
}

func (r *fakeQuizRepo) Invalidate(_ context.Context, quizID string) error {
	r.invalidated = append(r.invalidated, quizID)
	return nil
}

func sampleStoredQuiz() domain.Quiz {
	return domain.Quiz{
		ID:    "quiz-1",
		Title: "Capitals",
		Questions: []domain.Question{
			{
				ID:             "q1",
				Text:           "Capital of Japan?",
				Answers:        [4]string{"Tokyo", "Osaka", "Kyoto", "Nagoya"},
				CorrectIndices: []int{0},
				TimerSeconds:   20,
			},
		},
	}
}

func TestHostCreateQuizByIDLoadsFromRepository(t *testing.T) {
	store := memory.NewStore()
	clock := NewRealClock()
	repo := &fakeQuizRepo{quizzes: map[string]domain.Quiz{"quiz-1": sampleStoredQuiz()}}

	c, err := New(context.Background(), "game-quiz-1", store, clock, testLogger(), nil, "", repo)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer c.Stop()

	host := &fakeConn{}
	c.Admit("host-sess", true, host)
	flush(c)

	raw, _ := json.Marshal(hostCreateQuizPayload{QuizID: "quiz-1"})
	c.HandleMessage("host-sess", envelope(t, "host_create_quiz", raw))
	flush(c)

	if host.last("error").Type == "error" {
		t.Fatalf("unexpected error response: %+v", host.last("error"))
	}
	payload := host.last("game_state")
	if payload.Type != "game_state" {
		t.Fatalf("expected a game_state broadcast after loading the quiz")
	}
	state := payload.Payload.(gameStatePayload)
	if state.State.Quiz == nil || state.State.Quiz.Title != "Capitals" {
		t.Fatalf("expected the repository's quiz to be attached, got %+v", state.State.Quiz)
	}
}

func TestHostCreateQuizByUnknownIDReturnsError(t *testing.T) {
	store := memory.NewStore()
	clock := NewRealClock()
	repo := &fakeQuizRepo{quizzes: map[string]domain.Quiz{}}

	c, err := New(context.Background(), "game-quiz-2", store, clock, testLogger(), nil, "", repo)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer c.Stop()

	host := &fakeConn{}
	c.Admit("host-sess", true, host)
	flush(c)

	raw, _ := json.Marshal(hostCreateQuizPayload{QuizID: "missing"})
	c.HandleMessage("host-sess", envelope(t, "host_create_quiz", raw))
	flush(c)

	if host.last("error").Type != "error" {
		t.Fatalf("expected an error response for an unknown quiz id")
	}
}

func TestHostResendingInlineQuizInvalidatesCachedCopy(t *testing.T) {
	store := memory.NewStore()
	clock := NewRealClock()
	repo := &fakeQuizRepo{quizzes: map[string]domain.Quiz{"quiz-1": sampleStoredQuiz()}}

	c, err := New(context.Background(), "game-quiz-3", store, clock, testLogger(), nil, "", repo)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer c.Stop()

	host := &fakeConn{}
	c.Admit("host-sess", true, host)
	flush(c)

	edited := sampleStoredQuiz()
	edited.Title = "Capitals (revised)"
	raw, _ := json.Marshal(hostCreateQuizPayload{Quiz: edited})
	c.HandleMessage("host-sess", envelope(t, "host_create_quiz", raw))
	flush(c)

	if host.last("error").Type == "error" {
		t.Fatalf("unexpected error response: %+v", host.last("error"))
	}
	if len(repo.invalidated) != 1 || repo.invalidated[0] != "quiz-1" {
		t.Fatalf("expected cache invalidation for quiz-1, got %v", repo.invalidated)
	}
}

func envelope(t *testing.T, msgType string, payload json.RawMessage) []byte {
	t.Helper()
	raw, err := json.Marshal(inboundMessage{Type: msgType, Payload: payload})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return raw
}
