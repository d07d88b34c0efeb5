package coordinator

import (
	"testing"

	"github.com/leo-ars/cfhoot/internal/domain"
)

func TestScoreAnswerCorrectFullTimeBonus(t *testing.T) {
	q := domain.Question{TimerSeconds: 10, CorrectIndices: []int{1}}
	answer := domain.PlayerAnswer{AnswerIndices: []int{1}, Timestamp: 0}
	correct, points := scoreAnswer(q, answer, 0)
	if !correct || points != 1000 {
		t.Fatalf("expected full points for instant correct answer, got correct=%v points=%d", correct, points)
	}
}

func TestScoreAnswerCorrectAtDeadlineGetsHalf(t *testing.T) {
	q := domain.Question{TimerSeconds: 10, CorrectIndices: []int{1}}
	answer := domain.PlayerAnswer{AnswerIndices: []int{1}, Timestamp: 10_000}
	correct, points := scoreAnswer(q, answer, 0)
	if !correct || points != 500 {
		t.Fatalf("expected half points at the deadline, got correct=%v points=%d", correct, points)
	}
}

func TestScoreAnswerDoublePoints(t *testing.T) {
	q := domain.Question{TimerSeconds: 10, CorrectIndices: []int{0}, DoublePoints: true}
	answer := domain.PlayerAnswer{AnswerIndices: []int{0}, Timestamp: 0}
	_, points := scoreAnswer(q, answer, 0)
	if points != 2000 {
		t.Fatalf("expected 2000 max points when doublePoints set, got %d", points)
	}
}

func TestScoreAnswerWrongSetNoPoints(t *testing.T) {
	q := domain.Question{TimerSeconds: 10, CorrectIndices: []int{0, 1}}
	answer := domain.PlayerAnswer{AnswerIndices: []int{0}, Timestamp: 0}
	correct, points := scoreAnswer(q, answer, 0)
	if correct || points != 0 {
		t.Fatalf("expected incorrect partial-subset answer to score 0, got correct=%v points=%d", correct, points)
	}
}

func TestSetsEqualRejectsDuplicateIndices(t *testing.T) {
	correct := map[int]bool{0: true, 1: true}
	if setsEqual(correct, []int{0, 0}) {
		t.Fatalf("duplicate indices must not satisfy a 2-element correct set")
	}
}

func TestBuildLeaderboardOrdersByScoreThenArrival(t *testing.T) {
	state := domain.NewGameState("123456")
	state.AddPlayer(&domain.Player{ID: "a", Nickname: "Alice", Score: 100, Answers: map[string]domain.PlayerAnswer{}})
	state.AddPlayer(&domain.Player{ID: "b", Nickname: "Bob", Score: 100, Answers: map[string]domain.PlayerAnswer{}})
	state.AddPlayer(&domain.Player{ID: "c", Nickname: "Carl", Score: 200, Answers: map[string]domain.PlayerAnswer{}})

	board := buildLeaderboard(state, "")
	if len(board) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(board))
	}
	if board[0].PlayerID != "c" {
		t.Fatalf("expected highest score first, got %+v", board[0])
	}
	if board[1].PlayerID != "a" || board[2].PlayerID != "b" {
		t.Fatalf("expected tie broken by arrival order (a before b), got %+v then %+v", board[1], board[2])
	}
	if board[0].Rank != 1 || board[1].Rank != 2 || board[2].Rank != 3 {
		t.Fatalf("expected ranks 1,2,3, got %d,%d,%d", board[0].Rank, board[1].Rank, board[2].Rank)
	}
}
