package coordinator

import (
	"sort"

	"github.com/leo-ars/cfhoot/internal/domain"
)

// scoreAnswer checks exact-set-equality correctness against a question's
// CorrectIndices, with a time-bonus formula that rewards faster correct
// answers without awarding partial credit for partial matches.
func scoreAnswer(question domain.Question, answer domain.PlayerAnswer, questionStartTime int64) (correct bool, points int) {
	if !setsEqual(question.CorrectSet(), answer.AnswerIndices) {
		return false, 0
	}

	timeWindowMillis := int64(question.TimerSeconds) * 1000
	responseTime := answer.Timestamp - questionStartTime
	timeBonus := 1.0 - float64(responseTime)/float64(timeWindowMillis)
	if timeBonus < 0 {
		timeBonus = 0
	}

	maxPoints := question.MaxPoints()
	awarded := int(roundHalfAwayFromZero(float64(maxPoints) * (0.5 + 0.5*timeBonus)))
	return true, awarded
}

// setsEqual compares sizes first, then checks that every given index is in
// correct and appears only once, tracking repeats in a small seen map.
func setsEqual(correct map[int]bool, given []int) bool {
	if len(given) != len(correct) {
		return false
	}
	seen := make(map[int]bool, len(given))
	for _, idx := range given {
		if seen[idx] {
			return false // duplicate index can't match a set of distinct indices
		}
		seen[idx] = true
		if !correct[idx] {
			return false
		}
	}
	return true
}

func roundHalfAwayFromZero(f float64) float64 {
	if f >= 0 {
		return float64(int64(f + 0.5))
	}
	return float64(int64(f - 0.5))
}

// buildLeaderboard ranks every player by descending score, breaking ties by
// arrival order. Go map iteration order is not deterministic, so
// PlayerOrder stands in for "insertion order" rather than relying on range
// over state.Players.
func buildLeaderboard(state *domain.GameState, currentQuestionID string) []domain.LeaderboardEntry {
	entries := make([]domain.LeaderboardEntry, 0, len(state.PlayerOrder))
	orderIndex := make(map[string]int, len(state.PlayerOrder))
	for i, id := range state.PlayerOrder {
		orderIndex[id] = i
	}

	for _, id := range state.PlayerOrder {
		p := state.Players[id]
		if p == nil {
			continue
		}
		lastCorrect := false
		if currentQuestionID != "" {
			if ans, ok := p.Answers[currentQuestionID]; ok {
				if q := findQuestion(state, currentQuestionID); q != nil {
					lastCorrect, _ = scoreAnswer(*q, ans, state.QuestionStartTime)
				}
			}
		}
		entries = append(entries, domain.LeaderboardEntry{
			PlayerID:          p.ID,
			Nickname:          p.Nickname,
			Score:             p.Score,
			LastAnswerCorrect: lastCorrect,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return orderIndex[entries[i].PlayerID] < orderIndex[entries[j].PlayerID]
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

func findQuestion(state *domain.GameState, questionID string) *domain.Question {
	if state.Quiz == nil {
		return nil
	}
	for i := range state.Quiz.Questions {
		if state.Quiz.Questions[i].ID == questionID {
			return &state.Quiz.Questions[i]
		}
	}
	return nil
}
