package domain

import (
	"strings"
	"unicode/utf8"
)

// NormalizeNickname trims surrounding whitespace and lower-cases a nickname
// for case-insensitive comparison.
func NormalizeNickname(nickname string) string {
	return strings.ToLower(strings.TrimSpace(nickname))
}

// ValidateNickname enforces the 1-50 character bound after trimming.
func ValidateNickname(nickname string) (string, error) {
	trimmed := strings.TrimSpace(nickname)
	if n := utf8.RuneCountInString(trimmed); n < 1 || n > 50 {
		return "", ErrNicknameInvalid
	}
	return trimmed, nil
}

// ValidateQuiz enforces the structural rules host_create_quiz requires:
// non-empty title, non-empty question list, and each question having a
// non-empty id/text, exactly four answers, a non-empty correctIndices set
// drawn from {0,1,2,3}, and an allowed timerSeconds value.
func ValidateQuiz(q Quiz) error {
	if strings.TrimSpace(q.Title) == "" {
		return ErrInvalidQuiz
	}
	if len(q.Questions) == 0 {
		return ErrInvalidQuiz
	}
	for _, question := range q.Questions {
		if err := validateQuestion(question); err != nil {
			return err
		}
	}
	return nil
}

func validateQuestion(q Question) error {
	if strings.TrimSpace(q.ID) == "" || strings.TrimSpace(q.Text) == "" {
		return ErrInvalidQuiz
	}
	for _, a := range q.Answers {
		if strings.TrimSpace(a) == "" {
			return ErrInvalidQuiz
		}
	}
	if len(q.CorrectIndices) == 0 {
		return ErrInvalidQuiz
	}
	seen := make(map[int]bool, len(q.CorrectIndices))
	for _, idx := range q.CorrectIndices {
		if idx < 0 || idx > 3 || seen[idx] {
			return ErrInvalidQuiz
		}
		seen[idx] = true
	}
	if !AllowedTimerSeconds[q.TimerSeconds] {
		return ErrInvalidQuiz
	}
	return nil
}

// ValidateAnswerIndices rejects empty sets and any index outside {0,1,2,3}.
func ValidateAnswerIndices(indices []int) error {
	if len(indices) == 0 {
		return ErrInvalidAnswer
	}
	seen := make(map[int]bool, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx > 3 || seen[idx] {
			return ErrInvalidAnswer
		}
		seen[idx] = true
	}
	return nil
}
