package coordinator

import (
	"encoding/json"

	"github.com/leo-ars/cfhoot/internal/domain"
)

// inboundMessage is the tagged-union envelope every client message arrives
// in: a type tag plus a raw payload decoded only once the dispatch table
// has resolved which concrete payload shape to expect.
type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// OutboundMessage is the tagged-union envelope every server message leaves
// in.
type OutboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

func errorMessage(message string) OutboundMessage {
	return OutboundMessage{Type: "error", Payload: errorPayload{Message: message}}
}

type errorPayload struct {
	Message string `json:"message"`
}

// Inbound payloads, keyed by message type.

type hostCreateQuizPayload struct {
	Quiz   domain.Quiz `json:"quiz"`
	QuizID string      `json:"quizId,omitempty"`
}

type playerJoinPayload struct {
	Nickname string `json:"nickname"`
}

type playerRejoinPayload struct {
	PlayerID string `json:"playerId"`
	Nickname string `json:"nickname"`
}

type playerAnswerPayload struct {
	QuestionID    string `json:"questionId"`
	AnswerIndices []int  `json:"answerIndices"`
}

// Outbound payloads.

// wireQuestion is the question shape sent over the wire. It never includes
// correctIndices; imageUrl is populated only for host recipients.
type wireQuestion struct {
	ID              string    `json:"id"`
	Text            string    `json:"text"`
	ImageURL        string    `json:"imageUrl,omitempty"`
	Answers         [4]string `json:"answers"`
	TimerSeconds    int       `json:"timerSeconds"`
	DoublePoints    bool      `json:"doublePoints"`
	MultipleChoice  bool      `json:"multipleChoice"`
}

func toWireQuestion(q domain.Question, isHost bool) wireQuestion {
	wq := wireQuestion{
		ID:             q.ID,
		Text:           q.Text,
		Answers:        q.Answers,
		TimerSeconds:   q.TimerSeconds,
		DoublePoints:   q.DoublePoints,
		MultipleChoice: q.MultipleChoice(),
	}
	if isHost {
		wq.ImageURL = q.ImageURL
	}
	return wq
}

type gameStatePayload struct {
	State *domain.GameState `json:"state"`
}

type playerJoinedPayload struct {
	Player      *domain.Player `json:"player"`
	PlayerCount int            `json:"playerCount"`
}

type playerLeftPayload struct {
	PlayerID    string `json:"playerId"`
	PlayerCount int    `json:"playerCount"`
}

type questionStartPayload struct {
	Question       wireQuestion `json:"question"`
	QuestionIndex  int          `json:"questionIndex"`
	TotalQuestions int          `json:"totalQuestions"`
}

type timerTickPayload struct {
	SecondsLeft int `json:"secondsLeft"`
}

type answerReceivedPayload struct {
	PlayerID string `json:"playerId"`
}

type questionEndPayload struct {
	CorrectIndices []int                      `json:"correctIndices"`
	Scores         []domain.LeaderboardEntry `json:"scores"`
}

type leaderboardUpdatePayload struct {
	Leaderboard []domain.LeaderboardEntry `json:"leaderboard"`
}

type podiumRevealPayload struct {
	Position int                     `json:"position"`
	Player   *domain.LeaderboardEntry `json:"player"`
}

type gameFinishedPayload struct {
	FinalLeaderboard []domain.LeaderboardEntry `json:"finalLeaderboard"`
}

type gamePausedPayload struct {
	Reason string `json:"reason"`
}
