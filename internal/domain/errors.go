package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrInvalidQuiz indicates a host-authored quiz failed structural validation.
	ErrInvalidQuiz = errors.New("invalid quiz")
	// ErrWrongRole indicates a message arrived from a socket with the wrong role.
	ErrWrongRole = errors.New("message not permitted for this role")
	// ErrWrongPhase indicates a message arrived while the game was in a phase
	// that does not accept it.
	ErrWrongPhase = errors.New("message not permitted in current phase")
	// ErrUnknownMessageType indicates an inbound message's type tag is not recognized.
	ErrUnknownMessageType = errors.New("unknown message type")
	// ErrMalformedPayload indicates an inbound message's payload failed to decode.
	ErrMalformedPayload = errors.New("malformed message payload")
	// ErrNicknameInvalid indicates a nickname failed length validation.
	ErrNicknameInvalid = errors.New("nickname must be 1-50 characters")
	// ErrNicknameTaken indicates a nickname collides case-insensitively with an existing player.
	ErrNicknameTaken = errors.New("nickname already taken")
	// ErrGameFull indicates the player cap (200) has been reached.
	ErrGameFull = errors.New("game is full")
	// ErrPlayerNotFound indicates a rejoin referenced an unknown player id.
	ErrPlayerNotFound = errors.New("player not found")
	// ErrNicknameMismatch indicates a rejoin's nickname didn't match the stored player.
	ErrNicknameMismatch = errors.New("nickname does not match player")
	// ErrDuplicateAnswer indicates the player already answered the current question.
	ErrDuplicateAnswer = errors.New("player already answered this question")
	// ErrInvalidAnswer indicates answerIndices was empty or out of range.
	ErrInvalidAnswer = errors.New("answer indices invalid")
	// ErrNoCurrentQuestion indicates an answer arrived while no question was active.
	ErrNoCurrentQuestion = errors.New("no question is currently active")
	// ErrGameNotFound indicates a persistence store holds no snapshot for a game id.
	ErrGameNotFound = errors.New("game not found")
)
