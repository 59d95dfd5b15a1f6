package models

import (
	"github.com/google/uuid"
)

// SessionState holds a single exchange. It is built fresh for every user
// utterance and discarded afterwards.
type SessionState struct {
	ID    uuid.UUID `json:"id"`
	Turns []Turn    `json:"turns"`

	GameName        *string            `json:"game_name,omitempty"`
	UserSpecs       map[string]string  `json:"user_specs,omitempty"`
	GameRequirement *RequirementResult `json:"game_requirement,omitempty"`
}

func NewSessionState(userInput string) *SessionState {
	return &SessionState{
		ID:    uuid.New(),
		Turns: []Turn{NewUserTurn(userInput)},
	}
}

func (s *SessionState) Append(t Turn) {
	s.Turns = append(s.Turns, t)
}

// Last returns the latest turn, or false when the sequence is empty.
func (s *SessionState) Last() (Turn, bool) {
	if len(s.Turns) == 0 {
		return Turn{}, false
	}
	return s.Turns[len(s.Turns)-1], true
}
