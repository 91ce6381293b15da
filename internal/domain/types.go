package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

type TurnID string

// Speaker is the closed set of conversation participants.
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

func (s Speaker) Valid() bool {
	return s == SpeakerUser || s == SpeakerAssistant
}

var (
	ErrInvalidSpeaker = errors.New("domain: invalid speaker")
	ErrEmptyText      = errors.New("domain: empty turn text")
)

// Turn is one utterance in the conversation. Turns are never mutated once created.
type Turn struct {
	ID      TurnID
	Speaker Speaker
	Text    string
}

// NewTurn builds a Turn with a fresh identifier.
func NewTurn(speaker Speaker, text string) (Turn, error) {
	if !speaker.Valid() {
		return Turn{}, ErrInvalidSpeaker
	}
	if strings.TrimSpace(text) == "" {
		return Turn{}, ErrEmptyText
	}
	return Turn{
		ID:      TurnID(uuid.NewString()),
		Speaker: speaker,
		Text:    text,
	}, nil
}
