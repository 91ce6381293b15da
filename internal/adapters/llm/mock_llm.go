package llm

import (
	"context"
	"fmt"

	"github.com/PabloGalante/therapy-chat/internal/domain"
)

// MockLLM is an offline Completer that reflects the last user turn back.
type MockLLM struct{}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

func (m *MockLLM) Complete(_ context.Context, turns []domain.Turn) (string, error) {
	if len(turns) == 0 {
		return "", domain.NewCompletionError(domain.FailureInvalidRequest, fmt.Errorf("no turns to send"))
	}

	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Speaker == domain.SpeakerUser {
			return fmt.Sprintf("I hear you. You said %q. Can you tell me a little more about how that makes you feel?", turns[i].Text), nil
		}
	}
	return "I'm here whenever you're ready to talk.", nil
}
