package llm

import (
	"fmt"

	"github.com/PabloGalante/therapy-chat/internal/domain"
)

const (
	DefaultModel       = "claude-3-5-sonnet-20241022"
	DefaultMaxTokens   = 2048
	DefaultTemperature = 0.7
)

const systemPrompt = "You are a helpful and empathetic virtual therapist. " +
	"Your goal is to provide emotional support and mental health guidance to users. " +
	"Always respond in a thoughtful, compassionate, and nonjudgmental manner."

// Settings is the fixed configuration attached to every completion request.
type Settings struct {
	Model       string
	System      string
	MaxTokens   int
	Temperature float64
}

// DefaultSettings returns the therapist persona with moderate sampling.
func DefaultSettings() Settings {
	return Settings{
		Model:       DefaultModel,
		System:      systemPrompt,
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
	}
}

// MessagesRequest is the body POSTed to the messages endpoint.
type MessagesRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Messages    []WireMessage `json:"messages"`
	System      string        `json:"system"`
	Temperature float64       `json:"temperature"`
}

type WireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// BuildRequest maps the conversation onto a request, keeping turn order exactly.
func BuildRequest(settings Settings, turns []domain.Turn) (MessagesRequest, error) {
	if len(turns) == 0 {
		return MessagesRequest{}, domain.NewCompletionError(
			domain.FailureInvalidRequest,
			fmt.Errorf("no turns to send"),
		)
	}

	msgs := make([]WireMessage, 0, len(turns))
	for _, t := range turns {
		msgs = append(msgs, WireMessage{
			Role:    wireRole(t.Speaker),
			Content: t.Text,
		})
	}

	return MessagesRequest{
		Model:       settings.Model,
		MaxTokens:   settings.MaxTokens,
		Messages:    msgs,
		System:      settings.System,
		Temperature: settings.Temperature,
	}, nil
}

// wireRole panics on an unknown speaker: Turn construction already rejects them.
func wireRole(s domain.Speaker) string {
	switch s {
	case domain.SpeakerAssistant:
		return "assistant"
	case domain.SpeakerUser:
		return "user"
	}
	panic(fmt.Sprintf("llm: unmapped speaker %q", string(s)))
}
