package llm_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/therapy-chat/internal/adapters/llm"
	"github.com/PabloGalante/therapy-chat/internal/domain"
)

func TestBuildRequestKeepsOrderAndRoles(t *testing.T) {
	turns := []domain.Turn{
		{ID: "1", Speaker: domain.SpeakerAssistant, Text: "Hi"},
		{ID: "2", Speaker: domain.SpeakerUser, Text: "I'm stressed"},
	}

	req, err := llm.BuildRequest(llm.DefaultSettings(), turns)
	require.NoError(t, err)

	assert.Equal(t, []llm.WireMessage{
		{Role: "assistant", Content: "Hi"},
		{Role: "user", Content: "I'm stressed"},
	}, req.Messages)
	assert.Equal(t, llm.DefaultModel, req.Model)
	assert.Equal(t, 2048, req.MaxTokens)
	assert.InDelta(t, 0.7, req.Temperature, 1e-9)
	assert.Contains(t, req.System, "nonjudgmental")
}

func TestBuildRequestWireShape(t *testing.T) {
	turns := []domain.Turn{{ID: "1", Speaker: domain.SpeakerUser, Text: "hello"}}

	req, err := llm.BuildRequest(llm.DefaultSettings(), turns)
	require.NoError(t, err)

	raw, err := json.Marshal(req)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	for _, k := range []string{"model", "max_tokens", "messages", "system", "temperature"} {
		assert.Contains(t, fields, k)
	}
}

func TestBuildRequestDoesNotMutateTurns(t *testing.T) {
	turns := []domain.Turn{{ID: "1", Speaker: domain.SpeakerUser, Text: "hello"}}
	before := append([]domain.Turn(nil), turns...)

	_, err := llm.BuildRequest(llm.DefaultSettings(), turns)
	require.NoError(t, err)
	assert.Equal(t, before, turns)
}

func TestBuildRequestEmptyTurns(t *testing.T) {
	_, err := llm.BuildRequest(llm.DefaultSettings(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestBuildRequestPanicsOnUnknownSpeaker(t *testing.T) {
	turns := []domain.Turn{{ID: "1", Speaker: "narrator", Text: "once upon a time"}}
	assert.Panics(t, func() {
		_, _ = llm.BuildRequest(llm.DefaultSettings(), turns)
	})
}
