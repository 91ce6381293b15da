package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/PabloGalante/therapy-chat/internal/domain"
	"github.com/PabloGalante/therapy-chat/internal/observability"
)

const DefaultVertexModel = "gemini-2.5-flash"

// VertexConfig selects the GCP project and region hosting the model.
type VertexConfig struct {
	ProjectID string
	Location  string
	Model     string
}

type VertexClient struct {
	client   *genai.Client
	settings Settings
}

// NewVertexClient creates a Completer based on Vertex AI (Gemini).
// Project and location are required; the credentials come from ADC.
func NewVertexClient(ctx context.Context, cfg VertexConfig) (*VertexClient, error) {
	if cfg.ProjectID == "" || cfg.Location == "" {
		return nil, domain.NewCompletionError(
			domain.FailureConfiguration,
			errors.New("vertex project and location must be set"),
		)
	}

	settings := DefaultSettings()
	settings.Model = cfg.Model
	if settings.Model == "" {
		settings.Model = DefaultVertexModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  cfg.ProjectID,
		Location: cfg.Location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, domain.NewCompletionError(domain.FailureConfiguration, fmt.Errorf("creating Vertex AI client: %w", err))
	}

	return &VertexClient{
		client:   client,
		settings: settings,
	}, nil
}

// Complete implements domain.Completer using Vertex AI.
func (v *VertexClient) Complete(ctx context.Context, turns []domain.Turn) (string, error) {
	if len(turns) == 0 {
		return "", domain.NewCompletionError(domain.FailureInvalidRequest, errors.New("no turns to send"))
	}

	contents := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		contents = append(contents, genai.NewContentFromText(t.Text, vertexRole(t.Speaker)))
	}

	temp := float32(v.settings.Temperature)
	cfg := &genai.GenerateContentConfig{
		// The SDK examples pass the system instruction with the user role.
		SystemInstruction: genai.NewContentFromText(v.settings.System, genai.RoleUser),
		Temperature:       &temp,
		MaxOutputTokens:   int32(v.settings.MaxTokens),
	}

	log := observability.LoggerFromContext(ctx).With("provider", "vertex", "model", v.settings.Model)

	res, err := v.client.Models.GenerateContent(ctx, v.settings.Model, contents, cfg)
	if err != nil {
		log.Error("vertex generate content failed", "error", err)
		return "", domain.NewCompletionError(domain.FailureTransport, fmt.Errorf("vertex generate content: %w", err))
	}

	text := res.Text()
	if text == "" {
		return "", domain.NewCompletionError(domain.FailureInvalidResponse, errors.New("vertex returned empty text"))
	}

	return text, nil
}

func vertexRole(s domain.Speaker) genai.Role {
	switch s {
	case domain.SpeakerAssistant:
		return genai.RoleModel
	case domain.SpeakerUser:
		return genai.RoleUser
	}
	panic(fmt.Sprintf("llm: unmapped speaker %q", string(s)))
}
