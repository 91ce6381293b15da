package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PabloGalante/therapy-chat/internal/domain"
	"github.com/PabloGalante/therapy-chat/internal/observability"
)

const (
	DefaultEndpoint = "https://api.anthropic.com/v1/messages"
	APIVersion      = "2023-06-01"

	// MaxResponseSize bounds how much of a reply body is read.
	MaxResponseSize = 10 * 1024 * 1024
)

// MessagesResponse is the decoded reply of the messages endpoint.
type MessagesResponse struct {
	ID      string         `json:"id"`
	Model   string         `json:"model"`
	Role    string         `json:"role"`
	Content []ContentBlock `json:"content"`
}

type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// apiErrorResponse is the body returned alongside non-2xx statuses.
type apiErrorResponse struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// AnthropicClient implements domain.Completer over the Anthropic messages API.
// Each Complete call is one POST; nothing is retried.
type AnthropicClient struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	settings   Settings
}

// NewAnthropicClient fails with domain.ErrConfiguration when apiKey is blank,
// before any network activity.
func NewAnthropicClient(apiKey string) (*AnthropicClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, domain.NewCompletionError(
			domain.FailureConfiguration,
			errors.New("anthropic API key not configured"),
		)
	}

	return &AnthropicClient{
		apiKey:     apiKey,
		endpoint:   DefaultEndpoint,
		httpClient: &http.Client{},
		settings:   DefaultSettings(),
	}, nil
}

// WithEndpoint points the client at a different messages URL.
func (c *AnthropicClient) WithEndpoint(endpoint string) *AnthropicClient {
	c.endpoint = endpoint
	return c
}

// WithHTTPClient replaces the transport. The client is reused across calls.
func (c *AnthropicClient) WithHTTPClient(hc *http.Client) *AnthropicClient {
	c.httpClient = hc
	return c
}

func (c *AnthropicClient) WithSettings(s Settings) *AnthropicClient {
	c.settings = s
	return c
}

func (c *AnthropicClient) Settings() Settings {
	return c.settings
}

// Complete implements domain.Completer.
func (c *AnthropicClient) Complete(ctx context.Context, turns []domain.Turn) (string, error) {
	log := observability.LoggerFromContext(ctx).With(
		"provider", "anthropic",
		"model", c.settings.Model,
	)

	reqBody, err := BuildRequest(c.settings, turns)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", domain.NewCompletionError(domain.FailureInvalidRequest, fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", domain.NewCompletionError(domain.FailureInvalidRequest, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("anthropic-version", APIVersion)
	req.Header.Set("x-api-key", c.apiKey)

	log.Debug("sending completion request", "messages", len(reqBody.Messages))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("completion request failed", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return "", domain.NewCompletionError(domain.FailureTransport, err)
	}
	defer resp.Body.Close()

	log.Info("completion response",
		"status", resp.StatusCode,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	body, err := readResponse(resp)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", statusError(resp.StatusCode, body)
	}

	return parseResponse(body)
}

// readResponse reads at most MaxResponseSize bytes of the body.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, domain.NewCompletionError(domain.FailureTransport, fmt.Errorf("read response: %w", err))
	}
	if len(body) > MaxResponseSize {
		return nil, domain.NewCompletionError(
			domain.FailureParsing,
			fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize),
		)
	}
	return body, nil
}

func statusError(status int, body []byte) error {
	cause := errors.New(http.StatusText(status))

	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		cause = fmt.Errorf("%s: %s", apiErr.Error.Type, apiErr.Error.Message)
	}

	return &domain.CompletionError{
		Kind:       domain.FailureInvalidResponse,
		StatusCode: status,
		Err:        cause,
	}
}

// parseResponse extracts content[0].text from a successful reply.
func parseResponse(body []byte) (string, error) {
	var decoded MessagesResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", domain.NewCompletionError(domain.FailureParsing, fmt.Errorf("decode response: %w", err))
	}

	if len(decoded.Content) == 0 {
		return "", domain.NewCompletionError(domain.FailureInvalidResponse, errors.New("response has no content"))
	}
	text := decoded.Content[0].Text
	if text == "" {
		return "", domain.NewCompletionError(domain.FailureInvalidResponse, errors.New("response content has no text"))
	}

	return text, nil
}
