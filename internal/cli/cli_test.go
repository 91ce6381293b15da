package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/peterh/liner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/therapy-chat/internal/adapters/llm"
	"github.com/PabloGalante/therapy-chat/internal/adapters/storage/memory"
	"github.com/PabloGalante/therapy-chat/internal/app/conversation"
	"github.com/PabloGalante/therapy-chat/internal/config"
	"github.com/PabloGalante/therapy-chat/internal/domain"
)

type scriptedReader struct {
	lines   []string
	end     error
	history []string
}

func (r *scriptedReader) Prompt(string) (string, error) {
	if len(r.lines) == 0 {
		return "", r.end
	}
	next := r.lines[0]
	r.lines = r.lines[1:]
	return next, nil
}

func (r *scriptedReader) AppendHistory(item string) {
	r.history = append(r.history, item)
}

func newChatService(t *testing.T) (*conversation.Service, *memory.Session) {
	t.Helper()
	session := memory.NewSession()
	svc := conversation.NewService(llm.NewMockLLM(), session)
	require.NoError(t, svc.StartSession(context.Background()))
	return svc, session
}

func TestChatLoopSendsEachLine(t *testing.T) {
	svc, session := newChatService(t)
	in := &scriptedReader{lines: []string{"I'm stressed", "   ", "thanks"}, end: io.EOF}
	var out bytes.Buffer

	require.NoError(t, chatLoop(context.Background(), svc, in, &out))

	assert.Contains(t, out.String(), therapistPrefix+conversation.Greeting)
	assert.Contains(t, out.String(), `"I'm stressed"`)
	assert.Equal(t, []string{"I'm stressed", "thanks"}, in.history)
	assert.Equal(t, 5, session.Len())
}

func TestChatLoopCommands(t *testing.T) {
	svc, session := newChatService(t)
	in := &scriptedReader{lines: []string{"/suggest", "/quit", "never sent"}}
	var out bytes.Buffer

	require.NoError(t, chatLoop(context.Background(), svc, in, &out))

	assert.Contains(t, out.String(), "1. I'm feeling stressed")
	assert.Equal(t, 1, session.Len())
}

func TestChatLoopCtrlC(t *testing.T) {
	svc, _ := newChatService(t)
	in := &scriptedReader{end: liner.ErrPromptAborted}

	assert.NoError(t, chatLoop(context.Background(), svc, in, io.Discard))
}

func TestNewCompleterMock(t *testing.T) {
	c, err := NewCompleter(context.Background(), &config.Config{Provider: "mock"})
	require.NoError(t, err)
	assert.IsType(t, &llm.MockLLM{}, c)
}

func TestNewCompleterAnthropicNeedsSecrets(t *testing.T) {
	cfg := &config.Config{
		Provider:    "anthropic",
		SecretsFile: filepath.Join(t.TempDir(), "missing.toml"),
	}

	c, err := NewCompleter(context.Background(), cfg)
	assert.Nil(t, c)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestNewCompleterAnthropic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.toml")
	require.NoError(t, os.WriteFile(path, []byte(`AnthropicAPIKey = "sk-ant-test"`), 0o600))

	c, err := NewCompleter(context.Background(), &config.Config{
		Provider:    "anthropic",
		SecretsFile: path,
		Endpoint:    llm.DefaultEndpoint,
		Model:       "claude-test",
	})
	require.NoError(t, err)

	client, ok := c.(*llm.AnthropicClient)
	require.True(t, ok)
	assert.Equal(t, "claude-test", client.Settings().Model)
}

func TestRunRejectsMissingSecretsBeforeChatting(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.toml")

	err := Run(context.Background(), []string{"--secrets", missing, "chat"})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestRunHelp(t *testing.T) {
	assert.NoError(t, Run(context.Background(), []string{"--help"}))
}

func TestRunUnknownProvider(t *testing.T) {
	assert.Error(t, Run(context.Background(), []string{"--provider", "pigeon", "chat"}))
}
