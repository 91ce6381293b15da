package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/therapy-chat/internal/config"
	"github.com/PabloGalante/therapy-chat/internal/domain"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "secrets.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadSecrets(t *testing.T) {
	path := writeFile(t, `AnthropicAPIKey = "  sk-ant-123  "`)

	s, err := config.LoadSecrets(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-ant-123", s.AnthropicAPIKey)
}

func TestLoadSecretsFailures(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.toml") }},
		{"malformed", func(t *testing.T) string { return writeFile(t, `AnthropicAPIKey = `) }},
		{"blank key", func(t *testing.T) string { return writeFile(t, `AnthropicAPIKey = "   "`) }},
		{"other field", func(t *testing.T) string { return writeFile(t, `OpenAIKey = "sk"`) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := config.LoadSecrets(tt.path(t))
			assert.Nil(t, s)
			assert.ErrorIs(t, err, domain.ErrConfiguration)
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := config.Config{Provider: "vertex", Timeout: time.Second}
	assert.ErrorIs(t, cfg.Validate(), domain.ErrConfiguration)

	cfg.GCPProjectID = "proj"
	assert.NoError(t, cfg.Validate())

	cfg = config.Config{Provider: "mock", Timeout: -time.Second}
	assert.Error(t, cfg.Validate())

	cfg = config.Config{Provider: "carrier-pigeon"}
	assert.Error(t, cfg.Validate())
}
