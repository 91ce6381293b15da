package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/PabloGalante/therapy-chat/internal/domain"
)

type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderVertex    Provider = "vertex"
	ProviderMock      Provider = "mock"
)

// Config holds the completion options shared by every command.
// The struct tags are interpreted by github.com/jessevdk/go-flags.
type Config struct {
	Provider    string        `long:"provider" env:"THERAPY_PROVIDER" default:"anthropic" choice:"anthropic" choice:"vertex" choice:"mock" description:"completion provider"`
	SecretsFile string        `long:"secrets" env:"THERAPY_SECRETS_FILE" default:"secrets.toml" description:"TOML file holding AnthropicAPIKey"`
	Endpoint    string        `long:"endpoint" env:"THERAPY_ENDPOINT" default:"https://api.anthropic.com/v1/messages" description:"messages endpoint URL"`
	Model       string        `long:"model" env:"THERAPY_MODEL" description:"model identifier (provider default when empty)"`
	Timeout     time.Duration `long:"timeout" env:"THERAPY_TIMEOUT" default:"60s" description:"per-completion timeout, 0 disables"`

	GCPProjectID string `long:"gcp-project" env:"THERAPY_GCP_PROJECT" description:"GCP project (vertex provider)"`
	GCPLocation  string `long:"gcp-location" env:"THERAPY_GCP_LOCATION" default:"us-central1" description:"GCP region (vertex provider)"`

	Debug bool `long:"debug" env:"THERAPY_DEBUG" description:"enable debug logging"`
}

// Validate checks provider-specific requirements.
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}

	switch Provider(c.Provider) {
	case ProviderAnthropic, ProviderMock:
	case ProviderVertex:
		if c.GCPProjectID == "" {
			return domain.NewCompletionError(
				domain.FailureConfiguration,
				errors.New("gcp-project must be set for the vertex provider"),
			)
		}
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	return nil
}

// Secrets is the local secret artifact.
type Secrets struct {
	AnthropicAPIKey string `toml:"AnthropicAPIKey"`
}

// LoadSecrets reads the secret artifact at path. Any failure, including a
// blank key, is reported as domain.ErrConfiguration.
func LoadSecrets(path string) (*Secrets, error) {
	var s Secrets
	if _, err := toml.DecodeFile(path, &s); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewCompletionError(domain.FailureConfiguration, fmt.Errorf("secrets file %s not found", path))
		}
		return nil, domain.NewCompletionError(domain.FailureConfiguration, fmt.Errorf("reading secrets file %s: %w", path, err))
	}

	s.AnthropicAPIKey = strings.TrimSpace(s.AnthropicAPIKey)
	if s.AnthropicAPIKey == "" {
		return nil, domain.NewCompletionError(domain.FailureConfiguration, fmt.Errorf("AnthropicAPIKey missing in %s", path))
	}

	return &s, nil
}
