package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/PabloGalante/therapy-chat/internal/adapters/llm"
	"github.com/PabloGalante/therapy-chat/internal/config"
	"github.com/PabloGalante/therapy-chat/internal/domain"
	"github.com/PabloGalante/therapy-chat/internal/observability"
)

// Options is the root command. The struct tags are interpreted by
// github.com/jessevdk/go-flags.
type Options struct {
	config.Config `group:"Completion options"`

	Serve ServeCmd `command:"serve" description:"Serve the conversation over HTTP"`
	Chat  ChatCmd  `command:"chat" description:"Chat with the therapist in the terminal"`
}

// Run parses args and executes the selected command.
func Run(ctx context.Context, args []string) error {
	opts := &Options{}
	parser := flags.NewParser(opts, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil
		}
		return err
	}

	if err := opts.Config.Validate(); err != nil {
		return err
	}

	switch parser.Active.Name {
	case "serve":
		observability.Configure(os.Stdout, logLevel(opts.Debug, slog.LevelInfo))
		return opts.Serve.run(ctx, &opts.Config)
	case "chat":
		observability.Configure(os.Stderr, logLevel(opts.Debug, slog.LevelWarn))
		return opts.Chat.run(ctx, &opts.Config)
	}
	return fmt.Errorf("unknown command %q", parser.Active.Name)
}

func logLevel(debug bool, def slog.Level) slog.Level {
	if debug {
		return slog.LevelDebug
	}
	return def
}

// NewCompleter builds the provider selected by cfg. A missing credential is
// reported before any network call is made.
func NewCompleter(ctx context.Context, cfg *config.Config) (domain.Completer, error) {
	log := observability.Logger()

	switch config.Provider(cfg.Provider) {
	case config.ProviderMock:
		log.Info("using mock completion provider")
		return llm.NewMockLLM(), nil

	case config.ProviderVertex:
		log.Info("using vertex completion provider", "project", cfg.GCPProjectID, "location", cfg.GCPLocation)
		return llm.NewVertexClient(ctx, llm.VertexConfig{
			ProjectID: cfg.GCPProjectID,
			Location:  cfg.GCPLocation,
			Model:     cfg.Model,
		})

	case config.ProviderAnthropic:
		secrets, err := config.LoadSecrets(cfg.SecretsFile)
		if err != nil {
			return nil, err
		}
		client, err := llm.NewAnthropicClient(secrets.AnthropicAPIKey)
		if err != nil {
			return nil, err
		}
		client.WithEndpoint(cfg.Endpoint)
		if cfg.Model != "" {
			settings := client.Settings()
			settings.Model = cfg.Model
			client.WithSettings(settings)
		}
		log.Info("using anthropic completion provider", "model", client.Settings().Model)
		return client, nil
	}

	return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
}
