package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/PabloGalante/therapy-chat/internal/adapters/storage/memory"
	"github.com/PabloGalante/therapy-chat/internal/app/conversation"
	"github.com/PabloGalante/therapy-chat/internal/config"
)

const (
	userPrompt      = "you> "
	therapistPrefix = "therapist> "
)

type ChatCmd struct{}

// lineReader is the part of liner.State the chat loop needs.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

func (c *ChatCmd) run(ctx context.Context, cfg *config.Config) error {
	completer, err := NewCompleter(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing completion provider: %w", err)
	}

	svc := conversation.NewService(completer, memory.NewSession()).WithTimeout(cfg.Timeout)
	if err := svc.StartSession(ctx); err != nil {
		return err
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	return chatLoop(ctx, svc, line, os.Stdout)
}

// chatLoop prints the conversation so far, then sends each line the user enters
// until EOF, Ctrl-C, or /quit.
func chatLoop(ctx context.Context, svc *conversation.Service, in lineReader, out io.Writer) error {
	turns, _ := svc.Timeline()
	for _, t := range turns {
		fmt.Fprintln(out, therapistPrefix+t.Text)
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		input, err := in.Prompt(userPrompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		in.AppendHistory(input)

		switch input {
		case "/quit", "/exit":
			return nil
		case "/suggest":
			for i, s := range svc.Suggestions() {
				fmt.Fprintf(out, "  %d. %s\n", i+1, s)
			}
			continue
		}

		res, err := svc.SendMessage(ctx, input)
		if err != nil {
			fmt.Fprintf(out, "cannot send: %v\n", err)
			continue
		}
		fmt.Fprintln(out, therapistPrefix+res.ReplyTurn.Text)
	}
}
