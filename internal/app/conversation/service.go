package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PabloGalante/therapy-chat/internal/domain"
	"github.com/PabloGalante/therapy-chat/internal/observability"
)

const (
	Greeting        = "Hi! I'm here to help. How are you feeling today?"
	apologyTemplate = "I'm sorry, something went wrong: %s"
)

var suggestions = []string{
	"I'm feeling stressed",
	"Can you give me advice?",
	"How can I handle anxiety?",
	"What is mindfulness?",
}

var ErrEmptyMessage = errors.New("conversation: message text is empty")

// Service drives one conversation: it owns the order in which turns reach the
// session and guarantees the send flag is cleared on every exit path.
type Service struct {
	completer domain.Completer
	session   domain.SessionStore
	timeout   time.Duration
}

func NewService(completer domain.Completer, session domain.SessionStore) *Service {
	return &Service{
		completer: completer,
		session:   session,
	}
}

// WithTimeout bounds each completion. Zero means no bound.
func (s *Service) WithTimeout(d time.Duration) *Service {
	s.timeout = d
	return s
}

// StartSession seeds an empty session with the assistant greeting.
func (s *Service) StartSession(ctx context.Context) error {
	if s.session.Len() > 0 {
		return nil
	}

	greeting, err := domain.NewTurn(domain.SpeakerAssistant, Greeting)
	if err != nil {
		return err
	}
	if err := s.session.AppendTurn(greeting); err != nil {
		return fmt.Errorf("append greeting: %w", err)
	}

	observability.LoggerFromContext(ctx).Info("session started", "turn_id", greeting.ID)
	return nil
}

type SendMessageOutput struct {
	UserTurn  domain.Turn
	ReplyTurn domain.Turn
	// Err is the completion failure that ReplyTurn apologises for, if any.
	Err error
}

func (o *SendMessageOutput) Failed() bool {
	return o.Err != nil
}

// SendMessage appends the user's text, runs one completion over the whole
// history and appends exactly one assistant turn: the reply, or an apology
// describing the failure. Completion failures are reported through
// SendMessageOutput.Err; the returned error covers only rejected sends.
func (s *Service) SendMessage(ctx context.Context, text string) (*SendMessageOutput, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	log := observability.LoggerFromContext(ctx)

	if err := s.session.BeginSend(); err != nil {
		log.Warn("send rejected", "error", err)
		return nil, err
	}
	defer s.session.EndSend()

	userTurn, err := domain.NewTurn(domain.SpeakerUser, text)
	if err != nil {
		return nil, err
	}
	if err := s.session.AppendTurn(userTurn); err != nil {
		log.Error("failed to append user turn", "error", err)
		return nil, err
	}

	history := s.session.Snapshot()
	log.Info("sending message", "turns", len(history))

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	replyText, completionErr := s.completer.Complete(callCtx, history)
	if completionErr == nil && strings.TrimSpace(replyText) == "" {
		completionErr = domain.NewCompletionError(domain.FailureInvalidResponse, errors.New("empty reply"))
	}
	if completionErr != nil {
		log.Error("completion failed", "error", completionErr, "elapsed_ms", time.Since(start).Milliseconds())
		replyText = fmt.Sprintf(apologyTemplate, completionErr.Error())
	}

	replyTurn, err := domain.NewTurn(domain.SpeakerAssistant, replyText)
	if err != nil {
		return nil, err
	}
	if err := s.session.AppendTurn(replyTurn); err != nil {
		log.Error("failed to append reply turn", "error", err)
		return nil, err
	}

	log.Info("send message completed",
		"failed", completionErr != nil,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	return &SendMessageOutput{
		UserTurn:  userTurn,
		ReplyTurn: replyTurn,
		Err:       completionErr,
	}, nil
}

// Timeline returns the conversation so far and whether a send is in flight.
func (s *Service) Timeline() ([]domain.Turn, bool) {
	return s.session.Snapshot(), s.session.Sending()
}

// Suggestions returns canned openers the user can pick from.
func (s *Service) Suggestions() []string {
	out := make([]string, len(suggestions))
	copy(out, suggestions)
	return out
}
