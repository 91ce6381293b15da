package domain

import "context"

// Completer defines how the core application obtains the next assistant utterance
// from a language model, given the conversation so far.
//
// Implementations must treat turns as read-only and perform exactly one exchange
// per call. Failures are reported as *CompletionError.
type Completer interface {
	Complete(ctx context.Context, turns []Turn) (string, error)
}

// SessionStore holds the canonical turn history of one conversation and its
// single-flight send flag. It is mutated only through these operations.
type SessionStore interface {
	AppendTurn(turn Turn) error
	BeginSend() error
	EndSend()
	Sending() bool
	Snapshot() []Turn
	Len() int
}
