package domain

import "fmt"

// FailureKind classifies why a completion could not produce assistant text.
type FailureKind int

const (
	FailureConfiguration FailureKind = iota + 1
	FailureInvalidRequest
	FailureTransport
	FailureInvalidResponse
	FailureParsing
)

func (k FailureKind) String() string {
	switch k {
	case FailureConfiguration:
		return "configuration error"
	case FailureInvalidRequest:
		return "invalid request"
	case FailureTransport:
		return "transport error"
	case FailureInvalidResponse:
		return "invalid response"
	case FailureParsing:
		return "parsing error"
	default:
		return fmt.Sprintf("failure(%d)", int(k))
	}
}

// CompletionError is the single failure result a Completer hands back to its caller.
type CompletionError struct {
	Kind       FailureKind
	StatusCode int // set for non-2xx replies
	Err        error
}

// Sentinels for errors.Is; they match any CompletionError of the same Kind.
var (
	ErrConfiguration   = &CompletionError{Kind: FailureConfiguration}
	ErrInvalidRequest  = &CompletionError{Kind: FailureInvalidRequest}
	ErrTransport       = &CompletionError{Kind: FailureTransport}
	ErrInvalidResponse = &CompletionError{Kind: FailureInvalidResponse}
	ErrParsing         = &CompletionError{Kind: FailureParsing}
)

// NewCompletionError wraps err under the given kind.
func NewCompletionError(kind FailureKind, err error) *CompletionError {
	return &CompletionError{Kind: kind, Err: err}
}

func (e *CompletionError) Error() string {
	msg := e.Kind.String()
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}

func (e *CompletionError) Is(target error) bool {
	t, ok := target.(*CompletionError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}
