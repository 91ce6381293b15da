package memory

import (
	"errors"
	"sync"

	"github.com/PabloGalante/therapy-chat/internal/domain"
)

var (
	// ErrSendInProgress is returned by BeginSend while another completion is outstanding.
	ErrSendInProgress = errors.New("session: send already in progress")
	// ErrInvalidTurn signals that the supplied turn is structurally invalid.
	ErrInvalidTurn = errors.New("session: invalid turn")
)

// Session holds one conversation in process memory: the append-only turn list
// and the single-flight sending flag. It is NOT persistent.
type Session struct {
	mu      sync.RWMutex
	turns   []domain.Turn
	sending bool
}

func NewSession() *Session {
	return &Session{}
}

// AppendTurn adds turn to the end of the conversation.
func (s *Session) AppendTurn(turn domain.Turn) error {
	if turn.ID == "" || !turn.Speaker.Valid() {
		return ErrInvalidTurn
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = append(s.turns, turn)
	return nil
}

// BeginSend marks a completion as outstanding. It fails if one already is.
func (s *Session) BeginSend() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sending {
		return ErrSendInProgress
	}
	s.sending = true
	return nil
}

// EndSend clears the in-flight flag. Safe to call at any time.
func (s *Session) EndSend() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sending = false
}

func (s *Session) Sending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sending
}

// Snapshot returns a copy of the turns in conversation order.
func (s *Session) Snapshot() []domain.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.turns)
}
