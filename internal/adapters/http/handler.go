package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/PabloGalante/therapy-chat/internal/adapters/storage/memory"
	"github.com/PabloGalante/therapy-chat/internal/app/conversation"
	"github.com/PabloGalante/therapy-chat/internal/domain"
	"github.com/PabloGalante/therapy-chat/internal/observability"
)

// Options tunes the middleware stack.
type Options struct {
	// RateLimit is the sustained requests per second allowed; 0 disables limiting.
	RateLimit float64
	Burst     int
}

type Server struct {
	svc *conversation.Service
}

func NewServer(svc *conversation.Service, opts Options) http.Handler {
	s := &Server{svc: svc}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /conversation", s.handleGetConversation)
	mux.HandleFunc("POST /conversation/messages", s.handleSendMessage)
	mux.HandleFunc("GET /suggestions", s.handleSuggestions)

	return chainMiddlewares(mux,
		withRateLimit(opts.RateLimit, opts.Burst),
		withLogging,
		withCORS,
		withRequestID,
	)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type turnResponse struct {
	ID      string `json:"id"`
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

type conversationResponse struct {
	Sending bool           `json:"sending"`
	Turns   []turnResponse `json:"turns"`
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type sendMessageResponse struct {
	UserTurn  turnResponse `json:"user_turn"`
	ReplyTurn turnResponse `json:"reply_turn"`
	Failed    bool         `json:"failed"`
	Error     string       `json:"error,omitempty"`
}

type suggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	turns, sending := s.svc.Timeline()

	writeJSON(w, http.StatusOK, conversationResponse{
		Sending: sending,
		Turns:   toTurnsResponse(turns),
	})
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		badRequest(w, "text is required")
		return
	}

	out, err := s.svc.SendMessage(r.Context(), req.Text)
	switch {
	case errors.Is(err, conversation.ErrEmptyMessage):
		badRequest(w, "text is required")
		return
	case errors.Is(err, memory.ErrSendInProgress):
		writeJSON(w, http.StatusConflict, map[string]string{
			"error": "a message is already being sent",
		})
		return
	case err != nil:
		observability.LoggerFromContext(r.Context()).Error("send message failed", "error", err)
		internalError(w)
		return
	}

	resp := sendMessageResponse{
		UserTurn:  toTurnResponse(out.UserTurn),
		ReplyTurn: toTurnResponse(out.ReplyTurn),
		Failed:    out.Failed(),
	}
	if out.Err != nil {
		resp.Error = failureKind(out.Err)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, suggestionsResponse{Suggestions: s.svc.Suggestions()})
}

// ─────────────────────────────────────────────
// Conversation Helpers
// ─────────────────────────────────────────────

func toTurnResponse(t domain.Turn) turnResponse {
	return turnResponse{
		ID:      string(t.ID),
		Speaker: string(t.Speaker),
		Text:    t.Text,
	}
}

func toTurnsResponse(turns []domain.Turn) []turnResponse {
	out := make([]turnResponse, 0, len(turns))
	for _, t := range turns {
		out = append(out, toTurnResponse(t))
	}
	return out
}

// failureKind exposes only the failure category; details stay in the reply turn.
func failureKind(err error) string {
	var cerr *domain.CompletionError
	if errors.As(err, &cerr) {
		return cerr.Kind.String()
	}
	return "unknown error"
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func internalError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}
