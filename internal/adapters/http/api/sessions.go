package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/okian/vigil/internal/app"
)

// SessionsHandler handles session control and inspection requests.
type SessionsHandler struct {
	deps Dependencies
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps Dependencies) *SessionsHandler {
	return &SessionsHandler{deps: deps}
}

// HandleSession routes /sessions/{session_id}/{action} requests.
func (h *SessionsHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	const op = "api.sessions"
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/sessions/"), "/")
	sessionID, action, _ := strings.Cut(rest, "/")
	if sessionID == "" || action == "" || strings.Contains(action, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	switch action {
	case "start":
		h.start(w, r, sessionID)
	case "stop":
		h.stop(w, r, sessionID)
	case "stats":
		h.stats(w, r, sessionID)
	default:
		http.NotFound(w, r)
	}
}

func (h *SessionsHandler) start(w http.ResponseWriter, r *http.Request, sessionID string) {
	const op = "api.start_session"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := h.deps.StartMonitoring(r.Context(), sessionID); err != nil {
		if errors.Is(err, app.ErrInvalidSession) || errors.Is(err, app.ErrNoProviders) {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "monitoring"})
}

func (h *SessionsHandler) stop(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	h.deps.StopMonitoring(sessionID)
	writeJSON(w, http.StatusOK, ackResponse{Status: "stopped"})
}

func (h *SessionsHandler) stats(w http.ResponseWriter, r *http.Request, sessionID string) {
	const op = "api.session_stats"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	activity, err := h.deps.SessionStats(r.Context(), sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, activity)
}
