// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/okian/vigil/internal/domain/model"
)

// eventRequest mirrors the JSON body of POST /events.
type eventRequest struct {
	SessionID string         `json:"session_id"`
	EventType string         `json:"event_type"`
	Timestamp string         `json:"timestamp"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details"`
}

func (e eventRequest) validate() error {
	switch {
	case strings.TrimSpace(e.SessionID) == "":
		return errors.New("missing session_id")
	case strings.TrimSpace(e.EventType) == "":
		return errors.New("missing event_type")
	}
	if e.Timestamp != "" {
		if _, err := time.Parse(time.RFC3339, e.Timestamp); err != nil {
			return errors.New("invalid timestamp; must be RFC3339")
		}
	}
	return nil
}

type ackResponse struct {
	Status string `json:"status"`
}

// EventsHandler handles external event submissions.
type EventsHandler struct {
	deps Dependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps Dependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// HandlePostEvent handles POST /events requests.
func (h *EventsHandler) HandlePostEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_event"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	ev := model.Event{
		SessionID: req.SessionID,
		Type:      model.AlertType(req.EventType),
		Message:   req.Message,
		Details:   req.Details,
	}
	if req.Timestamp != "" {
		ts, _ := time.Parse(time.RFC3339, req.Timestamp)
		ev.Timestamp = ts
	}

	if err := h.deps.LogEvent(r.Context(), ev); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, ackResponse{Status: "logged"})
}
