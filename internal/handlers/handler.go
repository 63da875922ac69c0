package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/eldtechnologies/agentdesk/internal/events"
	"github.com/eldtechnologies/agentdesk/internal/metrics"
	"github.com/eldtechnologies/agentdesk/internal/models"
	"github.com/eldtechnologies/agentdesk/internal/store"
	"github.com/eldtechnologies/agentdesk/internal/validate"
)

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	store  store.AgentStore
	feed   events.Feed
	logger zerolog.Logger
}

// NewHandler creates a new Handler with the given store and change feed.
func NewHandler(s store.AgentStore, feed events.Feed, logger zerolog.Logger) *Handler {
	return &Handler{store: s, feed: feed, logger: logger}
}

// MessageResponse is the body of every non-validation error.
type MessageResponse struct {
	Message string `json:"message"`
}

// ValidationResponse is the body of a 400 caused by invalid fields.
type ValidationResponse struct {
	Errors []validate.Violation `json:"errors"`
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Warn().Err(err).Msg("failed to write response")
	}
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, MessageResponse{Message: message})
}

// storeError maps store and validation errors to responses. Anything
// unexpected is logged and reported as an opaque 500.
func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validate.Errors
	switch {
	case errors.As(err, &verr):
		metrics.WritesRejected.WithLabelValues("validation").Inc()
		h.JSON(w, http.StatusBadRequest, ValidationResponse{Errors: verr.Violations})
	case errors.Is(err, store.ErrConflict):
		metrics.WritesRejected.WithLabelValues("conflict").Inc()
		h.Error(w, http.StatusConflict, "Email already exists")
	case errors.Is(err, store.ErrNotFound):
		h.Error(w, http.StatusNotFound, "Agent not found")
	default:
		h.logger.Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		h.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeJSON decodes the request body into v. An empty body decodes as {}.
func decodeJSON(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// bodyError reports a request body that could not be decoded.
func (h *Handler) bodyError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.Error(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}
	h.Error(w, http.StatusBadRequest, "Invalid JSON body")
}

// observe records the latency of a store operation.
func observe(op string, start time.Time) {
	metrics.StoreLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// publish records a change event. Failures are logged and never surface to
// the caller.
func (h *Handler) publish(ctx context.Context, t events.Type, agent *models.PropertyAgent) {
	if h.feed == nil {
		return
	}
	ev := events.New(t, *agent)
	if err := h.feed.Publish(ctx, ev); err != nil {
		metrics.EventPublishFailures.Inc()
		h.logger.Warn().
			Err(err).
			Str("event_type", string(t)).
			Str("agent_id", agent.ID).
			Msg("failed to publish change event")
	}
}
