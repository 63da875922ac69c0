package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eldtechnologies/agentdesk/internal/events"
	"github.com/eldtechnologies/agentdesk/internal/filter"
	"github.com/eldtechnologies/agentdesk/internal/metrics"
	"github.com/eldtechnologies/agentdesk/internal/models"
	"github.com/eldtechnologies/agentdesk/internal/validate"
)

const (
	defaultEventLimit = 50
	maxEventLimit     = 200
)

// CreateAgent handles agent creation.
func (h *Handler) CreateAgent(w http.ResponseWriter, r *http.Request) {
	var req models.AgentFields
	if err := decodeJSON(r, &req); err != nil {
		h.bodyError(w, err)
		return
	}

	fields, err := validate.Agent(req)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	start := time.Now()
	agent, err := h.store.Create(r.Context(), fields)
	observe("create", start)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	metrics.AgentsCreated.Inc()
	h.publish(r.Context(), events.AgentCreated, agent)

	h.JSON(w, http.StatusCreated, agent)
}

// ListAgents returns all agents, narrowed by the optional search and email
// query parameters.
func (h *Handler) ListAgents(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	agents, err := h.store.List(r.Context())
	observe("list", start)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	params := filter.ParamsFromQuery(r.URL.Query())
	if !params.IsZero() {
		metrics.AgentSearches.Inc()
	}

	h.JSON(w, http.StatusOK, filter.Apply(agents, params))
}

// GetAgent returns a single agent by id.
func (h *Handler) GetAgent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	agent, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	observe("get", start)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	h.JSON(w, http.StatusOK, agent)
}

// UpdateAgent overwrites the fields present in the body. Fields are not
// re-validated.
func (h *Handler) UpdateAgent(w http.ResponseWriter, r *http.Request) {
	var patch models.AgentPatch
	if err := decodeJSON(r, &patch); err != nil {
		h.bodyError(w, err)
		return
	}

	start := time.Now()
	agent, err := h.store.Update(r.Context(), chi.URLParam(r, "id"), patch)
	observe("update", start)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	metrics.AgentsUpdated.Inc()
	h.publish(r.Context(), events.AgentUpdated, agent)

	h.JSON(w, http.StatusOK, agent)
}

// DeleteAgent removes an agent and returns the removed record.
func (h *Handler) DeleteAgent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	agent, err := h.store.Delete(r.Context(), chi.URLParam(r, "id"))
	observe("delete", start)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	metrics.AgentsDeleted.Inc()
	h.publish(r.Context(), events.AgentDeleted, agent)

	h.JSON(w, http.StatusOK, agent)
}

// ListEvents returns recent change events, newest first.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	limit := defaultEventLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}
	if limit > maxEventLimit {
		limit = maxEventLimit
	}

	if h.feed == nil {
		h.JSON(w, http.StatusOK, []events.ChangeEvent{})
		return
	}

	evs, err := h.feed.Recent(r.Context(), limit)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	h.JSON(w, http.StatusOK, evs)
}
