package handlers

import (
	"net/http"
	"strconv"
	"time"
)

// StatsResponse represents the response from the stats endpoint.
type StatsResponse struct {
	TotalAgents  int    `json:"total_agents"`
	LastActivity string `json:"last_activity"`
}

// Stats returns the agent count and how long ago any agent last changed.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	total, err := h.store.Count(r.Context())
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	agents, err := h.store.List(r.Context())
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	var last time.Time
	for _, a := range agents {
		if a.UpdatedAt.After(last) {
			last = a.UpdatedAt
		}
	}

	lastActivity := "no activity yet"
	if !last.IsZero() {
		lastActivity = formatTimeAgo(time.Since(last))
	}

	h.JSON(w, http.StatusOK, StatsResponse{
		TotalAgents:  total,
		LastActivity: lastActivity,
	})
}

// formatTimeAgo formats an age as a human-readable "X ago" string.
func formatTimeAgo(diff time.Duration) string {
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "minute") + " ago"
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hour") + " ago"
	default:
		return plural(int(diff.Hours()/24), "day") + " ago"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}
