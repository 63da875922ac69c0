// Package filter narrows agent listings by search parameters.
package filter

import (
	"net/url"
	"strings"

	"github.com/eldtechnologies/agentdesk/internal/models"
)

// Params are the optional list filters. Empty values are ignored.
type Params struct {
	// Search matches first or last name, case-insensitively.
	Search string
	// Email matches a substring of the email address, case-sensitively.
	Email string
}

// ParamsFromQuery reads the "search" and "email" query parameters.
func ParamsFromQuery(q url.Values) Params {
	return Params{
		Search: q.Get("search"),
		Email:  q.Get("email"),
	}
}

// IsZero reports whether no filter is set.
func (p Params) IsZero() bool {
	return p.Search == "" && p.Email == ""
}

// Apply returns the records matching every set parameter, in their original
// order. The input slice is never modified.
func Apply(records []models.PropertyAgent, p Params) []models.PropertyAgent {
	out := make([]models.PropertyAgent, 0, len(records))
	search := strings.ToLower(p.Search)

	for _, a := range records {
		if search != "" &&
			!strings.Contains(strings.ToLower(a.FirstName), search) &&
			!strings.Contains(strings.ToLower(a.LastName), search) {
			continue
		}
		if p.Email != "" && !strings.Contains(a.Email, p.Email) {
			continue
		}
		out = append(out, a)
	}

	return out
}
