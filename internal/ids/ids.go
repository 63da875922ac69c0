// Package ids generates identifiers for agents and change events.
package ids

import (
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// NewAgentID generates a time-ordered UUID v7 for a new agent.
func NewAgentID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// NewEventID generates a ULID for a change event.
func NewEventID() string {
	return ulid.Make().String()
}
