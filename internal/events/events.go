// Package events records agent mutations as a feed of change events.
package events

import (
	"context"
	"time"

	"github.com/eldtechnologies/agentdesk/internal/ids"
	"github.com/eldtechnologies/agentdesk/internal/models"
)

// Type identifies the kind of mutation.
type Type string

const (
	AgentCreated Type = "agent.created"
	AgentUpdated Type = "agent.updated"
	AgentDeleted Type = "agent.deleted"
)

// ChangeEvent describes one successful mutation of an agent.
type ChangeEvent struct {
	ID        string               `json:"id"` // ULID
	Type      Type                 `json:"type"`
	AgentID   string               `json:"agentId"`
	Agent     models.PropertyAgent `json:"agent"`
	Timestamp int64                `json:"ts"` // Unix ms
}

// New builds an event for agent stamped with the current time.
func New(t Type, agent models.PropertyAgent) ChangeEvent {
	return ChangeEvent{
		ID:        ids.NewEventID(),
		Type:      t,
		AgentID:   agent.ID,
		Agent:     agent,
		Timestamp: time.Now().UnixMilli(),
	}
}

// Feed stores and reads back change events.
type Feed interface {
	Publish(ctx context.Context, ev ChangeEvent) error
	// Recent returns up to limit events, newest first.
	Recent(ctx context.Context, limit int) ([]ChangeEvent, error)
	Ping(ctx context.Context) error
	Close() error
}
