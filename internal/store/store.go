package store

import (
	"context"
	"errors"
	"time"

	"github.com/eldtechnologies/agentdesk/internal/ids"
	"github.com/eldtechnologies/agentdesk/internal/models"
)

var (
	// ErrNotFound is returned when no agent has the requested id.
	ErrNotFound = errors.New("agent not found")
	// ErrConflict is returned when an agent with the same email already exists.
	ErrConflict = errors.New("email already exists")
)

// AgentStore defines storage for property agents.
// Both MemoryStore and SQLiteStore implement this interface.
type AgentStore interface {
	// Connection management
	Close() error
	Ping(ctx context.Context) error

	// Agent operations
	Create(ctx context.Context, fields models.AgentFields) (*models.PropertyAgent, error)
	List(ctx context.Context) ([]models.PropertyAgent, error)
	Get(ctx context.Context, id string) (*models.PropertyAgent, error)
	Update(ctx context.Context, id string, patch models.AgentPatch) (*models.PropertyAgent, error)
	Delete(ctx context.Context, id string) (*models.PropertyAgent, error)
	Count(ctx context.Context) (int, error)
}

// Option configures a store.
type Option func(*options)

type options struct {
	now   func() time.Time
	newID func() string
}

func defaultOptions() options {
	return options{now: time.Now, newID: ids.NewAgentID}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator overrides the agent id generator.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// nextUpdate returns now, or the instant just after prev when the clock has
// not moved past it. updatedAt must strictly increase on every mutation.
func nextUpdate(now, prev time.Time) time.Time {
	if !now.After(prev) {
		return prev.Add(time.Nanosecond)
	}
	return now
}
