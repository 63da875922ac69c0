package store

import (
	"context"
	"slices"
	"sync"

	"github.com/eldtechnologies/agentdesk/internal/models"
)

// MemoryStore keeps agents in insertion order in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	agents []*models.PropertyAgent
	byID   map[string]*models.PropertyAgent
	opts   options
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{
		byID: make(map[string]*models.PropertyAgent),
		opts: buildOptions(opts),
	}
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

// Ping always succeeds.
func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

// Create adds a new agent unless one with the same email exists.
func (s *MemoryStore) Create(ctx context.Context, fields models.AgentFields) (*models.PropertyAgent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.agents {
		if a.Email == fields.Email {
			return nil, ErrConflict
		}
	}

	now := s.opts.now().UTC()
	agent := &models.PropertyAgent{
		ID:           s.opts.newID(),
		FirstName:    fields.FirstName,
		LastName:     fields.LastName,
		Email:        fields.Email,
		MobileNumber: fields.MobileNumber,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	s.agents = append(s.agents, agent)
	s.byID[agent.ID] = agent

	out := *agent
	return &out, nil
}

// List returns a copy of all agents in insertion order.
func (s *MemoryStore) List(ctx context.Context) ([]models.PropertyAgent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.PropertyAgent, 0, len(s.agents))
	for _, a := range s.agents {
		out = append(out, *a)
	}
	return out, nil
}

// Get returns the agent with the given id.
func (s *MemoryStore) Get(ctx context.Context, id string) (*models.PropertyAgent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	agent, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *agent
	return &out, nil
}

// Update overwrites the fields present in patch and refreshes UpdatedAt.
// Fields are not re-validated and email uniqueness is not re-checked.
func (s *MemoryStore) Update(ctx context.Context, id string, patch models.AgentPatch) (*models.PropertyAgent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	agent, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}

	patch.Apply(agent)
	agent.UpdatedAt = nextUpdate(s.opts.now().UTC(), agent.UpdatedAt)

	out := *agent
	return &out, nil
}

// Delete removes the agent and returns it.
func (s *MemoryStore) Delete(ctx context.Context, id string) (*models.PropertyAgent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	agent, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}

	idx := slices.Index(s.agents, agent)
	s.agents = slices.Delete(s.agents, idx, idx+1)
	delete(s.byID, id)

	return agent, nil
}

// Count returns the number of stored agents.
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.agents), nil
}
