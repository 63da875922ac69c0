package agentdesk

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eldtechnologies/agentdesk/internal/api"
	"github.com/eldtechnologies/agentdesk/internal/events"
	"github.com/eldtechnologies/agentdesk/internal/store"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	router := api.NewRouter(zerolog.Nop(), store.NewMemoryStore(), events.NewMemoryFeed(32), api.DefaultOptions())
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL + "/")
}

func strPtr(s string) *string { return &s }

func jane() CreateAgentRequest {
	return CreateAgentRequest{
		FirstName:    "Jane",
		LastName:     "Doe",
		Email:        "jane@doe.com",
		MobileNumber: "+1 555-1234",
	}
}

func TestClientScenario(t *testing.T) {
	c := newTestClient(t)

	created, err := c.CreateAgent(jane())
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	_, err = c.CreateAgent(jane())
	require.Error(t, err)
	assert.True(t, IsConflict(err))
	assert.Equal(t, "Email already exists", err.(*APIError).Message)

	updated, err := c.UpdateAgent(created.ID, UpdateAgentRequest{LastName: strPtr("Smith")})
	require.NoError(t, err)
	assert.Equal(t, "Jane", updated.FirstName)
	assert.Equal(t, "Smith", updated.LastName)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	deleted, err := c.DeleteAgent(created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, deleted)

	_, err = c.GetAgent(created.ID)
	assert.True(t, IsNotFound(err))

	evs, err := c.Events(10)
	require.NoError(t, err)
	require.Len(t, evs, 3)
	assert.Equal(t, "agent.deleted", evs[0].Type)
	assert.Equal(t, "agent.created", evs[2].Type)
}

func TestClientValidationError(t *testing.T) {
	c := newTestClient(t)

	req := jane()
	req.Email = "not-an-email"
	req.MobileNumber = "abc"

	_, err := c.CreateAgent(req)
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, []Violation{
		{Field: "email", Message: "Invalid email format"},
		{Field: "mobileNumber", Message: "Invalid phone number"},
	}, apiErr.Violations)
	assert.Contains(t, apiErr.Error(), "email: Invalid email format")
}

func TestClientListAndGet(t *testing.T) {
	c := newTestClient(t)

	empty, err := c.ListAgents("", "")
	require.NoError(t, err)
	assert.Empty(t, empty)

	anna, err := c.CreateAgent(CreateAgentRequest{FirstName: "Anna", LastName: "Lee", Email: "anna@harbour.com", MobileNumber: "0400 111 222"})
	require.NoError(t, err)
	_, err = c.CreateAgent(CreateAgentRequest{FirstName: "Bob", LastName: "Ray", Email: "bob@ridge.com", MobileNumber: "0400 333 444"})
	require.NoError(t, err)

	got, err := c.GetAgent(anna.ID)
	require.NoError(t, err)
	assert.Equal(t, anna, got)

	found, err := c.ListAgents("ann", "")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, anna.ID, found[0].ID)

	found, err = c.ListAgents("", "ridge")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Bob", found[0].FirstName)

	all, err := c.ListAgents("", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestClientHealth(t *testing.T) {
	c := newTestClient(t)

	resp, err := c.Health()
	require.NoError(t, err)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "pass", resp.Checks["store"].Status)
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("")
	assert.Equal(t, "http://localhost:8080", c.BaseURL)
	assert.NotNil(t, c.HTTPClient)
}
