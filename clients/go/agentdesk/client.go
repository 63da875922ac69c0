// Package agentdesk provides a client for the agentdesk property agent API.
package agentdesk

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client is an agentdesk API client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new agentdesk client.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Violation is a single field-level validation failure.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is returned for any response with status >= 400.
type APIError struct {
	StatusCode int
	Message    string
	Violations []Violation
}

func (e *APIError) Error() string {
	if len(e.Violations) > 0 {
		parts := make([]string, 0, len(e.Violations))
		for _, v := range e.Violations {
			parts = append(parts, v.Field+": "+v.Message)
		}
		return fmt.Sprintf("agentdesk error %d: %s", e.StatusCode, strings.Join(parts, "; "))
	}
	return fmt.Sprintf("agentdesk error %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

// IsConflict reports whether err is a 409 from the API.
func IsConflict(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusConflict
}

// doRequest performs an HTTP request and decodes a JSON response into out.
func (c *Client) doRequest(method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Message string      `json:"message"`
			Errors  []Violation `json:"errors"`
		}
		json.Unmarshal(respBody, &errResp)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    errResp.Message,
			Violations: errResp.Errors,
		}
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(respBody, out)
}

// Agent is a property agent record.
type Agent struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	MobileNumber string    `json:"mobileNumber"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CreateAgentRequest is the request body for creating an agent.
type CreateAgentRequest struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	MobileNumber string `json:"mobileNumber"`
}

// UpdateAgentRequest is the request body for updating an agent.
// Nil fields are left unchanged.
type UpdateAgentRequest struct {
	FirstName    *string `json:"firstName,omitempty"`
	LastName     *string `json:"lastName,omitempty"`
	Email        *string `json:"email,omitempty"`
	MobileNumber *string `json:"mobileNumber,omitempty"`
}

// CreateAgent creates a new agent.
func (c *Client) CreateAgent(req CreateAgentRequest) (*Agent, error) {
	var agent Agent
	if err := c.doRequest(http.MethodPost, "/agents", req, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// ListAgents lists agents. Empty search and email are not sent.
func (c *Client) ListAgents(search, email string) ([]Agent, error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	if email != "" {
		q.Set("email", email)
	}
	path := "/agents"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var agents []Agent
	if err := c.doRequest(http.MethodGet, path, nil, &agents); err != nil {
		return nil, err
	}
	return agents, nil
}

// GetAgent retrieves an agent by id.
func (c *Client) GetAgent(id string) (*Agent, error) {
	var agent Agent
	if err := c.doRequest(http.MethodGet, "/agents/"+url.PathEscape(id), nil, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// UpdateAgent applies a partial update.
func (c *Client) UpdateAgent(id string, req UpdateAgentRequest) (*Agent, error) {
	var agent Agent
	if err := c.doRequest(http.MethodPut, "/agents/"+url.PathEscape(id), req, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// DeleteAgent deletes an agent and returns the removed record.
func (c *Client) DeleteAgent(id string) (*Agent, error) {
	var agent Agent
	if err := c.doRequest(http.MethodDelete, "/agents/"+url.PathEscape(id), nil, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// Event is a change event from the agent feed.
type Event struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	AgentID   string `json:"agentId"`
	Agent     Agent  `json:"agent"`
	Timestamp int64  `json:"ts"`
}

// Events returns recent change events, newest first.
func (c *Client) Events(limit int) ([]Event, error) {
	path := "/agents/events"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var evs []Event
	if err := c.doRequest(http.MethodGet, path, nil, &evs); err != nil {
		return nil, err
	}
	return evs, nil
}

// HealthResponse is the response from the health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Checks  map[string]struct {
		Status  string `json:"status"`
		Latency string `json:"latency,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"checks"`
}

// Health checks server health. A degraded server returns an *APIError.
func (c *Client) Health() (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.doRequest(http.MethodGet, "/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
