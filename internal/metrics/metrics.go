package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentdesk_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agentdesk_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Business metrics
	AgentsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "agentdesk_agents_created_total",
			Help: "Total agents created",
		},
	)

	AgentsUpdated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "agentdesk_agents_updated_total",
			Help: "Total agents updated",
		},
	)

	AgentsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "agentdesk_agents_deleted_total",
			Help: "Total agents deleted",
		},
	)

	// Rejected writes by reason: "validation" or "conflict".
	WritesRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentdesk_writes_rejected_total",
			Help: "Total rejected create requests",
		},
		[]string{"reason"},
	)

	AgentSearches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "agentdesk_agent_searches_total",
			Help: "Total filtered agent listings",
		},
	)

	// Infrastructure metrics
	EventPublishFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "agentdesk_event_publish_failures_total",
			Help: "Total change events that could not be published",
		},
	)

	StoreLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agentdesk_store_latency_seconds",
			Help:    "Agent store operation latency",
			Buckets: []float64{.00001, .0001, .0005, .001, .005, .01, .05},
		},
		[]string{"op"},
	)
)
