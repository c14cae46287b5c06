package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	sessionsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "liargame_sessions_created_total",
			Help: "Total number of game sessions created",
		},
	)

	turnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liargame_turns_total",
			Help: "Total number of turns taken",
		},
		[]string{"speaker", "status"},
	)

	agentVotesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liargame_agent_votes_total",
			Help: "Total number of agent votes by how they were resolved",
		},
		[]string{"source"},
	)

	gamesFinishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liargame_games_finished_total",
			Help: "Total number of finished games by winner",
		},
		[]string{"winner"},
	)

	collaboratorCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liargame_collaborator_calls_total",
			Help: "Total number of language-model collaborator calls",
		},
		[]string{"provider", "purpose", "status"},
	)

	collaboratorCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "liargame_collaborator_call_duration_seconds",
			Help:    "Language-model collaborator call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "purpose"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liargame_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "liargame_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	initOnce sync.Once
)

// InitMetrics registers the collectors with the default Prometheus registry
func InitMetrics() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			sessionsCreatedTotal,
			turnsTotal,
			agentVotesTotal,
			gamesFinishedTotal,
			collaboratorCallsTotal,
			collaboratorCallDuration,
			httpRequestsTotal,
			httpRequestDuration,
		)
	})
}

// MetricsHandler returns an HTTP handler for Prometheus metrics
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// RecordSessionCreated counts a new session
func RecordSessionCreated() {
	sessionsCreatedTotal.Inc()
}

// RecordTurn counts a turn; speaker is "human" or "agent", status "ok" or "degraded"
func RecordTurn(speaker, status string) {
	turnsTotal.WithLabelValues(speaker, status).Inc()
}

// RecordAgentVote counts an agent vote; source is "parsed" or "fallback"
func RecordAgentVote(source string) {
	agentVotesTotal.WithLabelValues(source).Inc()
}

// RecordGameFinished counts a finished game
func RecordGameFinished(winner string) {
	gamesFinishedTotal.WithLabelValues(winner).Inc()
}

// RecordCollaboratorCall records one language-model call
func RecordCollaboratorCall(provider, purpose, status string, duration time.Duration) {
	collaboratorCallsTotal.WithLabelValues(provider, purpose, status).Inc()
	collaboratorCallDuration.WithLabelValues(provider, purpose).Observe(duration.Seconds())
}

// RecordHTTPRequest records HTTP request metrics
func RecordHTTPRequest(method, route, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
