package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"egov-portal/models"
	"egov-portal/state"
)

var (
	ActionsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "egov_actions_dispatched_total",
			Help: "Total number of actions dispatched to the portal store",
		},
		[]string{"action"},
	)

	ToastsShown = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "egov_toasts_shown_total",
			Help: "Total number of toasts raised",
		},
		[]string{"type"},
	)

	ApplicationTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "egov_application_transitions_total",
			Help: "Application status changes by target status",
		},
		[]string{"status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "egov_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	RealtimeClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "egov_realtime_clients",
			Help: "Number of connected websocket clients",
		},
	)

	AssistantRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "egov_assistant_requests_total",
			Help: "Assistant chat requests by outcome",
		},
		[]string{"outcome"},
	)
)

// StoreListener records dispatched actions, new toasts and application
// status changes.
func StoreListener(action state.Action, prev, next state.State) {
	ActionsDispatched.WithLabelValues(action.Kind()).Inc()

	seen := make(map[string]struct{}, len(prev.Toasts))
	for _, t := range prev.Toasts {
		seen[t.ID] = struct{}{}
	}
	for _, t := range next.Toasts {
		if _, ok := seen[t.ID]; !ok {
			ToastsShown.WithLabelValues(string(t.Type)).Inc()
		}
	}

	before := make(map[string]models.ApplicationStatus, len(prev.Applications))
	for _, app := range prev.Applications {
		before[app.ID] = app.Status
	}
	for _, app := range next.Applications {
		if status, ok := before[app.ID]; !ok || status != app.Status {
			ApplicationTransitions.WithLabelValues(string(app.Status)).Inc()
		}
	}
}
