package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RemoteAPIMetrics records calls made to the upstream catalog API.
type RemoteAPIMetrics struct {
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
}

// NewRemoteAPIMetrics registers the remote call metrics on the provided registerer.
func NewRemoteAPIMetrics(reg prometheus.Registerer) *RemoteAPIMetrics {
	if reg == nil {
		return &RemoteAPIMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "remote_api_request_duration_seconds",
		Help:    "Duration of upstream API calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "remote_api_requests_total",
		Help: "Upstream API calls by operation and outcome.",
	}, []string{"operation", "outcome"})
	reg.MustRegister(duration, requests)
	return &RemoteAPIMetrics{duration: duration, requests: requests}
}

// Observe records one finished call. outcome is "ok", a status class such as
// "4xx", or "transport" when no response arrived.
func (m *RemoteAPIMetrics) Observe(operation, outcome string, elapsed time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	op := normalizeLabel(operation)
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
	m.requests.WithLabelValues(op, normalizeLabel(outcome)).Inc()
}

// OutcomeForStatus buckets an HTTP status for the outcome label.
func OutcomeForStatus(status int) string {
	switch {
	case status == 0:
		return "transport"
	case status < 400:
		return "ok"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
