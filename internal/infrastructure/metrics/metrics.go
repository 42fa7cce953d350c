package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "officer",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "officer",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	authRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "officer",
			Subsystem: "auth",
			Name:      "rejections_total",
			Help:      "Requests rejected by the auth gateway",
		},
		[]string{"credential"},
	)

	tokensIssuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "officer",
			Subsystem: "auth",
			Name:      "tokens_issued_total",
			Help:      "Session tokens minted after a successful OAuth callback",
		},
	)

	clusterActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "officer",
			Subsystem: "cluster",
			Name:      "actions_total",
			Help:      "Cluster actions executed after authorization",
		},
		[]string{"action", "outcome"},
	)
)

// RecordRequest tracks one completed HTTP request.
func RecordRequest(method, endpoint, status string, seconds float64) {
	requestsTotal.WithLabelValues(method, endpoint, status).Inc()
	requestDuration.WithLabelValues(method, endpoint).Observe(seconds)
}

// RecordAuthRejection counts a 401 by the kind of credential presented.
func RecordAuthRejection(credential string) {
	authRejectionsTotal.WithLabelValues(credential).Inc()
}

// RecordTokenIssued counts a minted session token.
func RecordTokenIssued() {
	tokensIssuedTotal.Inc()
}

// RecordClusterAction counts a cluster action with its outcome.
func RecordClusterAction(action string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	clusterActionsTotal.WithLabelValues(action, outcome).Inc()
}
