package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitaltrack_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vitaltrack_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Realtime metrics
	RealtimeConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "vitaltrack_realtime_connections",
			Help: "Number of joined realtime connections",
		},
	)

	RealtimeEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitaltrack_realtime_events_total",
			Help: "Total number of realtime events delivered to connections",
		},
		[]string{"event"},
	)

	RealtimeEventsDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vitaltrack_realtime_events_dropped_total",
			Help: "Total number of realtime events dropped because a connection buffer was full",
		},
	)

	// Plan session status synchronization triggered by workout mutations
	SessionSyncFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vitaltrack_session_sync_failures_total",
			Help: "Total number of swallowed plan session status synchronization failures",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(RealtimeConnections)
	prometheus.MustRegister(RealtimeEventsTotal)
	prometheus.MustRegister(RealtimeEventsDropped)
	prometheus.MustRegister(SessionSyncFailures)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveRequest records one finished HTTP request.
func ObserveRequest(method, route, status string, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
