package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the stationdesk Prometheus collectors.
var Registry = prometheus.NewRegistry()

var (
	upstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stationdesk",
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Outgoing API requests by operation and status code.",
		},
		[]string{"operation", "status"},
	)

	upstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stationdesk",
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Duration of outgoing API requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"operation"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stationdesk",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Handled HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stationdesk",
			Subsystem: "notifications",
			Name:      "published_total",
			Help:      "User-facing notifications by severity.",
		},
		[]string{"severity"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		upstreamRequests,
		upstreamDuration,
		httpRequests,
		notifications,
	)
}

// ObserveUpstream records one outgoing API call. status is 0 for transport failures.
func ObserveUpstream(operation string, status int, elapsed time.Duration) {
	upstreamRequests.WithLabelValues(operation, strconv.Itoa(status)).Inc()
	upstreamDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveHTTP records one handled console request.
func ObserveHTTP(method, route string, status int) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// ObserveNotification counts a published notification.
func ObserveNotification(severity string) {
	notifications.WithLabelValues(severity).Inc()
}

// Handler exposes the registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
