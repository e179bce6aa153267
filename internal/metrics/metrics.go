package metrics

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application collectors exposed on /metrics.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "agromanage",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agromanage",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "agromanage",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	authAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agromanage",
			Subsystem: "auth",
			Name:      "attempts_total",
			Help:      "Registration and login attempts by outcome.",
		},
		[]string{"action", "result"},
	)

	alertsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agromanage",
			Subsystem: "alerts",
			Name:      "published_total",
			Help:      "Weather alerts pushed to subscribers.",
		},
		[]string{"severity"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		authAttempts,
		alertsPublished,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func RequestStarted() {
	httpInFlight.Inc()
}

func RequestFinished() {
	httpInFlight.Dec()
}

func ObserveRequest(method, path, status string, duration time.Duration) {
	method = strings.ToUpper(method)
	httpRequests.WithLabelValues(method, path, status).Inc()
	httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordAuthAttempt counts an auth action ("register", "login") by result.
func RecordAuthAttempt(action, result string) {
	authAttempts.WithLabelValues(action, result).Inc()
}

func RecordAlertPublished(severity string) {
	if severity == "" {
		severity = "unknown"
	}
	alertsPublished.WithLabelValues(severity).Inc()
}
