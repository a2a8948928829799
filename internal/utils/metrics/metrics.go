package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Recruitment metrics
	RecruitmentOperationsTotal *prometheus.CounterVec
	ReconcileOutcomesTotal     *prometheus.CounterVec
	EventsHandledTotal         *prometheus.CounterVec

	// Scheduler metrics
	JobRunsTotal   *prometheus.CounterVec
	JobRunDuration *prometheus.HistogramVec
}

// New creates a new Metrics instance registered on reg.
// A nil reg registers on the default registry.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "tessera"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		// HTTP metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),

		// Recruitment metrics
		RecruitmentOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "recruitment",
				Name:      "operations_total",
				Help:      "Total number of recruitment operations by result kind",
			},
			[]string{"operation", "kind"},
		),
		ReconcileOutcomesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "recruitment",
				Name:      "reconcile_postings_total",
				Help:      "Total number of expired postings resolved by outcome",
			},
			[]string{"job", "outcome"},
		),
		EventsHandledTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "events",
				Name:      "handled_total",
				Help:      "Total number of event handler invocations by status",
			},
			[]string{"type", "status"},
		),

		// Scheduler metrics
		JobRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "job_runs_total",
				Help:      "Total number of scheduled job runs by status",
			},
			[]string{"job", "status"},
		),
		JobRunDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "job_duration_seconds",
				Help:      "Scheduled job run duration in seconds",
				Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"job"},
		),
	}
}

// --- Convenience methods ---

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	statusStr := statusCodeToString(status)
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordRecruitmentOperation records one workflow call and its result kind.
func (m *Metrics) RecordRecruitmentOperation(operation, kind string) {
	m.RecruitmentOperationsTotal.WithLabelValues(operation, kind).Inc()
}

// RecordReconcileOutcome records how many postings a pass resolved with outcome.
func (m *Metrics) RecordReconcileOutcome(job, outcome string, count int) {
	if count <= 0 {
		return
	}
	m.ReconcileOutcomesTotal.WithLabelValues(job, outcome).Add(float64(count))
}

// RecordEventHandled records one event handler invocation.
func (m *Metrics) RecordEventHandled(eventType, status string) {
	m.EventsHandledTotal.WithLabelValues(eventType, status).Inc()
}

// RecordJobRun records a scheduled job run. Skipped runs carry no duration.
func (m *Metrics) RecordJobRun(job, status string, duration time.Duration) {
	m.JobRunsTotal.WithLabelValues(job, status).Inc()
	if duration > 0 {
		m.JobRunDuration.WithLabelValues(job).Observe(duration.Seconds())
	}
}

// statusCodeToString converts an HTTP status code to a string category.
func statusCodeToString(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
