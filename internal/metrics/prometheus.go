// Package metrics provides Prometheus metrics for the Fluir survey service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Job outcomes recorded by the background worker.
const (
	OutcomeSuccess = "success"
	OutcomeRetry   = "retry"
	OutcomeFailed  = "failed"
)

// Manager owns the service metrics and the registry they are served from.
// All recording methods are safe on a nil *Manager, which records nothing.
type Manager struct {
	namespace         string
	subsystem         string
	histogramBuckets  []float64
	registry          *prometheus.Registry
	runtimeCollectors bool

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Survey activity
	surveysCreated prometheus.Counter
	submissions    prometheus.Counter
	proseRenders   *prometheus.CounterVec

	// Worker
	workerJobs        *prometheus.CounterVec
	workerJobDuration prometheus.Histogram
	workerQueueDepth  prometheus.Gauge

	// Email
	emailsSent *prometheus.CounterVec
}

// NewManager creates a metrics manager with its own registry unless one is
// supplied with WithRegistry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:         "fluir",
		subsystem:         "",
		histogramBuckets:  prometheus.DefBuckets,
		runtimeCollectors: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}
	if m.runtimeCollectors {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by route, method and status code",
	}, []string{"route", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds",
		Buckets:   m.histogramBuckets,
	}, []string{"route", "method"})

	m.surveysCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "surveys_created_total",
		Help:      "Total number of surveys created",
	})

	m.submissions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "submissions_total",
		Help:      "Total number of accepted questionnaire submissions",
	})

	m.proseRenders = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "prose_renders_total",
		Help:      "Recommendation prose renders by writer",
	}, []string{"writer"})

	m.workerJobs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_jobs_total",
		Help:      "Recommendation refresh job attempts by outcome",
	}, []string{"outcome"})

	m.workerJobDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_job_duration_seconds",
		Help:      "Recommendation refresh job duration in seconds",
		Buckets:   m.histogramBuckets,
	})

	m.workerQueueDepth = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_queue_depth",
		Help:      "Survey ids waiting in the in-process worker queue",
	})

	m.emailsSent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "emails_sent_total",
		Help:      "Transactional emails by outcome",
	}, []string{"outcome"})
}

// ─── RECORDING ────────────────────────────────────────────────────────────────

// RecordHTTPRequest records one finished HTTP request.
func (m *Manager) RecordHTTPRequest(route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// RecordSurveyCreated increments the surveys created counter.
func (m *Manager) RecordSurveyCreated() {
	if m == nil {
		return
	}
	m.surveysCreated.Inc()
}

// RecordSubmission increments the accepted submissions counter.
func (m *Manager) RecordSubmission() {
	if m == nil {
		return
	}
	m.submissions.Inc()
}

// RecordProseRender counts one prose render by the writer that produced it.
func (m *Manager) RecordProseRender(writer string) {
	if m == nil {
		return
	}
	m.proseRenders.WithLabelValues(writer).Inc()
}

// RecordJob records one worker job attempt.
func (m *Manager) RecordJob(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.workerJobs.WithLabelValues(outcome).Inc()
	m.workerJobDuration.Observe(d.Seconds())
}

// SetQueueDepth sets the current worker queue depth.
func (m *Manager) SetQueueDepth(n int) {
	if m == nil {
		return
	}
	m.workerQueueDepth.Set(float64(n))
}

// RecordEmail records a send attempt; err nil means success.
func (m *Manager) RecordEmail(err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailed
	}
	m.emailsSent.WithLabelValues(outcome).Inc()
}

// ─── EXPOSITION ───────────────────────────────────────────────────────────────

// Registry returns the registry the manager's metrics live on.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// Handler serves the manager's registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
