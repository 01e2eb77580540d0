// Package metrics provides Prometheus metrics for the crewcast prediction
// service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager holds all Prometheus collectors for the service.
type Manager struct {
	namespace string
	registry  prometheus.Registerer

	// Edit pipeline
	editsApplied    *prometheus.CounterVec
	editsRejected   prometheus.Counter
	editsFailed     prometheus.Counter
	pipelineLatency *prometheus.HistogramVec

	// Session and transport
	wsSessions   prometheus.Gauge
	queueDepth   prometheus.Gauge
	rosterSize   prometheus.Gauge
	eventsLoaded *prometheus.GaugeVec

	// Audit
	auditPublished prometheus.Counter
	auditErrors    prometheus.Counter

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithRegistry sets the Prometheus registerer collectors attach to.
func WithRegistry(r prometheus.Registerer) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}

// WithNamespace overrides the metric namespace.
func WithNamespace(ns string) Option {
	return func(m *Manager) {
		if ns != "" {
			m.namespace = ns
		}
	}
}

// Global manager on a custom registry so default Go collectors stay out
// of the scrape surface.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton metrics registry
var globalManager *Manager                    //nolint:gochecknoglobals // singleton metrics manager

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with configuration options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "crewcast",
		registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}

	factory := promauto.With(m.registry)

	m.editsApplied = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "edits_applied_total",
		Help:      "Edits accepted and committed, by kind.",
	}, []string{"kind"})
	m.editsRejected = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "edits_rejected_total",
		Help:      "Edits refused due to queue backpressure.",
	})
	m.editsFailed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "edits_failed_total",
		Help:      "Edits aborted by a pipeline failure.",
	})
	m.pipelineLatency = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "pipeline_stage_latency_ms",
		Help:      "Latency of orchestration stages in milliseconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"stage"})

	m.wsSessions = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "ws_sessions",
		Help:      "Open websocket sessions.",
	})
	m.queueDepth = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "edit_queue_depth",
		Help:      "Edits waiting in the session queue.",
	})
	m.rosterSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "roster_size",
		Help:      "People on the current roster.",
	})
	m.eventsLoaded = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "events_loaded",
		Help:      "Events loaded at session start, by kind.",
	}, []string{"kind"})

	m.auditPublished = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "audit_records_published_total",
		Help:      "Audit records delivered to the sink.",
	})
	m.auditErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "audit_errors_total",
		Help:      "Audit publish failures.",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request duration in milliseconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint", "method", "status"})

	return m
}

// GetRegistry exposes the custom registry for the scrape handler.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers acting on the global manager.

// RecordEditApplied counts a committed edit of the given kind.
func RecordEditApplied(kind string) { globalManager.editsApplied.WithLabelValues(kind).Inc() }

// RecordEditRejected counts a backpressure refusal.
func RecordEditRejected() { globalManager.editsRejected.Inc() }

// RecordEditFailed counts an edit aborted by a pipeline failure.
func RecordEditFailed() { globalManager.editsFailed.Inc() }

// RecordStageLatency records one orchestration stage duration.
func RecordStageLatency(stage string, ms float64) {
	globalManager.pipelineLatency.WithLabelValues(stage).Observe(ms)
}

// UpdateWSSessions sets the open websocket session gauge.
func UpdateWSSessions(n int) { globalManager.wsSessions.Set(float64(n)) }

// UpdateQueueDepth sets the pending edit gauge.
func UpdateQueueDepth(n int) { globalManager.queueDepth.Set(float64(n)) }

// UpdateRosterSize sets the current roster size gauge.
func UpdateRosterSize(n int) { globalManager.rosterSize.Set(float64(n)) }

// UpdateEventsLoaded sets the loaded event gauge for an event kind.
func UpdateEventsLoaded(kind string, n int) {
	globalManager.eventsLoaded.WithLabelValues(kind).Set(float64(n))
}

// RecordAuditPublished counts a delivered audit record.
func RecordAuditPublished() { globalManager.auditPublished.Inc() }

// RecordAuditError counts a failed audit publish.
func RecordAuditError() { globalManager.auditErrors.Inc() }

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration records one HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}
