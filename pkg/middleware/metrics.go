package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/datastar/pkg/protocol"
	"github.com/vango-dev/datastar/pkg/server"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "datastar").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for request duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer

	// PathLabel maps a request to its path label. Use a route pattern to
	// keep cardinality bounded.
	// Default: r.URL.Path
	PathLabel func(r *http.Request) string
}

// MetricsOption configures the Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// WithPathLabel sets the function that derives the path label.
func WithPathLabel(fn func(r *http.Request) string) MetricsOption {
	return func(c *MetricsConfig) {
		c.PathLabel = fn
	}
}

// defaultMetricsConfig returns the default metrics configuration.
func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "datastar",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors. It is an http middleware
// through Handler and a server.Observer for streams.
type Metrics struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	eventsSent       *prometheus.CounterVec
	eventBytes       *prometheus.CounterVec
	activeStreams    prometheus.Gauge
	signalRejections *prometheus.CounterVec

	pathLabel func(r *http.Request) string
}

var _ server.Observer = (*Metrics)(nil)

// Prometheus registers the Datastar metrics and returns them.
//
// Metrics collected:
//   - datastar_http_requests_total: Counter of requests by path and status
//   - datastar_http_request_duration_seconds: Histogram of request duration by path
//   - datastar_events_sent_total: Counter of events sent by event type
//   - datastar_event_bytes_total: Counter of encoded event bytes by event type
//   - datastar_active_streams: Gauge of open SSE and WebSocket streams
//   - datastar_signal_rejections_total: Counter of rejected signal payloads by kind
//
// Registering twice on the same registry panics, as with promauto.
//
// Example:
//
//	m := middleware.Prometheus(middleware.WithNamespace("myapp"))
//	r := chi.NewRouter()
//	r.Use(m.Handler)
//	r.Handle("/metrics", promhttp.Handler())
//	r.Get("/feed", func(w http.ResponseWriter, r *http.Request) {
//	    sse, _ := server.NewSSE(w, r, server.WithObserver(m))
//	    ...
//	})
func Prometheus(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.PathLabel == nil {
		config.PathLabel = func(r *http.Request) string { return r.URL.Path }
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests handled",
			ConstLabels: config.ConstLabels,
		}, []string{"path", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds, including stream lifetime",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"path"}),

		eventsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "events_sent_total",
			Help:        "Total number of Datastar events sent to clients",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),

		eventBytes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "event_bytes_total",
			Help:        "Total encoded bytes of Datastar events sent to clients",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),

		activeStreams: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_streams",
			Help:        "Number of open SSE and WebSocket streams",
			ConstLabels: config.ConstLabels,
		}),

		signalRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "signal_rejections_total",
			Help:        "Total number of requests whose signals were rejected",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		pathLabel: config.PathLabel,
	}
}

// Handler records request count and duration for next.
func (m *Metrics) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := newStatusWriter(w)

		next.ServeHTTP(sw, r)

		path := m.pathLabel(r)
		if path == "" {
			path = "/"
		}
		m.requestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
		m.requestsTotal.WithLabelValues(path, strconv.Itoa(sw.Status())).Inc()
	})
}

// StreamOpened implements server.Observer.
func (m *Metrics) StreamOpened() {
	m.activeStreams.Inc()
}

// StreamClosed implements server.Observer.
func (m *Metrics) StreamClosed() {
	m.activeStreams.Dec()
}

// EventSent implements server.Observer.
func (m *Metrics) EventSent(eventType protocol.EventType, bytes int) {
	m.eventsSent.WithLabelValues(string(eventType)).Inc()
	m.eventBytes.WithLabelValues(string(eventType)).Add(float64(bytes))
}

// RecordRejection counts a rejected signal payload. kind is the
// signals.Kind string.
func (m *Metrics) RecordRejection(kind string) {
	m.signalRejections.WithLabelValues(kind).Inc()
}
