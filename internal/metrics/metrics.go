// Package metrics exposes Prometheus metrics for the storefront web tier:
// outbound backend API calls, page navigations, and inbound HTTP requests.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wanshop/storefront/internal/apiclient"
	"github.com/wanshop/storefront/internal/route"
)

const (
	defaultNamespace = "wanshop"
	defaultSubsystem = "storefront"
)

// Manager owns a registry and the metrics registered on it.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	apiRequests        *prometheus.CounterVec
	apiRequestDuration *prometheus.HistogramVec
	navigations        *prometheus.CounterVec
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithSubsystem sets the subsystem for all metrics.
func WithSubsystem(subsystem string) Option {
	return func(m *Manager) {
		if subsystem != "" {
			m.subsystem = subsystem
		}
	}
}

// WithHistogramBuckets sets the latency buckets, in seconds.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = buckets
		}
	}
}

// WithRegistry registers metrics on r instead of a fresh registry.
func WithRegistry(r *prometheus.Registry) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}

// NewManager creates a Manager and registers its metrics.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        defaultNamespace,
		subsystem:        defaultSubsystem,
		histogramBuckets: prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	auto := promauto.With(m.registry)

	m.apiRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "api_requests_total",
		Help:      "Backend API requests by endpoint, status code and failure kind.",
	}, []string{"method", "endpoint", "status_code", "kind"})

	m.apiRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "api_request_duration_seconds",
		Help:      "Backend API request latency.",
		Buckets:   m.histogramBuckets,
	}, []string{"method", "endpoint"})

	m.navigations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "navigations_total",
		Help:      "Page navigations by resolved view.",
	}, []string{"view", "redirected"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Inbound HTTP requests by route, method and status code.",
	}, []string{"route", "method", "status_code"})

	m.httpDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_seconds",
		Help:      "Inbound HTTP request latency.",
		Buckets:   m.histogramBuckets,
	}, []string{"route", "method"})

	return m
}

var _ apiclient.Recorder = (*Manager)(nil)

// ObserveAPIRequest implements apiclient.Recorder.
func (m *Manager) ObserveAPIRequest(method, endpoint string, status int, kind apiclient.Kind, elapsed time.Duration) {
	m.apiRequests.WithLabelValues(method, endpoint, statusLabel(status), kind.String()).Inc()
	m.apiRequestDuration.WithLabelValues(method, endpoint).Observe(elapsed.Seconds())
}

// ObserveNavigation counts a page navigation.
func (m *Manager) ObserveNavigation(nav route.Navigation) {
	m.navigations.WithLabelValues(string(nav.View), strconv.FormatBool(nav.Redirected)).Inc()
}

// ObserveHTTPRequest records an inbound request. routePattern is the
// matched route template, or "unmatched".
func (m *Manager) ObserveHTTPRequest(routePattern, method string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(routePattern, method, statusLabel(status)).Inc()
	m.httpDuration.WithLabelValues(routePattern, method).Observe(elapsed.Seconds())
}

// Registry returns the underlying registry.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func statusLabel(status int) string {
	if status == 0 {
		return "none"
	}
	return strconv.Itoa(status)
}
