package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus metrics for the engine and HTTP API. Each
// instance owns its registry so tests can create as many as they like. A
// nil *Metrics is a valid no-op.
type Metrics struct {
	registry *prometheus.Registry

	// Engine
	ComputeDuration *prometheus.HistogramVec

	// Snapshot cache
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	// HTTP
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Reference data, refreshed by the Checker
	Businesses prometheus.Gauge
	Spaces     prometheus.Gauge
	Alerts     *prometheus.CounterVec
}

// NewMetrics creates and registers metrics under namespace.
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ComputeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "compute_duration_seconds",
				Help:      "Engine operation duration in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
			[]string{"op"},
		),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_cache_hits_total",
			Help:      "Total number of snapshot cache hits",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_cache_misses_total",
			Help:      "Total number of snapshot cache misses",
		}),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Businesses: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "businesses",
			Help:      "Businesses in the reference data",
		}),
		Spaces: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "spaces",
			Help:      "Spaces in the reference data",
		}),
		Alerts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "alerts_total",
				Help:      "Alerts raised by the health checker",
			},
			[]string{"type"},
		),
	}

	m.registry.MustRegister(
		m.ComputeDuration,
		m.CacheHits,
		m.CacheMisses,
		m.HTTPRequests,
		m.HTTPDuration,
		m.Businesses,
		m.Spaces,
		m.Alerts,
	)
	return m
}

// ObserveComputation records the duration of an engine operation.
func (m *Metrics) ObserveComputation(op string, d time.Duration) {
	if m == nil {
		return
	}
	m.ComputeDuration.WithLabelValues(op).Observe(d.Seconds())
}

// CacheHit counts a snapshot cache hit.
func (m *Metrics) CacheHit() {
	if m != nil {
		m.CacheHits.Inc()
	}
}

// CacheMiss counts a snapshot cache miss.
func (m *Metrics) CacheMiss() {
	if m != nil {
		m.CacheMisses.Inc()
	}
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// SetReferenceData publishes the current reference-data sizes.
func (m *Metrics) SetReferenceData(businesses, spaces int) {
	if m == nil {
		return
	}
	m.Businesses.Set(float64(businesses))
	m.Spaces.Set(float64(spaces))
}

// AlertRaised counts an alert by type.
func (m *Metrics) AlertRaised(t AlertType) {
	if m != nil {
		m.Alerts.WithLabelValues(string(t)).Inc()
	}
}

// Registry returns the registry the metrics are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
