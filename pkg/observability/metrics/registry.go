// Package metrics exposes Prometheus metrics for the catalog service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry owns the service's Prometheus collectors: HTTP request metrics
// plus Go runtime and process collectors.
type Registry struct {
	registry *prometheus.Registry

	requestDuration  *prometheus.HistogramVec
	requestsTotal    *prometheus.CounterVec
	requestsInFlight prometheus.Gauge
}

// NewRegistry creates a registry with the default collectors registered.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		requestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),
	}

	r.registry.MustRegister(
		r.requestDuration,
		r.requestsTotal,
		r.requestsInFlight,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// RecordRequest records one completed HTTP request.
func (r *Registry) RecordRequest(method, path string, status int, duration time.Duration) {
	statusStr := strconv.Itoa(status)
	r.requestDuration.WithLabelValues(method, path, statusStr).Observe(duration.Seconds())
	r.requestsTotal.WithLabelValues(method, path, statusStr).Inc()
}

// IncInFlight marks a request as started.
func (r *Registry) IncInFlight() { r.requestsInFlight.Inc() }

// DecInFlight marks a request as finished.
func (r *Registry) DecInFlight() { r.requestsInFlight.Dec() }

// MustRegister adds custom collectors, panicking on conflicts.
func (r *Registry) MustRegister(cs ...prometheus.Collector) {
	r.registry.MustRegister(cs...)
}

// Handler returns the /metrics exposition handler.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Gatherer exposes the underlying gatherer, mainly for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}
