package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a Prometheus registry and, when an address is configured, the
// HTTP server exposing it at /metrics.
type Metrics struct {
	// Registry holds every metric created through this instance.
	Registry *prometheus.Registry

	// Server serves Registry. Nil when Config.Address is Ptr("").
	Server *http.Server

	namespace  string
	registerer prometheus.Registerer
}

// NewMetrics builds the registry and, unless disabled, its HTTP server. The
// server is not started; RegisterMetricsLifecycle (or the caller) does that.
//
// Every metric is wrapped with a constant service label so several clients
// can be scraped into one Prometheus without collisions.
func NewMetrics(cfg Config) *Metrics {
	registry := prometheus.NewRegistry()
	registerer := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		registry,
	)

	if cfg.IncludeRuntime {
		registerer.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = DefaultNamespace
	}

	m := &Metrics{
		Registry:   registry,
		namespace:  namespace,
		registerer: registerer,
	}

	addr := DefaultAddress
	if cfg.Address != nil {
		addr = *cfg.Address
	}
	if addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		m.Server = &http.Server{
			Addr:    addr,
			Handler: mux,
		}
	}

	return m
}

// Namespace returns the configured metric name prefix.
func (m *Metrics) Namespace() string {
	return m.namespace
}

// CreateCounter registers a counter vector on the registry.
func (m *Metrics) CreateCounter(name, help string, labels []string) Counter {
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: help}, labels)
	m.registerer.MustRegister(vec)
	return &counterVec{vec: vec}
}

// CreateHistogram registers a histogram vector on the registry.
func (m *Metrics) CreateHistogram(name, help string, labels []string, buckets []float64) Histogram {
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: name, Help: help, Buckets: buckets}, labels)
	m.registerer.MustRegister(vec)
	return &histogramVec{vec: vec}
}
