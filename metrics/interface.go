package metrics

// MetricsCollector creates metrics registered on the client registry.
//
// It does not expose Prometheus types so tests and alternative backends can
// provide their own implementation. *Metrics implements it.
type MetricsCollector interface {
	// CreateCounter registers a counter vector.
	//
	// Example:
	//   c := m.CreateCounter("records_total", "Decoded records", []string{"rectype"})
	//   c.WithLabelValues("atl06rec").Inc()
	CreateCounter(name, help string, labels []string) Counter

	// CreateHistogram registers a histogram vector. Nil buckets select the
	// Prometheus defaults.
	//
	// Example:
	//   h := m.CreateHistogram("stream_seconds", "Stream duration", []string{"api"}, nil)
	//   h.WithLabelValues("atl06").Observe(3.2)
	CreateHistogram(name, help string, labels []string, buckets []float64) Histogram
}

// Counter is a cumulative metric.
type Counter interface {
	// WithLabelValues selects the child for the given label values. Calling it
	// on an already labelled counter returns the counter itself.
	WithLabelValues(lvs ...string) Counter
	Inc()
	Add(val float64)
}

// Histogram tracks a distribution of observations.
type Histogram interface {
	WithLabelValues(lvs ...string) Observer
	Observe(val float64)
}

// Observer records a single observation.
type Observer interface {
	Observe(val float64)
}
