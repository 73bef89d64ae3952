// Package metrics exposes client activity as Prometheus metrics.
//
// # Architecture
//
//   - Metrics struct: owns a prometheus.Registry and, when an address is
//     configured, the HTTP server serving it at /metrics
//   - MetricsCollector interface: creates counters and histograms without
//     leaking Prometheus types
//   - ClientObserver: an observability.Observer that turns completed operations
//     into series
//   - FX module: provides *Metrics, MetricsCollector and observability.Observer,
//     and runs the server through the fx lifecycle
//
// Every metric carries a constant "service" label taken from
// Config.ServiceName.
//
// # Series
//
// NewObserver registers, under the configured namespace (default "sliderule"):
//
//	sliderule_operations_total{component,operation,resource,status}
//	sliderule_operation_duration_seconds{component,operation}
//	sliderule_operation_bytes_total{component,operation}
//	sliderule_records_total{api}
//	sliderule_truncated_streams_total{api}
//
// status is "ok" or "error". The last two only move for stream operations.
//
// # Direct Usage (Without FX)
//
//	m := metrics.NewMetrics(metrics.Config{
//	    Address:     metrics.Ptr(":9091"),
//	    ServiceName: "sliderule-cli",
//	})
//	observer := metrics.NewObserver(m, m.Namespace())
//
//	client, err := sliderule.NewClient(cfg)
//	if err != nil {
//	    return err
//	}
//	client.WithObserver(observer)
//
//	go m.Server.ListenAndServe()
//
// # Disabling the Server
//
// Address is a pointer so that an explicit empty string can be told apart from
// an unset value: nil selects DefaultAddress, Ptr("") builds the registry
// without a server. The command line tool uses the latter unless an address is
// configured.
//
// # Custom Metrics
//
//	processed := m.CreateCounter("granules_processed_total", "Granules processed", []string{"api"})
//	processed.WithLabelValues("atl06p").Inc()
//
//	latency := m.CreateHistogram("granule_seconds", "Per-granule latency", []string{"api"}, metrics.DurationBuckets)
//	latency.WithLabelValues("atl06p").Observe(12.5)
package metrics
