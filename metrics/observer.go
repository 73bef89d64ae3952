package metrics

import (
	"github.com/aalemi-dev/sliderule-go/observability"
)

// DurationBuckets covers sub-millisecond cache hits up to long granule streams.
var DurationBuckets = []float64{.001, .005, .025, .1, .5, 1, 5, 15, 60, 300, 900}

// ClientObserver converts client operations into Prometheus series:
//
//	<ns>_operations_total{component,operation,resource,status}
//	<ns>_operation_duration_seconds{component,operation}
//	<ns>_operation_bytes_total{component,operation}
//	<ns>_records_total{api}                     (stream only)
//	<ns>_truncated_streams_total{api}           (stream only)
type ClientObserver struct {
	operations Counter
	duration   Histogram
	bytes      Counter
	records    Counter
	truncated  Counter
}

// NewObserver registers the client series on collector with the given name
// prefix and returns an observability.Observer feeding them.
func NewObserver(collector MetricsCollector, namespace string) *ClientObserver {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &ClientObserver{
		operations: collector.CreateCounter(
			namespace+"_operations_total",
			"Completed client operations.",
			[]string{"component", "operation", "resource", "status"},
		),
		duration: collector.CreateHistogram(
			namespace+"_operation_duration_seconds",
			"Duration of client operations.",
			[]string{"component", "operation"},
			DurationBuckets,
		),
		bytes: collector.CreateCounter(
			namespace+"_operation_bytes_total",
			"Bytes received by client operations.",
			[]string{"component", "operation"},
		),
		records: collector.CreateCounter(
			namespace+"_records_total",
			"Records decoded from response streams.",
			[]string{"api"},
		),
		truncated: collector.CreateCounter(
			namespace+"_truncated_streams_total",
			"Response streams that ended inside a record.",
			[]string{"api"},
		),
	}
}

var _ observability.Observer = (*ClientObserver)(nil)

// ObserveOperation implements observability.Observer.
func (o *ClientObserver) ObserveOperation(op observability.OperationContext) {
	status := "ok"
	if op.Error != nil {
		status = "error"
	}
	o.operations.WithLabelValues(op.Component, op.Operation, op.Resource, status).Inc()
	o.duration.WithLabelValues(op.Component, op.Operation).Observe(op.Duration.Seconds())
	if op.Size > 0 {
		o.bytes.WithLabelValues(op.Component, op.Operation).Add(float64(op.Size))
	}

	if op.Operation != "stream" {
		return
	}
	if n, ok := op.Metadata["records"].(int); ok && n > 0 {
		o.records.WithLabelValues(op.Resource).Add(float64(n))
	}
	if t, ok := op.Metadata["truncated"].(bool); ok && t {
		o.truncated.WithLabelValues(op.Resource).Inc()
	}
}
