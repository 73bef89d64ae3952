package tracer

import (
	"context"
)

// Tracer starts spans and moves trace context across process boundaries.
type Tracer interface {
	// StartSpan starts a span as a child of the span in ctx, if any. Callers
	// must End the returned span.
	StartSpan(ctx context.Context, name string) (context.Context, Span)

	// GetCarrier returns the W3C trace headers for the span in ctx. The client
	// copies them onto every outgoing request so server-side logs can be
	// correlated with the client trace.
	GetCarrier(ctx context.Context) map[string]string

	// SetCarrierOnContext continues a trace received as headers.
	SetCarrierOnContext(ctx context.Context, carrier map[string]string) context.Context
}

// Span is an in-flight operation.
type Span interface {
	// End completes the span.
	End()

	// SetAttributes attaches attributes. Strings, ints, int64s, float64s and
	// bools keep their type; anything else is formatted with fmt.Sprint.
	//
	// Example:
	//   span.SetAttributes(map[string]interface{}{
	//     "sliderule.api":      "atl06",
	//     "sliderule.records":  120,
	//     "sliderule.resource": "ATL03_20181019065445_03150111_005_01.h5",
	//   })
	SetAttributes(attrs map[string]interface{})

	// RecordError records err and marks the span as failed.
	RecordError(err error)
}
