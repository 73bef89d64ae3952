// Package tracer provides distributed tracing on top of OpenTelemetry.
//
// # Architecture
//
//   - Tracer interface: StartSpan, GetCarrier and SetCarrierOnContext
//   - Span interface: End, SetAttributes and RecordError
//   - TracerClient struct: the SDK-backed implementation
//   - FX module: provides *TracerClient and Tracer, shuts the provider down on
//     stop
//
// NewClient installs the provider and a trace-context + baggage propagator as
// the global OpenTelemetry defaults. Spans are exported over OTLP/HTTP when
// Config.EnableExport is set; otherwise they are recorded but dropped, which is
// still enough for trace ids to appear in log entries.
//
// # Basic Usage
//
//	tracerClient, err := tracer.NewClient(tracer.Config{
//	    ServiceName:  "sliderule-cli",
//	    EnableExport: true,
//	    Endpoint:     "localhost:4318",
//	    Insecure:     true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tracerClient.Shutdown(context.Background())
//
//	ctx, span := tracerClient.StartSpan(ctx, "atl06p")
//	defer span.End()
//	span.SetAttributes(map[string]interface{}{"granules": 12})
//
// # Propagation
//
// GetCarrier returns the W3C headers for the span in ctx. The service client
// copies them onto every outgoing request so server-side work joins the
// caller's trace:
//
//	for k, v := range tracerClient.GetCarrier(ctx) {
//	    req.Header.Set(k, v)
//	}
//
// SetCarrierOnContext does the reverse for headers received from elsewhere.
//
// # Sampling
//
// SampleRatio between 0 and 1 (exclusive) samples that share of root traces;
// child spans follow their parent's decision. Any other value samples
// everything.
package tracer
