// Package sliderule is the client for the SlideRule science data processing
// service.
//
// Requests are JSON POSTs to https://{organization}.{domain}/source/{api}.
// Plain requests return a JSON document; streaming requests return a body of
// framed binary records (see package stream) which Stream decodes with layouts
// fetched from the service's definition endpoint and cached for the life of the
// Client.
//
// # Architecture
//
//   - Client struct: HTTP transport, schema registry, optional observer, logger
//     and tracer
//   - NewClient constructor: validates Config and returns *Client
//   - DefinitionResolver: the schema.Resolver backed by /source/definition
//   - FX module: provides *Client from an injected Config
//
// A Client is safe for concurrent use. Each Stream call owns its framer,
// decoder state and collector; only the schema registry is shared.
//
// # Direct Usage (Without FX)
//
//	client, err := sliderule.NewClient(sliderule.Config{
//	    URL:          "slideruleearth.io",
//	    Organization: "sliderule",
//	    Timeout:      10 * time.Minute,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	version, err := client.Version(ctx)
//
//	res, err := client.Stream(ctx, "atl06", body, dispatch.Handlers{
//	    "atl06rec": func(ctx context.Context, rec *record.Record) {
//	        // handled records are not collected
//	    },
//	})
//	if err != nil {
//	    return err
//	}
//	if res.Truncated {
//	    // res.Records holds what arrived before the stream broke off
//	}
//
// # Errors
//
// A non-2xx response is a *ServiceError. A body that cannot be decoded wraps
// ErrDecodeResponse. A stream that ends inside a record, or carries a
// malformed frame, is logged as a warning and returned as a partial Result with
// Truncated set and a nil error. A transport failure in the middle of a stream
// returns the partial Result together with an error wrapping
// stream.ErrStreamAborted. IsRetryable reports whether a failed request is
// worth repeating.
//
// # FX Module Integration
//
//	app := fx.New(
//	    logger.FXModule,  // Optional: provides *logger.LoggerClient
//	    metrics.FXModule, // Optional: provides observability.Observer
//	    tracer.FXModule,  // Optional: provides tracer.Tracer
//	    sliderule.FXModule,
//	    fx.Supply(sliderule.DefaultConfig(), logger.Config{}, metrics.Config{Address: metrics.Ptr("")}, tracer.Config{}),
//	    fx.Invoke(func(client *sliderule.Client) {
//	        // use client
//	    }),
//	)
//
// # Observability
//
// The observer receives "request", "stream" and "definition" operations with
// Component "sliderule", the API name (or record type) as Resource and the
// X-Request-ID sent with the request as SubResource. Stream operations carry
// "records" and "truncated" in Metadata. The schema registry reports through
// the same observer.
//
// With a tracer configured, Stream runs inside a span named "sliderule.{api}"
// and every request carries the W3C trace context headers.
//
// # Parallel Requests
//
// RunPool runs n indexed jobs over a bounded number of workers and is what the
// icesat2 package uses to process granules in parallel.
package sliderule
