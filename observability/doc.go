// Package observability defines the hook every client component uses to report
// completed operations.
//
// The schema registry, the service client and the catalog client each accept an
// optional Observer. When one is configured they call ObserveOperation after
// every remote call, cache lookup or decoded stream with an OperationContext
// describing what happened:
//
//	client, err := sliderule.NewClient(cfg)
//	if err != nil {
//	    return err
//	}
//	client.WithObserver(metrics.NewObserver(collector, "sliderule"))
//
// The metrics package ships an Observer that turns these events into Prometheus
// series. Applications can implement their own to feed tracing or auditing:
//
//	type auditObserver struct{ log *logger.LoggerClient }
//
//	func (o *auditObserver) ObserveOperation(op observability.OperationContext) {
//	    if op.Error != nil {
//	        o.log.Warn("operation failed", op.Error, map[string]interface{}{
//	            "component": op.Component,
//	            "operation": op.Operation,
//	        })
//	    }
//	}
//
// Components never require an observer; a nil observer disables the hook.
//
// # Components and operations
//
//	Component         Operation        Resource            SubResource
//	schema_registry   get_schema       record type name
//	sliderule         request          API name            request id
//	sliderule         stream           API name            request id
//	sliderule         definition       record type name
//	cmr               search           short name
//
// get_schema reports "cache_hit" and, on a miss, "shared" (the resolution was
// joined by concurrent callers) in Metadata. stream reports "records" and
// "truncated"; search reports "granules" and "pages".
package observability
