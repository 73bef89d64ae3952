package observability

import "time"

// Observer receives a notification for every completed client operation.
// Implementations must be safe for concurrent use: parallel requests report
// from their own goroutines.
type Observer interface {
	// ObserveOperation is called when an operation completes.
	ObserveOperation(ctx OperationContext)
}

// OperationContext describes one completed operation.
type OperationContext struct {
	// Component identifies the package that performed the operation.
	// Examples: "sliderule", "schema_registry", "cmr"
	Component string

	// Operation describes what was performed.
	// Examples: "stream", "request", "get_schema", "search"
	Operation string

	// Resource is the primary resource: the service API name for requests,
	// the record type name for schema lookups, the product short name for
	// catalog searches.
	Resource string

	// SubResource adds optional detail, such as the request id of a service
	// request or stream. Empty when the operation has none.
	SubResource string

	// Duration is how long the operation took.
	Duration time.Duration

	// Error is the error returned by the operation, nil on success.
	Error error

	// Size is the number of bytes received, when meaningful.
	Size int64

	// Metadata carries operation specific counters.
	// Examples:
	//   stream:     {"records": 120, "truncated": false}
	//   get_schema: {"cache_hit": false, "shared": true}
	//   search:     {"granules": 17, "pages": 1}
	Metadata map[string]interface{}
}
