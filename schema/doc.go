// Package schema describes SlideRule record layouts and caches them by type
// name.
//
// SlideRule streams binary records whose layout is not known in advance. The
// service publishes each layout as a definition: a JSON object mapping field
// names to a type, a bit offset, an element count and flags, plus the fixed
// byte size of one instance under "@datasize":
//
//	{
//	    "@datasize": 40,
//	    "segment_id": {"type": "UINT32", "offset": 0,  "elements": 1, "flags": "LE"},
//	    "h_mean":     {"type": "DOUBLE", "offset": 64, "elements": 1, "flags": "LE"},
//	    "elevation":  {"type": "atl06rec.elevation", "offset": 128, "elements": 0}
//	}
//
// ParseDefinition turns that object into a RecordSchema and keeps the fields in
// the order the service listed them. A type name that is not a base type
// (INT8..UINT64, FLOAT, DOUBLE, TIME8, STRING) names a nested record type.
// An element count of 0 means the field runs to the end of the payload.
//
// # Architecture
//
//   - RecordSchema / FieldDescriptor: the parsed layout
//   - Resolver interface: fetches a layout the registry does not hold yet
//   - Registry struct: the cache in front of a Resolver
//
// The registry does no I/O itself. The service client supplies a Resolver that
// posts to the definition endpoint (sliderule.DefinitionResolver); tests
// supply a ResolverFunc or preload layouts with Add.
//
// # Basic Usage
//
//	registry := schema.NewRegistry(schema.ResolverFunc(
//	    func(ctx context.Context, name string) (*schema.RecordSchema, error) {
//	        return fetchDefinition(ctx, name)
//	    },
//	))
//
//	layout, err := registry.Get(ctx, "atl06rec")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(layout.DataSize, len(layout.Fields))
//
// # Caching
//
// Only successful resolutions are cached, so a transient service failure is
// retried on the next Get. Concurrent misses for one name share a single
// resolution. That resolution is not tied to the context of whichever caller
// started it: a cancelled caller stops waiting, the others still receive the
// layout. Forget drops one entry; Names and Len report what is cached.
//
// # Observability
//
// With WithObserver every Get reports:
//   - Component: "schema_registry"
//   - Operation: "get_schema"
//   - Resource: record type name
//   - Metadata: "cache_hit", and "shared" after a remote resolution
//
// WithLogger adds an info entry for each newly cached type and a warning for
// each failed resolution.
package schema
