package schema

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/aalemi-dev/sliderule-go/observability"
)

// Resolver fetches the layout of a record type the registry has not seen.
// The sliderule client implements it against the definition endpoint.
type Resolver interface {
	ResolveSchema(ctx context.Context, name string) (*RecordSchema, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, name string) (*RecordSchema, error)

// ResolveSchema calls f.
func (f ResolverFunc) ResolveSchema(ctx context.Context, name string) (*RecordSchema, error) {
	return f(ctx, name)
}

// Logger is the subset of the logger package this registry needs.
type Logger interface {
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// Registry caches record layouts by type name and fetches misses through a
// Resolver. Only successful resolutions are cached, so a transient failure is
// retried on the next lookup. Concurrent misses for the same name share one
// resolution.
//
// Registry is safe for concurrent use.
type Registry struct {
	resolver Resolver

	cache      map[string]*RecordSchema
	cacheMutex sync.RWMutex

	inflight singleflight.Group

	observer observability.Observer
	logger   Logger
}

// NewRegistry creates a registry backed by resolver. A nil resolver gives a
// registry that only knows what is added with Add.
func NewRegistry(resolver Resolver) *Registry {
	return &Registry{
		resolver: resolver,
		cache:    make(map[string]*RecordSchema),
	}
}

// WithObserver attaches an observer and returns the registry for chaining.
func (r *Registry) WithObserver(observer observability.Observer) *Registry {
	r.observer = observer
	return r
}

// WithLogger attaches a logger and returns the registry for chaining.
func (r *Registry) WithLogger(logger Logger) *Registry {
	r.logger = logger
	return r
}

// Get returns the layout of name, resolving and caching it on a miss.
func (r *Registry) Get(ctx context.Context, name string) (*RecordSchema, error) {
	start := time.Now()

	r.cacheMutex.RLock()
	s, ok := r.cache[name]
	r.cacheMutex.RUnlock()
	if ok {
		r.observeOperation("get_schema", name, time.Since(start), nil, map[string]interface{}{
			"cache_hit": true,
		})
		return s, nil
	}

	if r.resolver == nil {
		err := fmt.Errorf("%w: %s", ErrUnknownType, name)
		r.observeOperation("get_schema", name, time.Since(start), err, map[string]interface{}{
			"cache_hit": false,
		})
		return nil, err
	}

	// The shared resolution outlives any single caller; each caller still
	// stops waiting when its own context ends.
	ch := r.inflight.DoChan(name, func() (interface{}, error) {
		return r.resolve(context.WithoutCancel(ctx), name)
	})
	var (
		v      interface{}
		err    error
		shared bool
	)
	select {
	case res := <-ch:
		v, err, shared = res.Val, res.Err, res.Shared
	case <-ctx.Done():
		err = ctx.Err()
	}
	r.observeOperation("get_schema", name, time.Since(start), err, map[string]interface{}{
		"cache_hit": false,
		"shared":    shared,
	})
	if err != nil {
		if r.logger != nil {
			r.logger.WarnWithContext(ctx, "failed to resolve record type", err, map[string]interface{}{
				"rectype": name,
			})
		}
		return nil, err
	}
	return v.(*RecordSchema), nil
}

func (r *Registry) resolve(ctx context.Context, name string) (*RecordSchema, error) {
	s, err := r.resolver.ResolveSchema(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrResolve, name, err)
	}
	if s == nil {
		return nil, fmt.Errorf("%w: %s: empty definition", ErrResolve, name)
	}
	if s.Name == "" {
		s.Name = name
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	r.cacheMutex.Lock()
	r.cache[name] = s
	r.cacheMutex.Unlock()

	if r.logger != nil {
		r.logger.InfoWithContext(ctx, "cached record type", nil, map[string]interface{}{
			"rectype":  name,
			"fields":   len(s.Fields),
			"datasize": s.DataSize,
		})
	}
	return s, nil
}

// Add stores s directly, replacing any cached layout of the same name.
func (r *Registry) Add(s *RecordSchema) error {
	if s == nil {
		return fmt.Errorf("%w: nil schema", ErrInvalidSchema)
	}
	if err := s.Validate(); err != nil {
		return err
	}
	r.cacheMutex.Lock()
	r.cache[s.Name] = s
	r.cacheMutex.Unlock()
	return nil
}

// Forget drops name from the cache so the next Get resolves it again.
func (r *Registry) Forget(name string) {
	r.cacheMutex.Lock()
	delete(r.cache, name)
	r.cacheMutex.Unlock()
}

// Len is the number of cached layouts.
func (r *Registry) Len() int {
	r.cacheMutex.RLock()
	defer r.cacheMutex.RUnlock()
	return len(r.cache)
}

// Names lists the cached record type names in no particular order.
func (r *Registry) Names() []string {
	r.cacheMutex.RLock()
	defer r.cacheMutex.RUnlock()
	names := make([]string, 0, len(r.cache))
	for name := range r.cache {
		names = append(names, name)
	}
	return names
}

func (r *Registry) observeOperation(operation, resource string, duration time.Duration, err error, metadata map[string]interface{}) {
	if r == nil || r.observer == nil {
		return
	}

	r.observer.ObserveOperation(observability.OperationContext{
		Component: "schema_registry",
		Operation: operation,
		Resource:  resource,
		Duration:  duration,
		Error:     err,
		Metadata:  metadata,
	})
}
