package dispatch

import (
	"context"

	"github.com/aalemi-dev/sliderule-go/logger"
	"github.com/aalemi-dev/sliderule-go/record"
)

// Route is where a decoded record goes.
type Route int

const (
	// RouteCollect appends the record to the result collection.
	RouteCollect Route = iota
	// RouteDispatch hands the record to a registered handler only.
	RouteDispatch
	// RouteDiagnostic reports the record as a service diagnostic.
	RouteDiagnostic
)

func (r Route) String() string {
	switch r {
	case RouteCollect:
		return "collect"
	case RouteDispatch:
		return "dispatch"
	case RouteDiagnostic:
		return "diagnostic"
	default:
		return "unknown"
	}
}

// Handler receives records of the type it is registered for.
type Handler func(ctx context.Context, rec *record.Record)

// Handlers maps record type names to handlers.
type Handlers map[string]Handler

// Logger forwards service diagnostics; *logger.LoggerClient satisfies it.
type Logger interface {
	Server(ctx context.Context, level logger.ServerLevel, msg string, fields ...map[string]interface{})
}

// Collector routes the records of one stream. Records with a handler go to
// the handler and are not collected. Diagnostic records are never collected:
// they are forwarded to the logger, the last exception or error-level one is
// kept, and a handler registered for the type is still called. Everything else is
// collected in arrival order.
//
// A Collector is not safe for concurrent use.
type Collector struct {
	handlers Handlers
	logger   Logger

	records []*record.Record
	counts  map[string]int
	last    *Diagnostic
}

// NewCollector creates a collector for one stream. handlers may be nil.
func NewCollector(handlers Handlers) *Collector {
	return &Collector{
		handlers: handlers,
		counts:   make(map[string]int),
	}
}

// WithLogger attaches the logger diagnostics are forwarded to.
func (c *Collector) WithLogger(logger Logger) *Collector {
	c.logger = logger
	return c
}

// Route reports where a record of typeName goes.
func (c *Collector) Route(typeName string) Route {
	if IsDiagnostic(typeName) {
		return RouteDiagnostic
	}
	if _, ok := c.handlers[typeName]; ok {
		return RouteDispatch
	}
	return RouteCollect
}

// Accept routes one decoded record.
func (c *Collector) Accept(ctx context.Context, rec *record.Record) {
	if rec == nil {
		return
	}
	c.counts[rec.Type]++

	switch c.Route(rec.Type) {
	case RouteDiagnostic:
		c.diagnostic(ctx, rec)
		if h, ok := c.handlers[rec.Type]; ok && h != nil {
			h(ctx, rec)
		}
	case RouteDispatch:
		if h := c.handlers[rec.Type]; h != nil {
			h(ctx, rec)
		}
	default:
		c.records = append(c.records, rec)
	}
}

func (c *Collector) diagnostic(ctx context.Context, rec *record.Record) {
	d, ok := ParseDiagnostic(rec)
	if !ok {
		return
	}
	if d.Type == ExceptionRecord || d.Failed() {
		c.last = d
	}
	if c.logger == nil {
		return
	}
	fields := map[string]interface{}{"rectype": d.Type}
	if d.Type == ExceptionRecord {
		fields["code"] = CodeName(d.Code)
	}
	c.logger.Server(ctx, d.Level, d.Message, fields)
}

// Records returns the collected records in arrival order.
func (c *Collector) Records() []*record.Record { return c.records }

// Len is the number of collected records.
func (c *Collector) Len() int { return len(c.records) }

// LastDiagnostic returns the most recent exception or error-level
// diagnostic, or nil.
func (c *Collector) LastDiagnostic() *Diagnostic { return c.last }

// Counts returns the number of records seen per type, routed or not.
func (c *Collector) Counts() map[string]int {
	out := make(map[string]int, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}
