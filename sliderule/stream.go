package sliderule

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/aalemi-dev/sliderule-go/dispatch"
	"github.com/aalemi-dev/sliderule-go/record"
	"github.com/aalemi-dev/sliderule-go/stream"
	"github.com/aalemi-dev/sliderule-go/tracer"
)

// Result is the outcome of one streaming request.
type Result struct {
	// Records holds the collected records in arrival order.
	Records []*record.Record

	// Diagnostic is the last exception or error reported by the service.
	Diagnostic *dispatch.Diagnostic

	// Truncated is set when the stream ended inside a record or carried a
	// malformed frame; Records then holds what arrived before the fault.
	Truncated bool

	// FramingError is the framing fault behind Truncated.
	FramingError error

	// Counts is the number of records received per type, diagnostics and
	// handled records included.
	Counts map[string]int

	RequestID string
	Bytes     int64
}

// Empty reports whether no records were collected.
func (r *Result) Empty() bool { return r == nil || len(r.Records) == 0 }

// Stream issues a streaming request and decodes the response records.
//
// Records whose type has a handler go to the handler, diagnostics go to the
// logger, and everything else is collected into the Result. A malformed or
// truncated stream is logged and yields the records received so far with a
// nil error. A transport failure mid-stream yields the partial Result
// together with an error wrapping stream.ErrStreamAborted.
func (c *Client) Stream(ctx context.Context, api string, parms interface{}, handlers dispatch.Handlers) (*Result, error) {
	start := time.Now()
	requestID := uuid.NewString()

	if c.tracer != nil {
		var span tracer.Span
		ctx, span = c.tracer.StartSpan(ctx, "sliderule."+api)
		defer span.End()
		span.SetAttributes(map[string]interface{}{
			"sliderule.api":        api,
			"sliderule.request_id": requestID,
		})
		res, err := c.stream(ctx, api, parms, handlers, requestID, start)
		if res != nil {
			span.SetAttributes(map[string]interface{}{
				"sliderule.records":   len(res.Records),
				"sliderule.truncated": res.Truncated,
			})
		}
		span.RecordError(err)
		return res, err
	}
	return c.stream(ctx, api, parms, handlers, requestID, start)
}

func (c *Client) stream(ctx context.Context, api string, parms interface{}, handlers dispatch.Handlers, requestID string, start time.Time) (*Result, error) {
	resp, err := c.post(ctx, api, parms, requestID)
	if err != nil {
		c.logError(ctx, "stream request failed", err, api, requestID)
		c.observeOperation("stream", api, requestID, time.Since(start), err, 0, nil)
		return nil, err
	}
	body, err := c.responseBody(resp)
	if err != nil {
		_ = resp.Body.Close()
		c.observeOperation("stream", api, requestID, time.Since(start), err, 0, nil)
		return nil, err
	}
	defer func() { _ = body.Close() }()

	res, err := c.drain(ctx, api, body, handlers)
	res.RequestID = requestID

	c.observeOperation("stream", api, requestID, time.Since(start), err, res.Bytes, map[string]interface{}{
		"records":   len(res.Records),
		"truncated": res.Truncated,
	})
	return res, err
}

func (c *Client) drain(ctx context.Context, api string, body io.Reader, handlers dispatch.Handlers) (*Result, error) {
	reader := stream.NewReader(body, c.config.MaxRecordSize, c.config.ChunkSize)
	decoder := record.NewDecoder(c.registry)
	collector := dispatch.NewCollector(handlers)
	if c.logger != nil {
		decoder.WithLogger(c.logger)
		collector.WithLogger(c.logger)
	}

	res := &Result{}
	var streamErr error
	for {
		wire, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if stream.IsFramingError(err) {
				res.Truncated = true
				res.FramingError = err
				c.logWarn(ctx, "response stream truncated", err, api, reader.Records())
			} else {
				streamErr = err
				c.logError(ctx, "response stream aborted", err, api, "")
			}
			break
		}
		collector.Accept(ctx, decoder.Decode(ctx, wire.Type, wire.Payload))
	}

	res.Records = collector.Records()
	res.Diagnostic = collector.LastDiagnostic()
	res.Counts = collector.Counts()
	res.Bytes = reader.BytesRead()
	return res, streamErr
}

func (c *Client) logWarn(ctx context.Context, msg string, err error, api string, records int) {
	if c.logger == nil {
		return
	}
	c.logger.WarnWithContext(ctx, msg, err, map[string]interface{}{
		"api":     api,
		"records": records,
	})
}

func (c *Client) logError(ctx context.Context, msg string, err error, api, requestID string) {
	if c.logger == nil {
		return
	}
	fields := map[string]interface{}{"api": api}
	if requestID != "" {
		fields["request_id"] = requestID
	}
	c.logger.ErrorWithContext(ctx, msg, err, fields)
}
