package sliderule

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/aalemi-dev/sliderule-go/logger"
	"github.com/aalemi-dev/sliderule-go/observability"
	"github.com/aalemi-dev/sliderule-go/schema"
	"github.com/aalemi-dev/sliderule-go/tracer"
)

// RequestIDHeader carries the client generated id of each request.
const RequestIDHeader = "X-Request-ID"

const maxErrorBody = 4 << 10

// Logger is an interface that matches the logger.LoggerClient methods the
// client uses: context-aware leveled logging plus forwarding of server-side
// log records.
type Logger interface {
	DebugWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	Server(ctx context.Context, level logger.ServerLevel, msg string, fields ...map[string]interface{})
}

// Client talks to a SlideRule deployment. It is safe for concurrent use; all
// requests share one schema registry.
type Client struct {
	config     Config
	httpClient *http.Client
	registry   *schema.Registry

	observer observability.Observer
	logger   Logger
	tracer   tracer.Tracer
}

// NewClient creates a client. The record schema registry resolves unknown
// types through the service's definition endpoint.
func NewClient(config Config) (*Client, error) {
	config = config.withDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
	c.registry = schema.NewRegistry(DefinitionResolver{Client: c})
	return c, nil
}

// WithObserver attaches an observer to the client and its schema registry.
func (c *Client) WithObserver(observer observability.Observer) *Client {
	c.observer = observer
	c.registry.WithObserver(observer)
	return c
}

// WithLogger attaches a logger to the client and its schema registry.
func (c *Client) WithLogger(logger Logger) *Client {
	c.logger = logger
	if logger != nil {
		c.registry.WithLogger(logger)
	}
	return c
}

// WithTracer makes the client open spans and propagate trace headers.
func (c *Client) WithTracer(t tracer.Tracer) *Client {
	c.tracer = t
	return c
}

// WithHTTPClient replaces the transport, e.g. for tests or proxies. The
// configured timeout is applied when hc has none.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc.Timeout == 0 {
		hc.Timeout = c.config.Timeout
	}
	c.httpClient = hc
	return c
}

// Config returns the effective configuration.
func (c *Client) Config() Config { return c.config }

// Schemas returns the record schema registry shared by every request.
func (c *Client) Schemas() *schema.Registry { return c.registry }

// Request issues a non-streaming request and decodes the JSON answer into out.
// out may be nil to discard the body.
func (c *Client) Request(ctx context.Context, api string, parms interface{}, out interface{}) error {
	start := time.Now()
	requestID := uuid.NewString()

	resp, err := c.post(ctx, api, parms, requestID)
	if err != nil {
		c.observeOperation("request", api, requestID, time.Since(start), err, 0, nil)
		return err
	}
	body, err := c.responseBody(resp)
	if err != nil {
		_ = resp.Body.Close()
		c.observeOperation("request", api, requestID, time.Since(start), err, 0, nil)
		return err
	}
	defer func() { _ = body.Close() }()

	data, err := io.ReadAll(body)
	if err == nil && out != nil {
		err = json.Unmarshal(data, out)
	}
	if err != nil {
		err = fmt.Errorf("%w: %s: %w", ErrDecodeResponse, api, err)
	}
	c.observeOperation("request", api, requestID, time.Since(start), err, int64(len(data)), nil)
	return err
}

// Version returns the service version document.
func (c *Client) Version(ctx context.Context) (map[string]interface{}, error) {
	var out map[string]interface{}
	if err := c.Request(ctx, "version", struct{}{}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, api string, parms interface{}, requestID string) (*http.Response, error) {
	endpoint, err := c.config.ServiceURL(api)
	if err != nil {
		return nil, err
	}
	if parms == nil {
		parms = struct{}{}
	}
	payload, err := json.Marshal(parms)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s parameters: %w", api, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}
	if c.config.Compression {
		req.Header.Set("Accept-Encoding", "zstd")
	}
	if c.tracer != nil {
		for k, v := range c.tracer.GetCarrier(ctx) {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.httpClient.Do(req) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRequestFailed, api, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer func() { _ = resp.Body.Close() }()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &ServiceError{
			API:        api,
			StatusCode: resp.StatusCode,
			Message:    string(bytes.TrimSpace(msg)),
		}
	}
	return resp, nil
}

// responseBody unwraps zstd content encoding. Closing the result closes the
// response body.
func (c *Client) responseBody(resp *http.Response) (io.ReadCloser, error) {
	if resp.Header.Get("Content-Encoding") != "zstd" {
		return resp.Body, nil
	}
	dec, err := zstd.NewReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	return &zstdBody{dec: dec, body: resp.Body}, nil
}

type zstdBody struct {
	dec  *zstd.Decoder
	body io.ReadCloser
}

func (z *zstdBody) Read(p []byte) (int, error) { return z.dec.Read(p) }

func (z *zstdBody) Close() error {
	z.dec.Close()
	return z.body.Close()
}
