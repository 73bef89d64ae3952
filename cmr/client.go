package cmr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aalemi-dev/sliderule-go/observability"
)

const (
	// DefaultURL is NASA's Common Metadata Repository.
	DefaultURL = "https://cmr.earthdata.nasa.gov"

	// DefaultProvider hosts the ICESat-2 products.
	DefaultProvider = "NSIDC_ECS"

	// DefaultPageSize is the largest page CMR serves.
	DefaultPageSize = 2000

	// SearchAfterHeader carries the pagination cursor in both directions.
	SearchAfterHeader = "CMR-Search-After"

	granulesPath = "/search/granules.json"
)

// Config holds configuration for the catalog client.
type Config struct {
	URL      string        `yaml:"url" envconfig:"URL"`
	Provider string        `yaml:"provider" envconfig:"PROVIDER"`
	PageSize int           `yaml:"page_size" envconfig:"PAGE_SIZE"`
	Timeout  time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
	// MaxPages bounds pagination; 0 means unbounded.
	MaxPages int `yaml:"max_pages" envconfig:"MAX_PAGES"`
}

// DefaultConfig returns the public CMR configuration.
func DefaultConfig() Config {
	return Config{
		URL:      DefaultURL,
		Provider: DefaultProvider,
		PageSize: DefaultPageSize,
		Timeout:  time.Minute,
	}
}

// Point is one polygon vertex.
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Query selects granules.
type Query struct {
	ShortName string
	Version   string
	// Polygon is counter-clockwise; it is closed automatically.
	Polygon []Point
	Start   time.Time
	End     time.Time
}

// Logger is the subset of the logger package the client needs.
type Logger interface {
	DebugWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// Client searches the catalog for granule names.
type Client struct {
	config     Config
	httpClient *http.Client

	observer observability.Observer
	logger   Logger
}

// NewClient creates a catalog client.
func NewClient(config Config) (*Client, error) {
	if config.URL == "" {
		config.URL = DefaultURL
	}
	if _, err := url.Parse(config.URL); err != nil {
		return nil, fmt.Errorf("invalid cmr url %q: %w", config.URL, err)
	}
	if config.PageSize <= 0 || config.PageSize > DefaultPageSize {
		config.PageSize = DefaultPageSize
	}
	if config.Timeout == 0 {
		config.Timeout = time.Minute
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}, nil
}

// WithObserver attaches an observer and returns the client for chaining.
func (c *Client) WithObserver(observer observability.Observer) *Client {
	c.observer = observer
	return c
}

// WithLogger attaches a logger and returns the client for chaining.
func (c *Client) WithLogger(logger Logger) *Client {
	c.logger = logger
	return c
}

type searchResponse struct {
	Feed struct {
		Entry []struct {
			ProducerGranuleID string `json:"producer_granule_id"`
			Title             string `json:"title"`
		} `json:"entry"`
	} `json:"feed"`
}

// Search returns the producer granule ids matching q, following pagination
// until a short page or a missing cursor.
func (c *Client) Search(ctx context.Context, q Query) ([]string, error) {
	start := time.Now()
	params, err := c.params(q)
	if err != nil {
		return nil, err
	}

	var (
		granules []string
		cursor   string
		pages    int
	)
	for {
		names, next, err := c.page(ctx, params, cursor)
		pages++
		if err != nil {
			c.observeOperation(q.ShortName, time.Since(start), err, len(granules), pages)
			return nil, err
		}
		granules = append(granules, names...)
		if c.logger != nil {
			c.logger.DebugWithContext(ctx, "cmr page", nil, map[string]interface{}{
				"page":     pages,
				"granules": len(names),
			})
		}

		if next == "" || len(names) < c.config.PageSize {
			break
		}
		if c.config.MaxPages > 0 && pages >= c.config.MaxPages {
			if c.logger != nil {
				c.logger.WarnWithContext(ctx, "cmr search stopped at page limit", nil, map[string]interface{}{
					"pages":    pages,
					"granules": len(granules),
				})
			}
			break
		}
		cursor = next
	}

	c.observeOperation(q.ShortName, time.Since(start), nil, len(granules), pages)
	return granules, nil
}

func (c *Client) page(ctx context.Context, params url.Values, cursor string) ([]string, string, error) {
	endpoint := strings.TrimSuffix(c.config.URL, "/") + granulesPath + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if cursor != "" {
		req.Header.Set(SearchAfterHeader, cursor)
	}

	resp, err := c.httpClient.Do(req) //nolint:gosec
	if err != nil {
		return nil, "", fmt.Errorf("failed to query cmr: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, "", fmt.Errorf("cmr returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, "", fmt.Errorf("failed to decode cmr response: %w", err)
	}

	names := make([]string, 0, len(result.Feed.Entry))
	for _, e := range result.Feed.Entry {
		name := e.ProducerGranuleID
		if name == "" {
			name = e.Title
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return names, resp.Header.Get(SearchAfterHeader), nil
}

func (c *Client) params(q Query) (url.Values, error) {
	if q.ShortName == "" {
		return nil, fmt.Errorf("cmr query requires a short name")
	}
	params := url.Values{}
	params.Set("short_name", q.ShortName)
	if q.Version != "" {
		params.Set("version", q.Version)
	}
	if c.config.Provider != "" {
		params.Set("provider", c.config.Provider)
	}
	params.Set("page_size", strconv.Itoa(c.config.PageSize))
	params.Set("sort_key[]", "start_date")

	if len(q.Polygon) > 0 {
		poly, err := PolygonParam(q.Polygon)
		if err != nil {
			return nil, err
		}
		params.Set("polygon", poly)
	}
	if !q.Start.IsZero() || !q.End.IsZero() {
		params.Set("temporal", temporalParam(q.Start, q.End))
	}
	return params, nil
}

// PolygonParam renders a polygon as "lon,lat,lon,lat,...", closing it when
// the last vertex differs from the first.
func PolygonParam(poly []Point) (string, error) {
	if len(poly) < 3 {
		return "", fmt.Errorf("polygon needs at least 3 vertices, got %d", len(poly))
	}
	if poly[0] != poly[len(poly)-1] {
		poly = append(poly[:len(poly):len(poly)], poly[0])
	}
	parts := make([]string, 0, 2*len(poly))
	for _, p := range poly {
		parts = append(parts,
			strconv.FormatFloat(p.Lon, 'f', -1, 64),
			strconv.FormatFloat(p.Lat, 'f', -1, 64),
		)
	}
	return strings.Join(parts, ","), nil
}

func temporalParam(start, end time.Time) string {
	format := func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format(time.RFC3339)
	}
	return format(start) + "," + format(end)
}

func (c *Client) observeOperation(resource string, duration time.Duration, err error, granules, pages int) {
	if c == nil || c.observer == nil {
		return
	}
	c.observer.ObserveOperation(observability.OperationContext{
		Component: "cmr",
		Operation: "search",
		Resource:  resource,
		Duration:  duration,
		Error:     err,
		Metadata: map[string]interface{}{
			"granules": granules,
			"pages":    pages,
		},
	})
}
