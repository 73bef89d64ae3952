package icesat2

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/aalemi-dev/sliderule-go/cmr"
	"github.com/aalemi-dev/sliderule-go/dispatch"
	"github.com/aalemi-dev/sliderule-go/record"
	"github.com/aalemi-dev/sliderule-go/sliderule"
	"github.com/aalemi-dev/sliderule-go/table"
)

const (
	// DefaultAsset is the ATL03 data asset on the public cluster.
	DefaultAsset = "icesat2"

	// DefaultVersion is the ATL03 product version searched for.
	DefaultVersion = "006"

	// ATL03 is the geolocated photon product.
	ATL03 = "ATL03"
)

// ErrNoSearcher is returned when granules must be resolved and no catalog
// searcher is configured.
var ErrNoSearcher = errors.New("no granule searcher configured")

// Config holds configuration for the ICESat-2 APIs.
type Config struct {
	Asset   string `yaml:"asset" envconfig:"ASSET"`
	Version string `yaml:"version" envconfig:"VERSION"`
	Workers int    `yaml:"workers" envconfig:"WORKERS"`
}

// DefaultConfig returns the public cluster configuration.
func DefaultConfig() Config {
	return Config{Asset: DefaultAsset, Version: DefaultVersion, Workers: sliderule.DefaultWorkers}
}

// Streamer issues streaming requests; *sliderule.Client satisfies it.
type Streamer interface {
	Stream(ctx context.Context, api string, parms interface{}, handlers dispatch.Handlers) (*sliderule.Result, error)
}

// GranuleSearcher resolves granule names; *cmr.Client satisfies it.
type GranuleSearcher interface {
	Search(ctx context.Context, q cmr.Query) ([]string, error)
}

// Logger is the subset of the logger package the APIs need.
type Logger interface {
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// API runs the ICESat-2 processing requests.
type API struct {
	client   Streamer
	searcher GranuleSearcher
	logger   Logger
	config   Config
}

// NewAPI creates the API over client.
func NewAPI(client Streamer, config Config) *API {
	if config.Asset == "" {
		config.Asset = DefaultAsset
	}
	if config.Version == "" {
		config.Version = DefaultVersion
	}
	if config.Workers <= 0 {
		config.Workers = sliderule.DefaultWorkers
	}
	return &API{client: client, config: config}
}

// WithSearcher sets the catalog used when no resources are given.
func (a *API) WithSearcher(searcher GranuleSearcher) *API {
	a.searcher = searcher
	return a
}

// WithLogger attaches a logger and returns the API for chaining.
func (a *API) WithLogger(logger Logger) *API {
	a.logger = logger
	return a
}

// Result holds the rows of one or more granule requests.
type Result struct {
	// Rows are in resource order, then stream order.
	Rows []*record.Record
	// Failed maps resources that produced no rows to the reason.
	Failed map[string]error
	// Diagnostics holds the last service diagnostic per resource.
	Diagnostics map[string]*dispatch.Diagnostic
	// Truncated lists resources whose streams ended early.
	Truncated []string
}

// Table converts the rows into an Arrow record batch.
func (r *Result) Table(mem memory.Allocator) (arrow.Record, error) {
	return table.Build(mem, r.Rows)
}

type request struct {
	Asset    string `json:"atl03-asset"`
	Resource string `json:"resource"`
	Parms    Parms  `json:"parms"`
}

// Atl06 computes elevations for one granule. Rows are the flattened
// atl06rec.elevation records.
func (a *API) Atl06(ctx context.Context, parms Parms, resource string) (*Result, error) {
	return a.one(ctx, "atl06", "elevation", parms, resource)
}

// Atl06p runs Atl06 over resources in parallel. With no resources the
// granules are found through the searcher. Per-granule failures are logged
// and recorded in Result.Failed; they do not fail the call.
func (a *API) Atl06p(ctx context.Context, parms Parms, resources []string, workers int) (*Result, error) {
	return a.many(ctx, "atl06", "elevation", parms, resources, workers)
}

// Atl03s subsets photons for one granule. Rows are the flattened
// atl03rec.photons records carrying their extent's fields.
func (a *API) Atl03s(ctx context.Context, parms Parms, resource string) (*Result, error) {
	return a.one(ctx, "atl03s", "photons", parms, resource)
}

// Atl03sp runs Atl03s over resources in parallel.
func (a *API) Atl03sp(ctx context.Context, parms Parms, resources []string, workers int) (*Result, error) {
	return a.many(ctx, "atl03s", "photons", parms, resources, workers)
}

// Granules resolves the granules covering parms through the searcher.
// Unset query fields are filled from parms and the configuration.
func (a *API) Granules(ctx context.Context, parms Parms, q cmr.Query) ([]string, error) {
	if a.searcher == nil {
		return nil, ErrNoSearcher
	}
	if q.ShortName == "" {
		q.ShortName = ATL03
	}
	if q.Version == "" {
		q.Version = a.config.Version
	}
	if len(q.Polygon) == 0 {
		q.Polygon = parms.CMRPolygon()
	}
	var err error
	if q.Start.IsZero() && parms.T0 != "" {
		if q.Start, err = time.Parse(time.RFC3339, parms.T0); err != nil {
			return nil, fmt.Errorf("%w: t0: %w", ErrInvalidParms, err)
		}
	}
	if q.End.IsZero() && parms.T1 != "" {
		if q.End, err = time.Parse(time.RFC3339, parms.T1); err != nil {
			return nil, fmt.Errorf("%w: t1: %w", ErrInvalidParms, err)
		}
	}
	return a.searcher.Search(ctx, q)
}

func (a *API) one(ctx context.Context, api, field string, parms Parms, resource string) (*Result, error) {
	if err := parms.Validate(); err != nil {
		return nil, err
	}
	rows, res, err := a.granule(ctx, api, field, parms, resource)
	out := newResult()
	out.add(resource, rows, res, err)
	if err != nil && len(rows) == 0 {
		return out, err
	}
	return out, nil
}

func (a *API) many(ctx context.Context, api, field string, parms Parms, resources []string, workers int) (*Result, error) {
	if err := parms.Validate(); err != nil {
		return nil, err
	}
	if len(resources) == 0 {
		found, err := a.Granules(ctx, parms, cmr.Query{})
		if err != nil {
			return nil, err
		}
		resources = found
	}
	if workers <= 0 {
		workers = a.config.Workers
	}

	type slot struct {
		rows []*record.Record
		res  *sliderule.Result
		err  error
	}
	slots := make([]slot, len(resources))

	err := sliderule.RunPool(ctx, workers, len(resources), func(ctx context.Context, i int) error {
		rows, res, err := a.granule(ctx, api, field, parms, resources[i])
		slots[i] = slot{rows: rows, res: res, err: err}
		if err != nil && a.logger != nil {
			a.logger.WarnWithContext(ctx, "granule request failed", err, map[string]interface{}{
				"api":      api,
				"resource": resources[i],
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := newResult()
	for i, s := range slots {
		out.add(resources[i], s.rows, s.res, s.err)
	}
	if a.logger != nil {
		a.logger.InfoWithContext(ctx, "parallel request complete", nil, map[string]interface{}{
			"api":       api,
			"resources": len(resources),
			"failed":    len(out.Failed),
			"rows":      len(out.Rows),
		})
	}
	return out, nil
}

func (a *API) granule(ctx context.Context, api, field string, parms Parms, resource string) ([]*record.Record, *sliderule.Result, error) {
	res, err := a.client.Stream(ctx, api, request{
		Asset:    a.config.Asset,
		Resource: resource,
		Parms:    parms,
	}, nil)
	if res == nil {
		return nil, nil, err
	}
	return table.Flatten(res.Records, field), res, err
}

func newResult() *Result {
	return &Result{
		Failed:      make(map[string]error),
		Diagnostics: make(map[string]*dispatch.Diagnostic),
	}
}

func (r *Result) add(resource string, rows []*record.Record, res *sliderule.Result, err error) {
	r.Rows = append(r.Rows, rows...)
	if res != nil {
		if res.Diagnostic != nil {
			r.Diagnostics[resource] = res.Diagnostic
		}
		if res.Truncated {
			r.Truncated = append(r.Truncated, resource)
		}
	}
	switch {
	case err != nil:
		r.Failed[resource] = err
	case len(rows) == 0 && res != nil && res.Diagnostic != nil:
		r.Failed[resource] = res.Diagnostic
	}
}
