package icesat2

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aalemi-dev/sliderule-go/cmr"
)

// Surface reference types.
const (
	SRTDynamic     = -1
	SRTLand        = 0
	SRTOcean       = 1
	SRTSeaIce      = 2
	SRTLandIce     = 3
	SRTInlandWater = 4
)

// Photon signal confidence levels.
const (
	CNFPossibleTEP   = -2
	CNFNotConsidered = -1
	CNFBackground    = 0
	CNFWithin10m     = 1
	CNFSurfaceLow    = 2
	CNFSurfaceMedium = 3
	CNFSurfaceHigh   = 4
)

// ErrInvalidParms is returned by Parms.Validate.
var ErrInvalidParms = errors.New("invalid request parameters")

// Coord is one polygon vertex.
type Coord struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Parms are the processing parameters sent with every request.
type Parms struct {
	Poly []Coord `json:"poly,omitempty"`

	// SurfaceType selects the reference surface (SRT*).
	SurfaceType int `json:"srt"`
	// Confidence is the minimum photon confidence (CNF*).
	Confidence int `json:"cnf"`
	// AlongTrackSpread is the minimum along-track spread in meters.
	AlongTrackSpread float64 `json:"ats"`
	// MinPhotonCount is the minimum photons per extent.
	MinPhotonCount int `json:"cnt"`
	// Length is the extent length in meters.
	Length float64 `json:"len"`
	// Step is the distance between extents in meters.
	Step float64 `json:"res"`
	// MaxIterations bounds the surface fit.
	MaxIterations int `json:"maxi"`

	MinWindow   float64 `json:"H_min_win,omitempty"`
	MaxRobustSD float64 `json:"sigma_r_max,omitempty"`

	// T0 and T1 bound the granule time range (e.g. "2019-01-01T00:00:00Z").
	T0 string `json:"t0,omitempty"`
	T1 string `json:"t1,omitempty"`

	// Compact requests reduced output records.
	Compact bool `json:"compact,omitempty"`
}

// DefaultParms returns the parameters used by the land ice examples.
func DefaultParms() Parms {
	return Parms{
		SurfaceType:      SRTLandIce,
		Confidence:       CNFSurfaceHigh,
		AlongTrackSpread: 20.0,
		MinPhotonCount:   10,
		Length:           40.0,
		Step:             20.0,
		MaxIterations:    1,
	}
}

// Validate reports parameter errors the service would reject.
func (p Parms) Validate() error {
	var errs []error
	if p.SurfaceType < SRTDynamic || p.SurfaceType > SRTInlandWater {
		errs = append(errs, fmt.Errorf("srt %d out of range", p.SurfaceType))
	}
	if p.Confidence < CNFPossibleTEP || p.Confidence > CNFSurfaceHigh {
		errs = append(errs, fmt.Errorf("cnf %d out of range", p.Confidence))
	}
	if p.Length <= 0 {
		errs = append(errs, fmt.Errorf("len must be positive, got %g", p.Length))
	}
	if p.Step <= 0 {
		errs = append(errs, fmt.Errorf("res must be positive, got %g", p.Step))
	}
	if p.MinPhotonCount < 0 {
		errs = append(errs, fmt.Errorf("cnt must not be negative, got %d", p.MinPhotonCount))
	}
	if p.AlongTrackSpread < 0 {
		errs = append(errs, fmt.Errorf("ats must not be negative, got %g", p.AlongTrackSpread))
	}
	if p.MaxIterations < 0 {
		errs = append(errs, fmt.Errorf("maxi must not be negative, got %d", p.MaxIterations))
	}
	if n := len(p.Poly); n > 0 && n < 3 {
		errs = append(errs, fmt.Errorf("poly needs at least 3 vertices, got %d", n))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidParms, errors.Join(errs...))
}

// CMRPolygon converts Poly for a catalog query.
func (p Parms) CMRPolygon() []cmr.Point {
	if len(p.Poly) == 0 {
		return nil
	}
	out := make([]cmr.Point, len(p.Poly))
	for i, c := range p.Poly {
		out[i] = cmr.Point{Lon: c.Lon, Lat: c.Lat}
	}
	return out
}

// ParsePolygon parses "lon,lat lon,lat ..." (whitespace or ';' between
// vertices).
func ParsePolygon(s string) ([]Coord, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ';' || r == '\t' || r == '\n'
	})
	poly := make([]Coord, 0, len(fields))
	for _, f := range fields {
		lon, lat, ok := strings.Cut(f, ",")
		if !ok {
			return nil, fmt.Errorf("vertex %q is not lon,lat", f)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
		if err != nil {
			return nil, fmt.Errorf("vertex %q: %w", f, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
		if err != nil {
			return nil, fmt.Errorf("vertex %q: %w", f, err)
		}
		if y < -90 || y > 90 || x < -180 || x > 360 {
			return nil, fmt.Errorf("vertex %q out of range", f)
		}
		poly = append(poly, Coord{Lon: x, Lat: y})
	}
	return poly, nil
}
