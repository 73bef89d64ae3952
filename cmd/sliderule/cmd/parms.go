package cmd

import (
	"github.com/spf13/pflag"

	"github.com/aalemi-dev/sliderule-go/icesat2"
)

// parmsFlags binds the processing parameters shared by the ICESat-2 commands.
type parmsFlags struct {
	parms   icesat2.Parms
	poly    string
	workers int
}

func newParmsFlags(fs *pflag.FlagSet) *parmsFlags {
	p := &parmsFlags{parms: icesat2.DefaultParms()}
	fs.StringVar(&p.poly, "poly", "", `region polygon as "lon,lat lon,lat ..."`)
	fs.IntVar(&p.parms.SurfaceType, "srt", p.parms.SurfaceType, "surface type (0 land, 1 ocean, 2 sea ice, 3 land ice, 4 inland water)")
	fs.IntVar(&p.parms.Confidence, "cnf", p.parms.Confidence, "minimum photon confidence (-2..4)")
	fs.Float64Var(&p.parms.AlongTrackSpread, "ats", p.parms.AlongTrackSpread, "minimum along-track spread in meters")
	fs.IntVar(&p.parms.MinPhotonCount, "cnt", p.parms.MinPhotonCount, "minimum photon count per extent")
	fs.Float64Var(&p.parms.Length, "len", p.parms.Length, "extent length in meters")
	fs.Float64Var(&p.parms.Step, "res", p.parms.Step, "extent step in meters")
	fs.IntVar(&p.parms.MaxIterations, "maxi", p.parms.MaxIterations, "maximum fit iterations")
	fs.StringVar(&p.parms.T0, "t0", "", "start time (RFC 3339)")
	fs.StringVar(&p.parms.T1, "t1", "", "end time (RFC 3339)")
	fs.BoolVar(&p.parms.Compact, "compact", false, "request compact records")
	fs.IntVar(&p.workers, "workers", 0, "concurrent granule requests (0 uses the configured value)")
	return p
}

func (p *parmsFlags) build() (icesat2.Parms, error) {
	parms := p.parms
	if p.poly != "" {
		poly, err := icesat2.ParsePolygon(p.poly)
		if err != nil {
			return parms, err
		}
		parms.Poly = poly
	}
	return parms, parms.Validate()
}
