// Package icesat2 wraps the ICESat-2 endpoints of the service: ATL06 elevations
// computed on the fly (atl06, atl06p) and ATL03 photon subsets (atl03s,
// atl03sp).
//
// Results are flattened into one row per elevation or photon, each carrying
// the scalar fields of the record it came from. The parallel variants fan out
// over granules with sliderule.RunPool; a granule that fails is recorded in
// Result.Failed and does not fail the call.
package icesat2
