// Package cmr searches NASA's Common Metadata Repository for granules.
//
// Search pages through /search/granules.json with the CMR-Search-After
// header and returns producer granule ids, the resource names SlideRule
// requests expect:
//
//	catalog, err := cmr.NewClient(cmr.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	names, err := catalog.Search(ctx, cmr.Query{
//	    ShortName: "ATL03",
//	    Version:   "006",
//	    Polygon:   region,
//	})
package cmr
