package sliderule

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// RunPool calls fn for every index in [0, n) with at most workers calls in
// flight. The first error cancels the context passed to calls still running
// or not yet started and is returned. fn must not touch state owned by other
// indexes; results are usually written to a slice slot per index.
func RunPool(ctx context.Context, workers, n int, fn func(ctx context.Context, i int) error) error {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, i)
		})
	}
	return g.Wait()
}
