package realip

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ResolveAll resolves records concurrently using at most workers goroutines
// and returns the resolutions in input order.
//
// workers <= 0 selects runtime.GOMAXPROCS(0). The only error returned is the
// context error when ctx is cancelled before every record was resolved.
func (r *Resolver) ResolveAll(ctx context.Context, records []Record, workers int) ([]Resolution, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]Resolution, len(records))
	if len(records) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	scheduled := 0
	for i := range records {
		if gctx.Err() != nil {
			break
		}
		scheduled++

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.ResolveContext(gctx, records[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if scheduled < len(records) {
		return nil, ctx.Err()
	}

	return results, nil
}
