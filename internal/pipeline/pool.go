package pipeline

import (
	"context"
	"sync"

	"imgprep/internal/imageset"
	"imgprep/internal/variants"
)

type generateFunc func(ctx context.Context, src imageset.Source) (variants.Result, error)

// process runs generate over sources with at most jobs in flight. Results
// keep the order of sources. The first failure cancels outstanding work and
// is returned.
func process(ctx context.Context, sources []imageset.Source, jobs int, generate generateFunc) ([]variants.Result, error) {
	results := make([]variants.Result, len(sources))
	if jobs <= 1 || len(sources) <= 1 {
		for i, src := range sources {
			res, err := generate(ctx, src)
			if err != nil {
				return nil, err
			}
			results[i] = res
		}
		return results, nil
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	indexes := make(chan int)
	var wg sync.WaitGroup
	for range min(jobs, len(sources)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				if ctx.Err() != nil {
					continue
				}
				res, err := generate(ctx, sources[i])
				if err != nil {
					cancel(err)
					continue
				}
				results[i] = res
			}
		}()
	}

feed:
	for i := range sources {
		select {
		case indexes <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(indexes)
	wg.Wait()

	if err := context.Cause(ctx); err != nil {
		return nil, err
	}
	return results, nil
}
