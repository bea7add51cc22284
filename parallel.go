package nngrid

import "golang.org/x/sync/errgroup"

// parallelFor splits [0, n) into contiguous chunks of at least minChunk
// elements and runs fn on each with at most workers goroutines. Chunks are
// disjoint, so fn may write to per-index slots without synchronization.
func parallelFor(n, workers, minChunk int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	minChunk = max(minChunk, 1)
	chunks := min(workers, (n+minChunk-1)/minChunk)
	if chunks <= 1 {
		fn(0, n)
		return
	}
	size := (n + chunks - 1) / chunks

	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += size {
		hi := min(lo+size, n)
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	_ = g.Wait()
}
