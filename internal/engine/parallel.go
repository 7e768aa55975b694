package engine

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// rangeChunk is the fixed partition size spec.md §5's "fixed-chunk
// partitioning" describes, mirroring the teacher's dynamo.ParallelFor
// chunking — replaced here with errgroup.Group so the first worker's
// error (a Newton non-convergence abort, say) propagates back to the
// step instead of being silently dropped.
const rangeChunk = 64

// parallelRange calls fn(i) for every i in [0,n). When parallel is
// false, or n is small enough that chunking isn't worth the
// goroutine overhead, every index runs inline on the calling
// goroutine — spec.md §5's serial execution model is a real code
// path, not a vestigial flag. When parallel is true, indices are
// split into fixed-size chunks run concurrently via errgroup.Group;
// each chunk only ever writes to the caller-owned, particle-indexed
// outputs fn closes over, so there are no write-write races (spec.md
// §5: "each worker ... writes only to its owned particle's scratch
// fields"). Every chunk runs to completion; once all have finished,
// the first non-nil error is returned.
func parallelRange(n int, parallel bool, fn func(i int) error) error {
	if n == 0 {
		return nil
	}
	if !parallel || n <= rangeChunk {
		for i := 0; i < n; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	g, _ := errgroup.WithContext(context.Background())
	for start := 0; start < n; start += rangeChunk {
		end := start + rangeChunk
		if end > n {
			end = n
		}
		s, e := start, end
		g.Go(func() error {
			for i := s; i < e; i++ {
				if err := fn(i); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
