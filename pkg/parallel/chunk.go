package parallel

import (
	"context"
	"sync"
)

// ChunkSize splits n items across workers, overflow-safe and never below one.
func ChunkSize(n, workers int) int {
	if n <= 0 || workers <= 0 {
		return 1
	}
	size := n / workers
	if n%workers != 0 {
		size++
	}
	return size
}

// ForEachChunk calls fn for consecutive [lo, hi) ranges covering [0, n), one
// task per range, and waits for all of them. Ranges are sized so each worker
// gets several, which evens out uneven task costs. Once ctx is done remaining
// ranges are skipped and ctx's error is returned. The first error returned by
// fn is reported; panics in fn propagate to the caller.
func ForEachChunk(ctx context.Context, workers, n int, fn func(lo, hi int) error) error {
	if n <= 0 {
		return ctx.Err()
	}

	pool, err := NewWorkerPool(workers)
	if err != nil {
		return err
	}

	var (
		firstErr error
		errOnce  sync.Once
	)
	record := func(err error) {
		errOnce.Do(func() { firstErr = err })
	}

	chunk := ChunkSize(n, pool.Workers()*4)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		pool.Submit(func() {
			if err := ctx.Err(); err != nil {
				record(err)
				return
			}
			if err := fn(lo, hi); err != nil {
				record(err)
			}
		})
	}

	pool.Wait()
	return firstErr
}
