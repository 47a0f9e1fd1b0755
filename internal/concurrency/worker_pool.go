package concurrency

import (
	"context"
	"sync"
)

// WorkerFn handles the task at index.
type WorkerFn func(ctx context.Context, index int)

// SimpleWorkerPool calls fn once for each index in [0, tasks) using at most
// concurrency goroutines, and returns when every started task has finished.
// Once ctx is done no further tasks are handed out.
func SimpleWorkerPool(ctx context.Context, concurrency int, tasks int, fn WorkerFn) {
	if tasks <= 0 {
		return
	}
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > tasks {
		concurrency = tasks
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexes {
				fn(ctx, idx)
			}
		}()
	}

feed:
	for i := 0; i < tasks; i++ {
		select {
		case indexes <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(indexes)
	wg.Wait()
}
