package engine

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Result carries one task's outcome through the pool. Key is the input
// the task was spawned for, so a failed instrument can be identified
// after unordered collection.
type Result[T any] struct {
	Key   string
	Value T
	Err   error
}

// runPool fans keys out over a bounded worker pool with a per-task
// timeout. Results arrive in completion order, one per key; a panic or
// timeout in one task surfaces as that task's error and never aborts
// the batch.
func runPool[T any](ctx context.Context, keys []string, workers int, taskTimeout time.Duration, fn func(context.Context, string) (T, error)) []Result[T] {
	if workers <= 0 {
		workers = 4
	}
	if taskTimeout <= 0 {
		taskTimeout = 45 * time.Second
	}

	jobs := make(chan string)
	results := make(chan Result[T])

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for key := range jobs {
				results <- runOne(ctx, key, taskTimeout, fn)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, k := range keys {
			select {
			case jobs <- k:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]Result[T], 0, len(keys))
	for r := range results {
		out = append(out, r)
	}
	return out
}

func runOne[T any](ctx context.Context, key string, timeout time.Duration, fn func(context.Context, string) (T, error)) Result[T] {
	taskCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Buffered so an abandoned (timed-out) task can still finish and exit.
	done := make(chan Result[T], 1)
	go func() {
		r := Result[T]{Key: key}
		defer func() {
			if p := recover(); p != nil {
				r = Result[T]{Key: key, Err: fmt.Errorf("task %s panicked: %v", key, p)}
			}
			done <- r
		}()
		r.Value, r.Err = fn(taskCtx, key)
	}()

	select {
	case r := <-done:
		return r
	case <-taskCtx.Done():
		return Result[T]{Key: key, Err: fmt.Errorf("task %s: %w", key, taskCtx.Err())}
	}
}
