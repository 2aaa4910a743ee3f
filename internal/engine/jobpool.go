package engine

import (
	"context"
	"runtime"
)

// JobPool bounds the number of concurrently executing functions. It exposes
// a single primitive, Submit, which defers execution to a worker goroutine
// rather than running the function synchronously on the caller's
// goroutine — this keeps the pool's fairness independent of caller order.
type JobPool struct {
	sem chan struct{}
}

// NewJobPool constructs a pool admitting n concurrent jobs. n<=0 defaults to
// runtime.NumCPU()+1.
func NewJobPool(n int) *JobPool {
	if n <= 0 {
		n = runtime.NumCPU() + 1
	}
	return &JobPool{sem: make(chan struct{}, n)}
}

// Limit returns the pool's concurrency bound.
func (p *JobPool) Limit() int { return cap(p.sem) }

// Submit runs fn on a dedicated goroutine once a slot is free, and returns
// its error over the returned channel. The channel is always sent to
// exactly once and then closed. Submit returns immediately; it never runs
// fn on the calling goroutine.
func (p *JobPool) Submit(ctx context.Context, fn func(ctx context.Context) error) <-chan error {
	result := make(chan error, 1)
	go func() {
		select {
		case p.sem <- struct{}{}:
		case <-ctx.Done():
			result <- ctx.Err()
			close(result)
			return
		}
		defer func() { <-p.sem }()

		result <- fn(ctx)
		close(result)
	}()
	return result
}
