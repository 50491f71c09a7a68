// Package workers provides a fixed-size goroutine pool for batch jobs.
package workers

import (
	"context"
	"iter"
	"runtime"
	"sync"
)

// Pool fans jobs of type J out to a fixed number of goroutines, each turning a
// job into a result of type R.
//
// Results arrive in completion order. Callers that need input order must carry
// an index inside J and R.
type Pool[J any, R any] struct {
	workers int
	work    func(J) R
}

// New creates a pool with the given number of workers. A non-positive count
// defaults to runtime.NumCPU.
func New[J any, R any](workers int, work func(J) R) *Pool[J, R] {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pool[J, R]{workers: workers, work: work}
}

// Cap returns the number of workers.
func (p *Pool[_, _]) Cap() int { return p.workers }

// Run feeds every job from jobs to the workers and yields results as they
// complete.
//
// Stopping the iteration early, or cancelling ctx, stops the feeder and lets
// the workers drain. Run must be consumed by a single goroutine.
func (p *Pool[J, R]) Run(ctx context.Context, jobs iter.Seq[J]) iter.Seq[R] {
	return func(yield func(R) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		in := make(chan J, p.workers)
		out := make(chan R, p.workers)

		go func() {
			defer close(in)
			for j := range jobs {
				select {
				case in <- j:
				case <-ctx.Done():
					return
				}
			}
		}()

		var wg sync.WaitGroup
		wg.Add(p.workers)
		for range p.workers {
			go func() {
				defer wg.Done()
				for j := range in {
					r := p.work(j)
					select {
					case out <- r:
					case <-ctx.Done():
						return
					}
				}
			}()
		}

		go func() {
			wg.Wait()
			close(out)
		}()

		for r := range out {
			if !yield(r) {
				return
			}
		}
	}
}
