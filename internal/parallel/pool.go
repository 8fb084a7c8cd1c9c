// Package parallel provides a fixed worker pool used by the scene
// loader to decode model files concurrently.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a fixed set of worker goroutines draining a shared task
// queue. Model decoding tasks are few and coarse, so a single queue
// is enough; there is no per-worker balancing.
//
// Pool is safe for concurrent use.
type Pool struct {
	tasks   chan func()
	wg      sync.WaitGroup
	workers int
	closed  atomic.Bool
}

// NewPool starts a pool with the given number of workers. If workers
// is not positive, GOMAXPROCS is used.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		tasks:   make(chan func(), workers*2),
		workers: workers,
	}
	p.wg.Add(workers)
	for range workers {
		go func() {
			defer p.wg.Done()
			for fn := range p.tasks {
				fn()
			}
		}()
	}
	return p
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int { return p.workers }

// Submit queues fn for execution. It blocks while the queue is full.
// Submitting to a closed pool is a no-op.
func (p *Pool) Submit(fn func()) {
	if fn == nil || p.closed.Load() {
		return
	}
	p.tasks <- fn
}

// ForEach runs fn for every index in [0, n) on the pool and waits for
// all of them. It returns the first error encountered; the remaining
// tasks still run to completion.
func (p *Pool) ForEach(n int, fn func(i int) error) error {
	if n <= 0 || p.closed.Load() {
		return nil
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	wg.Add(n)
	for i := range n {
		p.tasks <- func() {
			defer wg.Done()
			if err := fn(i); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}
	}
	wg.Wait()
	return firstErr
}

// Close stops accepting work, runs everything already queued, and
// waits for the workers to exit. Close is safe to call twice.
func (p *Pool) Close() {
	if !p.closed.CompareAndSwap(false, true) {
		return
	}
	close(p.tasks)
	p.wg.Wait()
}
