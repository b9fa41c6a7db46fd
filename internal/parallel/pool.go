// Package parallel provides the worker pool used to compute pixel rows
// concurrently.
package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned by For after Close.
var ErrClosed = errors.New("parallel: pool closed")

// Pool is a fixed set of goroutines that execute indexed jobs.
//
// Each worker owns a queue. Jobs are distributed round-robin and an idle
// worker steals from the other queues, so a few slow rows (the ones deep
// inside the set) do not stall the whole band.
//
// Pool is safe for concurrent use.
type Pool struct {
	workers int
	queues  []chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool

	completed atomic.Uint64
}

// NewPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	queueSize := max(workers*4, 8)

	p := &Pool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range workers {
		p.queues[i] = make(chan func(), queueSize)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	own := p.queues[id]

	for {
		select {
		case <-p.done:
			p.drain(own)
			return
		case fn := <-own:
			fn()
			continue
		default:
		}

		if fn := p.steal(id); fn != nil {
			fn()
			continue
		}

		select {
		case <-p.done:
			p.drain(own)
			return
		case fn := <-own:
			fn()
		}
	}
}

func (p *Pool) drain(q chan func()) {
	for {
		select {
		case fn := <-q:
			fn()
		default:
			return
		}
	}
}

func (p *Pool) steal(id int) func() {
	for i := range p.workers {
		if i == id {
			continue
		}
		select {
		case fn := <-p.queues[i]:
			return fn
		default:
		}
	}
	return nil
}

// For calls fn(i) for every i in [0, n) across the workers and waits for
// all calls to finish.
//
// Once ctx is canceled no new index is started; calls already running
// complete. The returned error is ctx.Err() in that case.
func (p *Pool) For(ctx context.Context, n int, fn func(i int)) error {
	if !p.running.Load() {
		return ErrClosed
	}
	if n <= 0 {
		return ctx.Err()
	}

	var wg sync.WaitGroup
	wg.Add(n)

	for i := range n {
		job := func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			fn(i)
			p.completed.Add(1)
		}

		select {
		case p.queues[i%p.workers] <- job:
		case <-ctx.Done():
			wg.Add(-(n - i))
			wg.Wait()
			return ctx.Err()
		case <-p.done:
			wg.Add(-(n - i))
			wg.Wait()
			return ErrClosed
		}
	}

	wg.Wait()
	return ctx.Err()
}

// Close stops the workers after the queued jobs have run.
// It is safe to call more than once.
func (p *Pool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers.
func (p *Pool) Workers() int { return p.workers }

// IsRunning reports whether the pool accepts work.
func (p *Pool) IsRunning() bool { return p.running.Load() }

// Completed returns the total number of jobs that ran to completion.
func (p *Pool) Completed() uint64 { return p.completed.Load() }
