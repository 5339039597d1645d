// Package worker provides the concurrency utilities for batch guard runs:
// a bounded worker pool for independent edit cases and a per-endpoint rate
// limiter pacing LLM calls. Edits to different drafts are fully independent
// (the guard pipeline is pure), so the pool needs no coordination beyond
// fan-out and fan-in.
package worker

import (
	"context"
	"sync"
)

// Job is a unit of work executed by the pool
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of one job
type Result interface {
	Err() error
}

// Pool fans jobs out to a fixed number of workers
type Pool struct {
	workers int
	jobs    chan Job
	results chan Result

	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewPool creates a pool with the given worker count
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		workers: workers,
		jobs:    make(chan Job, workers*2),
		results: make(chan Result, workers*2),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the workers
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run()
	}
}

func (p *Pool) run() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			select {
			case p.results <- job.Execute(p.ctx):
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job; returns false once the pool is stopping
func (p *Pool) Submit(job Job) bool {
	select {
	case <-p.ctx.Done():
		return false
	case p.jobs <- job:
		return true
	}
}

// Results returns the result channel
func (p *Pool) Results() <-chan Result {
	return p.results
}

// Close signals that no more jobs will be submitted; workers drain the
// queue and the results channel closes when they finish
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.jobs)
		go func() {
			p.wg.Wait()
			close(p.results)
		}()
	})
}

// Stop cancels all in-flight work
func (p *Pool) Stop() {
	p.cancel()
}
