package worker

import (
	"context"
	"log"
	"runtime"
	"sync"

	"element-inspector/src/inspect"
)

// Describer renders the inspection report for a point.
type Describer interface {
	Describe(p inspect.Point, backend string) string
}

// ResultCallback is invoked on completion (from a worker goroutine).
// The event loop should pass a closure that posts back into the event loop safely.
type ResultCallback func(text string, err error)

// Request is one resolution job.
type Request struct {
	Point   inspect.Point
	Backend inspect.Backend
}

// Pool is a fixed-size resolution pool with a 1-slot input queue (strict back-pressure).
type Pool struct {
	describer Describer
	jobs      chan job
	wg        sync.WaitGroup
}

type job struct {
	ctx context.Context
	req Request
	cb  ResultCallback
}

// New creates a worker pool. Size defaults to NumCPU when size<=0. Queue is 1 slot.
func New(size int, d Describer) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	p := &Pool{describer: d, jobs: make(chan job, 1)}
	p.start(size)
	return p
}

func (p *Pool) start(n int) {
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for j := range p.jobs {
				log.Printf("Worker: resolving %s with backend %s", j.req.Point, j.req.Backend)
				text, err := p.describe(j.ctx, j.req)
				log.Printf("Worker: done, report length=%d, err=%v", len(text), err)
				j.cb(text, err)
			}
		}()
	}
}

// Submit enqueues a job if the single-slot queue is free. Returns false if dropped.
func (p *Pool) Submit(ctx context.Context, req Request, cb ResultCallback) bool {
	select {
	case p.jobs <- job{ctx: ctx, req: req, cb: cb}:
		return true
	default:
		return false
	}
}

// Close stops the pool after draining current work.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
}

// describe honours the job deadline. A resolution that outlives it keeps
// running in the background and its report is dropped.
func (p *Pool) describe(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, ok := ctx.Deadline(); !ok {
		return p.describer.Describe(req.Point, string(req.Backend)), nil
	}
	resCh := make(chan string, 1)
	go func() {
		resCh <- p.describer.Describe(req.Point, string(req.Backend))
	}()
	select {
	case text := <-resCh:
		return text, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
