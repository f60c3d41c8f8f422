package parallel

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// JobResult is the outcome of a single job.
type JobResult struct {
	Index    int
	Label    string
	Error    error
	Start    time.Time
	Duration time.Duration
}

// WorkerPool manages concurrent job execution with bounded concurrency.
type WorkerPool struct {
	maxWorkers int
	semaphore  chan struct{}
	wg         sync.WaitGroup
	mu         sync.Mutex
	results    []JobResult
	errors     []error
	failFast   bool
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewWorkerPool creates a new worker pool with bounded concurrency.
// If maxWorkers is 0, every submitted job gets its own goroutine immediately.
// If failFast is true, the pool context is cancelled on the first error.
func NewWorkerPool(ctx context.Context, maxWorkers int, failFast bool) *WorkerPool {
	if maxWorkers < 0 {
		maxWorkers = 0
	}
	ctx, cancel := context.WithCancel(ctx)
	return &WorkerPool{
		maxWorkers: maxWorkers,
		semaphore:  make(chan struct{}, maxWorkers),
		failFast:   failFast,
		ctx:        ctx,
		cancel:     cancel,
		results:    make([]JobResult, 0),
	}
}

// Submit schedules fn. The call returns at once; fn runs when a slot is free.
// fn receives the pool context and should return early once it is done.
// Jobs that have not started when the pool is cancelled are dropped and leave
// no result.
func (p *WorkerPool) Submit(index int, label string, fn func(ctx context.Context) error) {
	select {
	case <-p.ctx.Done():
		return
	default:
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		if p.maxWorkers > 0 {
			select {
			case p.semaphore <- struct{}{}:
				defer func() { <-p.semaphore }()
			case <-p.ctx.Done():
				return
			}
		}

		select {
		case <-p.ctx.Done():
			return
		default:
		}

		start := time.Now()
		err := fn(p.ctx)
		duration := time.Since(start)

		p.mu.Lock()
		defer p.mu.Unlock()

		p.results = append(p.results, JobResult{
			Index:    index,
			Label:    label,
			Error:    err,
			Start:    start,
			Duration: duration,
		})
		if err != nil {
			p.errors = append(p.errors, fmt.Errorf("%s: %w", label, err))
			if p.failFast {
				p.cancel()
			}
		}
	}()
}

// Wait blocks until every started job has returned and reports the results
// ordered by index. The pool cannot be reused afterwards.
func (p *WorkerPool) Wait() ([]JobResult, []error) {
	p.wg.Wait()
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cancel()

	results := make([]JobResult, len(p.results))
	copy(results, p.results)
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Index < results[j].Index
	})

	errs := make([]error, len(p.errors))
	copy(errs, p.errors)

	return results, errs
}

// Results returns a snapshot of the results collected so far, in completion order.
func (p *WorkerPool) Results() []JobResult {
	p.mu.Lock()
	defer p.mu.Unlock()

	results := make([]JobResult, len(p.results))
	copy(results, p.results)
	return results
}

// Errors returns a snapshot of the errors collected so far.
func (p *WorkerPool) Errors() []error {
	p.mu.Lock()
	defer p.mu.Unlock()

	errs := make([]error, len(p.errors))
	copy(errs, p.errors)
	return errs
}

// Cancel cancels the pool context. Running jobs see it through their ctx.
func (p *WorkerPool) Cancel() {
	p.cancel()
}
