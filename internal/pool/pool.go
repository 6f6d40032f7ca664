// Package pool provides a fixed-size worker pool with a bounded FIFO queue.
// It bounds the number of heavy tasks (store queries, frame synthesis, PNG
// encoding) that run at once; excess submissions wait in arrival order.
package pool

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/banshee-data/depth.report/internal/monitoring"
)

// ErrClosed is returned by Do once Close has been called.
var ErrClosed = errors.New("pool closed")

var logf = monitoring.Component("pool")

// Task is a unit of work executed by a pool worker. It receives the
// submitter's context, so a task observes the caller's deadline.
type Task func(ctx context.Context) error

type job struct {
	ctx  context.Context
	task Task
	done chan error
}

// Pool runs tasks on a fixed number of worker goroutines.
type Pool struct {
	jobs chan job
	stop chan struct{}
	wg   sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// New starts a pool with the given worker count and queue depth. Worker
// counts below one are raised to one; negative queue depths become zero
// (every submission then waits for a free worker).
func New(workers, queueDepth int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueDepth < 0 {
		queueDepth = 0
	}
	p := &Pool{
		jobs: make(chan job, queueDepth),
		stop: make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Do submits task and waits for it to finish, returning the task's error.
// If ctx expires while the task is still queued, Do returns ctx.Err() and
// the task is skipped when a worker reaches it. A task that is already
// running keeps its worker until it returns.
func (p *Pool) Do(ctx context.Context, task Task) error {
	j := job{ctx: ctx, task: task, done: make(chan error, 1)}

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrClosed
	}
	// Submitting under the read lock keeps Close from tearing the pool
	// down between the check above and the send below.
	select {
	case p.jobs <- j:
		p.mu.RUnlock()
	case <-ctx.Done():
		p.mu.RUnlock()
		return ctx.Err()
	}

	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the pool. Tasks already running finish first; tasks still
// waiting in the queue fail with ErrClosed. Close is idempotent.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.stop)
	p.mu.Unlock()

	p.wg.Wait()

	// No submitter can reach the queue once closed is set, so whatever is
	// left here is abandoned work from before Close.
	for {
		select {
		case j := <-p.jobs:
			j.done <- ErrClosed
		default:
			return
		}
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.stop:
			return
		default:
		}
		select {
		case j := <-p.jobs:
			j.done <- p.run(j)
		case <-p.stop:
			return
		}
	}
}

// run executes one job, converting a panic into an error result so a
// misbehaving task never takes a worker down with it.
func (p *Pool) run(j job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logf("recovered panic in task: %v", r)
			err = fmt.Errorf("task panic: %v", r)
		}
	}()

	// A submitter that has already given up gets its context error without
	// paying for the task.
	if err := j.ctx.Err(); err != nil {
		return err
	}
	return j.task(j.ctx)
}
