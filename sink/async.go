package sink

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"pkt.systems/logbuilder"
)

// ErrClosed is the Result error of events submitted after Close.
var ErrClosed = errors.New("sink: async logger closed")

// AsyncOptions sizes an AsyncLogger.
type AsyncOptions struct {
	// Workers is the number of goroutines draining the queue. Defaults to 1.
	Workers int
	// Queue is the queue capacity. Defaults to 64.
	Queue int
}

// AsyncLogger moves LogEvent calls onto worker goroutines and returns pending
// Results. It is the only sink that gives the event's cancellation context and
// timeout real meaning: a worker bounds each event with its timeout and drops
// events whose context ended while they were queued.
type AsyncLogger struct {
	next  logbuilder.EventLogger
	jobs  chan asyncJob
	group errgroup.Group

	mu     sync.RWMutex
	closed bool
}

type asyncJob struct {
	ctx       context.Context
	eventName string
	args      []logbuilder.Arg
	timestamp time.Time
	timeout   logbuilder.Timeout
	pending   *logbuilder.Pending
}

// Async starts an AsyncLogger in front of next.
func Async(next logbuilder.EventLogger, opts AsyncOptions) *AsyncLogger {
	if next == nil {
		next = logbuilder.Stub()
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	queue := opts.Queue
	if queue < 1 {
		queue = 64
	}
	a := &AsyncLogger{
		next: next,
		jobs: make(chan asyncJob, queue),
	}
	for range workers {
		a.group.Go(a.work)
	}
	return a
}

// LogEvent queues the event and returns a pending Result. If the queue is
// full the call blocks until there is room or ctx ends.
func (a *AsyncLogger) LogEvent(ctx context.Context, eventName string, args []logbuilder.Arg, timestamp time.Time, timeout logbuilder.Timeout) logbuilder.Result {
	if ctx == nil {
		ctx = context.Background()
	}
	var copied []logbuilder.Arg
	if args != nil {
		copied = append(make([]logbuilder.Arg, 0, len(args)), args...)
	}
	job := asyncJob{
		ctx:       ctx,
		eventName: eventName,
		args:      copied,
		timestamp: timestamp,
		timeout:   timeout,
		pending:   logbuilder.NewPending(),
	}

	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return logbuilder.Completed(ErrClosed)
	}
	select {
	case a.jobs <- job:
		return job.pending.Result()
	case <-ctx.Done():
		return logbuilder.Completed(ctx.Err())
	}
}

func (a *AsyncLogger) work() error {
	for job := range a.jobs {
		job.pending.Complete(a.deliver(job))
	}
	return nil
}

func (a *AsyncLogger) deliver(job asyncJob) error {
	ctx := job.ctx
	if d, ok := job.timeout.Duration(); ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return a.next.LogEvent(ctx, job.eventName, job.args, job.timestamp, job.timeout).WaitContext(ctx)
}

// Close stops accepting events, delivers everything already queued and waits
// for the workers. Close is idempotent.
func (a *AsyncLogger) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	close(a.jobs)
	a.mu.Unlock()
	return a.group.Wait()
}

// Flush forwards to the wrapped logger when it buffers.
func (a *AsyncLogger) Flush() {
	if f, ok := a.next.(Flusher); ok {
		f.Flush()
	}
}
