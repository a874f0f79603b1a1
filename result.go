package logbuilder

import "context"

// Result reports the outcome of a LogEvent call. The zero Result is a
// completed success, so synchronous loggers can return it without allocating.
type Result struct {
	err     error
	pending *Pending
}

// Completed returns a finished Result carrying err.
func Completed(err error) Result {
	return Result{err: err}
}

var closedDone = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// IsCompleted reports whether the Result has finished without blocking.
func (r Result) IsCompleted() bool {
	if r.pending == nil {
		return true
	}
	select {
	case <-r.pending.done:
		return true
	default:
		return false
	}
}

// Done returns a channel that is closed once the Result has finished.
func (r Result) Done() <-chan struct{} {
	if r.pending == nil {
		return closedDone
	}
	return r.pending.done
}

// Wait blocks until the Result finishes and returns its error. Wait may be
// called any number of times.
func (r Result) Wait() error {
	if r.pending == nil {
		return r.err
	}
	<-r.pending.done
	return r.pending.err
}

// WaitContext is Wait bounded by ctx. It returns ctx.Err() when ctx ends
// first; the underlying operation is not affected.
func (r Result) WaitContext(ctx context.Context) error {
	if r.pending == nil {
		return r.err
	}
	select {
	case <-r.pending.done:
		return r.pending.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending is the producer side of an asynchronous Result.
type Pending struct {
	done chan struct{}
	err  error
}

// NewPending returns an unfinished Pending.
func NewPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

// Result returns the consumer view of p.
func (p *Pending) Result() Result {
	return Result{pending: p}
}

// Complete finishes p with err. It must be called exactly once.
func (p *Pending) Complete(err error) {
	p.err = err
	close(p.done)
}
