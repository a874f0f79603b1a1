// Package recorder provides an EventLogger that remembers every call, for
// asserting on what a builder or sink delivered.
package recorder

import (
	"context"
	"reflect"
	"sync"
	"time"

	"github.com/davecgh/go-spew/spew"

	"pkt.systems/logbuilder"
)

// Call is one recorded LogEvent invocation. Args is a private copy.
type Call struct {
	Ctx       context.Context
	EventName string
	Args      []logbuilder.Arg
	Timestamp time.Time
	Timeout   logbuilder.Timeout
}

// Recorder records LogEvent calls and completes each with Err.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
	Err   error
}

// New returns an empty Recorder.
func New() *Recorder {
	return &Recorder{}
}

// LogEvent implements logbuilder.EventLogger.
func (r *Recorder) LogEvent(ctx context.Context, eventName string, args []logbuilder.Arg, timestamp time.Time, timeout logbuilder.Timeout) logbuilder.Result {
	var copied []logbuilder.Arg
	if args != nil {
		copied = append(make([]logbuilder.Arg, 0, len(args)), args...)
	}
	r.mu.Lock()
	r.calls = append(r.calls, Call{
		Ctx:       ctx,
		EventName: eventName,
		Args:      copied,
		Timestamp: timestamp,
		Timeout:   timeout,
	})
	err := r.Err
	r.mu.Unlock()
	return logbuilder.Completed(err)
}

// Calls returns a snapshot of the recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Last returns the most recent call and false when nothing was recorded.
func (r *Recorder) Last() (Call, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return Call{}, false
	}
	return r.calls[len(r.calls)-1], true
}

// Reset forgets every recorded call.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.calls = nil
	r.mu.Unlock()
}

var dumper = spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}

// Dump renders c for test failure messages.
func Dump(c Call) string {
	return dumper.Sdump(c)
}

// Equal reports whether a and b describe the same LogEvent call. Contexts are
// compared by identity and timestamps with time.Time.Equal.
func Equal(a, b Call) bool {
	if a.EventName != b.EventName || a.Ctx != b.Ctx || a.Timeout != b.Timeout {
		return false
	}
	if !a.Timestamp.Equal(b.Timestamp) {
		return false
	}
	if len(a.Args) != len(b.Args) || (a.Args == nil) != (b.Args == nil) {
		return false
	}
	for i := range a.Args {
		if a.Args[i].Name != b.Args[i].Name || !reflect.DeepEqual(a.Args[i].Value, b.Args[i].Value) {
			return false
		}
	}
	return true
}
