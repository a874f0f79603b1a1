package logbuilder

import (
	"context"
	"strconv"
	"time"
)

// EventLogger is the capability every builder finalizes into. Implementations
// may observe ctx to abort early and may use timeout to bound their own work.
// args must not be retained after LogEvent returns; a nil slice means no
// arguments.
type EventLogger interface {
	LogEvent(ctx context.Context, eventName string, args []Arg, timestamp time.Time, timeout Timeout) Result
}

// EventLoggerFunc is an adapter to allow the use of ordinary functions as
// EventLoggers.
type EventLoggerFunc func(ctx context.Context, eventName string, args []Arg, timestamp time.Time, timeout Timeout) Result

// LogEvent implements EventLogger by calling f.
func (f EventLoggerFunc) LogEvent(ctx context.Context, eventName string, args []Arg, timestamp time.Time, timeout Timeout) Result {
	return f(ctx, eventName, args, timestamp, timeout)
}

// Arg is one named argument of an event. Value is passed through
// uninterpreted and may be nil.
type Arg struct {
	Name  string
	Value any
}

// Timeout is an optional bound in milliseconds. The zero value means no
// timeout.
type Timeout struct {
	ms  int32
	set bool
}

// NoTimeout is the absent Timeout.
var NoTimeout Timeout

// TimeoutMillis returns a Timeout of ms milliseconds.
func TimeoutMillis(ms int32) Timeout {
	return Timeout{ms: ms, set: true}
}

// Millis returns the bound and whether one is set.
func (t Timeout) Millis() (int32, bool) {
	return t.ms, t.set
}

// Duration returns the bound as a time.Duration and whether one is set.
func (t Timeout) Duration() (time.Duration, bool) {
	if !t.set {
		return 0, false
	}
	return time.Duration(t.ms) * time.Millisecond, true
}

// IsSet reports whether a bound is present.
func (t Timeout) IsSet() bool {
	return t.set
}

func (t Timeout) String() string {
	if !t.set {
		return "none"
	}
	return strconv.FormatInt(int64(t.ms), 10) + "ms"
}

// initialArgCapacity is the capacity of an argument list on first use.
const initialArgCapacity = 4

// argList is the lazily allocated argument container. It is a separate object
// so that copies of a CopiedBuilder taken after the first With share it.
type argList struct {
	items []Arg
}

func newArgList() *argList {
	return &argList{items: make([]Arg, 0, initialArgCapacity)}
}

func (l *argList) add(name string, value any) {
	l.items = append(l.items, Arg{Name: name, Value: value})
}

func (l *argList) slice() []Arg {
	if l == nil {
		return nil
	}
	return l.items
}

// finalize resolves the defaults shared by every builder variant and invokes
// logger.
func finalize(logger EventLogger, ctx context.Context, eventName string, args *argList, timestamp time.Time, hasTimestamp bool, timeout Timeout) Result {
	if !hasTimestamp {
		timestamp = time.Now()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return logger.LogEvent(ctx, eventName, args.slice(), timestamp, timeout)
}
