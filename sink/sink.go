// Package sink adapts real logging libraries to logbuilder.EventLogger so the
// builder variants can be measured against production encoders as well as the
// stub.
//
// Every adapter writes the event name as the message, the event time, the
// arguments in order and, when set, the timeout in milliseconds. Adapters
// whose library accepts a record time (slog, logrus) use it directly; the
// rest emit it under EventTimeKey. A context that is already done is reported
// as the Result error and nothing is written.
package sink

import (
	"context"
	"io"

	"pkt.systems/logbuilder"
)

const (
	// EventTimeKey carries the builder timestamp for libraries that stamp
	// records themselves.
	EventTimeKey = "event_time"
	// TimeoutKey carries the timeout in milliseconds when one is set.
	TimeoutKey = "timeout_ms"
)

// Flusher is implemented by adapters whose library buffers output.
type Flusher interface {
	Flush()
}

// Release flushes l if it buffers and closes it if it owns resources, such
// as the workers of an AsyncLogger. Loggers that do neither are left alone.
func Release(l logbuilder.EventLogger) error {
	if f, ok := l.(Flusher); ok {
		f.Flush()
	}
	if c, ok := l.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func canceled(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// keyvals builds the variadic form: optional leading pairs, the args, then
// the timeout.
func keyvals(lead []any, args []logbuilder.Arg, timeout logbuilder.Timeout) []any {
	kv := make([]any, 0, len(lead)+2*len(args)+2)
	kv = append(kv, lead...)
	kv = logbuilder.AppendKeyvals(kv, args)
	if ms, ok := timeout.Millis(); ok {
		kv = append(kv, TimeoutKey, ms)
	}
	return kv
}
