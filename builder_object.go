package logbuilder

import (
	"context"
	"time"
)

// ObjectBuilder is the reference-identity builder. Every method mutates the
// receiver and returns it, so any handle observes every change.
type ObjectBuilder struct {
	logger       EventLogger
	eventName    string
	args         *argList
	timestamp    time.Time
	hasTimestamp bool
	ctx          context.Context
	timeout      Timeout
}

// LogObject starts an event on the heap.
//
//go:noinline
func LogObject(logger EventLogger, eventName string) *ObjectBuilder {
	return &ObjectBuilder{logger: orStub(logger), eventName: eventName}
}

// With appends one argument.
func (b *ObjectBuilder) With(name string, value any) *ObjectBuilder {
	if b.args == nil {
		b.args = newArgList()
	}
	b.args.add(name, value)
	return b
}

// WithTimestamp sets the event time, replacing any earlier value.
func (b *ObjectBuilder) WithTimestamp(timestamp time.Time) *ObjectBuilder {
	b.timestamp = timestamp
	b.hasTimestamp = true
	return b
}

// WithControls sets the cancellation context and timeout, replacing both
// earlier values. A nil ctx means no cancellation.
func (b *ObjectBuilder) WithControls(ctx context.Context, timeout Timeout) *ObjectBuilder {
	b.ctx = ctx
	b.timeout = timeout
	return b
}

// Log hands the accumulated event to the logger.
func (b *ObjectBuilder) Log() Result {
	return finalize(b.logger, b.ctx, b.eventName, b.args, b.timestamp, b.hasTimestamp, b.timeout)
}
