package logbuilder

import (
	"context"
	"time"
)

// ReferencedBuilder is the in-place builder. Keep it in a local variable and
// call its methods there; each one mutates that local through a pointer and
// returns the same pointer for chaining:
//
//	b := LogReferenced(logger, "event")
//	b.With("k", "v").WithTimestamp(ts).Log()
//
// LogReferenced(logger, "event").With(...) does not compile because the
// returned value is not addressable.
type ReferencedBuilder struct {
	logger       EventLogger
	eventName    string
	args         *argList
	timestamp    time.Time
	hasTimestamp bool
	ctx          context.Context
	timeout      Timeout
}

// LogReferenced starts an event meant to be stored in a local.
func LogReferenced(logger EventLogger, eventName string) ReferencedBuilder {
	return ReferencedBuilder{logger: orStub(logger), eventName: eventName}
}

// With appends one argument.
func (b *ReferencedBuilder) With(name string, value any) *ReferencedBuilder {
	if b.args == nil {
		b.args = newArgList()
	}
	b.args.add(name, value)
	return b
}

// WithTimestamp sets the event time, replacing any earlier value.
func (b *ReferencedBuilder) WithTimestamp(timestamp time.Time) *ReferencedBuilder {
	b.timestamp = timestamp
	b.hasTimestamp = true
	return b
}

// WithControls sets the cancellation context and timeout, replacing both
// earlier values. A nil ctx means no cancellation.
func (b *ReferencedBuilder) WithControls(ctx context.Context, timeout Timeout) *ReferencedBuilder {
	b.ctx = ctx
	b.timeout = timeout
	return b
}

// Log hands the accumulated event to the logger.
func (b *ReferencedBuilder) Log() Result {
	return finalize(b.logger, b.ctx, b.eventName, b.args, b.timestamp, b.hasTimestamp, b.timeout)
}
