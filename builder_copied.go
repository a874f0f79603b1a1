package logbuilder

import (
	"context"
	"time"
)

// CopiedBuilder is the copy-identity builder. Every method works on a copy of
// the receiver and returns it; the result must be used or the change is lost.
//
// The argument list is a separate object created by the first With. Copies
// taken before it exists grow independent lists, copies taken afterwards
// append to the same one.
type CopiedBuilder struct {
	logger       EventLogger
	eventName    string
	args         *argList
	timestamp    time.Time
	hasTimestamp bool
	ctx          context.Context
	timeout      Timeout
}

// LogCopied starts an event as a value.
func LogCopied(logger EventLogger, eventName string) CopiedBuilder {
	return CopiedBuilder{logger: orStub(logger), eventName: eventName}
}

// With returns a copy with one more argument.
func (b CopiedBuilder) With(name string, value any) CopiedBuilder {
	if b.args == nil {
		b.args = newArgList()
	}
	b.args.add(name, value)
	return b
}

// WithTimestamp returns a copy carrying timestamp.
func (b CopiedBuilder) WithTimestamp(timestamp time.Time) CopiedBuilder {
	b.timestamp = timestamp
	b.hasTimestamp = true
	return b
}

// WithControls returns a copy carrying ctx and timeout. A nil ctx means no
// cancellation.
func (b CopiedBuilder) WithControls(ctx context.Context, timeout Timeout) CopiedBuilder {
	b.ctx = ctx
	b.timeout = timeout
	return b
}

// Log hands the accumulated event to the logger.
func (b CopiedBuilder) Log() Result {
	return finalize(b.logger, b.ctx, b.eventName, b.args, b.timestamp, b.hasTimestamp, b.timeout)
}

// Args returns the arguments this copy currently observes.
func (b CopiedBuilder) Args() []Arg {
	return b.args.slice()
}
