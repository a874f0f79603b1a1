package sink

import (
	"context"
	"time"

	"github.com/go-logr/logr"

	"pkt.systems/logbuilder"
)

type logrSink struct {
	logger logr.Logger
}

// Logr logs events through a logr.Logger at verbosity 0.
func Logr(logger logr.Logger) logbuilder.EventLogger {
	return logrSink{logger: logger}
}

func (s logrSink) LogEvent(ctx context.Context, eventName string, args []logbuilder.Arg, timestamp time.Time, timeout logbuilder.Timeout) logbuilder.Result {
	if err := canceled(ctx); err != nil {
		return logbuilder.Completed(err)
	}
	s.logger.Info(eventName, keyvals([]any{EventTimeKey, timestamp}, args, timeout)...)
	return logbuilder.Result{}
}
