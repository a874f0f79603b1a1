package sink

import (
	"context"
	"time"

	"pkt.systems/pslog"

	"pkt.systems/logbuilder"
)

type pslogSink struct {
	logger pslog.Logger
}

// PSLog logs events at info level through a pslog.Logger.
func PSLog(logger pslog.Logger) logbuilder.EventLogger {
	return pslogSink{logger: logger}
}

func (s pslogSink) LogEvent(ctx context.Context, eventName string, args []logbuilder.Arg, timestamp time.Time, timeout logbuilder.Timeout) logbuilder.Result {
	if err := canceled(ctx); err != nil {
		return logbuilder.Completed(err)
	}
	s.logger.Info(eventName, keyvals([]any{EventTimeKey, timestamp}, args, timeout)...)
	return logbuilder.Result{}
}
