package sink

import (
	"context"
	"time"

	"github.com/inconshreveable/log15"

	"pkt.systems/logbuilder"
)

type log15Sink struct {
	logger log15.Logger
}

// Log15 logs events at info level through a log15 logger.
func Log15(logger log15.Logger) logbuilder.EventLogger {
	return log15Sink{logger: logger}
}

func (s log15Sink) LogEvent(ctx context.Context, eventName string, args []logbuilder.Arg, timestamp time.Time, timeout logbuilder.Timeout) logbuilder.Result {
	if err := canceled(ctx); err != nil {
		return logbuilder.Completed(err)
	}
	s.logger.Info(eventName, keyvals([]any{EventTimeKey, timestamp}, args, timeout)...)
	return logbuilder.Result{}
}
