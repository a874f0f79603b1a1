package sink

import (
	"context"
	"time"

	kitlog "github.com/go-kit/log"

	"pkt.systems/logbuilder"
)

type kitlogSink struct {
	logger kitlog.Logger
}

// Kitlog logs events through a go-kit logger. The error returned by the
// logger is returned in the Result.
func Kitlog(logger kitlog.Logger) logbuilder.EventLogger {
	return kitlogSink{logger: logger}
}

func (s kitlogSink) LogEvent(ctx context.Context, eventName string, args []logbuilder.Arg, timestamp time.Time, timeout logbuilder.Timeout) logbuilder.Result {
	if err := canceled(ctx); err != nil {
		return logbuilder.Completed(err)
	}
	kv := keyvals([]any{"msg", eventName, EventTimeKey, timestamp}, args, timeout)
	return logbuilder.Completed(s.logger.Log(kv...))
}
