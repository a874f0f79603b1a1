package sink

import (
	"context"
	"time"

	plog "github.com/phuslu/log"

	"pkt.systems/logbuilder"
)

type phusluSink struct {
	logger *plog.Logger
}

// Phuslu logs events at info level through a phuslu logger.
func Phuslu(logger *plog.Logger) logbuilder.EventLogger {
	return phusluSink{logger: logger}
}

func (s phusluSink) LogEvent(ctx context.Context, eventName string, args []logbuilder.Arg, timestamp time.Time, timeout logbuilder.Timeout) logbuilder.Result {
	if err := canceled(ctx); err != nil {
		return logbuilder.Completed(err)
	}
	e := s.logger.Info().Time(EventTimeKey, timestamp)
	for _, arg := range args {
		e = e.Interface(arg.Name, arg.Value)
	}
	if ms, ok := timeout.Millis(); ok {
		e = e.Int(TimeoutKey, int(ms))
	}
	e.Msg(eventName)
	return logbuilder.Result{}
}
