package sink

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"pkt.systems/logbuilder"
)

type zerologSink struct {
	logger zerolog.Logger
}

// Zerolog logs events at info level through a zerolog.Logger.
func Zerolog(logger zerolog.Logger) logbuilder.EventLogger {
	return &zerologSink{logger: logger}
}

func (s *zerologSink) LogEvent(ctx context.Context, eventName string, args []logbuilder.Arg, timestamp time.Time, timeout logbuilder.Timeout) logbuilder.Result {
	if err := canceled(ctx); err != nil {
		return logbuilder.Completed(err)
	}
	ev := s.logger.Info().Time(EventTimeKey, timestamp)
	for _, arg := range args {
		ev = ev.Interface(arg.Name, arg.Value)
	}
	if ms, ok := timeout.Millis(); ok {
		ev = ev.Int32(TimeoutKey, ms)
	}
	ev.Msg(eventName)
	return logbuilder.Result{}
}
