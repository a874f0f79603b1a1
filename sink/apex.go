package sink

import (
	"context"
	"time"

	apexlog "github.com/apex/log"

	"pkt.systems/logbuilder"
)

type apexSink struct {
	logger *apexlog.Logger
}

// Apex logs events at info level through an apex logger. apex fields are a
// map, so a repeated argument name keeps its last value.
func Apex(logger *apexlog.Logger) logbuilder.EventLogger {
	return apexSink{logger: logger}
}

func (s apexSink) LogEvent(ctx context.Context, eventName string, args []logbuilder.Arg, timestamp time.Time, timeout logbuilder.Timeout) logbuilder.Result {
	if err := canceled(ctx); err != nil {
		return logbuilder.Completed(err)
	}
	fields := make(apexlog.Fields, len(args)+2)
	fields[EventTimeKey] = timestamp
	for _, arg := range args {
		fields[arg.Name] = arg.Value
	}
	if ms, ok := timeout.Millis(); ok {
		fields[TimeoutKey] = ms
	}
	s.logger.WithFields(fields).Info(eventName)
	return logbuilder.Result{}
}
