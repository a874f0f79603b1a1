package sink

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"pkt.systems/logbuilder"
)

type logrusSink struct {
	logger *logrus.Logger
}

// Logrus logs events at info level through a *logrus.Logger, using the event
// time as the entry time. logrus.Fields is a map, so a repeated argument name
// keeps its last value.
func Logrus(logger *logrus.Logger) logbuilder.EventLogger {
	return logrusSink{logger: logger}
}

func (s logrusSink) LogEvent(ctx context.Context, eventName string, args []logbuilder.Arg, timestamp time.Time, timeout logbuilder.Timeout) logbuilder.Result {
	if err := canceled(ctx); err != nil {
		return logbuilder.Completed(err)
	}
	fields := make(logrus.Fields, len(args)+1)
	for _, arg := range args {
		fields[arg.Name] = arg.Value
	}
	if ms, ok := timeout.Millis(); ok {
		fields[TimeoutKey] = ms
	}
	s.logger.WithFields(fields).WithTime(timestamp).WithContext(ctx).Info(eventName)
	return logbuilder.Result{}
}
