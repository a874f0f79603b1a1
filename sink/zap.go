package sink

import (
	"context"
	"time"

	"go.uber.org/zap"

	"pkt.systems/logbuilder"
)

type zapSink struct {
	logger *zap.Logger
}

// Zap logs events at info level through a *zap.Logger.
func Zap(logger *zap.Logger) logbuilder.EventLogger {
	return zapSink{logger: logger}
}

func (s zapSink) LogEvent(ctx context.Context, eventName string, args []logbuilder.Arg, timestamp time.Time, timeout logbuilder.Timeout) logbuilder.Result {
	if err := canceled(ctx); err != nil {
		return logbuilder.Completed(err)
	}
	fields := make([]zap.Field, 0, len(args)+2)
	fields = append(fields, zap.Time(EventTimeKey, timestamp))
	for _, arg := range args {
		fields = append(fields, zap.Any(arg.Name, arg.Value))
	}
	if ms, ok := timeout.Millis(); ok {
		fields = append(fields, zap.Int32(TimeoutKey, ms))
	}
	s.logger.Info(eventName, fields...)
	return logbuilder.Result{}
}
