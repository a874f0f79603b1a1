package sink

import (
	"context"
	"log/slog"
	"time"

	"pkt.systems/logbuilder"
)

type slogSink struct {
	handler slog.Handler
	level   slog.Level
}

// Slog hands events to a slog.Handler as info records stamped with the event
// time. Handler errors are returned in the Result.
func Slog(handler slog.Handler) logbuilder.EventLogger {
	return slogSink{handler: handler, level: slog.LevelInfo}
}

func (s slogSink) LogEvent(ctx context.Context, eventName string, args []logbuilder.Arg, timestamp time.Time, timeout logbuilder.Timeout) logbuilder.Result {
	if err := canceled(ctx); err != nil {
		return logbuilder.Completed(err)
	}
	if !s.handler.Enabled(ctx, s.level) {
		return logbuilder.Result{}
	}
	r := slog.NewRecord(timestamp, s.level, eventName, 0)
	for _, arg := range args {
		r.AddAttrs(slog.Any(arg.Name, arg.Value))
	}
	if ms, ok := timeout.Millis(); ok {
		r.AddAttrs(slog.Int(TimeoutKey, int(ms)))
	}
	return logbuilder.Completed(s.handler.Handle(ctx, r))
}
