package sink

import (
	"context"
	"io"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"pkt.systems/logbuilder"
)

type logxSink struct{}

// Logx logs events through go-zero's process-wide logx logger. When w is
// non-nil logx output is redirected to it and stat logging is disabled; this
// affects every logx user in the process.
func Logx(w io.Writer) logbuilder.EventLogger {
	if w != nil {
		logx.DisableStat()
		logx.SetWriter(logx.NewWriter(w))
	}
	return logxSink{}
}

func (logxSink) LogEvent(ctx context.Context, eventName string, args []logbuilder.Arg, timestamp time.Time, timeout logbuilder.Timeout) logbuilder.Result {
	if err := canceled(ctx); err != nil {
		return logbuilder.Completed(err)
	}
	fields := make([]logx.LogField, 0, len(args)+2)
	fields = append(fields, logx.Field(EventTimeKey, timestamp))
	for _, arg := range args {
		fields = append(fields, logx.Field(arg.Name, arg.Value))
	}
	if ms, ok := timeout.Millis(); ok {
		fields = append(fields, logx.Field(TimeoutKey, ms))
	}
	logx.WithContext(ctx).Infow(eventName, fields...)
	return logbuilder.Result{}
}
