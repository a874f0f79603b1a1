package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/francoispqt/onelog"

	"pkt.systems/logbuilder"
)

type onelogSink struct {
	logger *onelog.Logger
}

// Onelog logs events at info level through an onelog logger. onelog only
// encodes strings, numbers and bools natively; other values are rendered
// with fmt.
func Onelog(logger *onelog.Logger) logbuilder.EventLogger {
	return onelogSink{logger: logger}
}

func (s onelogSink) LogEvent(ctx context.Context, eventName string, args []logbuilder.Arg, timestamp time.Time, timeout logbuilder.Timeout) logbuilder.Result {
	if err := canceled(ctx); err != nil {
		return logbuilder.Completed(err)
	}
	s.logger.InfoWithFields(eventName, func(e onelog.Entry) {
		e.String(EventTimeKey, timestamp.Format(time.RFC3339Nano))
		for _, arg := range args {
			onelogField(e, arg.Name, arg.Value)
		}
		if ms, ok := timeout.Millis(); ok {
			e.Int(TimeoutKey, int(ms))
		}
	})
	return logbuilder.Result{}
}

func onelogField(e onelog.Entry, key string, value any) {
	switch v := value.(type) {
	case string:
		e.String(key, v)
	case bool:
		e.Bool(key, v)
	case int:
		e.Int(key, v)
	case int32:
		e.Int(key, int(v))
	case int64:
		e.Int64(key, v)
	case float64:
		e.Float(key, v)
	case nil:
		e.String(key, "null")
	default:
		e.String(key, fmt.Sprintf("%v", v))
	}
}
