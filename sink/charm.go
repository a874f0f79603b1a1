package sink

import (
	"context"
	"time"

	charm "github.com/charmbracelet/log"

	"pkt.systems/logbuilder"
)

type charmSink struct {
	logger *charm.Logger
}

// Charm logs events at info level through a charmbracelet logger.
func Charm(logger *charm.Logger) logbuilder.EventLogger {
	return charmSink{logger: logger}
}

func (s charmSink) LogEvent(ctx context.Context, eventName string, args []logbuilder.Arg, timestamp time.Time, timeout logbuilder.Timeout) logbuilder.Result {
	if err := canceled(ctx); err != nil {
		return logbuilder.Completed(err)
	}
	s.logger.Info(eventName, keyvals([]any{EventTimeKey, timestamp}, args, timeout)...)
	return logbuilder.Result{}
}
