package sink

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cihub/seelog"
	"github.com/go-logfmt/logfmt"

	"pkt.systems/logbuilder"
)

type seelogSink struct {
	logger seelog.LoggerInterface
}

// Seelog logs events at info level through a seelog logger. The fields follow
// the message in logfmt form. Flush forwards to the logger's Flush, which
// matters for the asynchronous seelog logger types.
func Seelog(logger seelog.LoggerInterface) logbuilder.EventLogger {
	return seelogSink{logger: logger}
}

func (s seelogSink) LogEvent(ctx context.Context, eventName string, args []logbuilder.Arg, timestamp time.Time, timeout logbuilder.Timeout) logbuilder.Result {
	if err := canceled(ctx); err != nil {
		return logbuilder.Completed(err)
	}
	fields, err := logfmt.MarshalKeyvals(keyvals([]any{EventTimeKey, timestamp}, args, timeout)...)
	if err != nil {
		return logbuilder.Completed(fmt.Errorf("encode seelog fields: %w", err))
	}
	s.logger.Infof("%s %s", eventName, fields)
	return logbuilder.Result{}
}

func (s seelogSink) Flush() {
	s.logger.Flush()
}

// NewSeelogLogger returns a synchronous seelog logger whose messages go to w,
// one per line.
func NewSeelogLogger(w io.Writer) (seelog.LoggerInterface, error) {
	logger, err := seelog.LoggerFromCustomReceiver(&seelogReceiver{w: w})
	if err != nil {
		return nil, fmt.Errorf("create seelog receiver: %w", err)
	}
	return logger, nil
}

type seelogReceiver struct {
	w io.Writer
}

func (r *seelogReceiver) ReceiveMessage(message string, _ seelog.LogLevel, _ seelog.LogContextInterface) error {
	if message == "" {
		return nil
	}
	if _, err := io.WriteString(r.w, message); err != nil {
		return err
	}
	_, err := r.w.Write([]byte{'\n'})
	return err
}

func (r *seelogReceiver) AfterParse(seelog.CustomReceiverInitArgs) error { return nil }
func (r *seelogReceiver) Flush()                                         {}
func (r *seelogReceiver) Close() error                                   { return nil }
