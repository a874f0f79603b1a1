package sink

import (
	"context"
	"io"
	"time"

	klog "k8s.io/klog/v2"

	"pkt.systems/logbuilder"
)

type klogSink struct{}

// Klog logs events through the process-wide klog logger. When w is non-nil
// klog output is redirected to it; this affects every klog user in the
// process.
func Klog(w io.Writer) logbuilder.EventLogger {
	if w != nil {
		klog.LogToStderr(false)
		klog.SetOutput(w)
	}
	return klogSink{}
}

func (klogSink) LogEvent(ctx context.Context, eventName string, args []logbuilder.Arg, timestamp time.Time, timeout logbuilder.Timeout) logbuilder.Result {
	if err := canceled(ctx); err != nil {
		return logbuilder.Completed(err)
	}
	klog.InfoS(eventName, keyvals([]any{EventTimeKey, timestamp}, args, timeout)...)
	return logbuilder.Result{}
}

func (klogSink) Flush() {
	klog.Flush()
}
