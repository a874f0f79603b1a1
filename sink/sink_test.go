package sink_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	kitlog "github.com/go-kit/log"

	"pkt.systems/logbuilder"
	"pkt.systems/logbuilder/sink"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

var eventTime = time.Date(2020, time.May, 3, 8, 17, 0, 0, time.UTC)

func logSample(l logbuilder.EventLogger) logbuilder.Result {
	b := logbuilder.LogReferenced(l, "benchmark")
	return b.WithTimestamp(eventTime).
		With("param0", "param0value").
		With("param1", "param1value").
		WithControls(context.Background(), logbuilder.TimeoutMillis(15)).
		Log()
}

func release(l logbuilder.EventLogger) {
	_ = sink.Release(l)
}

// recordTimeSinks use the event time as the record time instead of a field.
var recordTimeSinks = map[string]bool{
	"slog/json":    true,
	"tint/console": true,
	"logrus/json":  true,
	"logrus/text":  true,
}

func TestRegistryAdaptersWriteEvent(t *testing.T) {
	for _, factory := range sink.Registry() {
		if factory.Name == sink.StubName {
			continue
		}
		t.Run(factory.Name, func(t *testing.T) {
			if !factory.Global {
				t.Parallel()
			}
			var buf lockedBuffer
			logger := factory.New(&buf)
			if err := logSample(logger).Wait(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			release(logger)

			out := buf.String()
			for _, want := range []string{"benchmark", "param0", "param0value", "param1value", sink.TimeoutKey, "15"} {
				if !strings.Contains(out, want) {
					t.Fatalf("output missing %q: %q", want, out)
				}
			}
			if !recordTimeSinks[factory.Name] && !strings.Contains(out, sink.EventTimeKey) {
				t.Fatalf("output missing %q: %q", sink.EventTimeKey, out)
			}
		})
	}
}

func TestAdaptersHonourCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, factory := range sink.Registry() {
		if factory.Name == sink.StubName {
			continue
		}
		t.Run(factory.Name, func(t *testing.T) {
			if !factory.Global {
				t.Parallel()
			}
			var buf lockedBuffer
			logger := factory.New(&buf)
			b := logbuilder.LogReferenced(logger, "dropped")
			err := b.With("k", "v").WithControls(ctx, logbuilder.NoTimeout).Log().Wait()
			if !errors.Is(err, context.Canceled) {
				t.Fatalf("expected context.Canceled, got %v", err)
			}
			release(logger)
			if strings.Contains(buf.String(), "dropped") {
				t.Fatalf("canceled event was written: %q", buf.String())
			}
		})
	}
}

func TestSlogUsesEventTimeAndOrder(t *testing.T) {
	var buf bytes.Buffer
	logger := sink.Slog(slog.NewTextHandler(&buf, nil))
	if err := logSample(logger).Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := strings.TrimSpace(buf.String())
	if !strings.HasPrefix(out, "time=2020-05-03T08:17:00.000Z") {
		t.Fatalf("expected record time from builder, got %q", out)
	}
	first := strings.Index(out, "param0=")
	second := strings.Index(out, "param1=")
	timeout := strings.Index(out, "timeout_ms=15")
	if first < 0 || second < first || timeout < second {
		t.Fatalf("arguments out of order: %q", out)
	}
}

type failingHandler struct {
	slog.Handler
	err error
}

func (h failingHandler) Handle(context.Context, slog.Record) error { return h.err }

func TestSlogHandlerErrorPropagates(t *testing.T) {
	boom := errors.New("handler down")
	logger := sink.Slog(failingHandler{Handler: slog.NewTextHandler(io.Discard, nil), err: boom})
	if err := logSample(logger).Wait(); !errors.Is(err, boom) {
		t.Fatalf("expected handler error, got %v", err)
	}
}

func TestKitlogErrorPropagates(t *testing.T) {
	boom := errors.New("kit down")
	var got []any
	logger := sink.Kitlog(kitlog.LoggerFunc(func(kv ...any) error {
		got = kv
		return boom
	}))
	if err := logSample(logger).Wait(); !errors.Is(err, boom) {
		t.Fatalf("expected logger error, got %v", err)
	}
	want := []any{"msg", "benchmark", sink.EventTimeKey, eventTime, "param0", "param0value", "param1", "param1value", sink.TimeoutKey, int32(15)}
	if len(got) != len(want) {
		t.Fatalf("unexpected keyvals %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("keyvals[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTimeoutOmittedWhenUnset(t *testing.T) {
	var buf bytes.Buffer
	logger := sink.Slog(slog.NewJSONHandler(&buf, nil))
	logbuilder.LogObject(logger, "plain").With("a", 1).Log()
	if strings.Contains(buf.String(), sink.TimeoutKey) {
		t.Fatalf("unexpected timeout field: %q", buf.String())
	}
}

func TestSelect(t *testing.T) {
	all, err := sink.Select(nil)
	if err != nil || len(all) != len(sink.Registry()) {
		t.Fatalf("empty selection should return the registry, got %d, %v", len(all), err)
	}
	if all, err := sink.Select([]string{"all"}); err != nil || len(all) != len(sink.Registry()) {
		t.Fatalf("all should return the registry, got %d, %v", len(all), err)
	}
	picked, err := sink.Select([]string{"zap/json", " stub "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(picked) != 2 || picked[0].Name != "zap/json" || picked[1].Name != sink.StubName {
		t.Fatalf("unexpected selection %+v", picked)
	}
	if _, err := sink.Select([]string{"nope"}); err == nil || !strings.Contains(err.Error(), "nope") {
		t.Fatalf("expected unknown sink error, got %v", err)
	}
}

func TestCountingWriter(t *testing.T) {
	w := sink.NewCountingWriter()
	w.Write([]byte("hello"))
	w.Write([]byte("!"))
	if w.BytesWritten() != 6 || w.Writes() != 2 {
		t.Fatalf("unexpected counters: %d bytes, %d writes", w.BytesWritten(), w.Writes())
	}

	var tee bytes.Buffer
	w.SetTee(&tee)
	w.Write([]byte("x"))
	if tee.String() != "x" {
		t.Fatalf("tee did not receive write: %q", tee.String())
	}

	boom := errors.New("disk full")
	w.SetTee(writerFunc(func(p []byte) (int, error) { return 0, boom }))
	if _, err := w.Write([]byte("y")); !errors.Is(err, boom) {
		t.Fatalf("expected tee error, got %v", err)
	}
	if w.Failures() != 1 {
		t.Fatalf("expected one failure, got %d", w.Failures())
	}

	w.Reset()
	if w.BytesWritten() != 0 || w.Writes() != 0 || w.Failures() != 0 {
		t.Fatalf("reset did not clear counters")
	}
}

type writerFunc func([]byte) (int, error)

func (fn writerFunc) Write(p []byte) (int, error) { return fn(p) }

func TestGlobalFactoriesAreMarked(t *testing.T) {
	want := map[string]bool{"klog/text": true, "logx/json": true}
	for _, factory := range sink.Registry() {
		if factory.Global != want[factory.Name] {
			t.Fatalf("%s: Global = %v, want %v", factory.Name, factory.Global, want[factory.Name])
		}
	}
}
