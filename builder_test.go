package logbuilder_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"pkt.systems/logbuilder"
	"pkt.systems/logbuilder/internal/recorder"
)

type opKind int

const (
	opWith opKind = iota
	opTimestamp
	opControls
)

type op struct {
	kind    opKind
	name    string
	value   any
	ts      time.Time
	ctx     context.Context
	timeout logbuilder.Timeout
}

func with(name string, value any) op { return op{kind: opWith, name: name, value: value} }

func stamp(ts time.Time) op { return op{kind: opTimestamp, ts: ts} }

func controls(ctx context.Context, timeout logbuilder.Timeout) op {
	return op{kind: opControls, ctx: ctx, timeout: timeout}
}

type variant struct {
	name string
	run  func(l logbuilder.EventLogger, eventName string, ops []op) logbuilder.Result
}

var variants = []variant{
	{"object", runObject},
	{"copied", runCopied},
	{"referenced", runReferenced},
}

func runObject(l logbuilder.EventLogger, eventName string, ops []op) logbuilder.Result {
	b := logbuilder.LogObject(l, eventName)
	for _, o := range ops {
		switch o.kind {
		case opWith:
			b = b.With(o.name, o.value)
		case opTimestamp:
			b = b.WithTimestamp(o.ts)
		case opControls:
			b = b.WithControls(o.ctx, o.timeout)
		}
	}
	return b.Log()
}

func runCopied(l logbuilder.EventLogger, eventName string, ops []op) logbuilder.Result {
	b := logbuilder.LogCopied(l, eventName)
	for _, o := range ops {
		switch o.kind {
		case opWith:
			b = b.With(o.name, o.value)
		case opTimestamp:
			b = b.WithTimestamp(o.ts)
		case opControls:
			b = b.WithControls(o.ctx, o.timeout)
		}
	}
	return b.Log()
}

func runReferenced(l logbuilder.EventLogger, eventName string, ops []op) logbuilder.Result {
	b := logbuilder.LogReferenced(l, eventName)
	for _, o := range ops {
		switch o.kind {
		case opWith:
			b.With(o.name, o.value)
		case opTimestamp:
			b.WithTimestamp(o.ts)
		case opControls:
			b.WithControls(o.ctx, o.timeout)
		}
	}
	return b.Log()
}

func record(t *testing.T, v variant, eventName string, ops []op) recorder.Call {
	t.Helper()
	rec := recorder.New()
	if err := v.run(rec, eventName, ops).Wait(); err != nil {
		t.Fatalf("%s: unexpected error: %v", v.name, err)
	}
	calls := rec.Calls()
	if len(calls) != 1 {
		t.Fatalf("%s: expected exactly one LogEvent call, got %d", v.name, len(calls))
	}
	return calls[0]
}

var benchmarkTime = time.Date(2020, time.May, 3, 8, 17, 0, 0, time.UTC)

func TestConcreteScenario(t *testing.T) {
	ops := []op{
		stamp(benchmarkTime),
		with("param0", "param0value"),
		with("param1", "param1value"),
		controls(context.Background(), logbuilder.TimeoutMillis(15)),
	}
	want := recorder.Call{
		Ctx:       context.Background(),
		EventName: "benchmark",
		Args: []logbuilder.Arg{
			{Name: "param0", Value: "param0value"},
			{Name: "param1", Value: "param1value"},
		},
		Timestamp: benchmarkTime,
		Timeout:   logbuilder.TimeoutMillis(15),
	}
	for _, v := range variants {
		got := record(t, v, "benchmark", ops)
		if !recorder.Equal(got, want) {
			t.Fatalf("%s: unexpected call:\n%s\nwant:\n%s", v.name, recorder.Dump(got), recorder.Dump(want))
		}
	}
}

func TestArgumentOrderPreserved(t *testing.T) {
	var ops []op
	for i := range 23 {
		ops = append(ops, with(fmt.Sprintf("k%02d", i), i))
	}
	// duplicates are kept verbatim
	ops = append(ops, with("k00", "again"), with("nil", nil))

	for _, v := range variants {
		got := record(t, v, "order", ops)
		if len(got.Args) != len(ops) {
			t.Fatalf("%s: expected %d args, got %d", v.name, len(ops), len(got.Args))
		}
		for i, o := range ops {
			if got.Args[i].Name != o.name || got.Args[i].Value != o.value {
				t.Fatalf("%s: arg %d = %+v, want %s=%v", v.name, i, got.Args[i], o.name, o.value)
			}
		}
	}
}

func TestLastWriteWins(t *testing.T) {
	t1 := benchmarkTime
	t2 := benchmarkTime.Add(time.Hour)
	ctx1, cancel1 := context.WithCancel(context.Background())
	defer cancel1()
	ctx2, cancel2 := context.WithCancel(context.Background())
	defer cancel2()

	ops := []op{
		stamp(t1),
		controls(ctx1, logbuilder.TimeoutMillis(1)),
		with("a", 1),
		stamp(t2),
		controls(ctx2, logbuilder.NoTimeout),
	}
	for _, v := range variants {
		got := record(t, v, "lww", ops)
		if !got.Timestamp.Equal(t2) {
			t.Fatalf("%s: expected timestamp %v, got %v", v.name, t2, got.Timestamp)
		}
		if got.Ctx != ctx2 {
			t.Fatalf("%s: expected second context to win", v.name)
		}
		if got.Timeout.IsSet() {
			t.Fatalf("%s: expected timeout cleared, got %v", v.name, got.Timeout)
		}
	}
}

func TestDefaultsSubstituted(t *testing.T) {
	for _, v := range variants {
		before := time.Now()
		got := record(t, v, "bare", nil)
		after := time.Now()

		if got.Args != nil {
			t.Fatalf("%s: expected nil args, got %v", v.name, got.Args)
		}
		if got.Timestamp.Before(before) || got.Timestamp.After(after) {
			t.Fatalf("%s: timestamp %v outside [%v, %v]", v.name, got.Timestamp, before, after)
		}
		if got.Ctx != context.Background() {
			t.Fatalf("%s: expected background context, got %v", v.name, got.Ctx)
		}
		if got.Timeout != logbuilder.NoTimeout {
			t.Fatalf("%s: expected no timeout, got %v", v.name, got.Timeout)
		}
	}
}

func TestNilContextMeansNoCancellation(t *testing.T) {
	ops := []op{controls(nil, logbuilder.TimeoutMillis(5))}
	for _, v := range variants {
		got := record(t, v, "nilctx", ops)
		if got.Ctx != context.Background() {
			t.Fatalf("%s: expected background context for nil", v.name)
		}
		if ms, ok := got.Timeout.Millis(); !ok || ms != 5 {
			t.Fatalf("%s: expected 5ms timeout, got %v", v.name, got.Timeout)
		}
	}
}

func TestVariantsEquivalentOnRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	ctxs := []context.Context{context.Background(), context.TODO()}
	for round := range 200 {
		var ops []op
		n := rng.IntN(16)
		for range n {
			switch rng.IntN(3) {
			case 0:
				ops = append(ops, with(fmt.Sprintf("k%d", rng.IntN(5)), rng.IntN(100)))
			case 1:
				ops = append(ops, stamp(benchmarkTime.Add(time.Duration(rng.IntN(1000))*time.Second)))
			case 2:
				timeout := logbuilder.NoTimeout
				if rng.IntN(2) == 0 {
					timeout = logbuilder.TimeoutMillis(int32(rng.IntN(100)))
				}
				ops = append(ops, controls(ctxs[rng.IntN(len(ctxs))], timeout))
			}
		}
		// pin the timestamp so every variant sees the same value
		ops = append(ops, stamp(benchmarkTime))

		reference := record(t, variants[0], "random", ops)
		for _, v := range variants[1:] {
			got := record(t, v, "random", ops)
			if !recorder.Equal(got, reference) {
				t.Fatalf("round %d: %s diverged from %s:\n%s\nwant:\n%s", round, v.name, variants[0].name, recorder.Dump(got), recorder.Dump(reference))
			}
		}
	}
}

func TestFailurePassesThrough(t *testing.T) {
	boom := errors.New("sink down")
	for _, v := range variants {
		rec := recorder.New()
		rec.Err = boom
		if err := v.run(rec, "fail", []op{with("a", 1)}).Wait(); !errors.Is(err, boom) {
			t.Fatalf("%s: expected sink error, got %v", v.name, err)
		}
	}
}

func TestNilLoggerUsesStub(t *testing.T) {
	for _, v := range variants {
		res := v.run(nil, "nil", []op{with("a", 1)})
		if !res.IsCompleted() || res.Wait() != nil {
			t.Fatalf("%s: expected completed success from stub", v.name)
		}
	}
}

func TestObjectBuilderSharesIdentity(t *testing.T) {
	rec := recorder.New()
	b := logbuilder.LogObject(rec, "shared")
	alias := b
	if b.With("a", 1) != alias {
		t.Fatalf("With should return the receiver")
	}
	alias.With("b", 2)
	b.Log()

	call, _ := rec.Last()
	if len(call.Args) != 2 {
		t.Fatalf("expected both handles to mutate one builder, got %s", recorder.Dump(call))
	}
}

func TestReferencedBuilderMutatesLocal(t *testing.T) {
	rec := recorder.New()
	b := logbuilder.LogReferenced(rec, "local")
	if p := b.With("a", 1); p != &b {
		t.Fatalf("With should return a pointer to the local")
	}
	// discarding the return value keeps the change
	b.WithTimestamp(benchmarkTime)
	b.Log()

	call, _ := rec.Last()
	if len(call.Args) != 1 || !call.Timestamp.Equal(benchmarkTime) {
		t.Fatalf("unexpected call: %s", recorder.Dump(call))
	}
}

func TestCopiedBuilderDiscardedReturnLosesChange(t *testing.T) {
	rec := recorder.New()
	b := logbuilder.LogCopied(rec, "discard")
	b.WithTimestamp(benchmarkTime)
	b.WithControls(context.TODO(), logbuilder.TimeoutMillis(9))
	b.Log()

	call, _ := rec.Last()
	if call.Timestamp.Equal(benchmarkTime) {
		t.Fatalf("discarded WithTimestamp should not reach the logger")
	}
	if call.Timeout.IsSet() || call.Ctx != context.Background() {
		t.Fatalf("discarded WithControls should not reach the logger: %s", recorder.Dump(call))
	}
}
