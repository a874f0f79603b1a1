package harness

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"pkt.systems/pslog"

	"pkt.systems/logbuilder/sink"
)

// Row is one measured benchmark: a variant within a group. In-process runs
// name the group "<scenario>/<sink>".
type Row struct {
	Run         int     `json:"run"`
	Group       string  `json:"group"`
	Variant     string  `json:"variant"`
	Iterations  int     `json:"iterations"`
	NsPerOp     float64 `json:"ns_per_op"`
	BytesPerOp  int64   `json:"b_per_op"`
	AllocsPerOp int64   `json:"allocs_per_op"`
	// SinkBytesPerOp is what the sink wrote per operation; zero for the stub.
	SinkBytesPerOp float64 `json:"sink_bytes_per_op"`
}

// RunData holds the rows of one run.
type RunData struct {
	Rows []Row `json:"rows"`
}

// Options selects what Run measures.
type Options struct {
	Runs      int
	Scenarios []Scenario
	Sinks     []sink.Factory
	Variants  []Variant
	// Logger receives progress events; nil is silent.
	Logger pslog.Logger
}

// Run measures every scenario x sink x variant combination with
// testing.Benchmark, Runs times. The benchmark duration follows the
// -test.benchtime flag; see SetBenchtime.
func Run(ctx context.Context, opts Options) ([]RunData, error) {
	runs := opts.Runs
	if runs < 1 {
		runs = 1
	}
	scenarios := opts.Scenarios
	if len(scenarios) == 0 {
		scenarios = Builtin()
	}
	sinks := opts.Sinks
	if len(sinks) == 0 {
		stub, err := sink.Select([]string{sink.StubName})
		if err != nil {
			return nil, err
		}
		sinks = stub
	}
	variants := opts.Variants
	if len(variants) == 0 {
		variants = Variants()
	}
	logger := opts.Logger
	if logger == nil {
		logger = pslog.LoggerFromContext(ctx)
	}

	datasets := make([]RunData, 0, runs)
	for run := 1; run <= runs; run++ {
		logger.Info("bench.run.start", "run", run, "of", runs)
		var data RunData
		for i := range scenarios {
			sc := &scenarios[i]
			for _, factory := range sinks {
				group := sc.Name + "/" + factory.Name
				for _, v := range variants {
					if err := ctx.Err(); err != nil {
						return datasets, err
					}
					row, err := measure(sc, factory, v)
					if err != nil {
						return datasets, fmt.Errorf("%s/%s: %w", group, v.Name, err)
					}
					row.Run = run
					row.Group = group
					logger.Debug("bench.measured", "group", group, "variant", v.Name, "ns_per_op", row.NsPerOp, "allocs_per_op", row.AllocsPerOp)
					data.Rows = append(data.Rows, row)
				}
			}
		}
		datasets = append(datasets, data)
	}
	return datasets, nil
}

// ErrNoIterations reports a benchmark that never ran its body.
var ErrNoIterations = errors.New("benchmark did not run")

func measure(sc *Scenario, factory sink.Factory, v Variant) (Row, error) {
	w := sink.NewCountingWriter()
	logger := factory.New(w)
	var firstErr error
	result := testing.Benchmark(func(b *testing.B) {
		w.Reset()
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if err := v.Apply(logger, sc).Wait(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	})
	if err := sink.Release(logger); err != nil && firstErr == nil {
		firstErr = err
	}
	if firstErr != nil {
		return Row{}, firstErr
	}
	if result.N == 0 {
		return Row{}, ErrNoIterations
	}
	row := Row{
		Variant:     v.Name,
		Iterations:  result.N,
		NsPerOp:     float64(result.T.Nanoseconds()) / float64(result.N),
		BytesPerOp:  result.AllocedBytesPerOp(),
		AllocsPerOp: result.AllocsPerOp(),
	}
	row.SinkBytesPerOp = float64(w.BytesWritten()) / float64(result.N)
	return row, nil
}
