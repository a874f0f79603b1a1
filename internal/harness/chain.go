package harness

import (
	"context"

	"pkt.systems/logbuilder"
)

// The Chain functions spell out the Canonical scenario as one literal chained
// expression, which is how call sites use the builders. They are what the
// package benchmarks measure.

// ChainObject logs Canonical through an ObjectBuilder.
func ChainObject(logger logbuilder.EventLogger) logbuilder.Result {
	return logbuilder.LogObject(logger, "benchmark").
		WithTimestamp(BenchmarkTime).
		With("param0", "param0value").
		With("param1", "param1value").
		With("param2", "param2value").
		With("param3", "param3value").
		With("param4", "param4value").
		With("param5", "param5value").
		With("param6", "param6value").
		With("param7", "param7value").
		With("param8", "param8value").
		With("param9", "param9value").
		With("param10", "param10value").
		WithControls(context.Background(), logbuilder.TimeoutMillis(15)).
		Log()
}

// ChainCopied logs Canonical through a CopiedBuilder.
func ChainCopied(logger logbuilder.EventLogger) logbuilder.Result {
	return logbuilder.LogCopied(logger, "benchmark").
		WithTimestamp(BenchmarkTime).
		With("param0", "param0value").
		With("param1", "param1value").
		With("param2", "param2value").
		With("param3", "param3value").
		With("param4", "param4value").
		With("param5", "param5value").
		With("param6", "param6value").
		With("param7", "param7value").
		With("param8", "param8value").
		With("param9", "param9value").
		With("param10", "param10value").
		WithControls(context.Background(), logbuilder.TimeoutMillis(15)).
		Log()
}

// ChainReferenced logs Canonical through a ReferencedBuilder held in a local.
func ChainReferenced(logger logbuilder.EventLogger) logbuilder.Result {
	b := logbuilder.LogReferenced(logger, "benchmark")
	return b.
		WithTimestamp(BenchmarkTime).
		With("param0", "param0value").
		With("param1", "param1value").
		With("param2", "param2value").
		With("param3", "param3value").
		With("param4", "param4value").
		With("param5", "param5value").
		With("param6", "param6value").
		With("param7", "param7value").
		With("param8", "param8value").
		With("param9", "param9value").
		With("param10", "param10value").
		WithControls(context.Background(), logbuilder.TimeoutMillis(15)).
		Log()
}

// Chain is a literal call sequence for one variant.
type Chain struct {
	Name string
	Run  func(logbuilder.EventLogger) logbuilder.Result
}

// Chains returns the literal sequences in variant order.
func Chains() []Chain {
	return []Chain{
		{Name: "object", Run: ChainObject},
		{Name: "copied", Run: ChainCopied},
		{Name: "referenced", Run: ChainReferenced},
	}
}
