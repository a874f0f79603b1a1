// Command builderbench measures the three log-event builder shapes against a
// stub logger and real logging libraries, and ranks them per scenario.
//
//	builderbench -runs 3 -sinks stub,zap/json,zerolog/json
//	builderbench -mode gotest -bench 'Sinks' -benchtime 200ms
//
// Flags override BUILDERBENCH_* environment variables. Diagnostic logging is
// configured through BUILDERBENCH_LOG_* (LEVEL, MODE, OUTPUT, ...).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/gops/agent"

	"pkt.systems/pslog"
	"pkt.systems/pslog/ansi"

	"pkt.systems/logbuilder/internal/config"
	"pkt.systems/logbuilder/internal/harness"
	"pkt.systems/logbuilder/internal/termcolor"
	"pkt.systems/logbuilder/sink"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stderr)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	logger := pslog.LoggerFromEnv(
		pslog.WithEnvPrefix("BUILDERBENCH_LOG_"),
		pslog.WithEnvWriter(stderr),
	)
	ctx = pslog.ContextWithLogger(ctx, logger)

	cfg := config.FromEnv()
	fs := flag.NewFlagSet("builderbench", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfg.RegisterFlags(fs)
	listSinks := fs.Bool("list-sinks", false, "print the available sinks and exit")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("config.invalid", "err", err)
		return err
	}

	out, closer, err := config.OpenOutput(cfg.Output)
	if err != nil {
		logger.Error("output.open.failed", "output", cfg.Output, "err", err)
		return err
	}
	defer closer.Close()

	if *listSinks {
		for _, name := range sink.Names() {
			fmt.Fprintln(out, name)
		}
		return nil
	}

	if cfg.Gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			logger.Warn("gops.listen.failed", "err", err)
		} else {
			defer agent.Close()
		}
	}

	var datasets []harness.RunData
	switch cfg.NormalizedMode() {
	case config.ModeGoTest:
		datasets, err = runGoTest(ctx, cfg, logger)
	default:
		datasets, err = runInProcess(ctx, cfg, logger)
	}
	if err != nil {
		logger.Error("bench.failed", "mode", cfg.NormalizedMode(), "err", err)
		return err
	}

	if err := report(out, cfg, datasets); err != nil {
		logger.Error("report.failed", "err", err)
		return err
	}
	if cfg.MetricsFile != "" {
		if err := harness.WriteMetricsFile(cfg.MetricsFile, datasets); err != nil {
			logger.Error("metrics.write.failed", "path", cfg.MetricsFile, "err", err)
			return err
		}
	}
	logger.Info("bench.done", "runs", len(datasets), "fastest", harness.Summary(datasets))
	return nil
}

func runInProcess(ctx context.Context, cfg config.Config, logger pslog.Logger) ([]harness.RunData, error) {
	available := harness.Builtin()
	if cfg.ScenarioFile != "" {
		extra, err := harness.LoadScenarioFile(cfg.ScenarioFile)
		if err != nil {
			return nil, err
		}
		available, err = harness.MergeScenarios(available, extra)
		if err != nil {
			return nil, err
		}
	}
	scenarios, err := harness.SelectScenarios(available, cfg.Scenarios)
	if err != nil {
		return nil, err
	}
	sinks, err := sink.Select(cfg.Sinks)
	if err != nil {
		return nil, err
	}
	if err := harness.SetBenchtime(cfg.Benchtime); err != nil {
		return nil, err
	}
	logger.Debug("bench.config", "scenarios", len(scenarios), "sinks", len(sinks), "benchtime", cfg.Benchtime)
	return harness.Run(ctx, harness.Options{
		Runs:      cfg.Runs,
		Scenarios: scenarios,
		Sinks:     sinks,
		Logger:    logger,
	})
}

func runGoTest(ctx context.Context, cfg config.Config, logger pslog.Logger) ([]harness.RunData, error) {
	args := harness.GoTestArgs(cfg.Bench, cfg.Benchtime, nil)
	datasets := make([]harness.RunData, 0, cfg.Runs)
	for i := 1; i <= cfg.Runs; i++ {
		logger.Info("bench.run.start", "run", i, "of", cfg.Runs, "dir", cfg.Dir)
		output, err := harness.RunGoTest(ctx, args, cfg.Dir)
		if err != nil {
			logger.Debug("gotest.output", "output", string(output))
			return datasets, err
		}
		rows := harness.ParseBenchOutput(output)
		if len(rows) == 0 {
			return datasets, fmt.Errorf("run %d: %w", i, harness.ErrNoBenchmarks)
		}
		for j := range rows {
			rows[j].Run = i
		}
		datasets = append(datasets, harness.RunData{Rows: rows})
	}
	return datasets, nil
}

func report(w io.Writer, cfg config.Config, datasets []harness.RunData) error {
	switch cfg.NormalizedFormat() {
	case config.FormatJSON:
		return harness.WriteJSON(w, datasets)
	case config.FormatLogfmt:
		return harness.WriteLogfmt(w, datasets)
	}
	style := harness.PlainStyle()
	if termcolor.Enabled(w, cfg.NoColor, cfg.ForceColor) {
		var palette *ansi.Palette
		if cfg.Palette != "" {
			palette = ansi.PaletteByName(cfg.Palette)
		}
		style = harness.ColorStyle(palette)
	}
	for i, data := range datasets {
		if _, err := fmt.Fprintf(w, "Run %d/%d results\n", i+1, len(datasets)); err != nil {
			return err
		}
		if err := harness.WriteTable(w, data.Rows, style); err != nil {
			return err
		}
	}
	if len(datasets) > 1 {
		if _, err := fmt.Fprintf(w, "Aggregate over %d runs\n", len(datasets)); err != nil {
			return err
		}
		return harness.WriteAggregate(w, datasets, style)
	}
	return nil
}
