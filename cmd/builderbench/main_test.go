package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pkt.systems/logbuilder/internal/harness"
)

func restoreBenchtime(t *testing.T) {
	t.Helper()
	testing.Init()
	previous := flag.Lookup("test.benchtime").Value.String()
	t.Cleanup(func() { _ = flag.Set("test.benchtime", previous) })
}

func TestRunWritesReports(t *testing.T) {
	restoreBenchtime(t)
	t.Setenv("BUILDERBENCH_LOG_LEVEL", "error")
	dir := t.TempDir()
	out := filepath.Join(dir, "report.json")
	metrics := filepath.Join(dir, "bench.prom")
	var stderr bytes.Buffer
	err := run(context.Background(), []string{
		"-benchtime", "5x",
		"-runs", "2",
		"-scenarios", "bare,minimal",
		"-sinks", "stub",
		"-format", "json",
		"-output", out,
		"-metrics-file", metrics,
	}, &stderr)
	if err != nil {
		t.Fatalf("run: %v\n%s", err, stderr.String())
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"group": "bare/stub"`, `"group": "minimal/stub"`, `"variant": "referenced"`, `"run": 2`} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("missing %s in report:\n%s", want, data)
		}
	}
	prom, err := os.ReadFile(metrics)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(prom), `builderbench_samples{group="minimal/stub",variant="object"} 2`) {
		t.Fatalf("unexpected metrics:\n%s", prom)
	}
}

func TestRunTableAggregates(t *testing.T) {
	restoreBenchtime(t)
	t.Setenv("BUILDERBENCH_LOG_LEVEL", "error")
	out := filepath.Join(t.TempDir(), "report.txt")
	var stderr bytes.Buffer
	err := run(context.Background(), []string{
		"-benchtime", "3x", "-runs", "2", "-scenarios", "bare", "-output", out, "-no-color",
	}, &stderr)
	if err != nil {
		t.Fatalf("run: %v\n%s", err, stderr.String())
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	for _, want := range []string{"Run 1/2 results", "Run 2/2 results", "Aggregate over 2 runs", "bare/stub aggregate"} {
		if !strings.Contains(text, want) {
			t.Fatalf("missing %q in:\n%s", want, text)
		}
	}
	if strings.Contains(text, "\x1b[") {
		t.Fatalf("no-color output contains escapes")
	}
}

func TestRunRejectsUnknownSink(t *testing.T) {
	t.Setenv("BUILDERBENCH_LOG_MODE", "json")
	var stderr bytes.Buffer
	err := run(context.Background(), []string{"-sinks", "nope", "-output", filepath.Join(t.TempDir(), "r")}, &stderr)
	if err == nil {
		t.Fatalf("expected error for unknown sink")
	}
	if !strings.Contains(stderr.String(), "bench.failed") {
		t.Fatalf("expected failure to be logged, got %q", stderr.String())
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	var stderr bytes.Buffer
	if err := run(context.Background(), []string{"-runs", "0"}, &stderr); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestListSinks(t *testing.T) {
	out := filepath.Join(t.TempDir(), "sinks.txt")
	var stderr bytes.Buffer
	if err := run(context.Background(), []string{"-list-sinks", "-output", out}, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "stub\n") || !strings.Contains(string(data), "zap/json\n") {
		t.Fatalf("unexpected sink list:\n%s", data)
	}
}

func TestHelpIsNotAnError(t *testing.T) {
	var stderr bytes.Buffer
	if err := run(context.Background(), []string{"-h"}, &stderr); err != nil {
		t.Fatalf("help: %v", err)
	}
	if !strings.Contains(stderr.String(), "-benchtime") {
		t.Fatalf("expected usage, got %q", stderr.String())
	}
}

func TestRunRejectsScenarioShadowingBuiltin(t *testing.T) {
	restoreBenchtime(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "scenarios.yaml")
	if err := os.WriteFile(file, []byte("scenarios:\n  - name: canonical\n    event: shadow\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	var stderr bytes.Buffer
	err := run(context.Background(), []string{
		"-benchtime", "2x", "-scenario-file", file, "-output", filepath.Join(dir, "r"),
	}, &stderr)
	if !errors.Is(err, harness.ErrInvalidScenario) {
		t.Fatalf("expected ErrInvalidScenario, got %v", err)
	}
}
