// Package config resolves builderbench settings from the environment and the
// command line. Environment values seed the flag defaults, so an explicit
// flag always wins.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// DefaultPrefix is prepended to every recognised environment variable.
const DefaultPrefix = "BUILDERBENCH_"

// Modes.
const (
	ModeInProcess = "inprocess"
	ModeGoTest    = "gotest"
)

// Formats.
const (
	FormatTable  = "table"
	FormatJSON   = "json"
	FormatLogfmt = "logfmt"
)

// ErrInvalid reports a setting outside its allowed values.
var ErrInvalid = errors.New("invalid configuration")

// Config holds the resolved settings.
type Config struct {
	Runs         int
	Benchtime    string
	Mode         string
	Format       string
	Sinks        []string
	Scenarios    []string
	ScenarioFile string
	// Bench and Dir are used in gotest mode only.
	Bench       string
	Dir         string
	NoColor     bool
	ForceColor  bool
	Palette     string
	Output      string
	MetricsFile string
	Gops        bool
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Config {
	return Config{
		Runs:      1,
		Benchtime: "1s",
		Mode:      ModeInProcess,
		Format:    FormatTable,
		Sinks:     []string{"stub"},
		Bench:     ".",
		Dir:       ".",
		Output:    "stdout",
	}
}

// Option customizes FromEnv.
type Option func(*options)

type options struct {
	prefix   string
	defaults Config
	lookup   func(string) (string, bool)
}

// WithEnvPrefix overrides DefaultPrefix.
func WithEnvPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithDefaults seeds FromEnv with cfg instead of Defaults().
func WithDefaults(cfg Config) Option {
	return func(o *options) {
		o.defaults = cfg
	}
}

// WithLookup replaces os.LookupEnv.
func WithLookup(lookup func(string) (string, bool)) Option {
	return func(o *options) {
		if lookup != nil {
			o.lookup = lookup
		}
	}
}

// FromEnv builds a Config from environment variables. Values that fail to
// parse keep the default.
//
// Recognised variables are: {prefix}RUNS, BENCHTIME, MODE (inprocess|gotest),
// FORMAT (table|json|logfmt), SINKS, SCENARIOS, SCENARIO_FILE, BENCH, DIR,
// NO_COLOR, FORCE_COLOR, PALETTE, OUTPUT, METRICS_FILE and GOPS. SINKS and
// SCENARIOS are comma separated.
func FromEnv(opts ...Option) Config {
	o := options{prefix: DefaultPrefix, defaults: Defaults(), lookup: os.LookupEnv}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	cfg := o.defaults
	env := func(key string) (string, bool) {
		return o.lookup(o.prefix + key)
	}
	if value, ok := env("RUNS"); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && n > 0 {
			cfg.Runs = n
		}
	}
	if value, ok := env("BENCHTIME"); ok {
		if parsed := strings.TrimSpace(value); parsed != "" {
			cfg.Benchtime = parsed
		}
	}
	if value, ok := env("MODE"); ok {
		if parsed, ok := parseMode(value); ok {
			cfg.Mode = parsed
		}
	}
	if value, ok := env("FORMAT"); ok {
		if parsed, ok := parseFormat(value); ok {
			cfg.Format = parsed
		}
	}
	if value, ok := env("SINKS"); ok {
		if list := SplitList(value); len(list) > 0 {
			cfg.Sinks = list
		}
	}
	if value, ok := env("SCENARIOS"); ok {
		cfg.Scenarios = SplitList(value)
	}
	stringVar(env, "SCENARIO_FILE", &cfg.ScenarioFile)
	stringVar(env, "BENCH", &cfg.Bench)
	stringVar(env, "DIR", &cfg.Dir)
	stringVar(env, "PALETTE", &cfg.Palette)
	stringVar(env, "OUTPUT", &cfg.Output)
	stringVar(env, "METRICS_FILE", &cfg.MetricsFile)
	boolVar(env, "NO_COLOR", &cfg.NoColor)
	boolVar(env, "FORCE_COLOR", &cfg.ForceColor)
	boolVar(env, "GOPS", &cfg.Gops)
	return cfg
}

func stringVar(env func(string) (string, bool), key string, dst *string) {
	if value, ok := env(key); ok {
		if parsed := strings.TrimSpace(value); parsed != "" {
			*dst = parsed
		}
	}
}

func boolVar(env func(string) (string, bool), key string, dst *bool) {
	if value, ok := env(key); ok {
		if parsed, ok := parseBool(value); ok {
			*dst = parsed
		}
	}
}

func parseBool(value string) (bool, bool) {
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, false
	}
	return parsed, true
}

func parseMode(value string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case ModeInProcess, "in-process":
		return ModeInProcess, true
	case ModeGoTest, "go-test":
		return ModeGoTest, true
	default:
		return "", false
	}
}

func parseFormat(value string) (string, bool) {
	switch v := strings.ToLower(strings.TrimSpace(value)); v {
	case FormatTable, FormatJSON, FormatLogfmt:
		return v, true
	default:
		return "", false
	}
}

// SplitList splits a comma separated list, dropping empty entries.
func SplitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

type listValue struct {
	dst *[]string
}

func (v listValue) String() string {
	if v.dst == nil {
		return ""
	}
	return strings.Join(*v.dst, ",")
}

func (v listValue) Set(s string) error {
	*v.dst = SplitList(s)
	return nil
}

// RegisterFlags binds cfg to fs, using the current values as defaults.
func (cfg *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&cfg.Runs, "runs", cfg.Runs, "number of benchmark runs to aggregate")
	fs.StringVar(&cfg.Benchtime, "benchtime", cfg.Benchtime, "duration or Nx iteration count per benchmark")
	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "inprocess or gotest")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "table, json or logfmt")
	fs.Var(listValue{&cfg.Sinks}, "sinks", "comma separated sinks, or all")
	fs.Var(listValue{&cfg.Scenarios}, "scenarios", "comma separated scenario names (default all)")
	fs.StringVar(&cfg.ScenarioFile, "scenario-file", cfg.ScenarioFile, "YAML file with extra scenarios")
	fs.StringVar(&cfg.Bench, "bench", cfg.Bench, "go test -bench pattern (gotest mode)")
	fs.StringVar(&cfg.Dir, "dir", cfg.Dir, "module directory for go test (gotest mode)")
	fs.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "disable colour")
	fs.BoolVar(&cfg.ForceColor, "force-color", cfg.ForceColor, "colour even when not on a terminal")
	fs.StringVar(&cfg.Palette, "palette", cfg.Palette, "colour palette name")
	fs.StringVar(&cfg.Output, "output", cfg.Output, "stdout, stderr, a file path, or stdout+<path> to tee")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "write Prometheus textfile metrics to this path")
	fs.BoolVar(&cfg.Gops, "gops", cfg.Gops, "start the gops diagnostics agent")
}

// Validate checks values that flags could have set to anything.
func (cfg Config) Validate() error {
	if cfg.Runs < 1 {
		return fmt.Errorf("%w: runs must be positive, got %d", ErrInvalid, cfg.Runs)
	}
	if _, ok := parseMode(cfg.Mode); !ok {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalid, cfg.Mode)
	}
	if _, ok := parseFormat(cfg.Format); !ok {
		return fmt.Errorf("%w: unknown format %q", ErrInvalid, cfg.Format)
	}
	if strings.TrimSpace(cfg.Benchtime) == "" {
		return fmt.Errorf("%w: empty benchtime", ErrInvalid)
	}
	return nil
}

// NormalizedMode returns Mode in canonical spelling.
func (cfg Config) NormalizedMode() string {
	mode, _ := parseMode(cfg.Mode)
	return mode
}

// NormalizedFormat returns Format in canonical spelling.
func (cfg Config) NormalizedFormat() string {
	format, _ := parseFormat(cfg.Format)
	return format
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenOutput resolves an OUTPUT value. It accepts stdout, stderr, a file
// path, or stdout+<path> / stderr+<path> to tee. The returned closer closes
// any file that was opened.
func OpenOutput(value string) (io.Writer, io.Closer, error) {
	trimmed := strings.TrimSpace(value)
	lowered := strings.ToLower(trimmed)
	switch lowered {
	case "", "stdout", "-":
		return os.Stdout, nopCloser{}, nil
	case "stderr":
		return os.Stderr, nopCloser{}, nil
	}
	const (
		stdoutPrefix = "stdout+"
		stderrPrefix = "stderr+"
	)
	var base io.Writer
	path := trimmed
	switch {
	case strings.HasPrefix(lowered, stdoutPrefix):
		base, path = os.Stdout, strings.TrimSpace(trimmed[len(stdoutPrefix):])
	case strings.HasPrefix(lowered, stderrPrefix):
		base, path = os.Stderr, strings.TrimSpace(trimmed[len(stderrPrefix):])
	}
	if path == "" {
		return base, nopCloser{}, nil
	}
	file, err := os.OpenFile(path, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open output %q: %w", path, err)
	}
	if base == nil {
		return file, file, nil
	}
	return io.MultiWriter(base, file), file, nil
}
