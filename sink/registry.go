package sink

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	apexlog "github.com/apex/log"
	apexjson "github.com/apex/log/handlers/json"
	apextext "github.com/apex/log/handlers/text"
	charm "github.com/charmbracelet/log"
	"github.com/francoispqt/onelog"
	kitlog "github.com/go-kit/log"
	"github.com/go-logr/logr/funcr"
	"github.com/inconshreveable/log15"
	"github.com/lmittmann/tint"
	plog "github.com/phuslu/log"
	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"pkt.systems/pslog"

	"pkt.systems/logbuilder"
)

// Factory builds a named EventLogger writing to w.
type Factory struct {
	Name string
	// Global marks adapters that reconfigure a process-wide logger: New
	// redirects the output of every logger it built before. Callers must not
	// run a Global factory in parallel with anything else.
	Global bool
	New    func(w io.Writer) logbuilder.EventLogger
}

// StubName is the registry name of logbuilder.Stub.
const StubName = "stub"

// Registry returns every adapter with a JSON or text configuration matching
// the native benchmark settings: RFC3339 timestamps, no colour, info level.
func Registry() []Factory {
	return []Factory{
		{
			Name: StubName,
			New: func(io.Writer) logbuilder.EventLogger {
				return logbuilder.Stub()
			},
		},
		{
			Name: "pslog/json",
			New: func(w io.Writer) logbuilder.EventLogger {
				return PSLog(pslog.NewStructuredNoColor(w).LogLevel(pslog.TraceLevel))
			},
		},
		{
			Name: "pslog/console",
			New: func(w io.Writer) logbuilder.EventLogger {
				return PSLog(pslog.New(w).LogLevel(pslog.TraceLevel))
			},
		},
		{
			Name: "zerolog/json",
			New: func(w io.Writer) logbuilder.EventLogger {
				return Zerolog(zerolog.New(w).With().Timestamp().Logger())
			},
		},
		{
			Name: "zap/json",
			New: func(w io.Writer) logbuilder.EventLogger {
				encoderCfg := zap.NewProductionEncoderConfig()
				encoderCfg.EncodeTime = zapcore.RFC3339TimeEncoder
				core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(w), zapcore.InfoLevel)
				return Zap(zap.New(core, zap.WithCaller(false)))
			},
		},
		{
			Name: "slog/json",
			New: func(w io.Writer) logbuilder.EventLogger {
				return Slog(slog.NewJSONHandler(w, nil))
			},
		},
		{
			Name: "tint/console",
			New: func(w io.Writer) logbuilder.EventLogger {
				return Slog(tint.NewHandler(w, &tint.Options{NoColor: true, TimeFormat: time.RFC3339}))
			},
		},
		{
			Name: "logrus/json",
			New: func(w io.Writer) logbuilder.EventLogger {
				logger := logrus.New()
				logger.SetOutput(w)
				logger.SetLevel(logrus.InfoLevel)
				logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
				return Logrus(logger)
			},
		},
		{
			Name: "logrus/text",
			New: func(w io.Writer) logbuilder.EventLogger {
				logger := logrus.New()
				logger.SetOutput(w)
				logger.SetLevel(logrus.InfoLevel)
				logger.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true, TimestampFormat: time.RFC3339})
				return Logrus(logger)
			},
		},
		{
			Name: "kitlog/json",
			New: func(w io.Writer) logbuilder.EventLogger {
				return Kitlog(kitlog.With(kitlog.NewJSONLogger(w), "level", "info"))
			},
		},
		{
			Name: "kitlog/logfmt",
			New: func(w io.Writer) logbuilder.EventLogger {
				return Kitlog(kitlog.With(kitlog.NewLogfmtLogger(w), "level", "info"))
			},
		},
		{
			Name: "phuslu/json",
			New: func(w io.Writer) logbuilder.EventLogger {
				return Phuslu(&plog.Logger{
					Level:      plog.InfoLevel,
					TimeFormat: time.RFC3339,
					Writer:     plog.IOWriter{Writer: w},
				})
			},
		},
		{
			Name: "apex/json",
			New: func(w io.Writer) logbuilder.EventLogger {
				return Apex(&apexlog.Logger{Handler: apexjson.New(w), Level: apexlog.InfoLevel})
			},
		},
		{
			Name: "apex/text",
			New: func(w io.Writer) logbuilder.EventLogger {
				return Apex(&apexlog.Logger{Handler: apextext.New(w), Level: apexlog.InfoLevel})
			},
		},
		{
			Name: "charm/json",
			New: func(w io.Writer) logbuilder.EventLogger {
				return Charm(charm.NewWithOptions(w, charm.Options{
					Formatter:       charm.JSONFormatter,
					ReportTimestamp: true,
					TimeFormat:      time.RFC3339,
				}))
			},
		},
		{
			Name: "log15/logfmt",
			New: func(w io.Writer) logbuilder.EventLogger {
				logger := log15.New()
				logger.SetHandler(log15.StreamHandler(w, log15.LogfmtFormat()))
				return Log15(logger)
			},
		},
		{
			Name: "logr/funcr",
			New: func(w io.Writer) logbuilder.EventLogger {
				return Logr(funcr.NewJSON(func(obj string) {
					_, _ = io.WriteString(w, obj+"\n")
				}, funcr.Options{LogTimestamp: true, TimestampFormat: time.RFC3339}))
			},
		},
		{
			Name: "onelog/json",
			New: func(w io.Writer) logbuilder.EventLogger {
				return Onelog(onelog.New(w, onelog.ALL))
			},
		},
		{
			Name: "seelog/custom",
			New: func(w io.Writer) logbuilder.EventLogger {
				logger, err := NewSeelogLogger(w)
				if err != nil {
					panic(err)
				}
				return Seelog(logger)
			},
		},
		{
			Name: "async/zerolog",
			New: func(w io.Writer) logbuilder.EventLogger {
				return Async(Zerolog(zerolog.New(w).With().Timestamp().Logger()), AsyncOptions{})
			},
		},
		{
			Name:   "klog/text",
			Global: true,
			New:    Klog,
		},
		{
			Name:   "logx/json",
			Global: true,
			New:    Logx,
		},
	}
}

// Names returns the registry names in registry order.
func Names() []string {
	reg := Registry()
	names := make([]string, len(reg))
	for i, f := range reg {
		names[i] = f.Name
	}
	return names
}

// Select resolves names against the registry, preserving the requested order.
// "all" or an empty list selects everything.
func Select(names []string) ([]Factory, error) {
	reg := Registry()
	if len(names) == 0 || (len(names) == 1 && strings.EqualFold(strings.TrimSpace(names[0]), "all")) {
		return reg, nil
	}
	byName := make(map[string]Factory, len(reg))
	for _, f := range reg {
		byName[f.Name] = f
	}
	selected := make([]Factory, 0, len(names))
	for _, name := range names {
		f, ok := byName[strings.TrimSpace(name)]
		if !ok {
			known := Names()
			sort.Strings(known)
			return nil, fmt.Errorf("unknown sink %q (known: %s)", name, strings.Join(known, ", "))
		}
		selected = append(selected, f)
	}
	return selected, nil
}
