package harness

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/bytedance/sonic"
	"github.com/go-logfmt/logfmt"
	"github.com/prometheus/client_golang/prometheus"

	"pkt.systems/pslog/ansi"
)

// Style controls colouring of the text reports. The zero value is plain.
type Style struct {
	Color   bool
	Palette ansi.Palette
}

// PlainStyle returns a Style without colour.
func PlainStyle() Style { return Style{} }

// ColorStyle returns a Style using palette, or the current ansi palette when
// palette is nil.
func ColorStyle(palette *ansi.Palette) Style {
	if palette == nil {
		return Style{Color: true, Palette: ansi.Snapshot()}
	}
	return Style{Color: true, Palette: *palette}
}

func (s Style) paint(color, text string) string {
	if !s.Color || color == "" {
		return text
	}
	return color + text + ansi.Reset
}

// GroupRows splits rows by group, preserving first-seen group order, and
// ranks each group fastest first. Ties order by variant name.
func GroupRows(rows []Row) (map[string][]Row, []string) {
	grouped := make(map[string][]Row)
	var order []string
	for _, row := range rows {
		if _, ok := grouped[row.Group]; !ok {
			order = append(order, row.Group)
		}
		grouped[row.Group] = append(grouped[row.Group], row)
	}
	for _, group := range order {
		ranked := grouped[group]
		sort.SliceStable(ranked, func(i, j int) bool {
			if ranked[i].NsPerOp == ranked[j].NsPerOp {
				return ranked[i].Variant < ranked[j].Variant
			}
			return ranked[i].NsPerOp < ranked[j].NsPerOp
		})
	}
	return grouped, order
}

// WriteTable writes one ranked table per group.
func WriteTable(w io.Writer, rows []Row, style Style) error {
	grouped, order := GroupRows(rows)
	for _, group := range order {
		var buf bytes.Buffer
		tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "Rank\tVariant\tTime (ns/op)\tSink bytes/op\tB/op\tallocs/op")
		for idx, row := range grouped[group] {
			fmt.Fprintf(tw, "%d\t%s\t%.2f\t%.2f\t%d\t%d\n",
				idx+1, label(row.Variant, group), row.NsPerOp, row.SinkBytesPerOp, row.BytesPerOp, row.AllocsPerOp)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, style.paint(style.Palette.MessageKey, group)); err != nil {
			return err
		}
		if err := writePainted(w, &buf, style); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// Stat summarises one group/variant across runs.
type Stat struct {
	Group          string
	Variant        string
	Samples        int
	MeanNsPerOp    float64
	BestNsPerOp    float64
	WorstNsPerOp   float64
	SinkBytesPerOp float64
	// BytesPerOp and AllocsPerOp come from the fastest sample.
	BytesPerOp  int64
	AllocsPerOp int64
}

// Aggregate folds datasets into one Stat per group/variant. Groups keep
// first-seen order and each group is ranked by mean time.
func Aggregate(datasets []RunData) ([]Stat, []string) {
	type acc struct {
		stat      Stat
		timeSum   float64
		sinkBytes float64
	}
	byGroup := make(map[string]map[string]*acc)
	var order []string
	for _, data := range datasets {
		for _, row := range data.Rows {
			variants := byGroup[row.Group]
			if variants == nil {
				variants = make(map[string]*acc)
				byGroup[row.Group] = variants
				order = append(order, row.Group)
			}
			a := variants[row.Variant]
			if a == nil {
				a = &acc{stat: Stat{
					Group:        row.Group,
					Variant:      row.Variant,
					BestNsPerOp:  row.NsPerOp,
					WorstNsPerOp: row.NsPerOp,
					BytesPerOp:   row.BytesPerOp,
					AllocsPerOp:  row.AllocsPerOp,
				}}
				variants[row.Variant] = a
			}
			a.stat.Samples++
			a.timeSum += row.NsPerOp
			a.sinkBytes += row.SinkBytesPerOp
			if row.NsPerOp < a.stat.BestNsPerOp {
				a.stat.BestNsPerOp = row.NsPerOp
				a.stat.BytesPerOp = row.BytesPerOp
				a.stat.AllocsPerOp = row.AllocsPerOp
			}
			if row.NsPerOp > a.stat.WorstNsPerOp {
				a.stat.WorstNsPerOp = row.NsPerOp
			}
		}
	}
	var stats []Stat
	for _, group := range order {
		ranked := make([]Stat, 0, len(byGroup[group]))
		for _, a := range byGroup[group] {
			s := a.stat
			s.MeanNsPerOp = a.timeSum / float64(s.Samples)
			s.SinkBytesPerOp = a.sinkBytes / float64(s.Samples)
			ranked = append(ranked, s)
		}
		sort.Slice(ranked, func(i, j int) bool {
			if ranked[i].MeanNsPerOp == ranked[j].MeanNsPerOp {
				return ranked[i].Variant < ranked[j].Variant
			}
			return ranked[i].MeanNsPerOp < ranked[j].MeanNsPerOp
		})
		stats = append(stats, ranked...)
	}
	return stats, order
}

// WriteAggregate writes the mean/best/worst table of every group.
func WriteAggregate(w io.Writer, datasets []RunData, style Style) error {
	stats, order := Aggregate(datasets)
	for _, group := range order {
		var buf bytes.Buffer
		tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "Rank\tVariant\tMean ns/op\tBest ns/op\tWorst ns/op\tSamples\tSink bytes/op\tB/op\tallocs/op")
		rank := 0
		for _, s := range stats {
			if s.Group != group {
				continue
			}
			rank++
			fmt.Fprintf(tw, "%d\t%s\t%.2f\t%.2f\t%.2f\t%d\t%.2f\t%d\t%d\n",
				rank, label(s.Variant, group), s.MeanNsPerOp, s.BestNsPerOp, s.WorstNsPerOp,
				s.Samples, s.SinkBytesPerOp, s.BytesPerOp, s.AllocsPerOp)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, style.paint(style.Palette.MessageKey, group+" aggregate")); err != nil {
			return err
		}
		if err := writePainted(w, &buf, style); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// writePainted copies an aligned table, colouring the header and the winner.
// Colour is applied per line so escape codes never skew tabwriter widths.
func writePainted(w io.Writer, table *bytes.Buffer, style Style) error {
	scanner := bufio.NewScanner(table)
	for line := 0; scanner.Scan(); line++ {
		text := scanner.Text()
		switch line {
		case 0:
			text = style.paint(style.Palette.Key, text)
		case 1:
			text = style.paint(style.Palette.Info, text)
		}
		if _, err := io.WriteString(w, text+"\n"); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func label(variant, group string) string {
	if variant == "" {
		return group
	}
	return variant
}

// WriteJSON writes datasets as an indented JSON array of runs.
func WriteJSON(w io.Writer, datasets []RunData) error {
	if datasets == nil {
		datasets = []RunData{}
	}
	out, err := sonic.ConfigStd.MarshalIndent(datasets, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json report: %w", err)
	}
	out = append(out, '\n')
	_, err = w.Write(out)
	return err
}

// WriteLogfmt writes one logfmt record per row.
func WriteLogfmt(w io.Writer, datasets []RunData) error {
	enc := logfmt.NewEncoder(w)
	for _, data := range datasets {
		for _, row := range data.Rows {
			err := enc.EncodeKeyvals(
				"run", row.Run,
				"group", row.Group,
				"variant", row.Variant,
				"iterations", row.Iterations,
				"ns_per_op", row.NsPerOp,
				"b_per_op", row.BytesPerOp,
				"allocs_per_op", row.AllocsPerOp,
				"sink_bytes_per_op", row.SinkBytesPerOp,
			)
			if err != nil {
				return fmt.Errorf("encode logfmt report: %w", err)
			}
			if err := enc.EndRecord(); err != nil {
				return err
			}
		}
	}
	return nil
}

// MetricsRegistry exposes the aggregate of datasets as gauges labelled by
// group and variant. The group already carries scenario and sink.
func MetricsRegistry(datasets []RunData) (*prometheus.Registry, error) {
	labels := []string{"group", "variant"}
	ns := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "builderbench",
		Name:      "ns_per_op",
		Help:      "Mean nanoseconds per log operation across runs.",
	}, labels)
	allocs := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "builderbench",
		Name:      "allocs_per_op",
		Help:      "Heap allocations per log operation in the fastest run.",
	}, labels)
	allocBytes := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "builderbench",
		Name:      "alloc_bytes_per_op",
		Help:      "Heap bytes allocated per log operation in the fastest run.",
	}, labels)
	sinkBytes := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "builderbench",
		Name:      "sink_bytes_per_op",
		Help:      "Mean bytes written by the sink per log operation.",
	}, labels)
	samples := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "builderbench",
		Name:      "samples",
		Help:      "Number of runs aggregated.",
	}, labels)

	reg := prometheus.NewRegistry()
	for _, c := range []prometheus.Collector{ns, allocs, allocBytes, sinkBytes, samples} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	stats, _ := Aggregate(datasets)
	for _, s := range stats {
		l := prometheus.Labels{"group": s.Group, "variant": s.Variant}
		ns.With(l).Set(s.MeanNsPerOp)
		allocs.With(l).Set(float64(s.AllocsPerOp))
		allocBytes.With(l).Set(float64(s.BytesPerOp))
		sinkBytes.With(l).Set(s.SinkBytesPerOp)
		samples.With(l).Set(float64(s.Samples))
	}
	return reg, nil
}

// WriteMetricsFile writes the aggregate in the Prometheus text format,
// suitable for the node exporter textfile collector.
func WriteMetricsFile(path string, datasets []RunData) error {
	reg, err := MetricsRegistry(datasets)
	if err != nil {
		return err
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}

// Summary is a one-line description of the fastest variant per group.
func Summary(datasets []RunData) string {
	stats, order := Aggregate(datasets)
	parts := make([]string, 0, len(order))
	for _, group := range order {
		for _, s := range stats {
			if s.Group == group {
				parts = append(parts, fmt.Sprintf("%s=%s", group, label(s.Variant, group)))
				break
			}
		}
	}
	return strings.Join(parts, " ")
}
