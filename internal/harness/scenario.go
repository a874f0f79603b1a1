// Package harness drives the builder variants through identical call
// sequences and reports timing and allocation figures per variant.
package harness

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"pkt.systems/logbuilder"
)

// BenchmarkTime is the fixed event time of the built-in scenarios.
var BenchmarkTime = time.Date(2020, time.May, 3, 8, 17, 0, 0, time.UTC)

// Scenario is one configuration sequence: optional timestamp, the arguments
// in order, then the controls. Every variant applies it the same way.
type Scenario struct {
	Name         string
	EventName    string
	Timestamp    time.Time
	HasTimestamp bool
	Args         []logbuilder.Arg
	Ctx          context.Context
	Timeout      logbuilder.Timeout
	// Controls reports whether WithControls is called at all.
	Controls bool
}

func params(n int) []logbuilder.Arg {
	args := make([]logbuilder.Arg, n)
	for i := range args {
		name := "param" + strconv.Itoa(i)
		args[i] = logbuilder.Arg{Name: name, Value: name + "value"}
	}
	return args
}

// Canonical is the eleven-parameter event the package benchmarks measure.
var Canonical = Scenario{
	Name:         "canonical",
	EventName:    "benchmark",
	Timestamp:    BenchmarkTime,
	HasTimestamp: true,
	Args:         params(11),
	Ctx:          context.Background(),
	Timeout:      logbuilder.TimeoutMillis(15),
	Controls:     true,
}

// Minimal is the two-parameter event.
var Minimal = Scenario{
	Name:         "minimal",
	EventName:    "benchmark",
	Timestamp:    BenchmarkTime,
	HasTimestamp: true,
	Args:         params(2),
	Ctx:          context.Background(),
	Timeout:      logbuilder.TimeoutMillis(15),
	Controls:     true,
}

// Bare finalizes without any configuration.
var Bare = Scenario{
	Name:      "bare",
	EventName: "benchmark",
}

// Builtin returns the built-in scenarios.
func Builtin() []Scenario {
	return []Scenario{Canonical, Minimal, Bare}
}

// MergeScenarios appends extra to base. A name present in both is an error,
// since selection by name could not tell them apart.
func MergeScenarios(base, extra []Scenario) ([]Scenario, error) {
	seen := make(map[string]bool, len(base))
	for _, sc := range base {
		seen[sc.Name] = true
	}
	merged := append(make([]Scenario, 0, len(base)+len(extra)), base...)
	for _, sc := range extra {
		if seen[sc.Name] {
			return nil, fmt.Errorf("%w: %q is already defined", ErrInvalidScenario, sc.Name)
		}
		seen[sc.Name] = true
		merged = append(merged, sc)
	}
	return merged, nil
}

// SelectScenarios resolves names against available. An empty names list
// selects everything.
func SelectScenarios(available []Scenario, names []string) ([]Scenario, error) {
	if len(names) == 0 {
		return available, nil
	}
	byName := make(map[string]Scenario, len(available))
	for _, sc := range available {
		byName[sc.Name] = sc
	}
	selected := make([]Scenario, 0, len(names))
	for _, name := range names {
		sc, ok := byName[strings.TrimSpace(name)]
		if !ok {
			known := make([]string, 0, len(byName))
			for k := range byName {
				known = append(known, k)
			}
			sort.Strings(known)
			return nil, fmt.Errorf("unknown scenario %q (known: %s)", name, strings.Join(known, ", "))
		}
		selected = append(selected, sc)
	}
	return selected, nil
}
