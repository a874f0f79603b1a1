package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"pkt.systems/logbuilder"
)

// ErrInvalidScenario reports a scenario file entry that cannot be used.
var ErrInvalidScenario = errors.New("invalid scenario")

type scenarioFile struct {
	Scenarios []scenarioSpec `yaml:"scenarios"`
}

type scenarioSpec struct {
	Name      string     `yaml:"name"`
	Event     string     `yaml:"event"`
	Timestamp *time.Time `yaml:"timestamp"`
	Args      []argSpec  `yaml:"args"`
	TimeoutMS *int32     `yaml:"timeout_ms"`
	Controls  *bool      `yaml:"controls"`
}

type argSpec struct {
	Name  string `yaml:"name"`
	Value any    `yaml:"value"`
}

// LoadScenarios decodes scenarios from YAML:
//
//	scenarios:
//	  - name: checkout
//	    event: checkout.completed
//	    timestamp: 2020-05-03T08:17:00Z
//	    timeout_ms: 15
//	    args:
//	      - {name: user, value: alice}
//	      - {name: items, value: 3}
//
// Controls are applied when timeout_ms is present unless controls says
// otherwise.
func LoadScenarios(r io.Reader) ([]Scenario, error) {
	var file scenarioFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode scenarios: %w", err)
	}
	out := make([]Scenario, 0, len(file.Scenarios))
	seen := make(map[string]bool, len(file.Scenarios))
	for i, spec := range file.Scenarios {
		if spec.Name == "" {
			return nil, fmt.Errorf("%w: entry %d has no name", ErrInvalidScenario, i)
		}
		if seen[spec.Name] {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidScenario, spec.Name)
		}
		seen[spec.Name] = true
		sc := Scenario{
			Name:      spec.Name,
			EventName: spec.Event,
			Ctx:       context.Background(),
		}
		if sc.EventName == "" {
			sc.EventName = spec.Name
		}
		if spec.Timestamp != nil {
			sc.Timestamp = *spec.Timestamp
			sc.HasTimestamp = true
		}
		if len(spec.Args) > 0 {
			sc.Args = make([]logbuilder.Arg, len(spec.Args))
			for j, a := range spec.Args {
				if a.Name == "" {
					return nil, fmt.Errorf("%w: %s arg %d has no name", ErrInvalidScenario, spec.Name, j)
				}
				sc.Args[j] = logbuilder.Arg{Name: a.Name, Value: a.Value}
			}
		}
		if spec.TimeoutMS != nil {
			sc.Timeout = logbuilder.TimeoutMillis(*spec.TimeoutMS)
			sc.Controls = true
		}
		if spec.Controls != nil {
			sc.Controls = *spec.Controls
		}
		out = append(out, sc)
	}
	return out, nil
}

// LoadScenarioFile reads scenarios from path.
func LoadScenarioFile(path string) ([]Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scenario file %q: %w", path, err)
	}
	defer f.Close()
	return LoadScenarios(f)
}
