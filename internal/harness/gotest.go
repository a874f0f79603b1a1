package harness

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"unicode"
)

// ErrNoBenchmarks reports go test output without any benchmark lines.
var ErrNoBenchmarks = errors.New("no benchmarks detected in go test output")

// GoTestArgs builds the go test command line for pattern and benchtime.
// packages defaults to ./...
func GoTestArgs(pattern, benchtime string, packages []string) []string {
	args := []string{"go", "test", "-run=^$", "-bench", pattern, "-benchmem"}
	if benchtime != "" {
		args = append(args, "-benchtime", benchtime)
	}
	if len(packages) == 0 {
		return append(args, "./...")
	}
	return append(args, packages...)
}

// RunGoTest executes args in dir and returns the combined output, which is
// returned even when the command fails.
func RunGoTest(ctx context.Context, args []string, dir string) ([]byte, error) {
	if len(args) == 0 {
		return nil, errors.New("empty go test command")
	}
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = dir
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return out.Bytes(), fmt.Errorf("run %s: %w", strings.Join(args, " "), err)
	}
	return out.Bytes(), nil
}

// ParseBenchOutput extracts rows from go test -bench -benchmem output. The
// group is the benchmark name up to its last slash and the variant is the
// final element, so BenchmarkSinks/zap/json/object groups under
// BenchmarkSinks/zap/json.
func ParseBenchOutput(data []byte) []Row {
	var rows []Row
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "Benchmark") {
			continue
		}
		if row, ok := parseBenchLine(line); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

func parseBenchLine(line string) (Row, bool) {
	fields := strings.Fields(line)
	if len(fields) < 4 || !strings.HasPrefix(fields[0], "Benchmark") {
		return Row{}, false
	}
	name := trimProcSuffix(fields[0])
	group, variant := splitGroup(name)
	row := Row{Group: group, Variant: variant}
	if n, err := strconv.Atoi(fields[1]); err == nil {
		row.Iterations = n
	}
	hasNs := false
	for i := 3; i < len(fields); i++ {
		unit := fields[i]
		if !strings.HasSuffix(unit, "/op") {
			continue
		}
		value := fields[i-1]
		switch unit {
		case "ns/op":
			row.NsPerOp = parseFloat(value)
			hasNs = true
		case "B/op":
			row.BytesPerOp = int64(parseFloat(value))
		case "allocs/op":
			row.AllocsPerOp = int64(parseFloat(value))
		case "bytes/op":
			row.SinkBytesPerOp = parseFloat(value)
		}
	}
	if !hasNs {
		return Row{}, false
	}
	return row, true
}

func trimProcSuffix(name string) string {
	idx := strings.LastIndex(name, "-")
	if idx == -1 || idx+1 == len(name) {
		return name
	}
	if digitsOnly(name[idx+1:]) {
		return name[:idx]
	}
	return name
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

func splitGroup(name string) (string, string) {
	if i := strings.LastIndexByte(name, '/'); i != -1 {
		return name[:i], name[i+1:]
	}
	return name, ""
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
