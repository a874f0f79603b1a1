package harness

import (
	"flag"
	"fmt"
	"testing"
)

// SetBenchtime sets the duration (e.g. 1s) or fixed iteration count (e.g.
// 500x) used by Run, the same values go test -benchtime accepts.
func SetBenchtime(value string) error {
	testing.Init()
	if err := flag.Set("test.benchtime", value); err != nil {
		return fmt.Errorf("set benchtime %q: %w", value, err)
	}
	return nil
}
