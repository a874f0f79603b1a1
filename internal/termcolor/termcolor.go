// Package termcolor decides whether report output should carry ANSI colour.
package termcolor

import (
	"io"

	"golang.org/x/term"
)

type fdWriter interface {
	Fd() uintptr
}

// IsTerminal reports whether w is backed by a terminal file descriptor.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(fdWriter)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Enabled resolves colour for w. force wins over noColor, and both win over
// terminal detection.
func Enabled(w io.Writer, noColor, force bool) bool {
	switch {
	case force:
		return true
	case noColor:
		return false
	default:
		return IsTerminal(w)
	}
}
