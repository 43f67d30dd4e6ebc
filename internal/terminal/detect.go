// Package terminal provides terminal detection utilities.
package terminal

import (
	"io"
	"os"

	"golang.org/x/term"
)

// EnvNoColor disables colored output when set to any non-empty value.
const EnvNoColor = "NO_COLOR"

var (
	isTerminal = term.IsTerminal
	getenv     = os.Getenv
)

type fdWriter interface {
	Fd() uintptr
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(fdWriter)
	if !ok {
		return false
	}
	return isTerminal(int(f.Fd()))
}

// ColorEnabled reports whether colored diagnostics should be written to w.
func ColorEnabled(w io.Writer) bool {
	if getenv(EnvNoColor) != "" {
		return false
	}
	return IsTerminal(w)
}
