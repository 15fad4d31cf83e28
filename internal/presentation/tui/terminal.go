package tui

import (
	"golang.org/x/term"
)

// IsTerminal reports whether v is a file attached to a terminal.
// Anything without a file descriptor (buffers, pipes wrapped in readers) is not.
func IsTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}
