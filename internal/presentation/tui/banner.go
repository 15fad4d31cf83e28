package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{`   ___ __ _ _ __ __   ____ _ ___ ___ `, "#34d399"},
	{`  / __/ _' | '_ \ \ / / _' / __/ __|`, "#2dd4bf"},
	{` | (_| (_| | | | |\ V / (_| \__ \__ \`, "#22d3ee"},
	{`  \___\__,_|_| |_| \_/ \__,_|___/___/`, "#38bdf8"},
}

// PrintBanner writes the canvass banner and version to w.
// Colors are dropped when w is not a color capable terminal.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)

	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String(fmt.Sprintf("  feedback, one question at a time  v%s", version)).Faint())
	fmt.Fprintln(w)
}
