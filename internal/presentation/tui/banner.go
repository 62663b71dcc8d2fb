package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = [...]struct{ text, color string }{
	{`   ___   ___  ___  _   ___  __`, "#818cf8"},
	{`  / _ \ / _ \|   \| | | \ \/ /`, "#a78bfa"},
	{` | (_) | (_) | |) | |_| |>  < `, "#c084fc"},
	{`  \___/ \___/|___/ \___//_/\_\`, "#f472b6"},
}

// PrintBanner writes the oodux banner and version to w. Colors are dropped
// when w is not a color terminal.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintf(w, "%s\n\n", out.String("  v"+version).Faint())
}
