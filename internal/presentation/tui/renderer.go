package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/oodux/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// An empty style detects the terminal background.
func NewRenderer(style string) (func(string) (string, error), error) {
	opt := glamour.WithAutoStyle()
	if style != "" {
		opt = glamour.WithStandardStyle(style)
	}
	r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(100))
	if err != nil {
		return nil, err
	}
	return r.Render, nil
}

// ActionsTable formats descriptors as a markdown table.
func ActionsTable(descs []domain.Descriptor) string {
	var b strings.Builder
	b.WriteString("| Action | Arity | Kind | Slice |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, d := range descs {
		kind := "user"
		if d.Default {
			kind = "default"
		}
		slice := d.Slice
		if slice == "" {
			slice = "-"
		}
		fmt.Fprintf(&b, "| `%s` | %d | %s | %s |\n", d.Name, d.Arity, kind, slice)
	}
	return b.String()
}

// CodeBlock wraps body in a fenced block tagged with lang.
func CodeBlock(lang, body string) string {
	return "```" + lang + "\n" + strings.TrimRight(body, "\n") + "\n```\n"
}
