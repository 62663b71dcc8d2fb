package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/oodux/internal/presentation/tui"
	"github.com/aretw0/oodux/pkg/domain"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatMarkdown = "markdown"
)

// MarkdownStyle is the glamour style used by FormatMarkdown. Empty detects
// the terminal background.
var MarkdownStyle = ""

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Render writes v to w as JSON, YAML or rendered markdown. Descriptor lists
// become a table in markdown; anything else a JSON code block.
func Render(w io.Writer, format string, v any) error {
	switch format {
	case FormatMarkdown:
		return renderMarkdown(w, v)
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown output format %q", format)
}

func renderMarkdown(w io.Writer, v any) error {
	var md string
	if descs, ok := v.([]domain.Descriptor); ok {
		md = tui.ActionsTable(descs)
	} else {
		var buf bytes.Buffer
		if err := Render(&buf, FormatJSON, v); err != nil {
			return err
		}
		md = tui.CodeBlock("json", buf.String())
	}
	render, err := tui.NewRenderer(MarkdownStyle)
	if err != nil {
		return err
	}
	out, err := render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
