package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Markdown renders markdown text for the terminal. Links stay as text; the
// renderer only styles them. Falls back to the raw text if rendering fails.
func Markdown(w io.Writer, text string, width int) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	style := glamour.WithAutoStyle()
	if !colorEnabled {
		style = glamour.WithStandardStyle("notty")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err == nil {
		if out, rerr := r.Render(text); rerr == nil {
			fmt.Fprint(w, out)
			return
		}
	}
	fmt.Fprintln(w, text)
}
