// Package output formats the short status messages of the non-pipeline
// commands.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/datashed/datashed/internal/ui"
)

// Message markers.
const (
	MarkSuccess = "✓"
	MarkWarning = "!"
	MarkHint    = "→"
)

// Writer prints marked status lines, optionally styled.
type Writer struct {
	out     io.Writer
	success lipgloss.Style
	warning lipgloss.Style
	label   lipgloss.Style
}

// New creates a Writer. With noColor set, lines are printed unstyled.
func New(out io.Writer, noColor bool) *Writer {
	w := &Writer{
		out:     out,
		success: lipgloss.NewStyle(),
		warning: lipgloss.NewStyle(),
		label:   lipgloss.NewStyle(),
	}
	if !noColor {
		w.success = w.success.Foreground(lipgloss.Color(ui.ColorLime))
		w.warning = w.warning.Foreground(lipgloss.Color(ui.ColorYellow))
		w.label = w.label.Foreground(lipgloss.Color(ui.ColorGray))
	}
	return w
}

// Success prints a line with the success marker.
func (w *Writer) Success(msg string) {
	_, _ = fmt.Fprintf(w.out, "%s %s\n", w.success.Render(MarkSuccess), msg)
}

// Successf prints a formatted success line.
func (w *Writer) Successf(format string, args ...any) {
	w.Success(fmt.Sprintf(format, args...))
}

// Warning prints a line with the warning marker.
func (w *Writer) Warning(msg string) {
	_, _ = fmt.Fprintf(w.out, "%s %s\n", w.warning.Render(MarkWarning), msg)
}

// Hint prints a follow-up suggestion.
func (w *Writer) Hint(msg string) {
	_, _ = fmt.Fprintf(w.out, "%s %s\n", MarkHint, msg)
}

// Field prints an indented "label: value" line.
func (w *Writer) Field(label, value string) {
	_, _ = fmt.Fprintf(w.out, "  %s %s\n", w.label.Render(label+":"), value)
}

// Block prints content indented by two spaces, framed by blank lines.
// A trailing newline in content does not produce an extra line.
func (w *Writer) Block(content string) {
	_, _ = fmt.Fprintln(w.out)
	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		_, _ = fmt.Fprintf(w.out, "  %s\n", line)
	}
	_, _ = fmt.Fprintln(w.out)
}

// Newline prints an empty line.
func (w *Writer) Newline() {
	_, _ = fmt.Fprintln(w.out)
}
