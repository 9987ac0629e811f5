package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	passStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	addStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	delStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hunkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// IsTerminal reports whether w is a terminal that should receive colors.
// NO_COLOR disables colors regardless of the writer.
func IsTerminal(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}

// Reporter writes user-facing hook messages.
type Reporter struct {
	out   io.Writer
	color bool
}

// NewReporter creates a Reporter writing to out, coloring only if out is a TTY.
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out, color: IsTerminal(out)}
}

func (r *Reporter) render(s lipgloss.Style, text string) string {
	if !r.color {
		return text
	}
	return s.Render(text)
}

// Pass prints a success line.
func (r *Reporter) Pass(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, "%s %s\n", r.render(passStyle, "PASS"), fmt.Sprintf(format, args...))
}

// Fail prints a failure line.
func (r *Reporter) Fail(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, "%s %s\n", r.render(failStyle, "FAIL"), fmt.Sprintf(format, args...))
}

// Warn prints a warning line.
func (r *Reporter) Warn(format string, args ...any) {
	_, _ = fmt.Fprintln(r.out, r.render(warnStyle, "Warning: "+fmt.Sprintf(format, args...)))
}

// Println prints a plain line.
func (r *Reporter) Println(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format+"\n", args...)
}

// Diff prints a unified diff, coloring added and removed lines.
func (r *Reporter) Diff(diff string) {
	if diff == "" {
		return
	}
	for _, line := range strings.Split(strings.TrimRight(diff, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			line = r.render(lipgloss.NewStyle().Bold(true), line)
		case strings.HasPrefix(line, "@@"):
			line = r.render(hunkStyle, line)
		case strings.HasPrefix(line, "+"):
			line = r.render(addStyle, line)
		case strings.HasPrefix(line, "-"):
			line = r.render(delStyle, line)
		}
		_, _ = fmt.Fprintln(r.out, line)
	}
}
