package ui

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// CheckState is the result of one doctor check.
type CheckState int

const (
	CheckOK CheckState = iota
	CheckWarn
	CheckFailed
)

func (s CheckState) String() string {
	switch s {
	case CheckOK:
		return "ok"
	case CheckWarn:
		return "warn"
	default:
		return "failed"
	}
}

// Checklist renders doctor checks in aligned columns.
type Checklist struct {
	w      *tabwriter.Writer
	color  bool
	failed bool
}

// NewChecklist creates a checklist writing to out.
func NewChecklist(out io.Writer) *Checklist {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	c := &Checklist{w: tw, color: IsTerminal(out)}
	_, _ = fmt.Fprintln(tw, strings.Join([]string{"CHECK", "STATE", "DETAIL"}, "\t"))
	return c
}

// Add appends a check row.
func (c *Checklist) Add(name string, state CheckState, detail string) {
	if state == CheckFailed {
		c.failed = true
	}
	label := state.String()
	if c.color {
		switch state {
		case CheckOK:
			label = passStyle.Render(label)
		case CheckWarn:
			label = warnStyle.Render(label)
		default:
			label = failStyle.Render(label)
		}
	}
	_, _ = fmt.Fprintln(c.w, strings.Join([]string{name, label, detail}, "\t"))
}

// Failed reports whether any check failed.
func (c *Checklist) Failed() bool {
	return c.failed
}

// Flush writes the buffered output.
func (c *Checklist) Flush() error {
	return c.w.Flush()
}
