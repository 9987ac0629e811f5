// Package ui renders hook output for a terminal: status lines, diffs and
// the doctor checklist. Colors are only used when the writer is a TTY.
package ui
