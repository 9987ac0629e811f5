// Package export keeps a dependency export file in sync with the output of
// the package manager's export command. A check runs the exporter once,
// compares the result with the file on disk and rewrites the file when the
// two differ. The Result reports both a pass/fail status and a typed Outcome.
package export
