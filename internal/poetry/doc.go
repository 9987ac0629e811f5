// Package poetry runs the Poetry CLI. It is the only place the hook starts
// the package manager, and it reports non-zero exits as *ExitError so callers
// can show the exit code and captured output.
package poetry
