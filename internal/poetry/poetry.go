package poetry

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultBinary is the executable looked up on PATH when no binary is set.
const DefaultBinary = "poetry"

// ExitError reports a Poetry invocation that exited non-zero.
type ExitError struct {
	Args   []string
	Code   int
	Stderr string
	Stdout string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("poetry %s: exit status %d", strings.Join(e.Args, " "), e.Code)
	if detail := e.Detail(); detail != "" {
		msg += ": " + detail
	}
	return msg
}

// Detail returns the diagnostic output of the failed command, preferring stderr.
func (e *ExitError) Detail() string {
	if s := strings.TrimSpace(e.Stderr); s != "" {
		return s
	}
	return strings.TrimSpace(e.Stdout)
}

// Runner executes Poetry commands in a project directory.
type Runner struct {
	// Binary is the Poetry executable. Empty means DefaultBinary.
	Binary string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env, when non-nil, replaces the process environment.
	Env []string
}

// Export runs `poetry <args...>` and returns its standard output.
// The call blocks until Poetry exits; ctx is the only way to stop it early.
func (r *Runner) Export(ctx context.Context, args []string) ([]byte, error) {
	return r.output(ctx, args...)
}

// Version returns the trimmed output of `poetry --version`.
func (r *Runner) Version(ctx context.Context) (string, error) {
	out, err := r.output(ctx, "--version")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// IsInstalled returns true if the Poetry binary can be found.
func (r *Runner) IsInstalled() bool {
	_, err := exec.LookPath(r.binary())
	return err == nil
}

func (r *Runner) binary() string {
	if r.Binary != "" {
		return r.Binary
	}
	return DefaultBinary
}

// output executes poetry and returns its stdout. Stderr is captured and
// attached to the error on failure.
func (r *Runner) output(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, r.binary(), args...) //nolint:gosec // binary is configured by the user
	cmd.Dir = r.Dir
	if r.Env != nil {
		cmd.Env = r.Env
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &ExitError{
				Args:   args,
				Code:   exitErr.ExitCode(),
				Stderr: stderr.String(),
				Stdout: stdout.String(),
			}
		}
		return nil, fmt.Errorf("running %s: %w", r.binary(), err)
	}
	return stdout.Bytes(), nil
}
