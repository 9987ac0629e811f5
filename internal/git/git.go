package git

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// IsRepo returns true if dir is inside a git work tree.
func IsRepo(dir string) bool {
	out, err := outputQuiet(dir, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(out) == "true"
}

// TopLevel returns the absolute path of the repository root containing dir.
func TopLevel(dir string) (string, error) {
	out, err := outputQuiet(dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return filepath.FromSlash(strings.TrimSpace(out)), nil
}

// StagedFiles returns the paths staged in the index, relative to the
// repository root. Deleted paths are omitted.
func StagedFiles(dir string) ([]string, error) {
	out, err := outputQuiet(dir, "diff", "--cached", "--name-only", "--diff-filter=ACMR")
	if err != nil {
		return nil, err
	}
	var files []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, filepath.FromSlash(line))
		}
	}
	return files, nil
}

// HasUnstagedChanges returns true if path is untracked or has work tree
// modifications that are not in the index.
func HasUnstagedChanges(dir, path string) (bool, error) {
	out, err := outputQuiet(dir, "status", "--porcelain", "--untracked-files=all", "--", path)
	if err != nil {
		return false, err
	}
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 2 {
			continue
		}
		// Porcelain v1: XY <path>, X = index, Y = work tree.
		if line[:2] == "??" || line[1] != ' ' {
			return true, nil
		}
	}
	return false, nil
}

// IsGitInstalled returns true if git is available on the system PATH.
func IsGitInstalled() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// Version returns the output of git version.
func Version() (string, error) {
	out, err := outputQuiet(".", "version")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Init runs git init in the given directory.
func Init(dir string) error {
	return runQuiet(dir, "init")
}

// Add stages the given paths in the repository.
func Add(dir string, paths ...string) error {
	args := append([]string{"add", "--"}, paths...)
	return runQuiet(dir, args...)
}

// Commit creates a commit with the given message.
// If user.name or user.email is not configured globally, it sets repo-local fallback values.
func Commit(dir, message string) error {
	if err := ensureCommitIdentity(dir); err != nil {
		return fmt.Errorf("setting commit identity: %w", err)
	}
	return runQuiet(dir, "commit", "-m", message)
}

// ensureCommitIdentity sets repo-local user.name/user.email if they are not configured.
func ensureCommitIdentity(dir string) error {
	if _, err := outputQuiet(dir, "config", "user.name"); err != nil {
		if err2 := runQuiet(dir, "config", "user.name", "poetry-export-hook"); err2 != nil {
			return err2
		}
	}
	if _, err := outputQuiet(dir, "config", "user.email"); err != nil {
		if err2 := runQuiet(dir, "config", "user.email", "poetry-export-hook@localhost"); err2 != nil {
			return err2
		}
	}
	return nil
}

// runQuiet executes a git command without printing stdout.
// Stderr is captured and included in the error message on failure.
func runQuiet(dir string, args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, stderr.String())
	}
	return nil
}

// outputQuiet executes a git command and returns its stdout without printing to the console.
func outputQuiet(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_OPTIONAL_LOCKS=0")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, stderr.String())
	}
	return stdout.String(), nil
}
