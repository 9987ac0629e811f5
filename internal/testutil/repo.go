package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// CreateRepo creates a git repository with an initial commit in a temp
// directory. The commit contains pyproject.toml and poetry.lock so the
// directory looks like a Poetry project. Returns the path to the repo.
func CreateRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	run(t, dir, "git", "init", "-b", "main")
	run(t, dir, "git", "config", "user.email", "test@example.com")
	run(t, dir, "git", "config", "user.name", "Test")

	WriteFile(t, filepath.Join(dir, "pyproject.toml"), PyProject)
	WriteFile(t, filepath.Join(dir, "poetry.lock"), PoetryLock)
	run(t, dir, "git", "add", ".")
	run(t, dir, "git", "commit", "-m", "initial commit")
	return dir
}

// Stage runs git add for the given paths.
func Stage(t *testing.T, dir string, paths ...string) {
	t.Helper()
	run(t, dir, "git", append([]string{"add", "--"}, paths...)...)
}

// Commit stages everything and commits it.
func Commit(t *testing.T, dir, message string) {
	t.Helper()
	run(t, dir, "git", "add", ".")
	run(t, dir, "git", "commit", "-m", message)
}

// WriteFile writes content to path, failing the test on error.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil { //nolint:gosec // test file
		t.Fatal(err)
	}
}

// ReadFile returns the content of path, failing the test on error.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path) //nolint:gosec // test file
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func run(t *testing.T, dir string, name string, args ...string) {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("command %s %v failed: %v", name, args, err)
	}
}
