package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// PyProject is a minimal Poetry project with two extras.
const PyProject = `[tool.poetry]
name = "demo"
version = "0.1.0"
description = ""
authors = ["Test <test@example.com>"]

[tool.poetry.dependencies]
python = "^3.11"
requests = "^2.31"
psycopg = { version = "^3.1", optional = true }
mysqlclient = { version = "^2.2", optional = true }

[tool.poetry.extras]
pg = ["psycopg"]
mysql = ["mysqlclient"]

[build-system]
requires = ["poetry-core"]
build-backend = "poetry.core.masonry.api"
`

// PoetryLock is the metadata section of a poetry.lock file.
const PoetryLock = `# This file is automatically @generated by Poetry 1.8.3 and should not be changed by hand.

[[package]]
name = "requests"
version = "2.31.0"
description = "Python HTTP for Humans."
optional = false
python-versions = ">=3.7"

[metadata]
lock-version = "2.0"
python-versions = "^3.11"
content-hash = "4f0c3c5e0b5d2a8c1e4d2b7a9f6e3c1d0b8a7f6e5d4c3b2a1f0e9d8c7b6a5f4e"
`

// FakePoetry is a shell script standing in for the poetry executable.
type FakePoetry struct {
	// Path is the absolute path of the script.
	Path     string
	argsFile string
}

// FakePoetryOpts controls what the fake prints and how it exits.
type FakePoetryOpts struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// NewFakePoetry writes an executable script that records its arguments,
// prints opts.Stdout and opts.Stderr, and exits with opts.ExitCode.
// `--version` always succeeds with a fixed version string.
func NewFakePoetry(t *testing.T, opts FakePoetryOpts) *FakePoetry {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake poetry script requires a POSIX shell")
	}
	dir := t.TempDir()
	f := &FakePoetry{
		Path:     filepath.Join(dir, "poetry"),
		argsFile: filepath.Join(dir, "args"),
	}

	script := fmt.Sprintf(`#!/bin/sh
if [ "$1" = "--version" ]; then
  echo "Poetry (version 1.8.3)"
  exit 0
fi
printf '%%s\n' "$@" > %s
cat <<'__STDOUT__'
%s
__STDOUT__
cat >&2 <<'__STDERR__'
%s
__STDERR__
exit %d
`, shellQuote(f.argsFile), opts.Stdout, opts.Stderr, opts.ExitCode)

	if err := os.WriteFile(f.Path, []byte(script), 0755); err != nil { //nolint:gosec // test script must be executable
		t.Fatal(err)
	}
	return f
}

// Args returns the arguments of the last invocation, or nil if the fake was
// never run with export arguments.
func (f *FakePoetry) Args(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(f.argsFile)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
