package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExporter struct {
	out   string
	err   error
	calls [][]string
}

func (f *fakeExporter) Export(_ context.Context, args []string) ([]byte, error) {
	f.calls = append(f.calls, args)
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.out), nil
}

func newTestChecker(exp Exporter) *Checker {
	return NewChecker(exp, DefaultConfig(), nil)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644)) //nolint:gosec // test file
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path) //nolint:gosec // test file
	require.NoError(t, err)
	return string(data)
}

func TestCheck_unchanged(t *testing.T) {
	out := filepath.Join(t.TempDir(), "requirements.txt")
	writeFile(t, out, "a==1.0\n")

	res := newTestChecker(&fakeExporter{out: "a==1.0\n"}).Check(context.Background(), Request{OutputPath: out})

	assert.Equal(t, Pass, res.Status)
	assert.Equal(t, Unchanged, res.Outcome)
	assert.False(t, res.ContentChanged)
	assert.NoError(t, res.Err)
	assert.Equal(t, "a==1.0\n", readFile(t, out))
}

func TestCheck_updated(t *testing.T) {
	out := filepath.Join(t.TempDir(), "requirements.txt")
	writeFile(t, out, "a==1.0\n")

	res := newTestChecker(&fakeExporter{out: "a==2.0\n"}).Check(context.Background(), Request{OutputPath: out})

	assert.Equal(t, Fail, res.Status)
	assert.Equal(t, Updated, res.Outcome)
	assert.True(t, res.ContentChanged)
	assert.Equal(t, "a==2.0\n", readFile(t, out))
	assert.Contains(t, res.Diff, "-a==1.0")
	assert.Contains(t, res.Diff, "+a==2.0")
}

func TestCheck_updatedTruncatesLongerFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "requirements.txt")
	writeFile(t, out, "a==1.0\nb==2.0\nc==3.0\n")

	res := newTestChecker(&fakeExporter{out: "a==1.0\n"}).Check(context.Background(), Request{OutputPath: out})

	assert.Equal(t, Fail, res.Status)
	assert.Equal(t, Updated, res.Outcome)
	assert.Equal(t, "a==1.0\n", readFile(t, out))
}

func TestCheck_singleCharacterDifference(t *testing.T) {
	out := filepath.Join(t.TempDir(), "requirements.txt")
	writeFile(t, out, "requests==2.31.0\nurllib3==2.0.7\n")

	exported := "requests==2.31.0\nurllib3==2.0.8"
	res := newTestChecker(&fakeExporter{out: exported}).Check(context.Background(), Request{OutputPath: out})

	assert.Equal(t, Updated, res.Outcome)
	assert.Equal(t, exported+"\n", readFile(t, out))
}

func TestCheck_created(t *testing.T) {
	out := filepath.Join(t.TempDir(), "requirements.txt")

	res := newTestChecker(&fakeExporter{out: "  a==1.0\n\n"}).Check(context.Background(), Request{OutputPath: out})

	assert.Equal(t, Fail, res.Status)
	assert.Equal(t, Created, res.Outcome)
	assert.True(t, res.ContentChanged)
	assert.Equal(t, "a==1.0\n", readFile(t, out))
}

func TestCheck_emptyExport(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "requirements.txt")

	res := newTestChecker(&fakeExporter{out: " \n\t"}).Check(context.Background(), Request{OutputPath: out})

	assert.Equal(t, Pass, res.Status)
	assert.Equal(t, Empty, res.Outcome)
	assert.False(t, res.ContentChanged)
	_, err := os.Stat(out)
	assert.True(t, errors.Is(err, os.ErrNotExist), "empty export must not create the file")
}

func TestCheck_emptyExportLeavesExistingFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "requirements.txt")
	writeFile(t, out, "a==1.0\n")

	res := newTestChecker(&fakeExporter{out: ""}).Check(context.Background(), Request{OutputPath: out})

	assert.Equal(t, Pass, res.Status)
	assert.Equal(t, "a==1.0\n", readFile(t, out))
}

func TestCheck_exporterFailure(t *testing.T) {
	out := filepath.Join(t.TempDir(), "requirements.txt")
	writeFile(t, out, "a==1.0\n")
	boom := errors.New("exit status 1")

	res := newTestChecker(&fakeExporter{out: "a==2.0\n", err: boom}).Check(context.Background(), Request{OutputPath: out})

	assert.Equal(t, Fail, res.Status)
	assert.Equal(t, Failed, res.Outcome)
	assert.False(t, res.ContentChanged)
	assert.ErrorIs(t, res.Err, boom)
	assert.Equal(t, "a==1.0\n", readFile(t, out))
}

func TestCheck_exporterFailureDoesNotCreateFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "requirements.txt")

	res := newTestChecker(&fakeExporter{err: errors.New("poetry not found")}).Check(context.Background(), Request{OutputPath: out})

	assert.Equal(t, Failed, res.Outcome)
	_, err := os.Stat(out)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestCheck_idempotent(t *testing.T) {
	out := filepath.Join(t.TempDir(), "requirements.txt")
	c := newTestChecker(&fakeExporter{out: "a==1.0\nb==2.0\n"})

	first := c.Check(context.Background(), Request{OutputPath: out})
	second := c.Check(context.Background(), Request{OutputPath: out})

	assert.Equal(t, Created, first.Outcome)
	assert.Equal(t, Pass, second.Status)
	assert.Equal(t, Unchanged, second.Outcome)
}

func TestCheck_outputInMissingDirectory(t *testing.T) {
	out := filepath.Join(t.TempDir(), "missing", "requirements.txt")

	res := newTestChecker(&fakeExporter{out: "a==1.0"}).Check(context.Background(), Request{OutputPath: out})

	assert.Equal(t, Fail, res.Status)
	assert.Equal(t, Failed, res.Outcome)
	assert.Error(t, res.Err)
}

func TestCheck_passesRequestFlags(t *testing.T) {
	out := filepath.Join(t.TempDir(), "requirements.txt")
	exp := &fakeExporter{}

	newTestChecker(exp).Check(context.Background(), Request{
		Dev:           true,
		Extras:        []string{"pg", "pg", "mysql"},
		WithoutHashes: true,
		OutputPath:    out,
	})

	require.Len(t, exp.calls, 1)
	assert.Equal(t, []string{
		"export", "-f", "requirements.txt", "--dev",
		"--extras", "pg", "--extras", "mysql", "--without-hashes",
	}, exp.calls[0])
}
