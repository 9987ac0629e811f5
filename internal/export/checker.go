package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Exporter runs the package manager with the given arguments and returns
// its standard output. A non-zero exit must be reported as an error.
type Exporter interface {
	Export(ctx context.Context, args []string) ([]byte, error)
}

// Checker compares exported dependencies against the output file.
type Checker struct {
	exporter Exporter
	cfg      Config
	log      logrus.FieldLogger
}

// NewChecker creates a Checker. A nil log discards debug output.
func NewChecker(exporter Exporter, cfg Config, log logrus.FieldLogger) *Checker {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Checker{exporter: exporter, cfg: cfg.withDefaults(), log: log}
}

// Check exports the dependencies described by req and syncs req.OutputPath.
// Exporter failure wins over empty output, which wins over a missing file,
// which wins over the content comparison.
func (c *Checker) Check(ctx context.Context, req Request) Result {
	args := Args(c.cfg.Format, req)
	c.log.WithField("args", strings.Join(args, " ")).Debug("running exporter")

	out, err := c.exporter.Export(ctx, args)
	if err != nil {
		return failed(fmt.Errorf("exporting dependencies: %w", err))
	}

	exported := strings.TrimSpace(string(out))
	if exported == "" {
		c.log.Debug("exporter produced no output, nothing to compare")
		return Result{Status: Pass, Outcome: Empty}
	}

	_, err = os.Stat(req.OutputPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return c.create(req.OutputPath, exported)
	case err != nil:
		return failed(fmt.Errorf("inspecting %s: %w", req.OutputPath, err))
	default:
		return c.sync(req.OutputPath, exported)
	}
}

func (c *Checker) create(path, exported string) (res Result) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, c.cfg.FileMode) //nolint:gosec // output path is chosen by the user
	if err != nil {
		return failed(fmt.Errorf("creating %s: %w", path, err))
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && res.Outcome != Failed {
			res = failed(fmt.Errorf("closing %s: %w", path, cerr))
		}
	}()

	if _, err := f.WriteString(fileContent(exported)); err != nil {
		return failed(fmt.Errorf("writing %s: %w", path, err))
	}
	c.log.WithField("path", path).Debug("created output file")
	return Result{Status: Fail, Outcome: Created, ContentChanged: true}
}

func (c *Checker) sync(path, exported string) (res Result) {
	f, err := os.OpenFile(path, os.O_RDWR, 0) //nolint:gosec // output path is chosen by the user
	if err != nil {
		return failed(fmt.Errorf("opening %s: %w", path, err))
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && res.Outcome != Failed {
			res = failed(fmt.Errorf("closing %s: %w", path, cerr))
		}
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return failed(fmt.Errorf("reading %s: %w", path, err))
	}
	current := string(bytes.TrimSpace(data))

	ratio := Similarity(current, exported)
	c.log.WithFields(logrus.Fields{"path": path, "ratio": ratio}).Debug("compared output file")
	if ratio >= 1 {
		return Result{Status: Pass, Outcome: Unchanged}
	}

	content := fileContent(exported)
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return failed(fmt.Errorf("rewinding %s: %w", path, err))
	}
	if _, err := f.WriteString(content); err != nil {
		return failed(fmt.Errorf("writing %s: %w", path, err))
	}
	if err := f.Truncate(int64(len(content))); err != nil {
		return failed(fmt.Errorf("truncating %s: %w", path, err))
	}

	diff, err := UnifiedDiff(path, current, exported)
	if err != nil {
		c.log.WithError(err).Debug("rendering diff")
	}
	return Result{Status: Fail, Outcome: Updated, ContentChanged: true, Diff: diff}
}

// fileContent terminates the trimmed export with a single newline.
func fileContent(exported string) string {
	return exported + "\n"
}
