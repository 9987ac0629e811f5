package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/fbkclanna/poetry-export-hook/internal/lock"
	"github.com/pelletier/go-toml/v2"
)

const (
	PyProjectFile = "pyproject.toml"
	LockFile      = "poetry.lock"

	RequirementsTxt    = "requirements.txt"
	DevRequirementsTxt = "requirements-dev.txt"
)

// DefaultOutput returns the export file name used when none is configured.
func DefaultOutput(dev bool) string {
	if dev {
		return DevRequirementsTxt
	}
	return RequirementsTxt
}

// PyProject is the subset of pyproject.toml the hook reads.
type PyProject struct {
	Tool struct {
		Poetry Poetry `toml:"poetry"`
	} `toml:"tool"`
	Project struct {
		Name                 string              `toml:"name"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
}

// Poetry is the [tool.poetry] table.
type Poetry struct {
	Name    string              `toml:"name"`
	Version string              `toml:"version"`
	Extras  map[string][]string `toml:"extras"`
}

// Name returns the package name from [project] or [tool.poetry].
func (p *PyProject) Name() string {
	if p.Project.Name != "" {
		return p.Project.Name
	}
	return p.Tool.Poetry.Name
}

// Extras returns the sorted names of all declared extras.
func (p *PyProject) Extras() []string {
	set := make(map[string]bool)
	for name := range p.Tool.Poetry.Extras {
		set[name] = true
	}
	for name := range p.Project.OptionalDependencies {
		set[name] = true
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UndeclaredExtras returns the requested extras pyproject.toml does not declare.
func (p *PyProject) UndeclaredExtras(requested []string) []string {
	declared := make(map[string]bool)
	for _, name := range p.Extras() {
		declared[name] = true
	}
	var missing []string
	for _, name := range requested {
		if !declared[name] {
			missing = append(missing, name)
		}
	}
	return missing
}

// ParsePyProject parses pyproject.toml content.
func ParsePyProject(data []byte) (*PyProject, error) {
	var p PyProject
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", PyProjectFile, err)
	}
	return &p, nil
}

// Context holds the resolved paths and loaded files for a project.
type Context struct {
	Root          string
	PyProjectPath string
	LockPath      string
	PyProject     *PyProject
	Lock          *lock.File // may be nil
}

// Load resolves project paths and reads pyproject.toml (and poetry.lock if present).
// A missing pyproject.toml yields an error matching fs.ErrNotExist.
func Load(root string) (*Context, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}

	ctx := &Context{
		Root:          root,
		PyProjectPath: filepath.Join(root, PyProjectFile),
		LockPath:      filepath.Join(root, LockFile),
	}

	data, err := os.ReadFile(ctx.PyProjectPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", PyProjectFile, err)
	}
	if ctx.PyProject, err = ParsePyProject(data); err != nil {
		return nil, err
	}

	if _, statErr := os.Stat(ctx.LockPath); statErr == nil {
		lf, err := lock.Load(ctx.LockPath)
		if err != nil {
			return nil, err
		}
		ctx.Lock = lf
	} else if !errors.Is(statErr, fs.ErrNotExist) {
		return nil, fmt.Errorf("inspecting %s: %w", LockFile, statErr)
	}

	return ctx, nil
}

// OutputPath returns the export path for output, resolved against the
// project root when relative.
func (c *Context) OutputPath(output string) string {
	if filepath.IsAbs(output) {
		return output
	}
	return filepath.Join(c.Root, output)
}
