package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fbkclanna/poetry-export-hook/internal/export"
	"github.com/fbkclanna/poetry-export-hook/internal/git"
	"github.com/fbkclanna/poetry-export-hook/internal/logging"
	"github.com/fbkclanna/poetry-export-hook/internal/poetry"
	"github.com/fbkclanna/poetry-export-hook/internal/project"
	"github.com/fbkclanna/poetry-export-hook/internal/ui"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// generatedMsg is printed whenever the output file was written.
const generatedMsg = "Generated new requirements file"

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [filenames...]",
		Short: "Export dependencies and fail if the output file is out of sync",
		Long: `Run poetry export, compare the result with the output file and rewrite it
when it differs. Exits 1 when the file was created or rewritten, when poetry
fails, or when the output file is not staged for commit.

Filenames are the paths staged for commit, as passed by pre-commit. Without
filenames the staged paths are read from git.`,
		RunE: runCheck,
	}
	addExportFlags(cmd.Flags())
	cmd.Flags().Bool("without-output", false, "Succeed even if the output file is not staged for commit")
	cmd.Flags().Bool("diff", false, "Print a diff when the output file is rewritten")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	log := logging.New(cmd.ErrOrStderr(), s.Verbose)
	rep := ui.NewReporter(cmd.OutOrStdout())

	output := s.Output
	if output == "" {
		output = project.DefaultOutput(s.Dev)
	}
	outputPath := output
	if !filepath.IsAbs(outputPath) {
		outputPath = filepath.Join(s.Chdir, output)
	}

	extras := export.NormalizeExtras(s.Extras)
	warnUndeclaredExtras(s.Chdir, extras, rep, log)

	runner := &poetry.Runner{Binary: s.Poetry, Dir: s.Chdir}
	checker := export.NewChecker(runner, export.DefaultConfig(), log)
	res := checker.Check(cmd.Context(), export.Request{
		Dev:             s.Dev,
		Extras:          extras,
		WithoutHashes:   s.WithoutHashes,
		WithCredentials: s.WithCredentials,
		OutputPath:      outputPath,
	})
	log.WithFields(logrus.Fields{"outcome": res.Outcome, "status": res.Status}).Debug("check finished")

	switch res.Outcome {
	case export.Failed:
		reportFailure(rep, res.Err)
		return &exitError{code: int(export.Fail)}
	case export.Empty:
		rep.Pass("poetry export produced no output; nothing to compare")
		return nil
	case export.Created, export.Updated:
		rep.Println(generatedMsg)
		if s.Diff {
			rep.Diff(res.Diff)
		}
	}

	status := res.Status
	if !s.WithoutOutput {
		if err := checkStaged(s.Chdir, outputPath, args, res.ContentChanged, log); err != nil {
			rep.Fail("%v", err)
			status = export.Fail
		}
	}

	if status == export.Pass {
		rep.Pass("%s is up to date", output)
		return nil
	}
	if res.ContentChanged {
		rep.Fail("%s was %s; review and stage it, then commit again", output, res.Outcome)
	}
	return &exitError{code: int(status)}
}

// reportFailure prints an export failure, including poetry's diagnostics.
func reportFailure(rep *ui.Reporter, err error) {
	var exitErr *poetry.ExitError
	if errors.As(err, &exitErr) {
		rep.Fail("poetry %s exited with status %d", exitErr.Args[0], exitErr.Code)
		if detail := exitErr.Detail(); detail != "" {
			rep.Println("%s", detail)
		}
		return
	}
	rep.Fail("%v", err)
}

// warnUndeclaredExtras warns about requested extras pyproject.toml does not
// declare. Poetry rejects them itself; the warning only names them early.
func warnUndeclaredExtras(dir string, extras []string, rep *ui.Reporter, log logrus.FieldLogger) {
	if len(extras) == 0 {
		return
	}
	ctx, err := project.Load(dir)
	if err != nil {
		log.WithError(err).Debug("skipping extras validation")
		return
	}
	for _, name := range ctx.PyProject.UndeclaredExtras(extras) {
		rep.Warn("extra %q is not declared in %s", name, project.PyProjectFile)
	}
}

// checkStaged verifies that outputPath is part of the commit.
//
// staged holds the filenames pre-commit passed, relative to the repository
// root; when empty they are read from the index. A changed file that is not
// staged always fails. An unchanged file that is not staged fails only if git
// reports it as untracked or modified, i.e. an earlier rewrite is still
// waiting to be staged.
func checkStaged(dir, outputPath string, staged []string, changed bool, log logrus.FieldLogger) error {
	inRepo := git.IsRepo(dir)
	top := dir
	if inRepo {
		t, err := git.TopLevel(dir)
		if err != nil {
			return err
		}
		top = t
	}

	rel, err := relativeTo(top, outputPath)
	if err != nil {
		return err
	}

	if len(staged) == 0 && inRepo {
		if staged, err = git.StagedFiles(top); err != nil {
			return err
		}
	}
	log.WithFields(logrus.Fields{"output": rel, "staged": staged}).Debug("checking staged files")

	if export.IsStaged(rel, staged) {
		return nil
	}
	if changed {
		return export.RequireStaged(rel, staged)
	}
	if !inRepo {
		return nil
	}
	dirty, err := git.HasUnstagedChanges(top, rel)
	if err != nil {
		return err
	}
	if dirty {
		return export.RequireStaged(rel, staged)
	}
	return nil
}

// relativeTo returns path relative to root, resolving symlinks on both sides
// so that temp directories and git's view of the root agree.
func relativeTo(root, path string) (string, error) {
	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", root, err)
	}
	realDir, err := filepath.EvalSymlinks(filepath.Dir(path))
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", filepath.Dir(path), err)
	}
	rel, err := filepath.Rel(realRoot, filepath.Join(realDir, filepath.Base(path)))
	if err != nil {
		return "", fmt.Errorf("relating %s to %s: %w", path, root, err)
	}
	return rel, nil
}
