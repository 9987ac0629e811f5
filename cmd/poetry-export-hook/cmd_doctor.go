package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fbkclanna/poetry-export-hook/internal/git"
	"github.com/fbkclanna/poetry-export-hook/internal/hookconfig"
	"github.com/fbkclanna/poetry-export-hook/internal/poetry"
	"github.com/fbkclanna/poetry-export-hook/internal/project"
	"github.com/fbkclanna/poetry-export-hook/internal/ui"
	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the environment the hook runs in",
		Args:  cobra.NoArgs,
		RunE:  runDoctor,
	}
	cmd.Flags().String("poetry", "", "Path to the poetry executable (default poetry on PATH)")
	cmd.Flags().StringP("output", "o", "", "Output file to look for")
	cmd.Flags().BoolP("dev", "D", false, "Look for the development output file")
	return cmd
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	list := ui.NewChecklist(cmd.OutOrStdout())

	checkGit(list, s.Chdir)
	checkPoetry(cmd, list, s)
	checkProject(list, s)
	checkHookConfig(list, s.Chdir)

	if err := list.Flush(); err != nil {
		return err
	}
	if list.Failed() {
		return fmt.Errorf("doctor checks failed")
	}
	return nil
}

func checkGit(list *ui.Checklist, dir string) {
	if !git.IsGitInstalled() {
		list.Add("git", ui.CheckFailed, "not found on PATH; install it from https://git-scm.com/")
		return
	}
	v, err := git.Version()
	if err != nil {
		list.Add("git", ui.CheckFailed, err.Error())
		return
	}
	list.Add("git", ui.CheckOK, v)

	if git.IsRepo(dir) {
		list.Add("repository", ui.CheckOK, dir)
	} else {
		list.Add("repository", ui.CheckWarn, "not a git repository; staged files cannot be checked")
	}
}

func checkPoetry(cmd *cobra.Command, list *ui.Checklist, s *settings) {
	runner := &poetry.Runner{Binary: s.Poetry, Dir: s.Chdir}
	if !runner.IsInstalled() {
		list.Add("poetry", ui.CheckFailed, "not found; install Poetry or pass --poetry")
		return
	}
	v, err := runner.Version(cmd.Context())
	if err != nil {
		list.Add("poetry", ui.CheckFailed, err.Error())
		return
	}
	list.Add("poetry", ui.CheckOK, v)
}

func checkProject(list *ui.Checklist, s *settings) {
	ctx, err := project.Load(s.Chdir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			list.Add(project.PyProjectFile, ui.CheckFailed, "not found in "+s.Chdir)
		} else {
			list.Add(project.PyProjectFile, ui.CheckFailed, err.Error())
		}
		return
	}

	name := ctx.PyProject.Name()
	if name == "" {
		name = "(unnamed)"
	}
	list.Add(project.PyProjectFile, ui.CheckOK, name)

	if extras := ctx.PyProject.Extras(); len(extras) > 0 {
		list.Add("extras", ui.CheckOK, strings.Join(extras, ", "))
	}

	if ctx.Lock == nil {
		list.Add(project.LockFile, ui.CheckWarn, "not found; poetry export will resolve dependencies")
	} else {
		detail := fmt.Sprintf("lock-version %s, content-hash %s", ctx.Lock.Metadata.LockVersion, ctx.Lock.Metadata.ShortHash())
		if ctx.Lock.GeneratedBy != "" {
			detail += ", generated by " + ctx.Lock.GeneratedBy
		}
		list.Add(project.LockFile, ui.CheckOK, detail)
	}

	output := s.Output
	if output == "" {
		output = project.DefaultOutput(s.Dev)
	}
	if _, err := os.Stat(ctx.OutputPath(output)); err != nil {
		list.Add(output, ui.CheckWarn, "not found; the first check will create it")
	} else {
		list.Add(output, ui.CheckOK, "present")
	}
}

func checkHookConfig(list *ui.Checklist, dir string) {
	path := filepath.Join(dir, hookconfig.ConfigFile)
	cfg, err := hookconfig.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			list.Add(hookconfig.ConfigFile, ui.CheckWarn, "not found; run poetry-export-hook init")
		} else {
			list.Add(hookconfig.ConfigFile, ui.CheckFailed, err.Error())
		}
		return
	}
	r, h := cfg.FindHook(hookconfig.HookID)
	if h == nil {
		list.Add(hookconfig.ConfigFile, ui.CheckWarn, hookconfig.HookID+" hook not configured; run poetry-export-hook init")
		return
	}
	detail := r.Repo
	if r.Rev != "" {
		detail += "@" + r.Rev
	}
	if len(h.Args) > 0 {
		detail += " " + strings.Join(h.Args, " ")
	}
	list.Add(hookconfig.ConfigFile, ui.CheckOK, detail)
}
