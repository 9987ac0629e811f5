package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fbkclanna/poetry-export-hook/internal/export"
	"github.com/fbkclanna/poetry-export-hook/internal/git"
	"github.com/fbkclanna/poetry-export-hook/internal/hookconfig"
	"github.com/fbkclanna/poetry-export-hook/internal/project"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Add the poetry-export hook to .pre-commit-config.yaml",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
	addExportFlags(cmd.Flags())
	cmd.Flags().String("repo", hookconfig.DefaultRepoURL, "Repository pre-commit fetches the hook from")
	cmd.Flags().String("rev", "", "Revision to pin (default: this binary's version, or main)")
	cmd.Flags().Bool("force", false, "Replace an existing poetry-export hook entry")
	cmd.Flags().BoolP("yes", "y", false, "Do not prompt; use flags and defaults")
	cmd.Flags().Bool("stage", false, "Stage the config file with git add")
	return cmd
}

// hookOptions are the export settings written into the hook's args.
type hookOptions struct {
	Output          string
	Dev             bool
	Extras          []string
	WithoutHashes   bool
	WithCredentials bool
}

func runInit(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	repoURL, _ := cmd.Flags().GetString("repo")
	rev, _ := cmd.Flags().GetString("rev")
	force, _ := cmd.Flags().GetBool("force")
	yes, _ := cmd.Flags().GetBool("yes")
	stage, _ := cmd.Flags().GetBool("stage")

	opts := hookOptions{
		Output:          s.Output,
		Dev:             s.Dev,
		Extras:          export.NormalizeExtras(s.Extras),
		WithoutHashes:   s.WithoutHashes,
		WithCredentials: s.WithCredentials,
	}
	if err := validateOutputPath(opts.Output); err != nil {
		return err
	}

	if !yes && term.IsTerminal(int(os.Stdin.Fd())) { //nolint:gosec // fd fits in int
		var declared []string
		if ctx, err := project.Load(s.Chdir); err == nil {
			declared = ctx.PyProject.Extras()
		}
		if opts, err = interactiveHookOptions(opts, declared); err != nil {
			return fmt.Errorf("interactive setup: %w", err)
		}
	}

	if rev == "" {
		rev = defaultRev()
	}

	configPath := filepath.Join(s.Chdir, hookconfig.ConfigFile)
	existing, err := os.ReadFile(configPath) //nolint:gosec // config path is inside the project directory
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading %s: %w", hookconfig.ConfigFile, err)
	}

	hook := hookconfig.Hook{ID: hookconfig.HookID, Args: hookArgs(opts)}
	data, err := hookconfig.AddHook(existing, hookconfig.Repo{Repo: repoURL, Rev: rev}, hook, force)
	if err != nil {
		if errors.Is(err, hookconfig.ErrHookExists) {
			return fmt.Errorf("%w (use --force to replace it)", err)
		}
		return err
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil { //nolint:gosec // config file needs to be readable
		return fmt.Errorf("writing %s: %w", hookconfig.ConfigFile, err)
	}

	if stage {
		stageConfig(cmd, s.Chdir)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added %s hook to %s\n", hookconfig.HookID, configPath)
	return nil
}

// stageConfig runs git add on the config file. Errors are reported as
// warnings and do not undo the write.
func stageConfig(cmd *cobra.Command, dir string) {
	if !git.IsGitInstalled() || !git.IsRepo(dir) {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s is not a git repository; skipping git add\n", dir)
		return
	}
	if err := git.Add(dir, hookconfig.ConfigFile); err != nil {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: git add failed: %v\n", err)
	}
}

// hookArgs renders opts as the check command's flags.
func hookArgs(opts hookOptions) []string {
	var args []string
	if opts.Output != "" {
		args = append(args, "--output="+opts.Output)
	}
	if opts.Dev {
		args = append(args, "--dev")
	}
	for _, e := range opts.Extras {
		args = append(args, "--extras="+e)
	}
	if opts.WithoutHashes {
		args = append(args, "--without-hashes")
	}
	if opts.WithCredentials {
		args = append(args, "--with-credentials")
	}
	return args
}

// defaultRev pins released binaries to their own tag.
func defaultRev() string {
	if version == "" || version == "dev" {
		return "main"
	}
	if version[0] != 'v' {
		return "v" + version
	}
	return version
}

// validateOutputPath ensures an output path is relative and stays inside the project.
func validateOutputPath(p string) error {
	if p == "" {
		return nil
	}
	if filepath.IsAbs(p) {
		return fmt.Errorf("output %s: absolute path is not allowed", p)
	}
	cleaned := filepath.Clean(p)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return fmt.Errorf("output %s: path must not escape the project (contains ..)", p)
	}
	return nil
}
