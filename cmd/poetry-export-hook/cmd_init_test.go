package main

import (
	"path/filepath"
	"testing"

	"github.com/fbkclanna/poetry-export-hook/internal/git"
	"github.com/fbkclanna/poetry-export-hook/internal/hookconfig"
	"github.com/fbkclanna/poetry-export-hook/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadHook(t *testing.T, dir string) (*hookconfig.Repo, *hookconfig.Hook) {
	t.Helper()
	cfg, err := hookconfig.Load(filepath.Join(dir, hookconfig.ConfigFile))
	require.NoError(t, err)
	r, h := cfg.FindHook(hookconfig.HookID)
	require.NotNil(t, h, "hook not found in config")
	return r, h
}

func TestRunInit_createsConfig(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "-C", dir, "init", "--yes", "--dev", "-E", "pg", "--without-hashes", "--rev", "v1.2.0")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Added poetry-export hook")

	r, h := loadHook(t, dir)
	assert.Equal(t, hookconfig.DefaultRepoURL, r.Repo)
	assert.Equal(t, "v1.2.0", r.Rev)
	assert.Equal(t, []string{"--dev", "--extras=pg", "--without-hashes"}, h.Args)
}

func TestRunInit_mergesIntoExisting(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, filepath.Join(dir, hookconfig.ConfigFile), `repos:
  - repo: https://github.com/pre-commit/pre-commit-hooks
    rev: v4.5.0
    hooks:
      - id: trailing-whitespace
`)

	_, err := execute(t, "-C", dir, "init", "--yes", "-o", "requirements/base.txt")
	require.NoError(t, err)

	cfg, err := hookconfig.Load(filepath.Join(dir, hookconfig.ConfigFile))
	require.NoError(t, err)
	require.Len(t, cfg.Repos, 2)
	assert.Equal(t, "trailing-whitespace", cfg.Repos[0].Hooks[0].ID)
	assert.Equal(t, []string{"--output=requirements/base.txt"}, cfg.Repos[1].Hooks[0].Args)
	assert.Equal(t, "main", cfg.Repos[1].Rev)
}

func TestRunInit_alreadyConfigured(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "-C", dir, "init", "--yes")
	require.NoError(t, err)

	_, err = execute(t, "-C", dir, "init", "--yes", "--dev")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	_, err = execute(t, "-C", dir, "init", "--yes", "--dev", "--force")
	require.NoError(t, err)
	_, h := loadHook(t, dir)
	assert.Equal(t, []string{"--dev"}, h.Args)
}

func TestRunInit_rejectsEscapingOutput(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "-C", dir, "init", "--yes", "-o", "../requirements.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not escape")
}

func TestRunInit_stage(t *testing.T) {
	repo := testutil.CreateRepo(t)

	_, err := execute(t, "-C", repo, "init", "--yes", "--stage")
	require.NoError(t, err)

	staged, err := git.StagedFiles(repo)
	require.NoError(t, err)
	assert.Contains(t, staged, hookconfig.ConfigFile)
}

func TestRunInit_stageOutsideRepo(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "-C", dir, "init", "--yes", "--stage")
	require.NoError(t, err)
	assert.Contains(t, out, "skipping git add")
}

func TestHookArgs(t *testing.T) {
	assert.Nil(t, hookArgs(hookOptions{}))
	assert.Equal(t, []string{
		"--output=reqs.txt", "--dev", "--extras=a", "--extras=b", "--without-hashes", "--with-credentials",
	}, hookArgs(hookOptions{
		Output:          "reqs.txt",
		Dev:             true,
		Extras:          []string{"a", "b"},
		WithoutHashes:   true,
		WithCredentials: true,
	}))
}

func TestDefaultRev(t *testing.T) {
	orig := version
	t.Cleanup(func() { version = orig })

	version = "dev"
	assert.Equal(t, "main", defaultRev())
	version = "1.4.0"
	assert.Equal(t, "v1.4.0", defaultRev())
	version = "v2.0.0"
	assert.Equal(t, "v2.0.0", defaultRev())
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"", false},
		{"requirements.txt", false},
		{"requirements/dev.txt", false},
		{"./requirements.txt", false},
		{"..", true},
		{"../requirements.txt", true},
		{"a/../../requirements.txt", true},
		{"/tmp/requirements.txt", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			err := validateOutputPath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
