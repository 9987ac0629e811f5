package hookconfig

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fbkclanna/poetry-export-hook/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const existingConfig = `# project hooks
default_language_version:
  python: python3.11
repos:
  - repo: https://github.com/pre-commit/pre-commit-hooks
    rev: v4.5.0
    hooks:
      - id: end-of-file-fixer
        exclude: ^docs/ # keep docs as-is
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(existingConfig))
	require.NoError(t, err)
	require.Len(t, cfg.Repos, 1)
	assert.Equal(t, "v4.5.0", cfg.Repos[0].Rev)
	assert.Equal(t, "end-of-file-fixer", cfg.Repos[0].Hooks[0].ID)
}

func TestParse_validation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"missing repo", "repos:\n  - hooks: []\n", "repos[0].repo is required"},
		{"missing hook id", "repos:\n  - repo: local\n    hooks:\n      - name: x\n", "hooks[0].id is required"},
		{"bad yaml", "repos: [", "parsing pre-commit config YAML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFindHook(t *testing.T) {
	cfg := &Config{Repos: []Repo{
		{Repo: "a", Hooks: []Hook{{ID: "x"}}},
		{Repo: DefaultRepoURL, Hooks: []Hook{{ID: HookID, Args: []string{"--dev"}}}},
	}}

	r, h := cfg.FindHook(HookID)
	require.NotNil(t, h)
	assert.Equal(t, DefaultRepoURL, r.Repo)
	assert.Equal(t, []string{"--dev"}, h.Args)

	r, h = cfg.FindHook("missing")
	assert.Nil(t, r)
	assert.Nil(t, h)
}

func TestAddHook_emptyConfig(t *testing.T) {
	out, err := AddHook(nil, Repo{Repo: DefaultRepoURL, Rev: "v1.0.0"}, Hook{ID: HookID}, false)
	require.NoError(t, err)

	cfg, err := Parse(out)
	require.NoError(t, err)
	r, h := cfg.FindHook(HookID)
	require.NotNil(t, h)
	assert.Equal(t, "v1.0.0", r.Rev)
}

func TestAddHook_preservesExistingContent(t *testing.T) {
	hook := Hook{ID: HookID, Args: []string{"--without-hashes"}}
	out, err := AddHook([]byte(existingConfig), Repo{Repo: DefaultRepoURL, Rev: "v1.0.0"}, hook, false)
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "# project hooks")
	assert.Contains(t, s, "# keep docs as-is")
	assert.Contains(t, s, "default_language_version")

	cfg, err := Parse(out)
	require.NoError(t, err)
	require.Len(t, cfg.Repos, 2)
	assert.Equal(t, DefaultRepoURL, cfg.Repos[1].Repo)
	assert.Equal(t, []string{"--without-hashes"}, cfg.Repos[1].Hooks[0].Args)
}

func TestAddHook_existingRepo(t *testing.T) {
	data := "repos:\n  - repo: " + DefaultRepoURL + "\n    rev: v0.9.0\n    hooks:\n      - id: other\n"
	out, err := AddHook([]byte(data), Repo{Repo: DefaultRepoURL}, Hook{ID: HookID}, false)
	require.NoError(t, err)

	cfg, err := Parse(out)
	require.NoError(t, err)
	require.Len(t, cfg.Repos, 1)
	assert.Equal(t, "v0.9.0", cfg.Repos[0].Rev)
	require.Len(t, cfg.Repos[0].Hooks, 2)
	assert.Equal(t, HookID, cfg.Repos[0].Hooks[1].ID)
}

func TestAddHook_duplicate(t *testing.T) {
	first, err := AddHook(nil, Repo{Repo: DefaultRepoURL}, Hook{ID: HookID}, false)
	require.NoError(t, err)

	_, err = AddHook(first, Repo{Repo: DefaultRepoURL}, Hook{ID: HookID, Args: []string{"--dev"}}, false)
	assert.True(t, errors.Is(err, ErrHookExists))

	out, err := AddHook(first, Repo{Repo: DefaultRepoURL}, Hook{ID: HookID, Args: []string{"--dev"}}, true)
	require.NoError(t, err)
	cfg, err := Parse(out)
	require.NoError(t, err)
	_, h := cfg.FindHook(HookID)
	require.NotNil(t, h)
	assert.Equal(t, []string{"--dev"}, h.Args)
	assert.Equal(t, 1, strings.Count(string(out), "id: "+HookID))
}

func TestAddHook_noReposKey(t *testing.T) {
	out, err := AddHook([]byte("fail_fast: true\n"), Repo{Repo: DefaultRepoURL}, Hook{ID: HookID}, false)
	require.NoError(t, err)

	assert.Contains(t, string(out), "fail_fast: true")
	cfg, err := Parse(out)
	require.NoError(t, err)
	require.Len(t, cfg.Repos, 1)
}

func TestAddHook_invalidTopLevel(t *testing.T) {
	_, err := AddHook([]byte("- a\n- b\n"), Repo{Repo: DefaultRepoURL}, Hook{ID: HookID}, false)
	assert.Error(t, err)
}

func TestParseHooks_validation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"missing id", "- name: x\n  entry: x\n  language: system\n", "[0].id is required"},
		{"missing entry", "- id: x\n  name: x\n  language: system\n", "(x).entry is required"},
		{"bad files regex", "- id: x\n  name: x\n  entry: x\n  language: system\n  files: '('\n", "(x).files"},
		{"duplicate", "- {id: x, name: x, entry: x, language: system}\n- {id: x, name: y, entry: y, language: system}\n", "duplicate hook id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHooks([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadHooks_publishedManifest(t *testing.T) {
	defs, err := LoadHooks(filepath.Join("..", "..", HooksFile))
	require.NoError(t, err)
	require.Len(t, defs, 1)

	d := defs[0]
	assert.Equal(t, HookID, d.ID)
	assert.Equal(t, "poetry-export-hook check", d.Entry)
	require.NotNil(t, d.PassFilenames)
	assert.True(t, *d.PassFilenames)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	testutil.WriteFile(t, path, existingConfig)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Repos, 1)

	_, err = Load(filepath.Join(t.TempDir(), ConfigFile))
	assert.Error(t, err)
}
