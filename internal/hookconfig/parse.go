package hookconfig

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// ErrHookExists is returned by AddHook when the hook is already configured.
var ErrHookExists = errors.New("hook already configured")

// Load reads and validates a .pre-commit-config.yaml file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is the project's pre-commit config
	if err != nil {
		return nil, fmt.Errorf("reading pre-commit config: %w", err)
	}
	return Parse(data)
}

// Parse parses and validates .pre-commit-config.yaml content.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing pre-commit config YAML: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	for i, r := range cfg.Repos {
		if r.Repo == "" {
			return fmt.Errorf("pre-commit config: repos[%d].repo is required", i)
		}
		for j, h := range r.Hooks {
			if h.ID == "" {
				return fmt.Errorf("pre-commit config: repos[%d] (%s).hooks[%d].id is required", i, r.Repo, j)
			}
		}
	}
	return nil
}

// LoadHooks reads and validates a .pre-commit-hooks.yaml file.
func LoadHooks(path string) ([]HookDef, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is the hook manifest
	if err != nil {
		return nil, fmt.Errorf("reading hook manifest: %w", err)
	}
	return ParseHooks(data)
}

// ParseHooks parses and validates .pre-commit-hooks.yaml content.
func ParseHooks(data []byte) ([]HookDef, error) {
	var defs []HookDef
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("parsing hook manifest YAML: %w", err)
	}
	seen := make(map[string]bool, len(defs))
	for i, d := range defs {
		if err := validateHookDef(i, d); err != nil {
			return nil, err
		}
		if seen[d.ID] {
			return nil, fmt.Errorf("hook manifest: duplicate hook id %q", d.ID)
		}
		seen[d.ID] = true
	}
	return defs, nil
}

func validateHookDef(i int, d HookDef) error {
	if d.ID == "" {
		return fmt.Errorf("hook manifest: [%d].id is required", i)
	}
	required := []struct{ field, value string }{
		{"name", d.Name},
		{"entry", d.Entry},
		{"language", d.Language},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("hook manifest: [%d] (%s).%s is required", i, d.ID, r.field)
		}
	}
	if d.Files != "" {
		if _, err := regexp.Compile(d.Files); err != nil {
			return fmt.Errorf("hook manifest: [%d] (%s).files: %w", i, d.ID, err)
		}
	}
	return nil
}

// AddHook returns data with hook added under the repo whose url is repo.Repo,
// appending a new repo entry when none exists. Comments and keys the model
// does not know about are preserved. If a hook with the same id is already
// configured for that repo, AddHook returns ErrHookExists unless replace is set.
func AddHook(data []byte, repo Repo, hook Hook, replace bool) ([]byte, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		repo.Hooks = []Hook{hook}
		return marshal(Config{Repos: []Repo{repo}})
	}
	if _, err := Parse(data); err != nil {
		return nil, err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing pre-commit config YAML: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("pre-commit config: top level must be a mapping")
	}
	root := doc.Content[0]

	repos := mappingValue(root, "repos")
	if repos == nil || repos.Kind != yaml.SequenceNode {
		repos = &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		setMappingValue(root, "repos", repos)
	}

	hookNode, err := encodeNode(hook)
	if err != nil {
		return nil, err
	}

	for _, r := range repos.Content {
		url := mappingValue(r, "repo")
		if url == nil || url.Value != repo.Repo {
			continue
		}
		hooks := mappingValue(r, "hooks")
		if hooks == nil || hooks.Kind != yaml.SequenceNode {
			hooks = &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
			setMappingValue(r, "hooks", hooks)
		}
		for i, h := range hooks.Content {
			if id := mappingValue(h, "id"); id != nil && id.Value == hook.ID {
				if !replace {
					return nil, fmt.Errorf("%s in %s: %w", hook.ID, repo.Repo, ErrHookExists)
				}
				hooks.Content[i] = hookNode
				return encode(&doc)
			}
		}
		hooks.Content = append(hooks.Content, hookNode)
		return encode(&doc)
	}

	repo.Hooks = []Hook{hook}
	repoNode, err := encodeNode(repo)
	if err != nil {
		return nil, err
	}
	repos.Content = append(repos.Content, repoNode)
	return encode(&doc)
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func setMappingValue(m *yaml.Node, key string, v *yaml.Node) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1] = v
			return
		}
	}
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, v)
}

func encodeNode(v any) (*yaml.Node, error) {
	var n yaml.Node
	if err := n.Encode(v); err != nil {
		return nil, fmt.Errorf("encoding pre-commit config: %w", err)
	}
	return &n, nil
}

func marshal(cfg Config) ([]byte, error) {
	n, err := encodeNode(cfg)
	if err != nil {
		return nil, err
	}
	return encode(n)
}

func encode(n *yaml.Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return nil, fmt.Errorf("marshaling pre-commit config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("marshaling pre-commit config: %w", err)
	}
	return buf.Bytes(), nil
}
