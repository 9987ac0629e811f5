package hookconfig

const (
	ConfigFile = ".pre-commit-config.yaml"
	HooksFile  = ".pre-commit-hooks.yaml"

	// HookID is the id this repository publishes its hook under.
	HookID = "poetry-export"
	// DefaultRepoURL is where pre-commit fetches the hook from.
	DefaultRepoURL = "https://github.com/fbkclanna/poetry-export-hook"
)

// Config represents .pre-commit-config.yaml.
type Config struct {
	Repos []Repo `yaml:"repos"`
}

// Repo is one entry of the repos list.
type Repo struct {
	Repo  string `yaml:"repo"`
	Rev   string `yaml:"rev,omitempty"`
	Hooks []Hook `yaml:"hooks"`
}

// Hook selects and configures a hook published by a repo.
type Hook struct {
	ID    string   `yaml:"id"`
	Name  string   `yaml:"name,omitempty"`
	Args  []string `yaml:"args,omitempty"`
	Files string   `yaml:"files,omitempty"`
}

// HookDef is one hook published in .pre-commit-hooks.yaml.
type HookDef struct {
	ID            string   `yaml:"id"`
	Name          string   `yaml:"name"`
	Description   string   `yaml:"description,omitempty"`
	Entry         string   `yaml:"entry"`
	Language      string   `yaml:"language"`
	Files         string   `yaml:"files,omitempty"`
	PassFilenames *bool    `yaml:"pass_filenames,omitempty"`
	Args          []string `yaml:"args,omitempty"`
}

// FindHook returns the first hook with the given id across all repos.
func (c *Config) FindHook(id string) (*Repo, *Hook) {
	for i := range c.Repos {
		r := &c.Repos[i]
		for j := range r.Hooks {
			if r.Hooks[j].ID == id {
				return r, &r.Hooks[j]
			}
		}
	}
	return nil, nil
}
