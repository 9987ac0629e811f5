package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configName = ".poetry-export"
	envPrefix  = "POETRY_EXPORT"
)

// settings is the resolved configuration of one command run.
// Precedence: flags, then POETRY_EXPORT_* env vars, then the config file.
type settings struct {
	Chdir           string   `mapstructure:"chdir"`
	Verbose         bool     `mapstructure:"verbose"`
	Output          string   `mapstructure:"output"`
	Dev             bool     `mapstructure:"dev"`
	Extras          []string `mapstructure:"extras"`
	WithoutHashes   bool     `mapstructure:"without-hashes"`
	WithCredentials bool     `mapstructure:"with-credentials"`
	WithoutOutput   bool     `mapstructure:"without-output"`
	Poetry          string   `mapstructure:"poetry"`
	Diff            bool     `mapstructure:"diff"`
}

// addExportFlags registers the flags that shape the poetry export call.
func addExportFlags(fs *pflag.FlagSet) {
	fs.StringP("output", "o", "", "Output file (default requirements.txt, or requirements-dev.txt with --dev)")
	fs.BoolP("dev", "D", false, "Include development dependencies")
	fs.StringSliceP("extras", "E", nil, "Extra sets of dependencies to include (repeatable)")
	fs.Bool("without-hashes", false, "Exclude hashes from the exported file")
	fs.Bool("with-credentials", false, "Include credentials for extra indices")
	fs.String("poetry", "", "Path to the poetry executable (default poetry on PATH)")
}

// loadSettings merges the config file, environment and flags of cmd.
func loadSettings(cmd *cobra.Command) (*settings, error) {
	v := viper.New()

	for _, fs := range []*pflag.FlagSet{cmd.Flags(), cmd.InheritedFlags()} {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("binding flags: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	dir := v.GetString("chdir")
	if dir == "" {
		dir = "."
	}
	if configFile := v.GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	s := &settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving --chdir: %w", err)
	}
	s.Chdir = abs
	return s, nil
}
