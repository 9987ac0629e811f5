package export

import (
	"os"
	"strings"
)

// DefaultFormat is the export format passed to the package manager.
const DefaultFormat = "requirements.txt"

// DefaultFileMode is used when the output file has to be created.
const DefaultFileMode os.FileMode = 0644

// Request is the immutable input to a single check.
type Request struct {
	Dev             bool
	Extras          []string
	WithoutHashes   bool
	WithCredentials bool
	OutputPath      string
}

// Config holds the settings a Checker applies to every request.
type Config struct {
	Format   string
	FileMode os.FileMode
}

// DefaultConfig returns the configuration used by the hook.
func DefaultConfig() Config {
	return Config{Format: DefaultFormat, FileMode: DefaultFileMode}
}

func (c Config) withDefaults() Config {
	if c.Format == "" {
		c.Format = DefaultFormat
	}
	if c.FileMode == 0 {
		c.FileMode = DefaultFileMode
	}
	return c
}

// NormalizeExtras trims, drops empty names and de-duplicates extras while
// keeping the order in which they were first given.
func NormalizeExtras(extras []string) []string {
	if len(extras) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(extras))
	var out []string
	for _, e := range extras {
		e = strings.TrimSpace(e)
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}

// Args builds the exporter arguments for req using the given format.
func Args(format string, req Request) []string {
	args := []string{"export", "-f", format}
	if req.Dev {
		args = append(args, "--dev")
	}
	for _, e := range NormalizeExtras(req.Extras) {
		args = append(args, "--extras", e)
	}
	if req.WithoutHashes {
		args = append(args, "--without-hashes")
	}
	if req.WithCredentials {
		args = append(args, "--with-credentials")
	}
	return args
}
