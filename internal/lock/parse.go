package lock

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const generatedMarker = "@generated by "

// Load reads a poetry.lock file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is the project lock file
	if err != nil {
		return nil, fmt.Errorf("reading lock file: %w", err)
	}
	return Parse(data)
}

// Parse parses poetry.lock content.
func Parse(data []byte) (*File, error) {
	var lf File
	if err := toml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("parsing lock TOML: %w", err)
	}
	lf.GeneratedBy = generatedBy(data)
	return &lf, nil
}

// generatedBy extracts "Poetry 1.8.3" from the leading comment block.
func generatedBy(data []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, "#") {
			return ""
		}
		_, rest, ok := strings.Cut(line, generatedMarker)
		if !ok {
			continue
		}
		rest, _, _ = strings.Cut(rest, " and ")
		return strings.TrimSpace(rest)
	}
	return ""
}
