package lock

// File represents poetry.lock.
type File struct {
	Packages []Package `toml:"package"`
	Metadata Metadata  `toml:"metadata"`
	// GeneratedBy is the tool named in the @generated header, if any.
	GeneratedBy string `toml:"-"`
}

// Package is a single locked distribution.
type Package struct {
	Name     string `toml:"name"`
	Version  string `toml:"version"`
	Optional bool   `toml:"optional"`
}

// Metadata is the [metadata] table.
type Metadata struct {
	LockVersion    string `toml:"lock-version"`
	PythonVersions string `toml:"python-versions"`
	ContentHash    string `toml:"content-hash"`
}

// ShortHash returns the first 12 characters of the content hash.
func (m Metadata) ShortHash() string {
	if len(m.ContentHash) <= 12 {
		return m.ContentHash
	}
	return m.ContentHash[:12]
}
