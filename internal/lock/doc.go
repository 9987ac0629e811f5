// Package lock reads poetry.lock files. Only the metadata the hook reports
// on is decoded: the lock format version, the content hash of the
// pyproject.toml it was resolved from, and the locked packages.
package lock
