// Package hookconfig reads and writes pre-commit YAML files: the
// .pre-commit-hooks.yaml this repository publishes and the
// .pre-commit-config.yaml of a project that consumes it.
package hookconfig
