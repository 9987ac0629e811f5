// Package project resolves a Poetry project directory: the pyproject.toml
// declaring extras, the optional poetry.lock, and the default names of the
// exported requirements files.
package project
