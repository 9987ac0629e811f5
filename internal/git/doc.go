// Package git provides a wrapper around the Git CLI commands the hook needs:
// listing staged files, detecting unstaged changes to a single path, and
// locating the repository root. It does not depend on other internal packages.
package git
