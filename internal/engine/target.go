package engine

import (
	"path/filepath"
	"strings"
)

// IsAbstract reports whether target is an abstract (phony) target: a label
// starting with ":". Abstract targets have no filesystem presence.
func IsAbstract(target string) bool {
	return strings.HasPrefix(target, ":")
}

// NormalizePath converts path separators to the POSIX convention the engine
// uses for all target identifiers, even on Windows hosts.
func NormalizePath(path string) string {
	return strings.ReplaceAll(path, "\\", "/")
}

// ResolvePath joins a file target against e.Root, unless it is already
// absolute. Abstract targets should never be passed here.
func (e *Engine) ResolvePath(target string) string {
	if filepath.IsAbs(target) {
		return target
	}
	return filepath.Join(e.Root, target)
}
