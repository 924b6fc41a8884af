// Package gitutil derives a default index name from a project's git root,
// the way index management (C10) needs it when no --name is supplied.
package gitutil

import (
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

var identifierSanitizer = regexp.MustCompile(`[^a-z0-9_]+`)

// Toplevel returns the absolute path of the git repository containing dir,
// or dir itself (cleaned) if dir is not inside a git working tree.
func Toplevel(dir string) string {
	cmd := exec.Command("git", "-C", dir, "rev-parse", "--show-toplevel")
	out, err := cmd.Output()
	if err != nil {
		abs, aerr := filepath.Abs(dir)
		if aerr != nil {
			return filepath.Clean(dir)
		}
		return abs
	}
	return strings.TrimSpace(string(out))
}

// DefaultIndexName derives the `^[a-z][a-z0-9_]*$` index identifier from the
// basename of a project's git toplevel (or the directory itself if it isn't
// a git repository).
func DefaultIndexName(dir string) string {
	root := Toplevel(dir)
	base := strings.ToLower(filepath.Base(root))
	sanitized := identifierSanitizer.ReplaceAllString(base, "_")
	sanitized = strings.Trim(sanitized, "_")
	if sanitized == "" {
		sanitized = "index"
	}
	if sanitized[0] < 'a' || sanitized[0] > 'z' {
		sanitized = "idx_" + sanitized
	}
	return sanitized
}
