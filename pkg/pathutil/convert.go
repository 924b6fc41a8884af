// Package pathutil converts between absolute and relative paths at cocosearch's
// output boundaries (CLI text/JSON, RPC responses). Internally every path is
// absolute for consistency; results shown to the operator are relativized
// against the project root for readability.
package pathutil

import (
	"path/filepath"
	"strings"

	"github.com/cocosearch/cocosearch/internal/types"
)

// ToRelative converts an absolute path to relative based on a root
// directory. Falls back to the original path if conversion fails, the path
// is already relative, or the path lies outside rootDir.
func ToRelative(absPath, rootDir string) string {
	if absPath == "" || rootDir == "" {
		return absPath
	}
	if !filepath.IsAbs(absPath) {
		return absPath
	}

	absPath = filepath.Clean(absPath)
	rootDir = filepath.Clean(rootDir)

	relPath, err := filepath.Rel(rootDir, absPath)
	if err != nil {
		return absPath
	}
	if strings.HasPrefix(relPath, "..") {
		return absPath
	}
	return relPath
}

// ToRelativeResults relativizes the Filename field of a slice of search
// results, returning a new slice so the originals are left untouched.
func ToRelativeResults(results []types.SearchResult, rootDir string) []types.SearchResult {
	if len(results) == 0 {
		return results
	}
	converted := make([]types.SearchResult, len(results))
	copy(converted, results)
	for i := range converted {
		converted[i].Filename = ToRelative(converted[i].Filename, rootDir)
	}
	return converted
}
