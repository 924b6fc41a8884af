package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// GitignoreParser parses .gitignore files and matches paths against the
// accumulated pattern set, used by the index pipeline's file discovery
// (C4 step 4: "honor .gitignore rules by default"). Matching itself is
// delegated to doublestar rather than a hand-rolled glob engine: a
// .gitignore pattern translates to a doublestar glob by anchoring it (or
// not) the way git does — a bare filename matches at any depth, a pattern
// containing an internal "/" is anchored to the .gitignore's directory.
type GitignoreParser struct {
	patterns []gitignorePattern
}

type gitignorePattern struct {
	glob      string
	negate    bool
	directory bool
}

func NewGitignoreParser() *GitignoreParser {
	return &GitignoreParser{}
}

// LoadGitignore loads patterns from rootPath/.gitignore. A missing file is
// not an error.
func (gp *GitignoreParser) LoadGitignore(rootPath string) error {
	file, err := os.Open(filepath.Join(rootPath, ".gitignore"))
	if err != nil {
		return nil
	}
	defer file.Close()
	return gp.scanPatterns(file)
}

func (gp *GitignoreParser) scanPatterns(file *os.File) error {
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		gp.patterns = append(gp.patterns, parseGitignoreLine(line))
	}
	return scanner.Err()
}

// AddPattern adds a single pattern line, useful for tests and for seeding
// the parser with config-level exclude globs alongside .gitignore rules.
func (gp *GitignoreParser) AddPattern(line string) {
	gp.patterns = append(gp.patterns, parseGitignoreLine(line))
}

func parseGitignoreLine(line string) gitignorePattern {
	p := gitignorePattern{}
	if strings.HasPrefix(line, "!") {
		p.negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		p.directory = true
		line = strings.TrimSuffix(line, "/")
	}
	anchored := strings.HasPrefix(line, "/")
	line = strings.TrimPrefix(line, "/")
	if !anchored && !strings.Contains(line, "/") {
		line = "**/" + line
	}
	p.glob = line
	return p
}

// ShouldIgnore reports whether path (isDir indicates a directory) is
// excluded by the accumulated pattern set, applying later negations over
// earlier matches the way git itself does.
func (gp *GitignoreParser) ShouldIgnore(path string, isDir bool) bool {
	path = strings.TrimSuffix(filepath.ToSlash(path), "/")
	ignored := false
	for _, pattern := range gp.patterns {
		if pattern.matches(path, isDir) {
			ignored = !pattern.negate
		}
	}
	return ignored
}

func (p gitignorePattern) matches(path string, isDir bool) bool {
	if p.directory && !isDir {
		// a directory-only pattern still covers everything nested under it
		if ok, _ := doublestar.Match(p.glob+"/**", path); ok {
			return true
		}
		return false
	}
	if ok, _ := doublestar.Match(p.glob, path); ok {
		return true
	}
	ok, _ := doublestar.Match(p.glob+"/**", path)
	return ok
}
