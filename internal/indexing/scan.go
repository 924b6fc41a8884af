package indexing

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/cocosearch/cocosearch/internal/config"
)

// candidateFile is one file discovery decided belongs in this run.
type candidateFile struct {
	AbsPath string
	RelPath string
}

// scanner walks a codebase root applying .gitignore, include/exclude globs,
// and binary rejection (spec.md §4.4 step 4).
type scanner struct {
	root      string
	gitignore *config.GitignoreParser
	include   []string
	exclude   []string
	binary    *binaryDetector
}

func newScanner(root string, idx config.Indexing) *scanner {
	s := &scanner{
		root:    root,
		include: idx.IncludePatterns,
		exclude: idx.ExcludePatterns,
		binary:  newBinaryDetector(),
	}
	if !idx.NoGitignore {
		gp := config.NewGitignoreParser()
		if err := gp.LoadGitignore(root); err == nil {
			s.gitignore = gp
		}
	}
	return s
}

// Scan walks root and returns every file that should enter the pipeline.
// Errors reading individual entries are skipped, not fatal, matching the
// teacher walker's "continue despite errors" stance.
func (s *scanner) Scan() ([]candidateFile, error) {
	var out []candidateFile
	visited := map[string]bool{}

	err := filepath.WalkDir(s.root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if path == s.root {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if real, err := filepath.EvalSymlinks(path); err == nil {
				if visited[real] {
					return filepath.SkipDir
				}
				visited[real] = true
			}
			if s.excluded(rel+"/", true) {
				return filepath.SkipDir
			}
			return nil
		}

		if s.excluded(rel, false) {
			return nil
		}
		if !s.included(rel) {
			return nil
		}
		if s.binary.isBinaryByExtension(path) {
			return nil
		}
		if info, err := d.Info(); err == nil && info.Size() > 0 {
			if sniffed, err := sniffHead(path); err == nil && s.binary.isBinaryByMagicNumber(sniffed) {
				return nil
			}
		}

		out = append(out, candidateFile{AbsPath: path, RelPath: rel})
		return nil
	})
	return out, err
}

func (s *scanner) excluded(rel string, isDir bool) bool {
	if s.gitignore != nil && s.gitignore.ShouldIgnore(rel, isDir) {
		return true
	}
	for _, pattern := range s.exclude {
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

func (s *scanner) included(rel string) bool {
	if len(s.include) == 0 {
		return true
	}
	for _, pattern := range s.include {
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

const sniffBytes = 512

func sniffHead(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	buf := make([]byte, sniffBytes)
	n, err := f.Read(buf)
	if err != nil && n == 0 {
		return nil, err
	}
	return buf[:n], nil
}
