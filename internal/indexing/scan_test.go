package indexing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cocosearch/cocosearch/internal/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestScanRespectsGitignoreAndExcludes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "*.log\nvendor/\n")
	writeFile(t, filepath.Join(root, "main.go"), "package main\n")
	writeFile(t, filepath.Join(root, "debug.log"), "noise")
	writeFile(t, filepath.Join(root, "vendor", "lib.go"), "package lib\n")
	writeFile(t, filepath.Join(root, "node_modules", "pkg", "index.js"), "module.exports = {}\n")

	idx := config.Indexing{ExcludePatterns: config.Default().Indexing.ExcludePatterns}
	s := newScanner(root, idx)
	files, err := s.Scan()
	require.NoError(t, err)

	var rels []string
	for _, f := range files {
		rels = append(rels, f.RelPath)
	}
	assert.Contains(t, rels, "main.go")
	assert.NotContains(t, rels, "debug.log")
	assert.NotContains(t, rels, "vendor/lib.go")
	assert.NotContains(t, rels, "node_modules/pkg/index.js")
}

func TestScanHonorsIncludePatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.go"), "package main\n")
	writeFile(t, filepath.Join(root, "readme.md"), "# hi\n")

	idx := config.Indexing{IncludePatterns: []string{"**/*.go"}}
	s := newScanner(root, idx)
	files, err := s.Scan()
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, "main.go", files[0].RelPath)
}

func TestScanSkipsBinaryFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.go"), "package main\n")
	require.NoError(t, os.WriteFile(filepath.Join(root, "logo.png"), []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A}, 0o644))

	s := newScanner(root, config.Indexing{})
	files, err := s.Scan()
	require.NoError(t, err)

	var rels []string
	for _, f := range files {
		rels = append(rels, f.RelPath)
	}
	assert.Contains(t, rels, "main.go")
	assert.NotContains(t, rels, "logo.png")
}
