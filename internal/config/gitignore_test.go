package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldIgnoreMatchesBareFilenameAtAnyDepth(t *testing.T) {
	gp := NewGitignoreParser()
	gp.AddPattern("*.log")

	assert.True(t, gp.ShouldIgnore("debug.log", false))
	assert.True(t, gp.ShouldIgnore("logs/debug.log", false))
	assert.False(t, gp.ShouldIgnore("debug.txt", false))
}

func TestShouldIgnoreAnchorsPatternsWithInternalSlash(t *testing.T) {
	gp := NewGitignoreParser()
	gp.AddPattern("build/output")

	assert.True(t, gp.ShouldIgnore("build/output", false))
	assert.False(t, gp.ShouldIgnore("nested/build/output", false))
}

func TestShouldIgnoreDirectoryPatternCoversNestedPaths(t *testing.T) {
	gp := NewGitignoreParser()
	gp.AddPattern("node_modules/")

	assert.True(t, gp.ShouldIgnore("node_modules", true))
	assert.True(t, gp.ShouldIgnore("node_modules/pkg/index.js", false))
	assert.False(t, gp.ShouldIgnore("node_modules_cache", true))
}

func TestShouldIgnoreNegationReversesALaterMatch(t *testing.T) {
	gp := NewGitignoreParser()
	gp.AddPattern("*.log")
	gp.AddPattern("!keep.log")

	assert.True(t, gp.ShouldIgnore("debug.log", false))
	assert.False(t, gp.ShouldIgnore("keep.log", false))
}

func TestLoadGitignoreMissingFileIsNotAnError(t *testing.T) {
	gp := NewGitignoreParser()
	require.NoError(t, gp.LoadGitignore(t.TempDir()))
	assert.False(t, gp.ShouldIgnore("anything", false))
}

func TestLoadGitignoreParsesFileIgnoringCommentsAndBlanks(t *testing.T) {
	root := t.TempDir()
	contents := "# comment\n\n*.tmp\n/dist/\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte(contents), 0o644))

	gp := NewGitignoreParser()
	require.NoError(t, gp.LoadGitignore(root))

	assert.True(t, gp.ShouldIgnore("scratch.tmp", false))
	assert.True(t, gp.ShouldIgnore("dist", true))
	assert.False(t, gp.ShouldIgnore("nested/dist", true))
}
