package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCarriesCompiledDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 1500, cfg.Indexing.ChunkSize)
	assert.Equal(t, 200, cfg.Indexing.ChunkOverlap)
	assert.Equal(t, defaultOllamaURL, cfg.EmbeddingURL)
	assert.NotEmpty(t, cfg.Indexing.ExcludePatterns)
}

func TestLoadWithoutConfigFileFallsBackToDefaults(t *testing.T) {
	root := t.TempDir()
	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, 1500, cfg.Indexing.ChunkSize)
	assert.Equal(t, root, cfg.ProjectRoot)
}

func TestLoadMergesProjectFileOverDefaults(t *testing.T) {
	root := t.TempDir()
	writeConfigFile(t, root, "indexName: myproj\nindexing:\n  chunk_size: 800\n  exclude_patterns:\n    - \"**/fixtures/**\"\n")

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, "myproj", cfg.IndexName)
	assert.Equal(t, 800, cfg.Indexing.ChunkSize)
	assert.Contains(t, cfg.Indexing.ExcludePatterns, "**/fixtures/**")
	// defaults are extended, not replaced
	assert.Contains(t, cfg.Indexing.ExcludePatterns, "**/node_modules/**")
}

func TestLoadSurfacesUnparseableConfigFile(t *testing.T) {
	root := t.TempDir()
	writeConfigFile(t, root, "indexing: [this is not a map]\n")

	_, err := Load(root)
	require.Error(t, err)
}

func TestApplyOverridesFlagsWinOverFileAndDefaults(t *testing.T) {
	cfg := Default()
	ApplyOverrides(cfg, Overrides{ChunkSize: 42, Exclude: []string{"**/tmp/**"}})
	assert.Equal(t, 42, cfg.Indexing.ChunkSize)
	assert.Contains(t, cfg.Indexing.ExcludePatterns, "**/tmp/**")
}

func writeConfigFile(t *testing.T, root, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(root, configFileName), []byte(contents), 0o644))
}
