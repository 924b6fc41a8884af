package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectCargoTargetDirFindsCustomOutputDir(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "Cargo.toml", "[profile.release]\ntarget-dir = \"build-out\"\n")

	patterns := detectBuildArtifactExcludes(root)
	assert.Contains(t, patterns, "**/build-out/**")
}

func TestDetectPoetryTargetDirFindsCustomOutputDir(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "pyproject.toml", "[tool.poetry.build]\ntarget-dir = \"artifacts\"\n")

	patterns := detectBuildArtifactExcludes(root)
	assert.Contains(t, patterns, "**/artifacts/**")
}

func TestDetectTypeScriptOutDirFindsCustomOutputDir(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "tsconfig.json", `{"compilerOptions": {"outDir": "lib-build"}}`)

	patterns := detectBuildArtifactExcludes(root)
	assert.Contains(t, patterns, "**/lib-build/**")
}

func TestDetectBuildArtifactExcludesEmptyWhenNoManifests(t *testing.T) {
	root := t.TempDir()
	assert.Empty(t, detectBuildArtifactExcludes(root))
}

func TestLoadFoldsBuildArtifactExcludesIntoConfig(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "Cargo.toml", "[profile.release]\ntarget-dir = \"rust-out\"\n")

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Contains(t, cfg.Indexing.ExcludePatterns, "**/rust-out/**")
}

func writeManifest(t *testing.T, root, name, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(contents), 0o644))
}
