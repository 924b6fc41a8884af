package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// detectBuildArtifactExcludes inspects language manifest files at root for
// a custom build-output directory and returns glob patterns to exclude,
// beyond the default exclusions. A project whose Cargo.toml or
// pyproject.toml names a non-default output directory would otherwise have
// its build artifacts indexed alongside its source.
func detectBuildArtifactExcludes(root string) []string {
	var patterns []string
	patterns = append(patterns, detectCargoTargetDir(root)...)
	patterns = append(patterns, detectPoetryTargetDir(root)...)
	patterns = append(patterns, detectTypeScriptOutDir(root)...)
	return patterns
}

func detectCargoTargetDir(root string) []string {
	data, err := os.ReadFile(filepath.Join(root, "Cargo.toml"))
	if err != nil {
		return nil
	}
	var manifest struct {
		Profile struct {
			Release struct {
				TargetDir string `toml:"target-dir"`
			} `toml:"release"`
		} `toml:"profile"`
	}
	if toml.Unmarshal(data, &manifest) != nil {
		return nil
	}
	if manifest.Profile.Release.TargetDir == "" {
		return nil
	}
	return []string{"**/" + manifest.Profile.Release.TargetDir + "/**"}
}

func detectPoetryTargetDir(root string) []string {
	data, err := os.ReadFile(filepath.Join(root, "pyproject.toml"))
	if err != nil {
		return nil
	}
	var manifest struct {
		Tool struct {
			Poetry struct {
				Build struct {
					TargetDir string `toml:"target-dir"`
				} `toml:"build"`
			} `toml:"poetry"`
		} `toml:"tool"`
	}
	if toml.Unmarshal(data, &manifest) != nil {
		return nil
	}
	if manifest.Tool.Poetry.Build.TargetDir == "" {
		return nil
	}
	return []string{"**/" + manifest.Tool.Poetry.Build.TargetDir + "/**"}
}

func detectTypeScriptOutDir(root string) []string {
	data, err := os.ReadFile(filepath.Join(root, "tsconfig.json"))
	if err != nil {
		return nil
	}
	var tsconfig struct {
		CompilerOptions struct {
			OutDir string `json:"outDir"`
		} `json:"compilerOptions"`
	}
	if json.Unmarshal(data, &tsconfig) != nil {
		return nil
	}
	if tsconfig.CompilerOptions.OutDir == "" {
		return nil
	}
	return []string{"**/" + tsconfig.CompilerOptions.OutDir + "/**"}
}
