// Package config loads cocosearch's configuration, layering CLI flags over
// the project's YAML config file over environment variables over compiled
// defaults (spec.md §6 "Configuration file"), the way the teacher's
// config.Load/mergeConfigs layers KDL over flags over defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Indexing holds the knobs the index pipeline (C4) accepts as Config.
type Indexing struct {
	IncludePatterns []string `yaml:"include_patterns"`
	ExcludePatterns []string `yaml:"exclude_patterns"`
	ChunkSize       int      `yaml:"chunk_size"`
	ChunkOverlap    int      `yaml:"chunk_overlap"`
	NoGitignore     bool     `yaml:"-"`
}

// Config is cocosearch's fully-resolved configuration.
type Config struct {
	IndexName string   `yaml:"indexName"`
	Indexing  Indexing `yaml:"indexing"`

	DatabaseURL    string `yaml:"-"`
	EmbeddingURL   string `yaml:"-"`
	ProjectRoot    string `yaml:"-"`
}

const (
	envDatabaseURL  = "COCOSEARCH_DATABASE_URL"
	envOllamaURL    = "COCOSEARCH_OLLAMA_URL"
	envIndexName    = "COCOSEARCH_INDEX_NAME"
	envProject      = "COCOSEARCH_PROJECT"

	defaultOllamaURL = "http://localhost:11434"
	configFileName   = ".cocosearch.yaml"
)

// Default returns the compiled-default configuration (step 4 of the
// precedence chain: CLI flag > file > environment > default).
func Default() *Config {
	return &Config{
		Indexing: Indexing{
			IncludePatterns: nil,
			ExcludePatterns: defaultExcludePatterns(),
			ChunkSize:       1500,
			ChunkOverlap:    200,
		},
		EmbeddingURL: defaultOllamaURL,
	}
}

// Load reads configFileName from projectRoot (if present), merges it over
// environment variables, merges both over the compiled default, and
// returns the result. CLI flags are applied by the caller afterward via
// ApplyOverrides — flags always win.
func Load(projectRoot string) (*Config, error) {
	cfg := Default()
	cfg.ProjectRoot = projectRoot

	if v := os.Getenv(envDatabaseURL); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv(envOllamaURL); v != "" {
		cfg.EmbeddingURL = v
	}
	if v := os.Getenv(envIndexName); v != "" {
		cfg.IndexName = v
	}
	if v := os.Getenv(envProject); v != "" && projectRoot == "" {
		cfg.ProjectRoot = v
	}

	path := filepath.Join(projectRoot, configFileName)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
		mergeFileConfig(cfg, &fileCfg)
	case os.IsNotExist(err):
		// no project config file; environment/defaults stand as-is.
	default:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg.Indexing.ExcludePatterns = append(cfg.Indexing.ExcludePatterns, detectBuildArtifactExcludes(projectRoot)...)
	return cfg, nil
}

// mergeFileConfig overlays non-zero fields of file onto base; zero-value
// file fields leave the environment/default value in place.
func mergeFileConfig(base, file *Config) {
	if file.IndexName != "" {
		base.IndexName = file.IndexName
	}
	if len(file.Indexing.IncludePatterns) > 0 {
		base.Indexing.IncludePatterns = file.Indexing.IncludePatterns
	}
	if len(file.Indexing.ExcludePatterns) > 0 {
		base.Indexing.ExcludePatterns = append(base.Indexing.ExcludePatterns, file.Indexing.ExcludePatterns...)
	}
	if file.Indexing.ChunkSize > 0 {
		base.Indexing.ChunkSize = file.Indexing.ChunkSize
	}
	if file.Indexing.ChunkOverlap > 0 {
		base.Indexing.ChunkOverlap = file.Indexing.ChunkOverlap
	}
}

// Overrides carries the CLI flags that outrank file and environment
// configuration (spec.md §6: "CLI flags override file; file overrides
// environment; environment overrides compiled defaults").
type Overrides struct {
	Include     []string
	Exclude     []string
	ChunkSize   int
	ChunkOverlap int
	NoGitignore bool
	IndexName   string
	Root        string
}

// ApplyOverrides mutates cfg in place with any non-zero override fields.
func ApplyOverrides(cfg *Config, o Overrides) {
	if len(o.Include) > 0 {
		cfg.Indexing.IncludePatterns = o.Include
	}
	if len(o.Exclude) > 0 {
		cfg.Indexing.ExcludePatterns = append(cfg.Indexing.ExcludePatterns, o.Exclude...)
	}
	if o.ChunkSize > 0 {
		cfg.Indexing.ChunkSize = o.ChunkSize
	}
	if o.ChunkOverlap > 0 {
		cfg.Indexing.ChunkOverlap = o.ChunkOverlap
	}
	if o.NoGitignore {
		cfg.Indexing.NoGitignore = true
	}
	if o.IndexName != "" {
		cfg.IndexName = o.IndexName
	}
	if o.Root != "" {
		abs, err := filepath.Abs(o.Root)
		if err == nil {
			cfg.ProjectRoot = abs
		}
	}
}

func defaultExcludePatterns() []string {
	return []string{
		"**/.git/**",
		"**/.*/**",
		"**/node_modules/**",
		"**/vendor/**",
		"**/dist/**",
		"**/build/**",
		"**/out/**",
		"**/target/**",
		"**/bin/**",
		"**/obj/**",
		"**/*.min.js",
		"**/*.min.css",
		"**/__pycache__/**",
		"**/*.pyc",
	}
}
