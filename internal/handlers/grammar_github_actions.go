package handlers

import (
	"path/filepath"
	"strings"
)

// githubActionsHandler is the GLOSSARY's own example of a grammar handler:
// a path-pattern match (".github/workflows/*.yml") layered on top of the
// plain YAML language, so the same file content gets a more specific
// block_type/hierarchy heuristic (job names) than generic YAML would give
// it, without a dedicated tree-sitter grammar.
type githubActionsHandler struct{ base }

func newGithubActionsHandler() *githubActionsHandler {
	return &githubActionsHandler{base{
		name: "github-actions", languageID: "yaml", textOnly: true,
		spec: SeparatorSpec{Language: "yaml", Boundaries: mustCompile(`\n  \w[\w-]*:\s*$`, `\n\n+`, `\n`)},
		blocks: []blockPattern{
			{"job", mustCompile(`^(\w[\w-]*):\s*$`)[0]},
		},
	}}
}

func (githubActionsHandler) GrammarName() string { return ".github/workflows/*.yml" }

func (h githubActionsHandler) Matches(path string, content []byte) bool {
	clean := filepath.ToSlash(path)
	if !strings.Contains(clean, ".github/workflows/") {
		return false
	}
	return strings.HasSuffix(clean, ".yml") || strings.HasSuffix(clean, ".yaml")
}

func init() {
	RegisterGrammar(newGithubActionsHandler())
}
