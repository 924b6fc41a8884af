// Package parsetrack implements the Parse Tracker (C3): a per-file parse
// health verdict, rebuilt on every indexing run.
package parsetrack

import (
	"fmt"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/cocosearch/cocosearch/internal/types"
)

// textOnlyExtensions are excluded from parse tracking entirely — no verdict
// row is produced for them (spec.md §4.3).
var textOnlyExtensions = map[string]bool{
	".md": true, ".mdx": true, ".yaml": true, ".yml": true,
	".json": true, ".toml": true, ".xml": true, ".dtd": true,
	".csv": true, ".txt": true,
}

// IsTextOnly reports whether ext (including the leading dot) is excluded
// from parse tracking.
func IsTextOnly(ext string) bool {
	return textOnlyExtensions[strings.ToLower(ext)]
}

// Tracker computes verdicts using the same grammar set the symbol
// extractor uses, via a caller-supplied language resolver so parsetrack
// doesn't need its own copy of every grammar binding.
type Tracker struct {
	languageFor func(symbolLanguage string) *tree_sitter.Language
	parsers     map[string]*tree_sitter.Parser
}

// NewTracker builds a Tracker. languageFor resolves a handler's
// SymbolLanguage() to a compiled grammar, or nil if none is wired.
func NewTracker(languageFor func(string) *tree_sitter.Language) *Tracker {
	return &Tracker{languageFor: languageFor, parsers: make(map[string]*tree_sitter.Parser)}
}

// Verdict computes the parse verdict for one file's content under the
// given symbol language (empty string means the handler declared no
// grammar at all, i.e. no_grammar).
func (t *Tracker) Verdict(filePath, symbolLanguage string, content []byte) types.ParseVerdict {
	v := types.ParseVerdict{FilePath: filePath, Language: symbolLanguage}
	if symbolLanguage == "" {
		v.ParseStatus = types.ParseStatusNoGrammar
		return v
	}

	parser, err := t.parserFor(symbolLanguage)
	if err != nil {
		v.ParseStatus = types.ParseStatusNoGrammar
		return v
	}

	tree := safeParse(parser, content)
	if tree == nil {
		v.ParseStatus = types.ParseStatusError
		v.ErrorMessage = "parser panicked or returned no tree"
		return v
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		v.ParseStatus = types.ParseStatusError
		v.ErrorMessage = "parser produced no root node"
		return v
	}

	lines := errorLines(*root)
	if len(lines) == 0 {
		v.ParseStatus = types.ParseStatusOK
		return v
	}
	v.ParseStatus = types.ParseStatusPartial
	v.ErrorMessage = formatErrorLines(lines)
	return v
}

func (t *Tracker) parserFor(symbolLanguage string) (*tree_sitter.Parser, error) {
	if p, ok := t.parsers[symbolLanguage]; ok {
		return p, nil
	}
	lang := t.languageFor(symbolLanguage)
	if lang == nil {
		return nil, fmt.Errorf("no grammar registered for %q", symbolLanguage)
	}
	parser := tree_sitter.NewParser()
	if err := parser.SetLanguage(lang); err != nil {
		return nil, err
	}
	t.parsers[symbolLanguage] = parser
	return parser, nil
}

// safeParse recovers from a panicking grammar so one bad file can't abort
// an indexing run (spec.md §4.3 "Parser raises -> error").
func safeParse(parser *tree_sitter.Parser, content []byte) (tree *tree_sitter.Tree) {
	defer func() {
		if recover() != nil {
			tree = nil
		}
	}()
	return parser.Parse(content, nil)
}

// errorLines walks the tree and returns the 1-indexed line numbers of
// every ERROR or missing node, in document order.
func errorLines(node tree_sitter.Node) []int {
	var lines []int
	var walk func(n tree_sitter.Node)
	walk = func(n tree_sitter.Node) {
		if n.IsError() || n.IsMissing() {
			lines = append(lines, int(n.StartPosition().Row)+1)
		}
		count := int(n.ChildCount())
		for i := 0; i < count; i++ {
			if child := n.Child(uint(i)); child != nil {
				walk(*child)
			}
		}
	}
	walk(node)
	return lines
}

// formatErrorLines renders up to the first ten line numbers, suffixed
// with "(+N more)" when there are more (spec.md §4.3).
func formatErrorLines(lines []int) string {
	const max = 10
	shown := lines
	suffix := ""
	if len(lines) > max {
		shown = lines[:max]
		suffix = fmt.Sprintf(" (+%d more)", len(lines)-max)
	}
	strs := make([]string, len(shown))
	for i, l := range shown {
		strs[i] = fmt.Sprintf("%d", l)
	}
	return strings.Join(strs, ", ") + suffix
}
