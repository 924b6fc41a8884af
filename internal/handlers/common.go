package handlers

import (
	"regexp"
	"strings"
)

// blockPattern recognizes one kind of top-level definition for a language's
// extract_metadata heuristic: the first line of a chunk matching Re sets
// BlockType and, if Re has a capture group, Hierarchy to that capture.
type blockPattern struct {
	BlockType string
	Re        *regexp.Regexp
}

// base implements the parts of Handler that are identical across every
// concrete language/grammar handler.
type base struct {
	name           string
	languageID     string
	symbolLanguage string
	textOnly       bool
	spec           SeparatorSpec
	blocks         []blockPattern
}

func (b base) Name() string           { return b.name }
func (b base) LanguageID() string     { return b.languageID }
func (b base) Separators() SeparatorSpec { return b.spec }
func (b base) SymbolLanguage() string { return b.symbolLanguage }
func (b base) TextOnly() bool         { return b.textOnly }

// ExtractMetadata applies the handler's block-pattern list to the chunk's
// first non-blank lines. It is deliberately a cheap regex heuristic — the
// authoritative (kind, qualified_name, signature) triple comes from C2's
// tree-sitter-backed symbol extractor; this only needs to assign a
// reasonable block_type/hierarchy to every chunk, including ones for which
// C2 finds no primary symbol.
func (b base) ExtractMetadata(chunkText string) Metadata {
	lines := strings.Split(chunkText, "\n")
	limit := len(lines)
	if limit > 5 {
		limit = 5
	}
	for _, line := range lines[:limit] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		for _, bp := range b.blocks {
			if m := bp.Re.FindStringSubmatch(trimmed); m != nil {
				hierarchy := ""
				if len(m) > 1 {
					hierarchy = m[1]
				}
				return Metadata{BlockType: bp.BlockType, Hierarchy: hierarchy, LanguageID: b.languageID}
			}
		}
	}
	return Metadata{BlockType: "code", Hierarchy: "", LanguageID: b.languageID}
}

// braceLanguageSeparators is the separator spec shared by C-family
// languages: split first on top-level definitions, then on blank-line runs,
// then on single newlines as a last resort. Coarsest to finest, per
// spec.md §4.1.
func braceLanguageSeparators(language string, defKeywords string) SeparatorSpec {
	return SeparatorSpec{
		Language: language,
		Boundaries: mustCompile(
			`\n(?:`+defKeywords+`)[^\n]*\{`,
			`\n\n+`,
			`\n`,
		),
	}
}

// indentedLanguageSeparators is the separator spec for indentation-block
// languages (Python, Ruby): split on top-level def/class lines, then blank
// runs, then newlines.
func indentedLanguageSeparators(language string, defKeywords string) SeparatorSpec {
	return SeparatorSpec{
		Language: language,
		Boundaries: mustCompile(
			`\n(?:`+defKeywords+`)\b`,
			`\n\n+`,
			`\n`,
		),
	}
}
