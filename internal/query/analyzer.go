// Package query implements the Query Analyzer (C6): classifying a query
// string so the hybrid search engine can choose hybrid-vs-vector-only
// defaults without the caller having to say so explicitly.
package query

import (
	"strings"

	"github.com/surgebase/porter2"

	"github.com/cocosearch/cocosearch/internal/chunking"
)

// Class is the analyzer's verdict on a query string.
type Class string

const (
	ClassIdentifierHeavy Class = "identifier_heavy"
	ClassConceptual      Class = "conceptual"
	ClassMixed           Class = "mixed"
)

// Analysis is the result of classifying a query: its class and the
// use_hybrid default that class implies (spec.md §4.6).
type Analysis struct {
	Class      Class
	UseHybrid  bool
	Identifier []string // identifier-shaped tokens found, for Explain output
	Stems      []string // conceptual word tokens reduced to their Porter2 stem, for Explain output
}

// minStemLength mirrors the teacher's stemmer default: words shorter than
// this are left alone since stemming them tends to collide unrelated terms.
const minStemLength = 3

// Analyze classifies text token by token with chunking.LooksLikeIdentifier.
func Analyze(text string) Analysis {
	fields := strings.Fields(text)
	var identifierTokens, wordTokens []string
	for _, tok := range fields {
		trimmed := strings.Trim(tok, `.,:;!?()[]{}"'`)
		if trimmed == "" {
			continue
		}
		if chunking.LooksLikeIdentifier(trimmed) {
			identifierTokens = append(identifierTokens, trimmed)
		} else {
			wordTokens = append(wordTokens, trimmed)
		}
	}

	switch {
	case len(identifierTokens) > 0 && len(wordTokens) > 0:
		return Analysis{Class: ClassMixed, UseHybrid: true, Identifier: identifierTokens, Stems: stemWords(wordTokens)}
	case len(identifierTokens) > 0:
		return Analysis{Class: ClassIdentifierHeavy, UseHybrid: true, Identifier: identifierTokens}
	default:
		return Analysis{Class: ClassConceptual, UseHybrid: false, Stems: stemWords(wordTokens)}
	}
}

// stemWords reduces each word to its Porter2 stem so Explain output can show
// that "authenticate" and "authentication" are the same underlying concept.
func stemWords(words []string) []string {
	if len(words) == 0 {
		return nil
	}
	stems := make([]string, len(words))
	for i, w := range words {
		if len(w) < minStemLength {
			stems[i] = strings.ToLower(w)
			continue
		}
		stems[i] = porter2.Stem(strings.ToLower(w))
	}
	return stems
}

// ResolveUseHybrid applies the analyzer's default unless the caller passed
// an explicit override (spec.md §4.6: "explicit caller flags override
// defaults").
func ResolveUseHybrid(text string, explicit *bool) bool {
	if explicit != nil {
		return *explicit
	}
	return Analyze(text).UseHybrid
}
