package search

import (
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/cocosearch/cocosearch/internal/storage"
)

// languageAliases expands short/common spellings to the canonical
// language_id values handlers register (spec.md §4.7 step 3).
var languageAliases = map[string][]string{
	"ts":  {"typescript"},
	"tsx": {"typescript"},
	"js":  {"javascript"},
	"jsx": {"javascript"},
	"py":  {"python"},
	"rb":  {"ruby"},
	"rs":  {"rust"},
	"cs":  {"csharp"},
	"c++": {"cpp"},
	"cc":  {"cpp"},
	"golang": {"go"},
}

// expandLanguages resolves caller-given language names/aliases to the set
// of canonical language_id values storage should filter on.
func expandLanguages(langs []string) []string {
	if len(langs) == 0 {
		return nil
	}
	seen := map[string]bool{}
	var out []string
	add := func(v string) {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	for _, l := range langs {
		l = strings.ToLower(strings.TrimSpace(l))
		if aliases, ok := languageAliases[l]; ok {
			for _, a := range aliases {
				add(a)
			}
			continue
		}
		add(l)
	}
	return out
}

// globToLike translates a shell-style glob (`*`, `?`) into a SQL LIKE
// pattern, escaping LIKE's own metacharacters first so literal `%`/`_` in
// the caller's glob are not misinterpreted.
func globToLike(glob string) string {
	replacer := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	escaped := replacer.Replace(glob)
	escaped = strings.ReplaceAll(escaped, "*", "%")
	escaped = strings.ReplaceAll(escaped, "?", "_")
	return escaped
}

// fuzzySymbolNameFallback is used when an exact/LIKE symbol_name match
// returned nothing: it re-ranks candidate symbol names by Jaro-Winkler
// similarity to the glob's literal portion and returns those clearing
// fuzzyThreshold, closest first.
const fuzzyThreshold = 0.80

func fuzzySymbolNameFallback(target string, candidates []string) []string {
	target = strings.Trim(target, "*?")
	if target == "" {
		return nil
	}
	type scored struct {
		name  string
		score float64
	}
	var matches []scored
	for _, c := range candidates {
		sim, err := edlib.StringsSimilarity(target, c, edlib.JaroWinkler)
		if err != nil {
			continue
		}
		if float64(sim) >= fuzzyThreshold {
			matches = append(matches, scored{c, float64(sim)})
		}
	}
	// stable insertion-sort by descending score; candidate lists here are
	// small (symbol names within one index), so this stays O(n^2) worst case
	// without needing sort.Slice's allocation for a handful of matches.
	for i := 1; i < len(matches); i++ {
		for j := i; j > 0 && matches[j].score > matches[j-1].score; j-- {
			matches[j], matches[j-1] = matches[j-1], matches[j]
		}
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.name
	}
	return out
}

// buildFilter turns a types.Query's filter fields into a storage.RetrievalFilter.
func buildFilter(languages, symbolTypes []string, symbolNameGlob string) storage.RetrievalFilter {
	f := storage.RetrievalFilter{
		Languages:   expandLanguages(languages),
		SymbolTypes: symbolTypes,
	}
	if symbolNameGlob != "" {
		f.SymbolNameGlob = globToLike(symbolNameGlob)
	}
	return f
}
