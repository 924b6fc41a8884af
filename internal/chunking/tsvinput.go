package chunking

import "regexp"

var identifierToken = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_-]*`)

var sharedSplitter = NewIdentifierSplitter()

// ContentTSVInput builds content_tsv_input: the chunk's original text with
// every identifier-shaped token's camel/snake/kebab word-splits appended,
// so `to_tsvector('simple', ...)` indexes both the exact identifier and its
// components (spec.md §4.4 step 5, GLOSSARY "Content-tsv input").
func ContentTSVInput(text string) string {
	seen := make(map[string]bool)
	var extra []string
	for _, tok := range identifierToken.FindAllString(text, -1) {
		words := sharedSplitter.Split(tok)
		if len(words) <= 1 {
			continue
		}
		for _, w := range words {
			if w == "" || seen[w] {
				continue
			}
			seen[w] = true
			extra = append(extra, w)
		}
	}
	if len(extra) == 0 {
		return text
	}
	out := make([]byte, 0, len(text)+len(extra)*6)
	out = append(out, text...)
	out = append(out, '\n')
	for i, w := range extra {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, w...)
	}
	return string(out)
}
