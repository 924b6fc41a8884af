package handlers

// textHandler is the fallback handler: no symbol language, parse tracking
// excluded entirely (spec.md §4.3). It also explicitly claims the markup
// and data formats that are text-only by name rather than by fallback, so
// that Describe() lists them instead of leaving them implicit.
type textHandler struct{ base }

func newTextHandler() *textHandler {
	return &textHandler{base{
		name: "text", languageID: "text", textOnly: true,
		spec: SeparatorSpec{Language: "text", Boundaries: mustCompile(`\n\n+`, `\n`)},
	}}
}
func (textHandler) Extensions() []string {
	return []string{
		".md", ".mdx", ".yaml", ".yml", ".json", ".toml",
		".xml", ".dtd", ".csv", ".txt", ".rst", ".adoc",
	}
}

func init() {
	RegisterLanguage(newTextHandler())
}
