// Package handlers implements the Handler Registry (C1): it maps file
// extensions and path patterns to language/grammar handlers, each of which
// supplies a chunk-separator specification and a per-chunk metadata
// extractor.
//
// The teacher discovers handlers at runtime by scanning a package
// directory. A statically compiled target can't do that portably, so
// cocosearch uses the Design Notes' suggested replacement: every handler
// file registers itself from an init() function, and NewRegistry()
// aggregates the registration lists built by package init at process start,
// failing fast on extension conflicts exactly the way the teacher's runtime
// scan would.
package handlers

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/cocosearch/cocosearch/internal/types"
)

// SeparatorSpec is a language name plus an ordered list of regexes from
// coarsest to finest chunk boundary. The regex dialect is the common
// lookaround-free subset — which is exactly what Go's RE2-backed regexp
// package supports, so no alternate engine is needed here.
type SeparatorSpec struct {
	Language   string
	Boundaries []*regexp.Regexp
}

// Metadata is what a handler's extractor attaches to a chunk once it has
// been cut.
type Metadata struct {
	BlockType  string
	Hierarchy  string
	LanguageID string
}

// Handler is the common surface both language and grammar handlers
// implement.
type Handler interface {
	Name() string
	LanguageID() string
	Separators() SeparatorSpec
	ExtractMetadata(chunkText string) Metadata
	// SymbolLanguage returns the tree-sitter grammar name used for symbol
	// extraction (C2) and parse tracking (C3), or "" if this handler's
	// language has no parser (parse verdict becomes no_grammar, or the
	// file is excluded from parse tracking entirely if TextOnly is true).
	SymbolLanguage() string
	// TextOnly marks formats parse tracking excludes entirely (md, yaml,
	// json, toml, xml, dtd, csv, txt — spec.md §4.3).
	TextOnly() bool
}

// LanguageHandler claims files by extension set.
type LanguageHandler interface {
	Handler
	Extensions() []string
}

// GrammarHandler claims files by path-pattern glob plus an optional
// content-marker check, layered on a base language (e.g. CI workflow files
// inside YAML).
type GrammarHandler interface {
	Handler
	GrammarName() string
	// Matches decides whether this grammar owns filepath; content may be
	// nil when only the path is available.
	Matches(filepath string, content []byte) bool
}

var (
	registeredLanguages []LanguageHandler
	registeredGrammars  []GrammarHandler
)

// RegisterLanguage adds a language handler to the registration set. Called
// from the init() function of each internal/handlers/lang_*.go file.
func RegisterLanguage(h LanguageHandler) {
	registeredLanguages = append(registeredLanguages, h)
}

// RegisterGrammar adds a grammar handler to the registration set, in
// registration (= source file init order) priority: grammars are tried in
// this order and the first match wins, so a grammar with a broad path
// pattern must exclude markers of any sibling grammar it might collide
// with.
func RegisterGrammar(h GrammarHandler) {
	registeredGrammars = append(registeredGrammars, h)
}

// ConflictError reports two handlers claiming the same extension.
type ConflictError struct {
	Extension string
	First     string
	Second    string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("handler registry: extension %q claimed by both %q and %q", e.Extension, e.First, e.Second)
}

// Registry resolves a file path to the handler that owns it.
type Registry struct {
	byExt    map[string]LanguageHandler
	grammars []GrammarHandler
	fallback LanguageHandler
}

// NewRegistry builds the registry from every handler registered via
// RegisterLanguage/RegisterGrammar so far. Extension conflicts are fatal,
// matching the teacher's autodiscovery semantics.
func NewRegistry() (*Registry, error) {
	r := &Registry{
		byExt:    make(map[string]LanguageHandler),
		grammars: append([]GrammarHandler(nil), registeredGrammars...),
		fallback: newTextHandler(),
	}
	for _, h := range registeredLanguages {
		for _, ext := range h.Extensions() {
			ext = normalizeExt(ext)
			if existing, ok := r.byExt[ext]; ok {
				return nil, &ConflictError{Extension: ext, First: existing.Name(), Second: h.Name()}
			}
			r.byExt[ext] = h
		}
	}
	return r, nil
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// GetHandler returns the handler that owns filepath. content may be nil;
// it is consulted only by grammar handlers that need to sniff a content
// marker. Grammar handlers are tried first, in registration order; the
// first match wins. Otherwise the extension map is consulted, falling back
// to a generic text handler that carries no symbol language.
func (r *Registry) GetHandler(filepath string, content []byte) Handler {
	for _, g := range r.grammars {
		if g.Matches(filepath, content) {
			return g
		}
	}
	ext := normalizeExt(extOf(filepath))
	if h, ok := r.byExt[ext]; ok {
		return h
	}
	return r.fallback
}

func extOf(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return ""
	}
	return path[i:]
}

// Describe returns a HandlerDescriptor per registered handler, used by the
// `languages`/`grammars` CLI collaborator command.
func (r *Registry) Describe() []types.HandlerDescriptor {
	var out []types.HandlerDescriptor
	for _, h := range r.byExt {
		out = append(out, types.HandlerDescriptor{
			Name:       h.Name(),
			Kind:       "language",
			Extensions: h.Extensions(),
			SymbolsOK:  h.SymbolLanguage() != "",
		})
	}
	for _, g := range r.grammars {
		out = append(out, types.HandlerDescriptor{
			Name:      g.Name(),
			Kind:      "grammar",
			PathGlob:  g.GrammarName(),
			SymbolsOK: g.SymbolLanguage() != "",
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return dedupeDescriptors(out)
}

func dedupeDescriptors(in []types.HandlerDescriptor) []types.HandlerDescriptor {
	seen := make(map[string]bool, len(in))
	out := make([]types.HandlerDescriptor, 0, len(in))
	for _, d := range in {
		key := d.Kind + ":" + d.Name
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, d)
	}
	return out
}

// AllCustomLanguageSpecs aggregates every registered handler's
// SeparatorSpec, the form the chunking engine consumes (spec.md §4.1
// "all_custom_language_specs()").
func (r *Registry) AllCustomLanguageSpecs() []SeparatorSpec {
	specs := make([]SeparatorSpec, 0, len(r.byExt)+len(r.grammars))
	seen := make(map[string]bool)
	add := func(h Handler) {
		if seen[h.Name()] {
			return
		}
		seen[h.Name()] = true
		specs = append(specs, h.Separators())
	}
	for _, h := range r.byExt {
		add(h)
	}
	for _, g := range r.grammars {
		add(g)
	}
	return specs
}

// mustCompile builds a SeparatorSpec's boundary list, panicking at package
// init time (not at request time) if a handler's own regex is malformed —
// a handler author error, not a runtime condition.
func mustCompile(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}
