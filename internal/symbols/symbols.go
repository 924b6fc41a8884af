// Package symbols implements the Symbol Extractor (C2): for a chunk's
// text, detect at most one primary symbol definition and produce
// (symbol_type, symbol_name, symbol_signature).
package symbols

import (
	"strings"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// Symbol is the (symbol_type, symbol_name, symbol_signature) triple C2
// attaches to a chunk. A nil *Symbol means no primary definition was found.
type Symbol struct {
	Type      string // function | method | class | interface
	Name      string // fully qualified for methods: ClassName.method
	Signature string
}

// langSpec describes how to run and interpret one language's definition
// query.
type langSpec struct {
	query string
	// classContainerKinds are ancestor node kinds that qualify a nested
	// method's name as "Container.method" (spec.md §4.2).
	classContainerKinds []string
	// goStyleReceiver is true for languages (Go) whose method definitions
	// carry the container name as a query capture (@receiver.name) rather
	// than via an enclosing class node, since Go methods are declared at
	// package scope with a receiver parameter instead of nested in a body.
	goStyleReceiver bool
}

// Extractor runs per-language tree-sitter queries to extract symbols. It
// owns one *tree_sitter.Parser and *tree_sitter.Query per language,
// compiled lazily and reused across calls; the Go binding's Parser is not
// safe for concurrent use, so a single mutex serializes every parse, across
// all languages.
type Extractor struct {
	mu       sync.Mutex
	langs    map[string]*tree_sitter.Language
	queries  map[string]*tree_sitter.Query
	parsers  map[string]*tree_sitter.Parser
	specs    map[string]langSpec
	failedLangs map[string]bool
}

// NewExtractor builds an extractor with every language registered in this
// package's languages.go.
func NewExtractor() *Extractor {
	return &Extractor{
		langs:       make(map[string]*tree_sitter.Language),
		queries:     make(map[string]*tree_sitter.Query),
		parsers:     make(map[string]*tree_sitter.Parser),
		specs:       registeredSpecs(),
		failedLangs: make(map[string]bool),
	}
}

// SupportsLanguage reports whether language has a registered query — the
// minimum symbol-capable set is Python, JavaScript, TypeScript, Go, Rust,
// Java, C, C++, Ruby, PHP (spec.md §4.2).
func (e *Extractor) SupportsLanguage(language string) bool {
	_, ok := e.specs[language]
	return ok
}

// Extract parses text with language's grammar and returns the first
// non-nested definition in document order, or nil if none is found or the
// language has no registered query. Parse failures degrade to a nil
// symbol rather than an error (spec.md §4.2 "the extractor is resilient").
func (e *Extractor) Extract(language string, text string) *Symbol {
	spec, ok := e.specs[language]
	if !ok {
		return nil
	}
	parser, query, ok := e.ensure(language, spec)
	if !ok {
		return nil
	}

	content := []byte(text)

	e.mu.Lock()
	tree := parser.Parse(content, nil)
	defer func() {
		if tree != nil {
			tree.Close()
		}
		e.mu.Unlock()
	}()
	if tree == nil || tree.RootNode() == nil {
		return nil
	}

	candidates := collectCandidates(query, tree.RootNode(), content)
	primary := firstTopLevel(candidates)
	if primary == nil {
		return nil
	}
	return buildSymbol(*primary, content, spec)
}

func (e *Extractor) ensure(language string, spec langSpec) (*tree_sitter.Parser, *tree_sitter.Query, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.failedLangs[language] {
		return nil, nil, false
	}
	if p, ok := e.parsers[language]; ok {
		return p, e.queries[language], true
	}

	lang := languageFor(language)
	if lang == nil {
		e.failedLangs[language] = true
		return nil, nil, false
	}
	parser := tree_sitter.NewParser()
	if err := parser.SetLanguage(lang); err != nil {
		e.failedLangs[language] = true
		return nil, nil, false
	}
	query, err := tree_sitter.NewQuery(lang, spec.query)
	if err != nil || query == nil {
		e.failedLangs[language] = true
		return nil, nil, false
	}
	e.langs[language] = lang
	e.parsers[language] = parser
	e.queries[language] = query
	return parser, query, true
}

// candidate is one matched definition node plus its resolved name.
type candidate struct {
	node     tree_sitter.Node
	kind     string // function | method | class | interface
	name     string
	receiver string // non-empty only for Go-style receiver qualification
}

func collectCandidates(query *tree_sitter.Query, root tree_sitter.Node, content []byte) []candidate {
	cursor := tree_sitter.NewQueryCursor()
	defer cursor.Close()
	matches := cursor.Matches(query, root, content)
	captureNames := query.CaptureNames()

	var out []candidate
	for {
		match := matches.Next()
		if match == nil {
			break
		}
		var def *tree_sitter.Node
		var kind, name, receiver string
		for _, c := range match.Captures {
			cname := captureNames[c.Index]
			node := c.Node
			switch {
			case strings.HasPrefix(cname, "definition."):
				n := node
				def = &n
				kind = strings.TrimPrefix(cname, "definition.")
			case cname == "name":
				name = string(content[node.StartByte():node.EndByte()])
			case cname == "receiver.name":
				receiver = string(content[node.StartByte():node.EndByte()])
			}
		}
		if def == nil {
			continue
		}
		out = append(out, candidate{node: *def, kind: kind, name: name, receiver: receiver})
	}
	return out
}

// firstTopLevel returns the first candidate, in document order, that is
// not nested inside another candidate's byte range (spec.md §4.2: "nested
// definitions are skipped").
func firstTopLevel(candidates []candidate) *candidate {
	if len(candidates) == 0 {
		return nil
	}
	sorted := make([]candidate, len(candidates))
	copy(sorted, candidates)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1].node.StartByte() > sorted[j].node.StartByte(); j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}

	var stack []candidate
	for _, c := range sorted {
		for len(stack) > 0 && stack[len(stack)-1].node.EndByte() <= c.node.StartByte() {
			stack = stack[:len(stack)-1]
		}
		if len(stack) > 0 && stack[len(stack)-1].node.StartByte() <= c.node.StartByte() && c.node.EndByte() <= stack[len(stack)-1].node.EndByte() {
			// Nested inside the open candidate: not a top-level definition.
			stack = append(stack, c)
			continue
		}
		stack = append(stack, c)
		return &c
	}
	return nil
}

func buildSymbol(c candidate, content []byte, spec langSpec) *Symbol {
	name := c.name
	kind := c.kind
	switch {
	case spec.goStyleReceiver && kind == "method" && c.receiver != "":
		name = c.receiver + "." + name
	case kind == "function" || kind == "method":
		// A function_definition nested in a class body (Python, Ruby,
		// C++ inline methods) is qualified and reclassified as a method
		// even when the language's grammar uses one node kind for both.
		if container := enclosingContainerName(c.node, content, spec.classContainerKinds); container != "" {
			name = container + "." + name
			kind = "method"
		}
	}

	start := c.node.StartByte()
	end := c.node.EndByte()
	signature := strings.TrimRight(string(content[start:end]), " \t\r\n")
	if body := c.node.ChildByFieldName("body"); body != nil {
		signature = strings.TrimRight(string(content[start:body.StartByte()]), " \t\r\n")
	}

	return &Symbol{Type: kind, Name: name, Signature: signature}
}

func enclosingContainerName(node tree_sitter.Node, content []byte, containerKinds []string) string {
	if len(containerKinds) == 0 {
		return ""
	}
	parent := node.Parent()
	for parent != nil {
		kind := parent.Kind()
		for _, ck := range containerKinds {
			if kind == ck {
				if nameNode := parent.ChildByFieldName("name"); nameNode != nil {
					return string(content[nameNode.StartByte():nameNode.EndByte()])
				}
				if nameNode := parent.ChildByFieldName("type"); nameNode != nil {
					return string(content[nameNode.StartByte():nameNode.EndByte()])
				}
				return ""
			}
		}
		parent = parent.Parent()
	}
	return ""
}
