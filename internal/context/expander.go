// Package context implements the Context Expander (C8): for a matched
// chunk, produce context_before/context_after strings bounded to 50 lines,
// preferring a tree-sitter enclosing-definition window over a fixed
// line-count window.
package context

import (
	"bytes"
	"container/list"
	"fmt"
	"os"
	"strings"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/cocosearch/cocosearch/internal/symbols"
	"github.com/cocosearch/cocosearch/internal/types"
)

const (
	maxContextLines         = 50
	defaultExplicitLines    = 3
	maxLineLength           = 200
	defaultFileCacheSize    = 128
)

// enclosingNodeKinds names the definition-node kinds smart context treats
// as the enclosing unit, across the languages handlers register symbol
// extraction for.
var enclosingNodeKinds = map[string]bool{
	"function_definition": true, "function_declaration": true, "function_item": true,
	"class_definition": true, "class_declaration": true, "class_specifier": true,
	"method_definition": true, "method_declaration": true,
	"struct_item": true, "struct_specifier": true,
	"impl_item": true, "trait_item": true,
}

// Expander implements search.ContextExpander.
type Expander struct {
	mu        sync.Mutex
	fileCache *fileLRU
	parsers   map[string]*tree_sitter.Parser
}

// NewExpander builds an Expander with a file cache of the given capacity
// (spec.md §4.8: "bounded capacity (≥128)").
func NewExpander(fileCacheCapacity int) *Expander {
	if fileCacheCapacity < defaultFileCacheSize {
		fileCacheCapacity = defaultFileCacheSize
	}
	return &Expander{
		fileCache: newFileLRU(fileCacheCapacity),
		parsers:   map[string]*tree_sitter.Parser{},
	}
}

// Expand produces context_before/context_after for one result. err is
// non-nil only when filePath could not be read.
func (e *Expander) Expand(filePath string, startByte, endByte int, q types.Query) (before, after string, err error) {
	content, ok := e.fileCache.Get(filePath)
	if !ok {
		data, readErr := os.ReadFile(filePath)
		if readErr != nil {
			return "", "", readErr
		}
		content = data
		e.fileCache.Put(filePath, content)
	}

	if q.SmartContext && !q.NoSmart {
		if before, after, ok := e.smartContext(filePath, content, startByte, endByte); ok {
			return before, after, nil
		}
	}

	beforeLines, afterLines := q.ContextBefore, q.ContextAfter
	if beforeLines == 0 && afterLines == 0 {
		beforeLines, afterLines = defaultExplicitLines, defaultExplicitLines
	}
	return explicitContext(content, startByte, endByte, beforeLines, afterLines)
}

// smartContext locates the smallest enclosing definition node covering
// [startByte, endByte) and renders lines from its start to the chunk start,
// and from the chunk end to its end, capping at 50 total lines by falling
// back to a centered window when the node is larger than that.
func (e *Expander) smartContext(filePath string, content []byte, startByte, endByte int) (before, after string, ok bool) {
	lang := symbolLanguageForPath(filePath)
	if lang == "" {
		return "", "", false
	}
	parser := e.parserFor(lang)
	if parser == nil {
		return "", "", false
	}

	e.mu.Lock()
	tree := parser.Parse(content, nil)
	e.mu.Unlock()
	if tree == nil {
		return "", "", false
	}
	defer tree.Close()

	node := smallestEnclosing(tree.RootNode(), uint(startByte), uint(endByte))
	if node == nil {
		return "", "", false
	}

	nodeStartLine := lineOf(content, int(node.StartByte()))
	nodeEndLine := lineOf(content, int(node.EndByte()))
	chunkStartLine := lineOf(content, startByte)
	chunkEndLine := lineOf(content, endByte)

	if nodeEndLine-nodeStartLine+1 > maxContextLines {
		return centeredWindow(content, chunkStartLine, chunkEndLine)
	}

	before = formatLines(content, nodeStartLine, chunkStartLine-1, false)
	after = formatLines(content, chunkEndLine+1, nodeEndLine, false)
	return before, after, true
}

func smallestEnclosing(root tree_sitter.Node, start, end uint) *tree_sitter.Node {
	var best *tree_sitter.Node
	var walk func(n tree_sitter.Node)
	walk = func(n tree_sitter.Node) {
		if n.StartByte() > start || n.EndByte() < end {
			return
		}
		if enclosingNodeKinds[n.Kind()] {
			node := n
			best = &node
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			if child := n.Child(i); child != nil {
				walk(*child)
			}
		}
	}
	walk(root)
	return best
}

func (e *Expander) parserFor(lang string) *tree_sitter.Parser {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p, ok := e.parsers[lang]; ok {
		return p
	}
	grammar := symbols.LanguageFor(lang)
	if grammar == nil {
		return nil
	}
	p := tree_sitter.NewParser()
	if err := p.SetLanguage(grammar); err != nil {
		return nil
	}
	e.parsers[lang] = p
	return p
}

// explicitContext takes exactly beforeLines/afterLines lines around the
// chunk, used when smart context is off, failed to parse, or the caller
// asked for explicit counts.
func explicitContext(content []byte, startByte, endByte, beforeLines, afterLines int) (before, after string, err error) {
	chunkStartLine := lineOf(content, startByte)
	chunkEndLine := lineOf(content, endByte)
	before = formatLines(content, chunkStartLine-beforeLines, chunkStartLine-1, true)
	after = formatLines(content, chunkEndLine+1, chunkEndLine+afterLines, true)
	return before, after, nil
}

func centeredWindow(content []byte, chunkStartLine, chunkEndLine int) (before, after string, ok bool) {
	span := chunkEndLine - chunkStartLine + 1
	remaining := maxContextLines - span
	if remaining < 0 {
		remaining = 0
	}
	half := remaining / 2
	before = formatLines(content, chunkStartLine-half, chunkStartLine-1, true)
	after = formatLines(content, chunkEndLine+1, chunkEndLine+(remaining-half), true)
	return before, after, true
}

// lineOf returns the 1-indexed line number containing byte offset b.
func lineOf(content []byte, b int) int {
	if b < 0 {
		b = 0
	}
	if b > len(content) {
		b = len(content)
	}
	return bytes.Count(content[:b], []byte("\n")) + 1
}

// formatLines renders lines [from, to] (1-indexed, inclusive) in the
// `line: text` layout, truncating long lines and emitting [BOF]/[EOF]
// markers when the requested range runs off either end of the file.
func formatLines(content []byte, from, to int, markBounds bool) string {
	lines := strings.Split(string(content), "\n")
	var b strings.Builder
	if markBounds && from < 1 {
		b.WriteString("[BOF]\n")
	}
	if from < 1 {
		from = 1
	}
	if to > len(lines) {
		to = len(lines)
	}
	for n := from; n <= to; n++ {
		if n < 1 || n > len(lines) {
			continue
		}
		text := lines[n-1]
		if len(text) > maxLineLength {
			text = text[:maxLineLength] + "…"
		}
		fmt.Fprintf(&b, "%d: %s\n", n, text)
	}
	if markBounds && to >= len(lines) {
		b.WriteString("[EOF]\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// symbolLanguageForPath guesses the tree-sitter grammar name from a file
// extension, mirroring the handler registry's extension map without
// importing internal/handlers (which would create an import cycle through
// internal/chunking).
func symbolLanguageForPath(path string) string {
	switch {
	case strings.HasSuffix(path, ".py"), strings.HasSuffix(path, ".pyi"):
		return "python"
	case strings.HasSuffix(path, ".go"):
		return "go"
	case strings.HasSuffix(path, ".rs"):
		return "rust"
	case strings.HasSuffix(path, ".java"):
		return "java"
	case strings.HasSuffix(path, ".c"), strings.HasSuffix(path, ".h"):
		return "c"
	case strings.HasSuffix(path, ".cc"), strings.HasSuffix(path, ".cpp"), strings.HasSuffix(path, ".cxx"),
		strings.HasSuffix(path, ".hpp"), strings.HasSuffix(path, ".hh"), strings.HasSuffix(path, ".hxx"):
		return "cpp"
	case strings.HasSuffix(path, ".rb"):
		return "ruby"
	case strings.HasSuffix(path, ".php"):
		return "php"
	case strings.HasSuffix(path, ".js"), strings.HasSuffix(path, ".jsx"), strings.HasSuffix(path, ".mjs"), strings.HasSuffix(path, ".cjs"):
		return "javascript"
	case strings.HasSuffix(path, ".ts"), strings.HasSuffix(path, ".tsx"):
		return "typescript"
	default:
		return ""
	}
}

// fileLRU is a bounded least-recently-used cache of file contents, grounded
// on the teacher's container/list-based LRUCache.
type fileLRU struct {
	maxSize int
	mu      sync.Mutex
	items   map[string]*list.Element
	order   *list.List
}

type fileCacheEntry struct {
	path    string
	content []byte
}

func newFileLRU(maxSize int) *fileLRU {
	return &fileLRU{maxSize: maxSize, items: map[string]*list.Element{}, order: list.New()}
}

func (c *fileLRU) Get(path string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.items[path]; ok {
		c.order.MoveToFront(elem)
		return elem.Value.(*fileCacheEntry).content, true
	}
	return nil, false
}

func (c *fileLRU) Put(path string, content []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.items[path]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*fileCacheEntry).content = content
		return
	}
	elem := c.order.PushFront(&fileCacheEntry{path: path, content: content})
	c.items[path] = elem
	if c.order.Len() > c.maxSize {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*fileCacheEntry).path)
		}
	}
}

// Clear drops every cached file, called at the end of each outer search()
// call (spec.md §4.8).
func (c *fileLRU) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = map[string]*list.Element{}
	c.order = list.New()
}

// Clear exposes fileLRU.Clear to the engine, which calls it after each
// search() call completes.
func (e *Expander) Clear() { e.fileCache.Clear() }
