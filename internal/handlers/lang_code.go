package handlers

// pythonHandler claims .py/.pyi files.
type pythonHandler struct{ base }

func newPythonHandler() *pythonHandler {
	return &pythonHandler{base{
		name: "python", languageID: "python", symbolLanguage: "python",
		spec: indentedLanguageSeparators("python", `(?:def|class)\s`),
		blocks: []blockPattern{
			{"function", mustCompile(`^(?:async\s+)?def\s+(\w+)`)[0]},
			{"class", mustCompile(`^class\s+(\w+)`)[0]},
		},
	}}
}
func (pythonHandler) Extensions() []string { return []string{".py", ".pyi"} }

// goHandler claims .go files.
type goHandler struct{ base }

func newGoHandler() *goHandler {
	return &goHandler{base{
		name: "go", languageID: "go", symbolLanguage: "go",
		spec: braceLanguageSeparators("go", `func\s`),
		blocks: []blockPattern{
			{"method", mustCompile(`^func\s+\([^)]*\)\s*(\w+)`)[0]},
			{"function", mustCompile(`^func\s+(\w+)`)[0]},
			{"interface", mustCompile(`^type\s+(\w+)\s+interface`)[0]},
			{"struct", mustCompile(`^type\s+(\w+)\s+struct`)[0]},
		},
	}}
}
func (goHandler) Extensions() []string { return []string{".go"} }

// rustHandler claims .rs files.
type rustHandler struct{ base }

func newRustHandler() *rustHandler {
	return &rustHandler{base{
		name: "rust", languageID: "rust", symbolLanguage: "rust",
		spec: braceLanguageSeparators("rust", `(?:pub\s+)?(?:fn|struct|enum|trait|impl)\s`),
		blocks: []blockPattern{
			{"function", mustCompile(`^(?:pub\s+)?(?:async\s+)?fn\s+(\w+)`)[0]},
			{"struct", mustCompile(`^(?:pub\s+)?struct\s+(\w+)`)[0]},
			{"trait", mustCompile(`^(?:pub\s+)?trait\s+(\w+)`)[0]},
			{"impl", mustCompile(`^impl(?:<[^>]*>)?\s+(?:\w+\s+for\s+)?(\w+)`)[0]},
		},
	}}
}
func (rustHandler) Extensions() []string { return []string{".rs"} }

// javaHandler claims .java files.
type javaHandler struct{ base }

func newJavaHandler() *javaHandler {
	return &javaHandler{base{
		name: "java", languageID: "java", symbolLanguage: "java",
		spec: braceLanguageSeparators("java", `(?:public|private|protected|static|\s)*(?:class|interface)\s`),
		blocks: []blockPattern{
			{"class", mustCompile(`class\s+(\w+)`)[0]},
			{"interface", mustCompile(`interface\s+(\w+)`)[0]},
		},
	}}
}
func (javaHandler) Extensions() []string { return []string{".java"} }

// cHandler claims .c/.h files.
type cHandler struct{ base }

func newCHandler() *cHandler {
	return &cHandler{base{
		name: "c", languageID: "c", symbolLanguage: "c",
		spec: braceLanguageSeparators("c", `\w[\w\s\*]*\(`),
		blocks: []blockPattern{
			{"function", mustCompile(`^\w[\w\s\*]*?(\w+)\s*\([^;]*$`)[0]},
			{"struct", mustCompile(`^(?:typedef\s+)?struct\s+(\w+)`)[0]},
		},
	}}
}
func (cHandler) Extensions() []string { return []string{".c", ".h"} }

// cppHandler claims .cc/.cpp/.cxx/.hpp/.hh/.hxx files.
type cppHandler struct{ base }

func newCppHandler() *cppHandler {
	return &cppHandler{base{
		name: "cpp", languageID: "cpp", symbolLanguage: "cpp",
		spec: braceLanguageSeparators("cpp", `(?:class|struct|namespace)\s`),
		blocks: []blockPattern{
			{"class", mustCompile(`^class\s+(\w+)`)[0]},
			{"struct", mustCompile(`^struct\s+(\w+)`)[0]},
			{"namespace", mustCompile(`^namespace\s+(\w+)`)[0]},
		},
	}}
}
func (cppHandler) Extensions() []string {
	return []string{".cc", ".cpp", ".cxx", ".hpp", ".hh", ".hxx"}
}

// csharpHandler claims .cs files. No spec-mandated symbol minimum, but the
// teacher carries a tree-sitter-c-sharp grammar and the pack shows C# in
// several repos, so symbol support is carried for free here.
type csharpHandler struct{ base }

func newCsharpHandler() *csharpHandler {
	return &csharpHandler{base{
		name: "csharp", languageID: "csharp", symbolLanguage: "c_sharp",
		spec: braceLanguageSeparators("csharp", `(?:class|interface|struct)\s`),
		blocks: []blockPattern{
			{"class", mustCompile(`class\s+(\w+)`)[0]},
			{"interface", mustCompile(`interface\s+(\w+)`)[0]},
		},
	}}
}
func (csharpHandler) Extensions() []string { return []string{".cs"} }

// rubyHandler claims .rb files.
type rubyHandler struct{ base }

func newRubyHandler() *rubyHandler {
	return &rubyHandler{base{
		name: "ruby", languageID: "ruby", symbolLanguage: "ruby",
		spec: indentedLanguageSeparators("ruby", `(?:def|class|module)\s`),
		blocks: []blockPattern{
			{"function", mustCompile(`^def\s+(?:self\.)?(\w+[?!=]?)`)[0]},
			{"class", mustCompile(`^class\s+(\w+)`)[0]},
			{"module", mustCompile(`^module\s+(\w+)`)[0]},
		},
	}}
}
func (rubyHandler) Extensions() []string { return []string{".rb"} }

// phpHandler claims .php files.
type phpHandler struct{ base }

func newPhpHandler() *phpHandler {
	return &phpHandler{base{
		name: "php", languageID: "php", symbolLanguage: "php",
		spec: braceLanguageSeparators("php", `function\s|class\s|interface\s`),
		blocks: []blockPattern{
			{"function", mustCompile(`function\s+(\w+)\s*\(`)[0]},
			{"class", mustCompile(`class\s+(\w+)`)[0]},
			{"interface", mustCompile(`interface\s+(\w+)`)[0]},
		},
	}}
}
func (phpHandler) Extensions() []string { return []string{".php"} }

// jsHandler claims .js/.jsx/.mjs/.cjs files.
type jsHandler struct{ base }

func newJsHandler() *jsHandler {
	return &jsHandler{base{
		name: "javascript", languageID: "javascript", symbolLanguage: "javascript",
		spec: braceLanguageSeparators("javascript", `(?:function|class)\s|const\s+\w+\s*=\s*(?:async\s*)?\(`),
		blocks: []blockPattern{
			{"function", mustCompile(`^(?:export\s+)?(?:async\s+)?function\s+(\w+)`)[0]},
			{"class", mustCompile(`^(?:export\s+)?class\s+(\w+)`)[0]},
			{"function", mustCompile(`^(?:export\s+)?const\s+(\w+)\s*=\s*(?:async\s*)?\(`)[0]},
		},
	}}
}
func (jsHandler) Extensions() []string { return []string{".js", ".jsx", ".mjs", ".cjs"} }

// tsHandler claims .ts/.tsx files.
type tsHandler struct{ base }

func newTsHandler() *tsHandler {
	return &tsHandler{base{
		name: "typescript", languageID: "typescript", symbolLanguage: "typescript",
		spec: braceLanguageSeparators("typescript", `(?:function|class|interface)\s|const\s+\w+\s*=\s*(?:async\s*)?\(`),
		blocks: []blockPattern{
			{"function", mustCompile(`^(?:export\s+)?(?:async\s+)?function\s+(\w+)`)[0]},
			{"class", mustCompile(`^(?:export\s+)?class\s+(\w+)`)[0]},
			{"interface", mustCompile(`^(?:export\s+)?interface\s+(\w+)`)[0]},
			{"function", mustCompile(`^(?:export\s+)?const\s+(\w+)\s*=\s*(?:async\s*)?\(`)[0]},
		},
	}}
}
func (tsHandler) Extensions() []string { return []string{".ts", ".tsx"} }

// zigHandler claims .zig files. Grounded on the teacher's community-grammar
// slot (tree-sitter-zig has no official binding, only the grammars-org one).
type zigHandler struct{ base }

func newZigHandler() *zigHandler {
	return &zigHandler{base{
		name: "zig", languageID: "zig", symbolLanguage: "zig",
		spec: braceLanguageSeparators("zig", `(?:pub\s+)?fn\s`),
		blocks: []blockPattern{
			{"function", mustCompile(`^(?:pub\s+)?fn\s+(\w+)`)[0]},
		},
	}}
}
func (zigHandler) Extensions() []string { return []string{".zig"} }

func init() {
	RegisterLanguage(newPythonHandler())
	RegisterLanguage(newGoHandler())
	RegisterLanguage(newRustHandler())
	RegisterLanguage(newJavaHandler())
	RegisterLanguage(newCHandler())
	RegisterLanguage(newCppHandler())
	RegisterLanguage(newCsharpHandler())
	RegisterLanguage(newRubyHandler())
	RegisterLanguage(newPhpHandler())
	RegisterLanguage(newJsHandler())
	RegisterLanguage(newTsHandler())
	RegisterLanguage(newZigHandler())
}
