package handlers

// shellHandler claims shell scripts. No tree-sitter grammar is wired for
// it, so parse tracking reports no_grammar rather than excluding it
// entirely the way textHandler's formats are excluded.
type shellHandler struct{ base }

func newShellHandler() *shellHandler {
	return &shellHandler{base{
		name: "shell", languageID: "shell",
		spec: indentedLanguageSeparators("shell", `(?:function\s+\w+|\w+\s*\(\))\s*\{`),
		blocks: []blockPattern{
			{"function", mustCompile(`^(?:function\s+)?(\w+)\s*\(\)\s*\{?$`)[0]},
		},
	}}
}
func (shellHandler) Extensions() []string { return []string{".sh", ".bash", ".zsh"} }

// cssHandler claims stylesheets.
type cssHandler struct{ base }

func newCssHandler() *cssHandler {
	return &cssHandler{base{
		name: "css", languageID: "css",
		spec: braceLanguageSeparators("css", `[.#]?[\w-]+(?:,\s*[.#]?[\w-]+)*\s`),
		blocks: []blockPattern{
			{"rule", mustCompile(`^([.#]?[\w-]+)`)[0]},
		},
	}}
}
func (cssHandler) Extensions() []string { return []string{".css", ".scss", ".less"} }

// htmlHandler claims markup templates.
type htmlHandler struct{ base }

func newHtmlHandler() *htmlHandler {
	return &htmlHandler{base{
		name: "html", languageID: "html",
		spec: SeparatorSpec{Language: "html", Boundaries: mustCompile(`\n<(?:div|section|article|header|footer|main)\b`, `\n\n+`, `\n`)},
	}}
}
func (htmlHandler) Extensions() []string { return []string{".html", ".htm"} }

// hclHandler claims Terraform/HCL configuration. Carried for the pack's
// infra-tooling examples even though spec.md's symbol minimum doesn't
// name it.
type hclHandler struct{ base }

func newHclHandler() *hclHandler {
	return &hclHandler{base{
		name: "hcl", languageID: "hcl",
		spec: braceLanguageSeparators("hcl", `(?:resource|variable|module|output|data)\s`),
		blocks: []blockPattern{
			{"block", mustCompile(`^(resource|variable|module|output|data)\s+"?([\w.]+)?`)[0]},
		},
	}}
}
func (hclHandler) Extensions() []string { return []string{".hcl", ".tf", ".tfvars"} }

// sqlHandler claims SQL migration/query files.
type sqlHandler struct{ base }

func newSqlHandler() *sqlHandler {
	return &sqlHandler{base{
		name: "sql", languageID: "sql",
		spec: SeparatorSpec{Language: "sql", Boundaries: mustCompile(`\n(?:CREATE|ALTER|DROP)\s`, `\n\n+`, `\n`)},
		blocks: []blockPattern{
			{"statement", mustCompile(`(?i)^(?:CREATE|ALTER|DROP)\s+(?:TABLE|INDEX|VIEW|FUNCTION)\s+(?:IF\s+(?:NOT\s+)?EXISTS\s+)?([\w."]+)`)[0]},
		},
	}}
}
func (sqlHandler) Extensions() []string { return []string{".sql"} }

func init() {
	RegisterLanguage(newShellHandler())
	RegisterLanguage(newCssHandler())
	RegisterLanguage(newHtmlHandler())
	RegisterLanguage(newHclHandler())
	RegisterLanguage(newSqlHandler())
}
