package symbols

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_c "github.com/tree-sitter/tree-sitter-c/bindings/go"
	tree_sitter_csharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
	tree_sitter_zig "github.com/tree-sitter-grammars/tree-sitter-zig/bindings/go"
)

// LanguageFor resolves a cocosearch symbol-language name to its compiled
// tree-sitter grammar, for callers outside this package (the parse tracker
// shares this grammar set rather than keeping its own copy).
func LanguageFor(name string) *tree_sitter.Language { return languageFor(name) }

// languageFor resolves a cocosearch symbol-language name to its compiled
// tree-sitter grammar. Unknown names (and languages with no wired grammar)
// return nil, which the extractor treats as "no symbol support".
func languageFor(name string) *tree_sitter.Language {
	switch name {
	case "python":
		return tree_sitter.NewLanguage(tree_sitter_python.Language())
	case "javascript":
		return tree_sitter.NewLanguage(tree_sitter_javascript.Language())
	case "typescript":
		return tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
	case "go":
		return tree_sitter.NewLanguage(tree_sitter_go.Language())
	case "rust":
		return tree_sitter.NewLanguage(tree_sitter_rust.Language())
	case "java":
		return tree_sitter.NewLanguage(tree_sitter_java.Language())
	case "c":
		return tree_sitter.NewLanguage(tree_sitter_c.Language())
	case "cpp":
		return tree_sitter.NewLanguage(tree_sitter_cpp.Language())
	case "ruby":
		return tree_sitter.NewLanguage(tree_sitter_ruby.Language())
	case "php":
		return tree_sitter.NewLanguage(tree_sitter_php.LanguagePHP())
	case "c_sharp":
		return tree_sitter.NewLanguage(tree_sitter_csharp.Language())
	case "zig":
		return tree_sitter.NewLanguage(tree_sitter_zig.Language())
	default:
		return nil
	}
}

// registeredSpecs is the per-language query table. Query capture
// conventions: the whole definition node is captured as
// "definition.<function|method|class|interface>"; its identifier as
// "@name"; Go's receiver type (methods only) as "@receiver.name".
func registeredSpecs() map[string]langSpec {
	return map[string]langSpec{
		"python": {
			query: `
				(function_definition name: (identifier) @name) @definition.function
				(class_definition name: (identifier) @name) @definition.class
			`,
			classContainerKinds: []string{"class_definition"},
		},
		"javascript": {
			query: `
				(function_declaration name: (identifier) @name) @definition.function
				(method_definition name: (property_identifier) @name) @definition.method
				(class_declaration name: (identifier) @name) @definition.class
			`,
			classContainerKinds: []string{"class_declaration", "class"},
		},
		"typescript": {
			query: `
				(function_declaration name: (identifier) @name) @definition.function
				(method_definition name: (property_identifier) @name) @definition.method
				(class_declaration name: (type_identifier) @name) @definition.class
				(interface_declaration name: (type_identifier) @name) @definition.interface
			`,
			classContainerKinds: []string{"class_declaration", "class"},
		},
		"go": {
			query: `
				(function_declaration name: (identifier) @name) @definition.function
				(method_declaration
					receiver: (parameter_list (parameter_declaration type: [(pointer_type (type_identifier) @receiver.name) (type_identifier) @receiver.name]))
					name: (field_identifier) @name) @definition.method
				(type_spec name: (type_identifier) @name type: (interface_type)) @definition.interface
			`,
			goStyleReceiver: true,
		},
		"rust": {
			query: `
				(function_item name: (identifier) @name) @definition.function
				(trait_item name: (type_identifier) @name) @definition.interface
				(struct_item name: (type_identifier) @name) @definition.class
			`,
			classContainerKinds: []string{"impl_item", "trait_item"},
		},
		"java": {
			query: `
				(method_declaration name: (identifier) @name) @definition.method
				(class_declaration name: (identifier) @name) @definition.class
				(interface_declaration name: (identifier) @name) @definition.interface
			`,
			classContainerKinds: []string{"class_declaration", "interface_declaration"},
		},
		"c": {
			query: `
				(function_definition declarator: (function_declarator declarator: (identifier) @name)) @definition.function
				(struct_specifier name: (type_identifier) @name body: (field_declaration_list)) @definition.class
			`,
		},
		"cpp": {
			query: `
				(function_definition declarator: (function_declarator declarator: (identifier) @name)) @definition.function
				(function_definition declarator: (function_declarator declarator: (field_identifier) @name)) @definition.method
				(class_specifier name: (type_identifier) @name) @definition.class
				(struct_specifier name: (type_identifier) @name body: (field_declaration_list)) @definition.class
			`,
			classContainerKinds: []string{"class_specifier", "struct_specifier"},
		},
		"ruby": {
			query: `
				(method name: (identifier) @name) @definition.method
				(singleton_method name: (identifier) @name) @definition.method
				(class name: (constant) @name) @definition.class
				(module name: (constant) @name) @definition.class
			`,
			classContainerKinds: []string{"class", "module"},
		},
		"php": {
			query: `
				(function_definition name: (name) @name) @definition.function
				(method_declaration name: (name) @name) @definition.method
				(class_declaration name: (name) @name) @definition.class
				(interface_declaration name: (name) @name) @definition.interface
			`,
			classContainerKinds: []string{"class_declaration"},
		},
		"c_sharp": {
			query: `
				(method_declaration name: (identifier) @name) @definition.method
				(class_declaration name: (identifier) @name) @definition.class
				(interface_declaration name: (identifier) @name) @definition.interface
				(struct_declaration name: (identifier) @name) @definition.class
			`,
			classContainerKinds: []string{"class_declaration", "struct_declaration"},
		},
		"zig": {
			query: `
				(function_declaration (identifier) @name) @definition.function
			`,
		},
	}
}
