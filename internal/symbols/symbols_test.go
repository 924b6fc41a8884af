package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPythonFunction(t *testing.T) {
	e := NewExtractor()
	sym := e.Extract("python", "def foo(): pass")
	require.NotNil(t, sym)
	assert.Equal(t, "function", sym.Type)
	assert.Equal(t, "foo", sym.Name)
	assert.Equal(t, "def foo():", sym.Signature)
}

func TestExtractPythonClassOutranksNestedMethod(t *testing.T) {
	e := NewExtractor()
	sym := e.Extract("python", "class Greeter:\n    def hello(self):\n        return \"hi\"\n")
	require.NotNil(t, sym)
	assert.Equal(t, "class", sym.Type)
	assert.Equal(t, "Greeter", sym.Name)
}

func TestExtractGoMethodQualifiesByReceiver(t *testing.T) {
	e := NewExtractor()
	sym := e.Extract("go", "func (s *Server) Start() error {\n\treturn nil\n}\n")
	require.NotNil(t, sym)
	assert.Equal(t, "method", sym.Type)
	assert.Equal(t, "Server.Start", sym.Name)
}

func TestExtractUnsupportedLanguageReturnsNil(t *testing.T) {
	e := NewExtractor()
	assert.Nil(t, e.Extract("markdown", "# hello"))
}

func TestExtractMalformedSourceDoesNotPanic(t *testing.T) {
	e := NewExtractor()
	sym := e.Extract("python", "def (((: : broken ; ; ;")
	_ = sym // no panic on malformed input is the contract; a found symbol is acceptable too.
}

func TestSupportsLanguage(t *testing.T) {
	e := NewExtractor()
	for _, lang := range []string{"python", "javascript", "typescript", "go", "rust", "java", "c", "cpp", "ruby", "php"} {
		assert.True(t, e.SupportsLanguage(lang), lang)
	}
	assert.False(t, e.SupportsLanguage("text"))
}
