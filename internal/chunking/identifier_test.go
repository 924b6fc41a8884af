package chunking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentifierSplitterSplit(t *testing.T) {
	s := NewIdentifierSplitter()

	tests := []struct {
		input    string
		expected []string
	}{
		{"simple", []string{"simple"}},
		{"camelCase", []string{"camel", "case"}},
		{"PascalCase", []string{"pascal", "case"}},
		{"getUserById", []string{"get", "user", "by", "id"}},
		{"HTTPServer", []string{"http", "server"}},
		{"snake_case_name", []string{"snake", "case", "name"}},
		{"kebab-case-name", []string{"kebab", "case", "name"}},
		{"SCREAMING_SNAKE", []string{"screaming", "snake"}},
		{"parseJSON", []string{"parse", "json"}},
		{"user2Factor", []string{"user", "2", "factor"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, s.Split(tt.input), "split(%q)", tt.input)
	}
}

func TestIdentifierSplitterEmpty(t *testing.T) {
	s := NewIdentifierSplitter()
	assert.Nil(t, s.Split(""))
}

func TestIdentifierSplitterCaches(t *testing.T) {
	s := NewIdentifierSplitter()
	first := s.Split("getUserById")
	second := s.Split("getUserById")
	assert.Equal(t, first, second)
}

func TestLooksLikeIdentifier(t *testing.T) {
	assert.True(t, LooksLikeIdentifier("getUserById"))
	assert.True(t, LooksLikeIdentifier("user_id"))
	assert.True(t, LooksLikeIdentifier("symbol-name"))
	assert.False(t, LooksLikeIdentifier("database"))
	assert.False(t, LooksLikeIdentifier("the"))
	assert.False(t, LooksLikeIdentifier(""))
}
