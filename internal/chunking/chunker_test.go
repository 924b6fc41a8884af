package chunking

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cocosearch/cocosearch/internal/handlers"
)

func TestSplitSmallContentIsOneSpan(t *testing.T) {
	content := "def foo():\n    return 1\n"
	spec := handlers.SeparatorSpec{Language: "python"}
	spans := Split(content, spec, Options{ChunkSize: 1000, ChunkOverlap: 50})
	require.Len(t, spans, 1)
	assert.Equal(t, 0, spans[0].Start)
	assert.Equal(t, len(content), spans[0].End)
}

func TestSplitRespectsChunkSizeWithNoBoundaries(t *testing.T) {
	content := strings.Repeat("a", 250)
	spec := handlers.SeparatorSpec{Language: "text"}
	spans := Split(content, spec, Options{ChunkSize: 100, ChunkOverlap: 0})
	require.Len(t, spans, 3)
	assert.Equal(t, Span{0, 100}, spans[0])
	assert.Equal(t, Span{100, 200}, spans[1])
	assert.Equal(t, Span{200, 250}, spans[2])
}

func TestSplitWithOverlapLeavesNoGaps(t *testing.T) {
	content := strings.Repeat("x", 60) + strings.Repeat("y", 60) + strings.Repeat("z", 60)
	spec := handlers.SeparatorSpec{Language: "text"}
	spans := Split(content, spec, Options{ChunkSize: 80, ChunkOverlap: 20})
	require.True(t, len(spans) >= 2)
	for i := 1; i < len(spans); i++ {
		assert.LessOrEqual(t, spans[i].Start, spans[i-1].End)
	}
}

func TestBuildPopulatesContentAndHash(t *testing.T) {
	content := "def getUserById(id):\n    return db.find(id)\n"
	chunk := Build("a.py", content, Span{0, len(content)})
	assert.Equal(t, "a.py", chunk.Filename)
	assert.Equal(t, content, chunk.ContentText)
	assert.Contains(t, chunk.ContentTSVInput, "get")
	assert.Contains(t, chunk.ContentTSVInput, "user")
	assert.NotEmpty(t, chunk.ContentHash)
}
