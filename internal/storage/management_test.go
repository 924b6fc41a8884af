package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexNameFromChunksTable(t *testing.T) {
	name, ok := indexNameFromChunksTable("codeindex_myrepo__myrepo_chunks")
	assert.True(t, ok)
	assert.Equal(t, "myrepo", name)

	_, ok = indexNameFromChunksTable("codeindex_myrepo__otherrepo_chunks")
	assert.False(t, ok)

	_, ok = indexNameFromChunksTable("some_other_table")
	assert.False(t, ok)

	_, ok = indexNameFromChunksTable("codeindex___chunks")
	assert.False(t, ok)
}
