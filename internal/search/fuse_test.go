package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFusionPromotesDocumentPresentInBothLists(t *testing.T) {
	a := chunkKey{Filename: "a.go", StartByte: 0, EndByte: 10}
	b := chunkKey{Filename: "b.go", StartByte: 0, EndByte: 10}

	// a appears at rank 2 in vector and rank 1 in keyword; b appears only in
	// vector at rank 1.
	vector := []chunkKey{b, a}
	keyword := []chunkKey{a}

	out := reciprocalRankFusion(vector, keyword)
	var scoreA, scoreB float64
	for _, f := range out {
		switch f.Key {
		case a:
			scoreA = f.Score
		case b:
			scoreB = f.Score
		}
	}
	// a (present in both lists) must strictly beat b (present only in the
	// vector list at a better individual rank) — property 7.
	assert.Greater(t, scoreA, scoreB)
}

func TestFusionBreaksTiesByFilenameThenStartByte(t *testing.T) {
	a := chunkKey{Filename: "b.go", StartByte: 5, EndByte: 10}
	b := chunkKey{Filename: "a.go", StartByte: 5, EndByte: 10}
	c := chunkKey{Filename: "a.go", StartByte: 0, EndByte: 5}
	d := chunkKey{Filename: "c.go", StartByte: 0, EndByte: 5}

	// c and b tie at rank 1 of each list (same filename, so start_byte
	// decides); a and d tie at rank 2 (different filenames).
	out := reciprocalRankFusion([]chunkKey{c, a}, []chunkKey{b, d})
	assert.Equal(t, c, out[0].Key)
	assert.Equal(t, b, out[1].Key)
	assert.Equal(t, a, out[2].Key)
}
