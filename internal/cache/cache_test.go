package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cocosearch/cocosearch/internal/types"
)

func testCache(t *testing.T, ttl time.Duration, maxEntries int) (*Cache, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Unix(0, 0)}
	c := New(types.CacheConfig{MaxEntries: maxEntries, TTL: ttl, SemanticSimilarity: 0.92})
	c.now = clock.Now
	return c, clock
}

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

// TestGetPutRoundTripsOnIdenticalQuery grounds property 5/10: an identical
// query (same canonical key) is served from cache.
func TestGetPutRoundTripsOnIdenticalQuery(t *testing.T) {
	c, _ := testCache(t, time.Hour, 10)
	q := types.Query{Text: "parse tree", IndexName: "proj", Limit: 5}
	want := []types.SearchResult{{Filename: "a.py"}}

	_, ok := c.Get("proj", q, []float32{1, 0, 0})
	require.False(t, ok)

	c.Put("proj", q, []float32{1, 0, 0}, want)

	got, ok := c.Get("proj", q, []float32{1, 0, 0})
	require.True(t, ok)
	assert.Equal(t, want, got)
}

// TestGetMissesAfterTTLExpires grounds the TTL half of C9.
func TestGetMissesAfterTTLExpires(t *testing.T) {
	c, clock := testCache(t, time.Minute, 10)
	q := types.Query{Text: "x", IndexName: "proj"}
	c.Put("proj", q, []float32{1, 0}, []types.SearchResult{{Filename: "a.py"}})

	clock.Advance(2 * time.Minute)

	_, ok := c.Get("proj", q, []float32{1, 0})
	assert.False(t, ok)
}

// TestSemanticLookupReusesSimilarEmbedding grounds property 11: a
// differently-worded query with the same filters and a near-identical
// embedding (cosine similarity above threshold) reuses the cached result.
func TestSemanticLookupReusesSimilarEmbedding(t *testing.T) {
	c, _ := testCache(t, time.Hour, 10)
	q1 := types.Query{Text: "parse a file", IndexName: "proj", Limit: 5}
	q2 := types.Query{Text: "read and parse a document", IndexName: "proj", Limit: 5}
	want := []types.SearchResult{{Filename: "parser.go"}}

	c.Put("proj", q1, []float32{1, 0, 0}, want)

	got, ok := c.Get("proj", q2, []float32{0.999, 0.01, 0})
	require.True(t, ok)
	assert.Equal(t, want, got)
}

// TestSemanticLookupRejectsDissimilarEmbedding ensures similarity below
// threshold does not spuriously reuse results.
func TestSemanticLookupRejectsDissimilarEmbedding(t *testing.T) {
	c, _ := testCache(t, time.Hour, 10)
	q1 := types.Query{Text: "parse a file", IndexName: "proj", Limit: 5}
	q2 := types.Query{Text: "completely unrelated topic", IndexName: "proj", Limit: 5}
	c.Put("proj", q1, []float32{1, 0, 0}, []types.SearchResult{{Filename: "parser.go"}})

	_, ok := c.Get("proj", q2, []float32{0, 1, 0})
	assert.False(t, ok)
}

// TestCanonicalKeyDiffersOnFilterShape grounds property 10: two queries
// with the same text but different symbol_type filters must not collide.
func TestCanonicalKeyDiffersOnFilterShape(t *testing.T) {
	a := types.Query{Text: "handler", IndexName: "proj", SymbolType: []string{"class"}}
	b := types.Query{Text: "handler", IndexName: "proj", SymbolType: []string{"function"}}
	assert.NotEqual(t, canonicalKey("proj", a), canonicalKey("proj", b))
}

// TestCanonicalKeyIgnoresSymbolTypeOrder grounds the "sorted(symbol_type)"
// normalization.
func TestCanonicalKeyIgnoresSymbolTypeOrder(t *testing.T) {
	a := types.Query{Text: "handler", IndexName: "proj", SymbolType: []string{"class", "function"}}
	b := types.Query{Text: "handler", IndexName: "proj", SymbolType: []string{"function", "class"}}
	assert.Equal(t, canonicalKey("proj", a), canonicalKey("proj", b))
}

// TestInvalidateIndexDropsOnlyThatIndex grounds invalidation by index_name.
func TestInvalidateIndexDropsOnlyThatIndex(t *testing.T) {
	c, _ := testCache(t, time.Hour, 10)
	qA := types.Query{Text: "x", IndexName: "a"}
	qB := types.Query{Text: "x", IndexName: "b"}
	c.Put("a", qA, []float32{1, 0}, []types.SearchResult{{Filename: "a.py"}})
	c.Put("b", qB, []float32{1, 0}, []types.SearchResult{{Filename: "b.py"}})

	c.InvalidateIndex("a")

	_, ok := c.Get("a", qA, []float32{1, 0})
	assert.False(t, ok)
	_, ok = c.Get("b", qB, []float32{1, 0})
	assert.True(t, ok)
}

// TestPutEvictsLeastRecentlyUsedOverCapacity grounds the LRU eviction half
// of C9, mirroring the teacher's LRUCache behavior.
func TestPutEvictsLeastRecentlyUsedOverCapacity(t *testing.T) {
	c, _ := testCache(t, time.Hour, 2)
	qA := types.Query{Text: "a", IndexName: "proj"}
	qB := types.Query{Text: "b", IndexName: "proj"}
	qC := types.Query{Text: "c", IndexName: "proj"}

	c.Put("proj", qA, []float32{1, 0, 0}, []types.SearchResult{{Filename: "a.py"}})
	c.Put("proj", qB, []float32{0, 1, 0}, []types.SearchResult{{Filename: "b.py"}})
	// Touch a so it becomes most-recently-used, leaving b as the eviction
	// candidate.
	_, _ = c.Get("proj", qA, []float32{1, 0, 0})
	c.Put("proj", qC, []float32{0, 0, 1}, []types.SearchResult{{Filename: "c.py"}})

	_, ok := c.Get("proj", qA, []float32{1, 0, 0})
	assert.True(t, ok)
	_, ok = c.Get("proj", qC, []float32{0, 0, 1})
	assert.True(t, ok)
}
