// Package cache implements the query cache (C9): an exact-key LRU/TTL cache
// keyed on a canonical digest of the query, backed by a semantic fallback
// that reuses results for a sufficiently similar previous query embedding.
package cache

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cocosearch/cocosearch/internal/types"
)

// Cache implements search.Cache and indexing.Invalidator.
type Cache struct {
	cfg types.CacheConfig
	now func() time.Time

	mu      sync.Mutex
	entries map[string]*list.Element // exact key -> entry
	order   *list.List               // most-recently-used at front

	semMu     sync.Mutex
	semantic  map[string][]*semanticEntry // index_name -> candidates with matching non-text query shape
}

type entry struct {
	key       string
	indexName string
	embedding []float32
	results   []types.SearchResult
	expiresAt time.Time
}

// semanticEntry is a lighter record used only for cosine-similarity reuse;
// it shares storage with the corresponding exact entry's results slice.
type semanticEntry struct {
	shapeKey  string // canonical key with text excluded
	embedding []float32
	expiresAt time.Time
	entry     *entry
}

// New builds a Cache with the given configuration. A zero-value cfg.MaxEntries
// falls back to types.DefaultCacheConfig().
func New(cfg types.CacheConfig) *Cache {
	if cfg.MaxEntries <= 0 {
		cfg = types.DefaultCacheConfig()
	}
	return &Cache{
		cfg:      cfg,
		now:      time.Now,
		entries:  map[string]*list.Element{},
		order:    list.New(),
		semantic: map[string][]*semanticEntry{},
	}
}

// Get implements search.Cache: an exact-key hit is tried first, falling back
// to the best semantic match above the configured similarity threshold.
func (c *Cache) Get(indexName string, q types.Query, queryEmbedding []float32) ([]types.SearchResult, bool) {
	key := canonicalKey(indexName, q)

	c.mu.Lock()
	if elem, ok := c.entries[key]; ok {
		e := elem.Value.(*entry)
		if c.now().Before(e.expiresAt) {
			c.order.MoveToFront(elem)
			results := e.results
			c.mu.Unlock()
			return results, true
		}
		c.removeLocked(elem)
	}
	c.mu.Unlock()

	return c.semanticLookup(indexName, q, queryEmbedding)
}

// Put implements search.Cache, inserting both the exact-key entry and its
// semantic-lookup sibling, evicting the least-recently-used entry over
// capacity.
func (c *Cache) Put(indexName string, q types.Query, queryEmbedding []float32, results []types.SearchResult) {
	key := canonicalKey(indexName, q)
	e := &entry{
		key:       key,
		indexName: indexName,
		embedding: queryEmbedding,
		results:   results,
		expiresAt: c.now().Add(c.cfg.TTL),
	}

	c.mu.Lock()
	if elem, ok := c.entries[key]; ok {
		c.order.MoveToFront(elem)
		elem.Value = e
	} else {
		elem := c.order.PushFront(e)
		c.entries[key] = elem
		if c.order.Len() > c.cfg.MaxEntries {
			oldest := c.order.Back()
			if oldest != nil {
				c.removeLocked(oldest)
			}
		}
	}
	c.mu.Unlock()

	c.semMu.Lock()
	shape := shapeKey(q)
	c.semantic[indexName] = append(c.semantic[indexName], &semanticEntry{
		shapeKey:  shape,
		embedding: queryEmbedding,
		expiresAt: e.expiresAt,
		entry:     e,
	})
	c.semMu.Unlock()
}

// removeLocked removes elem from both the list and the key index, and
// purges any semantic-lookup entries pointing at it so eviction cannot be
// bypassed through the semantic path. Caller must hold c.mu.
func (c *Cache) removeLocked(elem *list.Element) {
	e := elem.Value.(*entry)
	c.order.Remove(elem)
	delete(c.entries, e.key)

	c.semMu.Lock()
	candidates := c.semantic[e.indexName]
	kept := candidates[:0]
	for _, cand := range candidates {
		if cand.entry != e {
			kept = append(kept, cand)
		}
	}
	c.semantic[e.indexName] = kept
	c.semMu.Unlock()
}

// semanticLookup finds the best same-shape (same filters/limit/etc, text
// excluded), same-index candidate whose embedding's cosine similarity to
// queryEmbedding clears the configured threshold (property 11).
func (c *Cache) semanticLookup(indexName string, q types.Query, queryEmbedding []float32) ([]types.SearchResult, bool) {
	shape := shapeKey(q)

	c.semMu.Lock()
	candidates := c.semantic[indexName]
	c.semMu.Unlock()
	if len(candidates) == 0 {
		return nil, false
	}

	now := c.now()
	var best *semanticEntry
	bestScore := c.cfg.SemanticSimilarity
	for _, cand := range candidates {
		if cand.shapeKey != shape || now.After(cand.expiresAt) {
			continue
		}
		score := cosineSimilarity(cand.embedding, queryEmbedding)
		if score >= bestScore {
			bestScore = score
			best = cand
		}
	}
	if best == nil {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.entries[best.entry.key]; ok {
		c.order.MoveToFront(elem)
	}
	return best.entry.results, true
}

// InvalidateIndex implements indexing.Invalidator: drops every cached entry
// (exact and semantic) belonging to indexName, called after a re-index.
func (c *Cache) InvalidateIndex(indexName string) {
	c.mu.Lock()
	for key, elem := range c.entries {
		if elem.Value.(*entry).indexName == indexName {
			c.order.Remove(elem)
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()

	c.semMu.Lock()
	delete(c.semantic, indexName)
	c.semMu.Unlock()
}

// canonicalKey hashes the fields property 10 names as the cache key:
// text, index_name, limit, min_score, use_hybrid, normalized language
// filter, sorted symbol types, and symbol name glob.
func canonicalKey(indexName string, q types.Query) string {
	return hashParts(q.Text, shapeKey(q))
}

// shapeKey canonicalizes every cacheable field except the query text, so
// semantic lookups can match "same filters, different phrasing" queries.
func shapeKey(q types.Query) string {
	langs := append([]string(nil), q.LanguageFilter...)
	sort.Strings(langs)
	symTypes := append([]string(nil), q.SymbolType...)
	sort.Strings(symTypes)

	useHybrid := "nil"
	if q.UseHybrid != nil {
		useHybrid = fmt.Sprintf("%v", *q.UseHybrid)
	}

	return strings.Join([]string{
		q.IndexName,
		fmt.Sprintf("limit=%d", q.Limit),
		fmt.Sprintf("min_score=%g", q.MinScore),
		"use_hybrid=" + useHybrid,
		"languages=" + strings.Join(langs, ","),
		"symbol_types=" + strings.Join(symTypes, ","),
		"symbol_name=" + q.SymbolName,
	}, "|")
}

func hashParts(text, shape string) string {
	h := sha256.New()
	h.Write([]byte(text))
	h.Write([]byte{0})
	h.Write([]byte(shape))
	return hex.EncodeToString(h.Sum(nil))
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
