// Package search implements the Hybrid Search Engine (C7): given a query it
// dispatches vector and (optionally) keyword retrieval, fuses the results
// with reciprocal rank fusion, applies post-filtering, expands context, and
// consults the query cache.
package search

import (
	"context"
	"sort"
	"sync"

	"github.com/cocosearch/cocosearch/internal/errs"
	"github.com/cocosearch/cocosearch/internal/logging"
	"github.com/cocosearch/cocosearch/internal/query"
	"github.com/cocosearch/cocosearch/internal/storage"
	"github.com/cocosearch/cocosearch/internal/types"
)

// Embedder is the slice of embedding.Embedder the engine needs: turning
// query text into a vector. Declared narrowly here rather than importing
// the embedding package's interface, so tests can supply a trivial fake.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Store is the slice of *storage.Store retrieval needs.
type Store interface {
	VectorSearch(ctx context.Context, indexName string, queryVec []float32, topK int, minScore float64, filter storage.RetrievalFilter) ([]storage.VectorHit, error)
	KeywordSearch(ctx context.Context, indexName, queryText string, topK int, filter storage.RetrievalFilter) ([]storage.KeywordHit, error)
	FetchChunks(ctx context.Context, indexName string, keys [][2]int, filenames []string) ([]storage.ChunkRow, error)
	ProbeFeatures(ctx context.Context, indexName string) (types.StorageFeatures, error)
	SymbolNames(ctx context.Context, indexName string, filter storage.RetrievalFilter) ([]string, error)
}

// Cache is the query cache (C9) surface the engine uses. A nil Cache on the
// Engine disables caching entirely (every call is a miss, inserts no-op).
type Cache interface {
	Get(indexName string, q types.Query, queryEmbedding []float32) ([]types.SearchResult, bool)
	Put(indexName string, q types.Query, queryEmbedding []float32, results []types.SearchResult)
}

// ContextExpander is the context expander (C8) surface the engine uses.
// A non-nil error means the file could not be read (e.g. deleted since
// indexing); per C8, the whole result is then dropped.
type ContextExpander interface {
	Expand(filePath string, startByte, endByte int, q types.Query) (before, after string, err error)
}

var _ Store = (*storage.Store)(nil)

// clearer is implemented by context expanders that hold a per-call file
// cache (C8's bounded file-content cache) needing an explicit reset once
// the outer search() call finishes. Optional: expanders that don't need
// it simply don't implement it.
type clearer interface {
	Clear()
}

// Engine drives one search() call end to end.
type Engine struct {
	Store    Store
	Embedder Embedder
	Cache    Cache   // nil disables caching
	Context  ContextExpander

	featuresMu sync.Mutex
	features   map[string]types.StorageFeatures
}

// NewEngine wires an Engine's collaborators.
func NewEngine(store Store, embedder Embedder, cache Cache, ctxExpander ContextExpander) *Engine {
	return &Engine{
		Store:    store,
		Embedder: embedder,
		Cache:    cache,
		Context:  ctxExpander,
		features: map[string]types.StorageFeatures{},
	}
}

// Search implements C7's ten-step pipeline.
func (e *Engine) Search(ctx context.Context, q types.Query) ([]types.SearchResult, error) {
	if c, ok := e.Context.(clearer); ok {
		defer c.Clear()
	}

	if !storage.ValidateIndexName(q.IndexName) {
		return nil, errs.NewValidationError("index_name", q.IndexName, nil)
	}
	if len(q.Text) > 10000 {
		return nil, errs.NewValidationError("query_text", q.Text, nil)
	}

	features, err := e.probeFeatures(ctx, q.IndexName)
	if err != nil {
		return nil, errs.NewInfrastructureError("storage", "verify the index exists", err)
	}

	useHybrid := query.ResolveUseHybrid(q.Text, q.UseHybrid)
	if useHybrid && !features.HasContentTSV {
		logging.Once("content_tsv_missing:"+q.IndexName, "index predates hybrid search; degrading to vector-only")
		useHybrid = false
	}

	if len(q.SymbolType) > 0 && !features.HasSymbolColumns {
		return nil, nil
	}

	// Step 1: exact cache probe needs the query embedding to also serve as
	// the semantic-cache key, so embed first even on what may become a hit.
	queryVec, err := e.Embedder.Embed(ctx, q.Text)
	if err != nil {
		return nil, errs.NewInfrastructureError("embedding", "check COCOSEARCH_OLLAMA_URL", err)
	}

	if e.Cache != nil && !q.NoCache {
		if hit, ok := e.Cache.Get(q.IndexName, q, queryVec); ok {
			return hit, nil
		}
	}

	filter := buildFilter(q.LanguageFilter, q.SymbolType, q.SymbolName)

	kV := q.Limit * 4
	if kV < 40 {
		kV = 40
	}

	retrieve := func(filter storage.RetrievalFilter) ([]fused, error) {
		var vectorHits []storage.VectorHit
		var keywordHits []storage.KeywordHit
		var vecErr, kwErr error
		var wg sync.WaitGroup

		wg.Add(1)
		go func() {
			defer wg.Done()
			vectorHits, vecErr = e.Store.VectorSearch(ctx, q.IndexName, queryVec, kV, q.MinScore, filter)
		}()

		if useHybrid {
			wg.Add(1)
			go func() {
				defer wg.Done()
				keywordHits, kwErr = e.Store.KeywordSearch(ctx, q.IndexName, q.Text, kV, filter)
			}()
		}
		wg.Wait()

		if vecErr != nil {
			return nil, errs.NewSearchError(q.Text, "vector retrieval failed", vecErr)
		}
		if kwErr != nil {
			logging.Once("keyword_search_failed:"+q.IndexName, "keyword retrieval failed; degrading to vector-only results")
			keywordHits = nil
		}

		vectorKeys := make([]chunkKey, len(vectorHits))
		for i, h := range vectorHits {
			vectorKeys[i] = chunkKey{Filename: h.Filename, StartByte: h.StartByte, EndByte: h.EndByte}
		}
		keywordKeys := make([]chunkKey, len(keywordHits))
		for i, h := range keywordHits {
			keywordKeys[i] = chunkKey{Filename: h.Filename, StartByte: h.StartByte, EndByte: h.EndByte}
		}
		return reciprocalRankFusion(vectorKeys, keywordKeys), nil
	}

	fusedList, err := retrieve(filter)
	if err != nil {
		return nil, err
	}

	// When an exact symbol_name glob comes back empty, fall back to the
	// closest-matching symbol names in the index (Jaro-Winkler similarity)
	// rather than reporting zero results for a near-miss typo.
	if len(fusedList) == 0 && q.SymbolName != "" {
		candidates, snErr := e.Store.SymbolNames(ctx, q.IndexName, filter)
		if snErr == nil {
			if matches := fuzzySymbolNameFallback(q.SymbolName, candidates); len(matches) > 0 {
				fallbackFilter := filter
				fallbackFilter.SymbolNameGlob = ""
				fallbackFilter.SymbolNames = matches
				if retried, rErr := retrieve(fallbackFilter); rErr == nil {
					fusedList = retried
				}
			}
		}
	}

	if ctx.Err() != nil {
		return nil, errs.NewSearchError(q.Text, "cancelled", errs.ErrCancelled)
	}

	if q.MinScore > 0 {
		filtered := fusedList[:0]
		for _, f := range fusedList {
			if f.Score >= q.MinScore {
				filtered = append(filtered, f)
			}
		}
		fusedList = filtered
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}
	if len(fusedList) > limit {
		fusedList = fusedList[:limit]
	}

	keys := make([][2]int, len(fusedList))
	filenames := make([]string, len(fusedList))
	for i, f := range fusedList {
		keys[i] = [2]int{f.Key.StartByte, f.Key.EndByte}
		filenames[i] = f.Key.Filename
	}
	rows, err := e.Store.FetchChunks(ctx, q.IndexName, keys, filenames)
	if err != nil {
		return nil, errs.NewSearchError(q.Text, "failed to hydrate results", err)
	}
	rowByKey := map[chunkKey]storage.ChunkRow{}
	for _, row := range rows {
		rowByKey[chunkKey{Filename: row.Filename, StartByte: row.StartByte, EndByte: row.EndByte}] = row
	}

	results := make([]types.SearchResult, 0, len(fusedList))
	for _, f := range fusedList {
		row, ok := rowByKey[f.Key]
		if !ok {
			continue // file deleted since indexing; drop per C8's missing-file rule
		}
		res := types.SearchResult{
			Filename:        row.Filename,
			StartByte:       row.StartByte,
			EndByte:         row.EndByte,
			Score:           f.Score,
			LanguageID:      row.LanguageID,
			BlockType:       row.BlockType,
			Hierarchy:       row.Hierarchy,
			SymbolType:      row.SymbolType,
			SymbolName:      row.SymbolName,
			SymbolSignature: row.SymbolSignature,
			VectorRank:      f.VectorRank,
			KeywordRank:     f.KeywordRank,
		}
		if e.Context != nil {
			before, after, cErr := e.Context.Expand(row.Filename, row.StartByte, row.EndByte, q)
			if cErr != nil {
				continue // file deleted since indexing; drop per C8's missing-file rule
			}
			res.ContextBefore = before
			res.ContextAfter = after
		}
		results = append(results, res)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].Filename != results[j].Filename {
			return results[i].Filename < results[j].Filename
		}
		return results[i].StartByte < results[j].StartByte
	})

	if e.Cache != nil && !q.NoCache {
		e.Cache.Put(q.IndexName, q, queryVec, results)
	}
	return results, nil
}

func (e *Engine) probeFeatures(ctx context.Context, indexName string) (types.StorageFeatures, error) {
	e.featuresMu.Lock()
	if f, ok := e.features[indexName]; ok {
		e.featuresMu.Unlock()
		return f, nil
	}
	e.featuresMu.Unlock()

	f, err := e.Store.ProbeFeatures(ctx, indexName)
	if err != nil {
		return types.StorageFeatures{}, err
	}
	e.featuresMu.Lock()
	e.features[indexName] = f
	e.featuresMu.Unlock()
	return f, nil
}
