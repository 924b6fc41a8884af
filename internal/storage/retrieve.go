package storage

import (
	"context"
	"fmt"
	"strings"

	pgvector "github.com/pgvector/pgvector-go"

	"github.com/cocosearch/cocosearch/internal/errs"
)

// RetrievalFilter narrows a vector or keyword retrieval before ranking.
// Built by internal/search from a types.Query; storage never parses query
// syntax itself.
type RetrievalFilter struct {
	Languages      []string
	SymbolTypes    []string
	SymbolNameGlob string   // SQL LIKE pattern, already translated from the query's glob
	SymbolNames    []string // exact candidate set, used by the fuzzy-match fallback instead of SymbolNameGlob
}

func (f RetrievalFilter) whereClause(args *[]any, placeholderOffset int) string {
	clauses := []string{}
	next := func(v any) string {
		*args = append(*args, v)
		return fmt.Sprintf("$%d", placeholderOffset+len(*args))
	}
	if len(f.Languages) > 0 {
		clauses = append(clauses, fmt.Sprintf("language_id = ANY(%s)", next(f.Languages)))
	}
	if len(f.SymbolTypes) > 0 {
		clauses = append(clauses, fmt.Sprintf("symbol_type = ANY(%s)", next(f.SymbolTypes)))
	}
	if len(f.SymbolNames) > 0 {
		clauses = append(clauses, fmt.Sprintf("symbol_name = ANY(%s)", next(f.SymbolNames)))
	} else if f.SymbolNameGlob != "" {
		clauses = append(clauses, fmt.Sprintf("symbol_name LIKE %s", next(f.SymbolNameGlob)))
	}
	if len(clauses) == 0 {
		return "TRUE"
	}
	return strings.Join(clauses, " AND ")
}

// SymbolNames returns every distinct non-null symbol_name in the index,
// narrowed by the filter's Languages/SymbolTypes only (its own
// SymbolNameGlob/SymbolNames are ignored — this is the candidate pool a
// fuzzy-match fallback scores against after an exact glob match comes back
// empty).
func (s *Store) SymbolNames(ctx context.Context, indexName string, filter RetrievalFilter) ([]string, error) {
	if !ValidateIndexName(indexName) {
		return nil, errs.NewValidationError("index_name", indexName, nil)
	}
	narrowed := RetrievalFilter{Languages: filter.Languages, SymbolTypes: filter.SymbolTypes}
	args := []any{}
	where := narrowed.whereClause(&args, 0)

	q := fmt.Sprintf(`
SELECT DISTINCT symbol_name
FROM %s
WHERE symbol_name IS NOT NULL AND %s`, ChunksTable(indexName), where)

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, errs.NewInfrastructureError(infraComponent, infraRemedy, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, errs.NewInfrastructureError(infraComponent, infraRemedy, err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// VectorHit and KeywordHit are the raw rows a retriever hands back to
// internal/search for RRF fusion; storage does no ranking math of its own
// beyond what Postgres computes in the ORDER BY.
type VectorHit struct {
	Filename   string
	StartByte  int
	EndByte    int
	Distance   float64
}

type KeywordHit struct {
	Filename  string
	StartByte int
	EndByte   int
	Rank      float64
}

// VectorSearch returns the topK nearest chunks to queryVec by cosine
// distance. minScore, when positive, is applied at the SQL level as
// 1 - distance >= minScore (spec.md's per-retriever threshold, distinct
// from the post-fusion min_score check applied to RRF scores).
func (s *Store) VectorSearch(ctx context.Context, indexName string, queryVec []float32, topK int, minScore float64, filter RetrievalFilter) ([]VectorHit, error) {
	if !ValidateIndexName(indexName) {
		return nil, errs.NewValidationError("index_name", indexName, nil)
	}
	args := []any{pgvector.NewVector(queryVec)}
	where := filter.whereClause(&args, 1)
	if minScore > 0 {
		args = append(args, minScore)
		where += fmt.Sprintf(" AND (1 - (embedding <=> $1)) >= $%d", len(args))
	}
	args = append(args, topK)

	q := fmt.Sprintf(`
SELECT filename, start_byte, end_byte, embedding <=> $1 AS distance
FROM %s
WHERE %s
ORDER BY embedding <=> $1
LIMIT $%d`, ChunksTable(indexName), where, len(args))

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, errs.NewInfrastructureError(infraComponent, infraRemedy, err)
	}
	defer rows.Close()

	var hits []VectorHit
	for rows.Next() {
		var h VectorHit
		if err := rows.Scan(&h.Filename, &h.StartByte, &h.EndByte, &h.Distance); err != nil {
			return nil, errs.NewInfrastructureError(infraComponent, infraRemedy, err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// KeywordSearch returns the topK chunks best matching queryText's
// plainto_tsquery against content_tsv.
func (s *Store) KeywordSearch(ctx context.Context, indexName, queryText string, topK int, filter RetrievalFilter) ([]KeywordHit, error) {
	if !ValidateIndexName(indexName) {
		return nil, errs.NewValidationError("index_name", indexName, nil)
	}
	args := []any{queryText}
	where := filter.whereClause(&args, 1)
	args = append(args, topK)

	q := fmt.Sprintf(`
SELECT filename, start_byte, end_byte, ts_rank_cd(content_tsv, plainto_tsquery('simple', $1)) AS rank
FROM %s
WHERE content_tsv @@ plainto_tsquery('simple', $1) AND %s
ORDER BY rank DESC
LIMIT $%d`, ChunksTable(indexName), where, len(args))

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, errs.NewInfrastructureError(infraComponent, infraRemedy, err)
	}
	defer rows.Close()

	var hits []KeywordHit
	for rows.Next() {
		var h KeywordHit
		if err := rows.Scan(&h.Filename, &h.StartByte, &h.EndByte, &h.Rank); err != nil {
			return nil, errs.NewInfrastructureError(infraComponent, infraRemedy, err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// ChunkRow is a fully-hydrated chunk row, fetched by (filename, start_byte,
// end_byte) after fusion has already decided which chunks to return.
type ChunkRow struct {
	Filename        string
	StartByte       int
	EndByte         int
	LanguageID      string
	BlockType       string
	Hierarchy       string
	SymbolType      *string
	SymbolName      *string
	SymbolSignature *string
}

// FetchChunks hydrates the metadata search needs to build SearchResult for
// each (filename, start_byte, end_byte) key fusion selected. keys[i] is
// {start_byte, end_byte} for filenames[i].
func (s *Store) FetchChunks(ctx context.Context, indexName string, keys [][2]int, filenames []string) ([]ChunkRow, error) {
	if !ValidateIndexName(indexName) {
		return nil, errs.NewValidationError("index_name", indexName, nil)
	}
	if len(keys) == 0 {
		return nil, nil
	}
	filenameArr := make([]string, len(keys))
	startArr := make([]int, len(keys))
	endArr := make([]int, len(keys))
	for i, k := range keys {
		filenameArr[i] = filenames[i]
		startArr[i] = k[0]
		endArr[i] = k[1]
	}

	q := fmt.Sprintf(`
SELECT c.filename, c.start_byte, c.end_byte, c.language_id, c.block_type, c.hierarchy,
       c.symbol_type, c.symbol_name, c.symbol_signature
FROM %s c
JOIN UNNEST($1::text[], $2::int[], $3::int[]) AS k(filename, start_byte, end_byte)
  ON c.filename = k.filename AND c.start_byte = k.start_byte AND c.end_byte = k.end_byte`,
		ChunksTable(indexName))

	rows, err := s.pool.Query(ctx, q, filenameArr, startArr, endArr)
	if err != nil {
		return nil, errs.NewInfrastructureError(infraComponent, infraRemedy, err)
	}
	defer rows.Close()

	var out []ChunkRow
	for rows.Next() {
		var r ChunkRow
		if err := rows.Scan(&r.Filename, &r.StartByte, &r.EndByte, &r.LanguageID, &r.BlockType, &r.Hierarchy,
			&r.SymbolType, &r.SymbolName, &r.SymbolSignature); err != nil {
			return nil, errs.NewInfrastructureError(infraComponent, infraRemedy, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
