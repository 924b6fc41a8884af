package storage

import (
	"context"
	"fmt"

	pgvector "github.com/pgvector/pgvector-go"

	"github.com/cocosearch/cocosearch/internal/errs"
	"github.com/cocosearch/cocosearch/internal/types"
)

// UpsertChunk inserts or replaces one chunk, keyed by (filename, start_byte,
// end_byte). content_tsv is derived automatically by the generated column;
// callers only ever write content_tsv_input (spec.md §4.4).
func (s *Store) UpsertChunk(ctx context.Context, indexName string, c types.Chunk) error {
	if !ValidateIndexName(indexName) {
		return errs.NewValidationError("index_name", indexName, nil)
	}
	q := fmt.Sprintf(`
INSERT INTO %s (
	filename, start_byte, end_byte, content_text, content_tsv_input, embedding,
	language_id, block_type, hierarchy, symbol_type, symbol_name, symbol_signature, content_hash
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
ON CONFLICT (filename, start_byte, end_byte) DO UPDATE SET
	content_text      = EXCLUDED.content_text,
	content_tsv_input = EXCLUDED.content_tsv_input,
	embedding         = EXCLUDED.embedding,
	language_id       = EXCLUDED.language_id,
	block_type        = EXCLUDED.block_type,
	hierarchy         = EXCLUDED.hierarchy,
	symbol_type       = EXCLUDED.symbol_type,
	symbol_name       = EXCLUDED.symbol_name,
	symbol_signature  = EXCLUDED.symbol_signature,
	content_hash      = EXCLUDED.content_hash;
`, ChunksTable(indexName))

	_, err := s.pool.Exec(ctx, q,
		c.Filename, c.StartByte, c.EndByte, c.ContentText, c.ContentTSVInput, pgvector.NewVector(c.Embedding),
		c.LanguageID, c.BlockType, c.Hierarchy, c.SymbolType, c.SymbolName, c.SymbolSignature, c.ContentHash,
	)
	if err != nil {
		return errs.NewInfrastructureError(infraComponent, infraRemedy, err)
	}
	return nil
}

// DeleteOrphans removes every chunk row for indexName whose filename is not
// in liveFiles — the cleanup step after a directory scan that may have
// deleted or renamed files since the last run (spec.md §4.3 "incremental
// indexing").
func (s *Store) DeleteOrphans(ctx context.Context, indexName string, liveFiles []string) (int, error) {
	if !ValidateIndexName(indexName) {
		return 0, errs.NewValidationError("index_name", indexName, nil)
	}
	q := fmt.Sprintf(`DELETE FROM %s WHERE NOT (filename = ANY($1))`, ChunksTable(indexName))
	tag, err := s.pool.Exec(ctx, q, liveFiles)
	if err != nil {
		return 0, errs.NewInfrastructureError(infraComponent, infraRemedy, err)
	}
	return int(tag.RowsAffected()), nil
}

// ContentHashes returns the current content_hash for every chunk of
// filename, used by the indexer to decide whether a file needs re-chunking
// at all before doing any parse/embed work.
func (s *Store) ContentHashes(ctx context.Context, indexName, filename string) (map[string]string, error) {
	if !ValidateIndexName(indexName) {
		return nil, errs.NewValidationError("index_name", indexName, nil)
	}
	q := fmt.Sprintf(`SELECT start_byte || ':' || end_byte, content_hash FROM %s WHERE filename = $1`, ChunksTable(indexName))
	rows, err := s.pool.Query(ctx, q, filename)
	if err != nil {
		return nil, errs.NewInfrastructureError(infraComponent, infraRemedy, err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var span, hash string
		if err := rows.Scan(&span, &hash); err != nil {
			return nil, errs.NewInfrastructureError(infraComponent, infraRemedy, err)
		}
		out[span] = hash
	}
	return out, rows.Err()
}

// DeleteFile removes every chunk belonging to filename, used when a file is
// removed from the scanned tree entirely.
func (s *Store) DeleteFile(ctx context.Context, indexName, filename string) error {
	if !ValidateIndexName(indexName) {
		return errs.NewValidationError("index_name", indexName, nil)
	}
	q := fmt.Sprintf(`DELETE FROM %s WHERE filename = $1`, ChunksTable(indexName))
	_, err := s.pool.Exec(ctx, q, filename)
	if err != nil {
		return errs.NewInfrastructureError(infraComponent, infraRemedy, err)
	}
	return nil
}

// DeleteStaleSpans removes filename's chunk rows whose (start_byte, end_byte)
// key is not in liveSpans. The indexer upserts by key, which refreshes or
// adds rows for the current chunking of a file but never removes rows left
// behind when the file's chunk boundaries shift between runs (a changed
// chunk_size/overlap setting, or an edit that moves a separator) — this is
// the cleanup step for that case, run per file rather than waiting for
// DeleteOrphans' end-of-run whole-file sweep. An empty liveSpans means the
// file produced no chunks at all this run, equivalent to DeleteFile.
func (s *Store) DeleteStaleSpans(ctx context.Context, indexName, filename string, liveSpans [][2]int) (int, error) {
	if !ValidateIndexName(indexName) {
		return 0, errs.NewValidationError("index_name", indexName, nil)
	}
	if len(liveSpans) == 0 {
		if err := s.DeleteFile(ctx, indexName, filename); err != nil {
			return 0, err
		}
		return 0, nil
	}

	startArr := make([]int, len(liveSpans))
	endArr := make([]int, len(liveSpans))
	for i, span := range liveSpans {
		startArr[i] = span[0]
		endArr[i] = span[1]
	}

	q := fmt.Sprintf(`
DELETE FROM %[1]s c
WHERE c.filename = $1
  AND NOT EXISTS (
    SELECT 1 FROM UNNEST($2::int[], $3::int[]) AS k(start_byte, end_byte)
    WHERE k.start_byte = c.start_byte AND k.end_byte = c.end_byte
  )`, ChunksTable(indexName))

	tag, err := s.pool.Exec(ctx, q, filename, startArr, endArr)
	if err != nil {
		return 0, errs.NewInfrastructureError(infraComponent, infraRemedy, err)
	}
	return int(tag.RowsAffected()), nil
}
