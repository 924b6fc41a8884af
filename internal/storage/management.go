package storage

import (
	"context"
	"strings"

	"github.com/cocosearch/cocosearch/internal/errs"
	"github.com/cocosearch/cocosearch/internal/types"
)

// chunksTablePrefix lets ListIndexes recover an index name from its
// chunk table name without needing a separate registry table.
const chunksTablePrefix = "codeindex_"

// ListIndexes enumerates every index present in the database by scanning
// information_schema.tables for cocosearch's chunk-table naming convention
// (spec.md §4.4), rather than maintaining a separate catalog table.
func (s *Store) ListIndexes(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT table_name FROM information_schema.tables WHERE table_name LIKE $1 ORDER BY table_name`,
		chunksTablePrefix+"%_chunks",
	)
	if err != nil {
		return nil, errs.NewInfrastructureError(infraComponent, infraRemedy, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var table string
		if err := rows.Scan(&table); err != nil {
			return nil, errs.NewInfrastructureError(infraComponent, infraRemedy, err)
		}
		if name, ok := indexNameFromChunksTable(table); ok {
			names = append(names, name)
		}
	}
	return names, rows.Err()
}

// indexNameFromChunksTable inverts ChunksTable: "codeindex_foo__foo_chunks"
// -> ("foo", true). Pure so it can be tested without a database.
func indexNameFromChunksTable(table string) (string, bool) {
	rest, ok := strings.CutPrefix(table, chunksTablePrefix)
	if !ok {
		return "", false
	}
	sep := strings.Index(rest, "__")
	if sep < 0 {
		return "", false
	}
	name := rest[:sep]
	if name == "" || !ValidateIndexName(name) {
		return "", false
	}
	if rest[sep+2:] != name+"_chunks" {
		return "", false
	}
	return name, true
}

// Stats aggregates one index's size and per-language/per-status counts for
// the `stats` CLI collaborator.
func (s *Store) Stats(ctx context.Context, indexName string) (types.IndexSummary, error) {
	if !ValidateIndexName(indexName) {
		return types.IndexSummary{}, errs.NewValidationError("index_name", indexName, nil)
	}
	chunks := ChunksTable(indexName)
	summary := types.IndexSummary{
		Name:           indexName,
		LanguageCounts: map[string]int{},
		ParseStatusCounts: map[types.ParseStatus]int{},
	}

	err := s.pool.QueryRow(ctx,
		"SELECT COUNT(*), COUNT(DISTINCT filename), pg_total_relation_size($1::regclass) FROM "+chunks,
		chunks,
	).Scan(&summary.ChunkCount, &summary.FileCount, &summary.SizeBytes)
	if err != nil {
		return types.IndexSummary{}, errs.NewInfrastructureError(infraComponent, infraRemedy, err)
	}

	langRows, err := s.pool.Query(ctx, "SELECT language_id, COUNT(*) FROM "+chunks+" GROUP BY language_id")
	if err != nil {
		return types.IndexSummary{}, errs.NewInfrastructureError(infraComponent, infraRemedy, err)
	}
	defer langRows.Close()
	for langRows.Next() {
		var lang string
		var count int
		if err := langRows.Scan(&lang, &count); err != nil {
			return types.IndexSummary{}, errs.NewInfrastructureError(infraComponent, infraRemedy, err)
		}
		summary.LanguageCounts[lang] = count
	}
	if err := langRows.Err(); err != nil {
		return types.IndexSummary{}, errs.NewInfrastructureError(infraComponent, infraRemedy, err)
	}

	statusRows, err := s.pool.Query(ctx, "SELECT parse_status, COUNT(*) FROM "+ParseResultsTable(indexName)+" GROUP BY parse_status")
	if err != nil {
		return types.IndexSummary{}, errs.NewInfrastructureError(infraComponent, infraRemedy, err)
	}
	defer statusRows.Close()
	for statusRows.Next() {
		var status string
		var count int
		if err := statusRows.Scan(&status, &count); err != nil {
			return types.IndexSummary{}, errs.NewInfrastructureError(infraComponent, infraRemedy, err)
		}
		summary.ParseStatusCounts[types.ParseStatus(status)] = count
	}
	return summary, statusRows.Err()
}
