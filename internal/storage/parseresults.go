package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cocosearch/cocosearch/internal/errs"
	"github.com/cocosearch/cocosearch/internal/types"
)

// WriteParseResults replaces the entire parse-health table for indexName in
// one transaction: TRUNCATE then batch-insert (spec.md §4.3 — a run's parse
// verdicts describe the run's snapshot of the tree, not a running history,
// so there is nothing to merge with what's already there).
func (s *Store) WriteParseResults(ctx context.Context, indexName string, verdicts []types.ParseVerdict) error {
	if !ValidateIndexName(indexName) {
		return errs.NewValidationError("index_name", indexName, nil)
	}
	table := ParseResultsTable(indexName)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return errs.NewInfrastructureError(infraComponent, infraRemedy, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s", table)); err != nil {
		return errs.NewInfrastructureError(infraComponent, infraRemedy, err)
	}

	rows := make([][]any, len(verdicts))
	for i, v := range verdicts {
		rows[i] = []any{v.FilePath, v.Language, string(v.ParseStatus), v.ErrorMessage}
	}
	if len(rows) > 0 {
		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{table},
			[]string{"file_path", "language", "parse_status", "error_message"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return errs.NewInfrastructureError(infraComponent, infraRemedy, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return errs.NewInfrastructureError(infraComponent, infraRemedy, err)
	}
	return nil
}

// ParseResults returns the stored parse verdicts for indexName, used by the
// `status`/`stats` CLI collaborators.
func (s *Store) ParseResults(ctx context.Context, indexName string) ([]types.ParseVerdict, error) {
	if !ValidateIndexName(indexName) {
		return nil, errs.NewValidationError("index_name", indexName, nil)
	}
	q := fmt.Sprintf(`SELECT file_path, language, parse_status, error_message FROM %s ORDER BY file_path`, ParseResultsTable(indexName))
	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, errs.NewInfrastructureError(infraComponent, infraRemedy, err)
	}
	defer rows.Close()

	var out []types.ParseVerdict
	for rows.Next() {
		var v types.ParseVerdict
		var status string
		if err := rows.Scan(&v.FilePath, &v.Language, &status, &v.ErrorMessage); err != nil {
			return nil, errs.NewInfrastructureError(infraComponent, infraRemedy, err)
		}
		v.ParseStatus = types.ParseStatus(status)
		out = append(out, v)
	}
	return out, rows.Err()
}
