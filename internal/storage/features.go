package storage

import (
	"context"

	"github.com/cocosearch/cocosearch/internal/errs"
	"github.com/cocosearch/cocosearch/internal/types"
)

// ProbeFeatures inspects indexName's chunk table and reports which optional
// columns it has, so callers built against an older schema (pre-symbol
// columns, say) degrade gracefully instead of erroring. Cached by the
// caller — this issues one round trip per call; the search engine calls it
// once per index, on that index's first query.
func (s *Store) ProbeFeatures(ctx context.Context, indexName string) (types.StorageFeatures, error) {
	if !ValidateIndexName(indexName) {
		return types.StorageFeatures{}, errs.NewValidationError("index_name", indexName, nil)
	}
	rows, err := s.pool.Query(ctx,
		`SELECT column_name FROM information_schema.columns WHERE table_name = $1`,
		ChunksTable(indexName),
	)
	if err != nil {
		return types.StorageFeatures{}, errs.NewInfrastructureError(infraComponent, infraRemedy, err)
	}
	defer rows.Close()

	cols := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return types.StorageFeatures{}, errs.NewInfrastructureError(infraComponent, infraRemedy, err)
		}
		cols[name] = true
	}
	if err := rows.Err(); err != nil {
		return types.StorageFeatures{}, errs.NewInfrastructureError(infraComponent, infraRemedy, err)
	}

	return types.StorageFeatures{
		HasSymbolColumns: cols["symbol_type"] && cols["symbol_name"] && cols["symbol_signature"],
		HasContentTSV:    cols["content_tsv"],
	}, nil
}
