package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cocosearch/cocosearch/internal/errs"
	"github.com/cocosearch/cocosearch/internal/logging"
)

const infraComponent = "storage"
const infraRemedy = "is PostgreSQL reachable at the configured DSN, with the pgvector extension installed?"

// Store is a thin wrapper over a pgx connection pool, scoped to a single
// PostgreSQL database holding one or more cocosearch indexes.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to dsn and returns a ready-to-use Store. The pool is opened
// lazily by pgx, so a bad DSN will only surface on first use unless Ping is
// also called.
func New(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errs.NewInfrastructureError(infraComponent, infraRemedy, err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, errs.NewInfrastructureError(infraComponent, infraRemedy, err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool's connections.
func (s *Store) Close() { s.pool.Close() }

// Ping verifies connectivity, used by the CLI's `status` collaborator.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return errs.NewInfrastructureError(infraComponent, infraRemedy, err)
	}
	return nil
}

// EnsureSchema creates the chunk and parse-results tables for indexName if
// they do not already exist, and is safe to call on every indexing run
// (spec.md §4.5: "schema setup is idempotent"). vectorDim must match the
// configured embedding endpoint's output dimension.
func (s *Store) EnsureSchema(ctx context.Context, indexName string, vectorDim int) error {
	if !ValidateIndexName(indexName) {
		return errs.NewValidationError("index_name", indexName, fmt.Errorf("must match %s", identifierPattern.String()))
	}
	if _, err := s.pool.Exec(ctx, schemaDDL(indexName, vectorDim)); err != nil {
		return errs.NewInfrastructureError(infraComponent, infraRemedy, err)
	}
	logging.L().Debug().Str("index", indexName).Int("dim", vectorDim).Msg("schema ensured")
	return nil
}

// DropIndex removes both tables for indexName (C10 teardown). Irreversible;
// callers are expected to have already confirmed with the operator.
func (s *Store) DropIndex(ctx context.Context, indexName string) error {
	if !ValidateIndexName(indexName) {
		return errs.NewValidationError("index_name", indexName, fmt.Errorf("must match %s", identifierPattern.String()))
	}
	q := fmt.Sprintf("DROP TABLE IF EXISTS %s; DROP TABLE IF EXISTS %s;",
		ChunksTable(indexName), ParseResultsTable(indexName))
	if _, err := s.pool.Exec(ctx, q); err != nil {
		return errs.NewInfrastructureError(infraComponent, infraRemedy, err)
	}
	return nil
}

// IndexExists reports whether indexName's chunk table is present.
func (s *Store) IndexExists(ctx context.Context, indexName string) (bool, error) {
	if !ValidateIndexName(indexName) {
		return false, errs.NewValidationError("index_name", indexName, fmt.Errorf("must match %s", identifierPattern.String()))
	}
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)`,
		ChunksTable(indexName),
	).Scan(&exists)
	if err != nil {
		return false, errs.NewInfrastructureError(infraComponent, infraRemedy, err)
	}
	return exists, nil
}
