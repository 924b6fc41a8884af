// Package indexing implements the Index Pipeline (C4): it drives a full or
// incremental indexing run over a codebase, wiring together the handler
// registry (C1), symbol extractor (C2), parse tracker (C3) and storage (C5).
package indexing

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/cocosearch/cocosearch/internal/chunking"
	"github.com/cocosearch/cocosearch/internal/config"
	"github.com/cocosearch/cocosearch/internal/embedding"
	"github.com/cocosearch/cocosearch/internal/errs"
	"github.com/cocosearch/cocosearch/internal/handlers"
	"github.com/cocosearch/cocosearch/internal/logging"
	"github.com/cocosearch/cocosearch/internal/parsetrack"
	"github.com/cocosearch/cocosearch/internal/storage"
	"github.com/cocosearch/cocosearch/internal/symbols"
	"github.com/cocosearch/cocosearch/internal/types"
)

// Invalidator is the subset of the query cache (C9) the pipeline needs at
// the end of a run: dropping every entry tagged with this index_name.
// Defined here rather than imported so indexing does not depend on cache.
type Invalidator interface {
	InvalidateIndex(indexName string)
}

// chunkStore is the slice of *storage.Store the pipeline depends on. Kept
// narrow (rather than depending on *storage.Store directly) so the pipeline
// can be exercised with a fake in tests without a live Postgres connection.
type chunkStore interface {
	Ping(ctx context.Context) error
	EnsureSchema(ctx context.Context, indexName string, vectorDim int) error
	ContentHashes(ctx context.Context, indexName, filename string) (map[string]string, error)
	UpsertChunk(ctx context.Context, indexName string, c types.Chunk) error
	DeleteStaleSpans(ctx context.Context, indexName, filename string, liveSpans [][2]int) (int, error)
	DeleteOrphans(ctx context.Context, indexName string, liveFiles []string) (int, error)
	WriteParseResults(ctx context.Context, indexName string, verdicts []types.ParseVerdict) error
}

var _ chunkStore = (*storage.Store)(nil)

// Runner drives one indexing run. Its dependencies are constructed once per
// process and reused across runs (registry, extractor, embedder, store),
// matching the "single process-wide pool" stance of C5.
type Runner struct {
	Registry *handlers.Registry
	Symbols  *symbols.Extractor
	Embedder embedding.Embedder
	Store    chunkStore
	Cache    Invalidator // nil is fine: no cache wired yet
	Workers  int         // bounds concurrent file pipelines
	InFlight int         // bounds concurrent embedding calls, the scarce resource
}

// NewRunner wires the pipeline's collaborators with sane defaults for the
// two concurrency bounds (spec.md §4.4: "bound by both a worker count and
// an in-flight-embeddings count").
func NewRunner(registry *handlers.Registry, extractor *symbols.Extractor, embedder embedding.Embedder, store *storage.Store) *Runner {
	return &Runner{
		Registry: registry,
		Symbols:  extractor,
		Embedder: embedder,
		Store:    store,
		Workers:  8,
		InFlight: 4,
	}
}

// Run executes steps 1-9 of the index pipeline against codebasePath,
// producing a RunSummary. Fatal errors (storage/embedding unreachable) are
// returned; per-file errors are logged and the file is skipped.
func (r *Runner) Run(ctx context.Context, codebasePath, indexName string, cfg *config.Config) (types.RunSummary, error) {
	start := time.Now()
	summary := types.RunSummary{IndexName: indexName}

	if !storage.ValidateIndexName(indexName) {
		return summary, errs.NewValidationError("index_name", indexName, fmt.Errorf("must match ^[a-z][a-z0-9_]*$"))
	}

	if err := r.preflight(ctx); err != nil {
		return summary, err
	}

	dim, err := r.Embedder.Dimension(ctx)
	if err != nil {
		return summary, errs.NewInfrastructureError("embedding", "check COCOSEARCH_OLLAMA_URL and that the model is pulled", err)
	}
	if err := r.Store.EnsureSchema(ctx, indexName, dim); err != nil {
		return summary, errs.NewInfrastructureError("storage", "check COCOSEARCH_DATABASE_URL and database permissions", err)
	}

	scanner := newScanner(codebasePath, cfg.Indexing)
	files, err := scanner.Scan()
	if err != nil {
		return summary, errs.NewInfrastructureError("storage", "verify codebase path is readable", err)
	}
	summary.FilesScanned = len(files)

	opts := chunking.Options{ChunkSize: cfg.Indexing.ChunkSize, ChunkOverlap: cfg.Indexing.ChunkOverlap}

	var (
		mu        sync.Mutex
		verdicts  []types.ParseVerdict
		liveFiles = make([]string, 0, len(files))
	)
	tracker := parsetrack.NewTracker(symbols.LanguageFor)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Workers)
	embedSem := semaphore.NewWeighted(int64(r.InFlight))

	for _, f := range files {
		f := f
		g.Go(func() error {
			mu.Lock()
			liveFiles = append(liveFiles, f.RelPath)
			mu.Unlock()

			content, err := os.ReadFile(f.AbsPath)
			if err != nil {
				logging.L().Warn().Err(err).Str("file", f.RelPath).Msg("skipping unreadable file")
				mu.Lock()
				summary.FilesSkipped++
				mu.Unlock()
				return nil
			}

			inserted, updated, staleDeleted, err := r.indexFile(gctx, embedSem, indexName, f.RelPath, content, opts)
			if err != nil {
				logging.L().Warn().Err(err).Str("file", f.RelPath).Msg("skipping file after pipeline error")
				mu.Lock()
				summary.FilesSkipped++
				mu.Unlock()
				return nil
			}

			handler := r.Registry.GetHandler(f.RelPath, content)
			if v, ok := r.parseVerdict(tracker, handler, f.RelPath, content); ok {
				mu.Lock()
				verdicts = append(verdicts, v)
				mu.Unlock()
			}

			mu.Lock()
			summary.FilesIndexed++
			summary.ChunksInserted += inserted
			summary.ChunksUpdated += updated
			summary.ChunksDeleted += staleDeleted
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return summary, errs.NewInfrastructureError("storage", "indexing run aborted", err)
	}

	deleted, err := r.Store.DeleteOrphans(ctx, indexName, liveFiles)
	if err != nil {
		logging.L().Warn().Err(err).Msg("failed to delete orphaned chunks")
	}
	summary.ChunksDeleted += deleted

	if err := r.Store.WriteParseResults(ctx, indexName, verdicts); err != nil {
		logging.L().Warn().Err(err).Msg("parse tracking failed; indexing run still succeeded")
	}
	summary.ParseVerdicts = verdicts

	if r.Cache != nil {
		r.Cache.InvalidateIndex(indexName)
	}

	summary.Elapsed = time.Since(start)
	return summary, nil
}

func (r *Runner) preflight(ctx context.Context) error {
	if err := r.Store.Ping(ctx); err != nil {
		return errs.NewInfrastructureError("storage", "check COCOSEARCH_DATABASE_URL and that postgres is running", err)
	}
	if _, err := r.Embedder.Dimension(ctx); err != nil {
		return errs.NewInfrastructureError("embedding", "check COCOSEARCH_OLLAMA_URL and that ollama is running", err)
	}
	return nil
}

// indexFile runs steps 5-6 for one file: handler selection, chunking,
// content_tsv_input, symbol extraction, embedding (bounded by embedSem),
// upsert, and stale-span cleanup. It returns how many chunks were freshly
// embedded (inserted) versus left untouched because content_hash matched
// (updated meaning "already current", mirroring C4's incrementality rule),
// plus how many rows were removed because this run's chunk boundaries no
// longer include them (deleted).
func (r *Runner) indexFile(ctx context.Context, embedSem *semaphore.Weighted, indexName, relPath string, content []byte, opts chunking.Options) (inserted, updated, deleted int, err error) {
	handler := r.Registry.GetHandler(relPath, content)
	spec := handler.Separators()
	spans := chunking.Split(string(content), spec, opts)

	existingHashes, err := r.Store.ContentHashes(ctx, indexName, relPath)
	if err != nil {
		logging.L().Warn().Err(err).Str("file", relPath).Msg("could not load existing content hashes for file, treating as new")
		existingHashes = map[string]string{}
	}

	liveSpans := make([][2]int, len(spans))
	for i, span := range spans {
		liveSpans[i] = [2]int{span.Start, span.End}

		chunk := chunking.Build(relPath, string(content), span)
		meta := handler.ExtractMetadata(chunk.ContentText)
		chunk.BlockType = meta.BlockType
		chunk.Hierarchy = meta.Hierarchy
		chunk.LanguageID = meta.LanguageID

		key := fmt.Sprintf("%d:%d", span.Start, span.End)
		if existingHashes[key] == chunk.ContentHash {
			updated++
			continue
		}

		if symLang := handler.SymbolLanguage(); symLang != "" && r.Symbols.SupportsLanguage(symLang) {
			if sym := r.Symbols.Extract(symLang, chunk.ContentText); sym != nil {
				chunk.SymbolType = &sym.Type
				chunk.SymbolName = &sym.Name
				chunk.SymbolSignature = &sym.Signature
			}
		}

		if err := embedSem.Acquire(ctx, 1); err != nil {
			return inserted, updated, deleted, err
		}
		vec, embedErr := r.Embedder.Embed(ctx, chunk.ContentText)
		embedSem.Release(1)
		if embedErr != nil {
			return inserted, updated, deleted, errs.NewIndexingError(relPath, "embed", embedErr)
		}
		chunk.Embedding = vec

		if err := r.Store.UpsertChunk(ctx, indexName, chunk); err != nil {
			return inserted, updated, deleted, errs.NewIndexingError(relPath, "persist", err)
		}
		inserted++
	}

	if n, err := r.Store.DeleteStaleSpans(ctx, indexName, relPath, liveSpans); err != nil {
		logging.L().Warn().Err(err).Str("file", relPath).Msg("failed to clean up stale chunk spans")
	} else {
		deleted = n
	}

	return inserted, updated, deleted, nil
}

// parseVerdict runs C3 for one file, honoring TextOnly exclusion and
// no_grammar classification. ok is false for text-only files, which get no
// row at all (spec.md §4.3).
func (r *Runner) parseVerdict(tracker *parsetrack.Tracker, handler handlers.Handler, relPath string, content []byte) (types.ParseVerdict, bool) {
	if handler == nil || handler.TextOnly() {
		return types.ParseVerdict{}, false
	}
	symLang := handler.SymbolLanguage()
	return tracker.Verdict(relPath, symLang, content), true
}
