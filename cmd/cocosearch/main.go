// Command cocosearch is the CLI collaborator for the local-first hybrid
// code-search engine: it parses flags and delegates to the core pipelines
// in internal/indexing, internal/search, and internal/management.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/cocosearch/cocosearch/internal/cache"
	"github.com/cocosearch/cocosearch/internal/config"
	cosectx "github.com/cocosearch/cocosearch/internal/context"
	"github.com/cocosearch/cocosearch/internal/embedding"
	"github.com/cocosearch/cocosearch/internal/errs"
	"github.com/cocosearch/cocosearch/internal/handlers"
	"github.com/cocosearch/cocosearch/internal/indexing"
	"github.com/cocosearch/cocosearch/internal/logging"
	"github.com/cocosearch/cocosearch/internal/management"
	"github.com/cocosearch/cocosearch/internal/rpcserver"
	"github.com/cocosearch/cocosearch/internal/search"
	"github.com/cocosearch/cocosearch/internal/storage"
	"github.com/cocosearch/cocosearch/internal/symbols"
	"github.com/cocosearch/cocosearch/internal/types"
	"github.com/cocosearch/cocosearch/internal/version"

	"github.com/rs/zerolog"
)

// exit codes (spec.md §6).
const (
	exitSuccess     = 0
	exitUserError   = 1
	exitNotFound    = 2
	exitInterrupted = 130
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.App{
		Name:    "cocosearch",
		Usage:   "Local-first hybrid code search: dense embeddings plus lexical postings",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "root", Aliases: []string{"r"}, Usage: "Project root directory (defaults to cwd)"},
		},
		Commands: []*cli.Command{
			indexCommand(),
			searchCommand(),
			statsCommand(),
			listCommand(),
			clearCommand(),
			languagesCommand(),
			analyzeCommand(),
			serveCommand(),
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "cocosearch:", err.Error())
		os.Exit(exitCodeFor(ctx, err))
	}
}

// exitCodeFor maps an error (or a cancelled context) to spec.md §6's exit
// code table.
func exitCodeFor(ctx context.Context, err error) int {
	if ctx.Err() != nil {
		return exitInterrupted
	}
	var notFound *errs.IndexNotFoundError
	if errors.As(err, &notFound) {
		return exitNotFound
	}
	return exitUserError
}

// loadConfig layers the project's .cocosearch.yaml over environment
// variables over compiled defaults. CLI flag overrides are applied by the
// individual commands afterwards.
func loadConfig(c *cli.Context) (*config.Config, error) {
	root := c.String("root")
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		root = cwd
	}
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// openStore connects to the configured database, required for every
// command except `languages`/`grammars`.
func openStore(ctx context.Context, cfg *config.Config) (*storage.Store, error) {
	if cfg.DatabaseURL == "" {
		return nil, errs.NewValidationError("database_url", "", fmt.Errorf("set COCOSEARCH_DATABASE_URL"))
	}
	return storage.New(ctx, cfg.DatabaseURL)
}

// buildEngine wires the search engine's collaborators the way both the
// CLI and the MCP server need them: one cache, one context expander,
// shared across calls in a process.
func buildEngine(store *storage.Store, embedder embedding.Embedder) (*search.Engine, *cache.Cache) {
	queryCache := cache.New(types.DefaultCacheConfig())
	expander := cosectx.NewExpander(128)
	return search.NewEngine(store, embedder, queryCache, expander), queryCache
}

func buildEmbedder(cfg *config.Config) embedding.Embedder {
	return embedding.NewOllamaEmbedder(cfg.EmbeddingURL, "nomic-embed-text")
}

func init() {
	logging.Configure(os.Stderr, zerolog.InfoLevel, false)
}

func rpcServeAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	store, err := openStore(c.Context, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	embedder := buildEmbedder(cfg)
	registry, err := handlers.NewRegistry()
	if err != nil {
		return err
	}

	runner := indexing.NewRunner(registry, symbols.NewExtractor(), embedder, store)
	engine, queryCache := buildEngine(store, embedder)
	runner.Cache = queryCache

	server := rpcserver.New(runner, engine, cfg)
	return server.Serve(c.Context)
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the MCP server over stdio (cocosearch_index / cocosearch_search tools)",
		Action: rpcServeAction,
	}
}
