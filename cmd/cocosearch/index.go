package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/cocosearch/cocosearch/internal/config"
	"github.com/cocosearch/cocosearch/internal/handlers"
	"github.com/cocosearch/cocosearch/internal/indexing"
	"github.com/cocosearch/cocosearch/internal/management"
	"github.com/cocosearch/cocosearch/internal/symbols"
	"github.com/cocosearch/cocosearch/internal/types"
)

func indexCommand() *cli.Command {
	return &cli.Command{
		Name:      "index",
		Usage:     "Index a codebase for hybrid search",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Usage: "Index identifier (defaults to the git repo's basename)"},
			&cli.StringSliceFlag{Name: "include", Usage: "Glob patterns to include"},
			&cli.StringSliceFlag{Name: "exclude", Usage: "Glob patterns to exclude"},
			&cli.IntFlag{Name: "chunk-size", Usage: "Target chunk size in bytes"},
			&cli.IntFlag{Name: "chunk-overlap", Usage: "Overlap between adjacent chunks in bytes"},
			&cli.BoolFlag{Name: "no-gitignore", Usage: "Do not honor .gitignore while scanning"},
			&cli.BoolFlag{Name: "watch", Usage: "Keep running, re-indexing changed files as they're saved"},
			&cli.DurationFlag{Name: "watch-debounce", Value: 500 * time.Millisecond, Usage: "Quiet period after a change before re-indexing (with --watch)"},
		},
		Action: indexAction,
	}
}

func indexAction(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("index requires <path>")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	config.ApplyOverrides(cfg, config.Overrides{
		Include:      c.StringSlice("include"),
		Exclude:      c.StringSlice("exclude"),
		ChunkSize:    c.Int("chunk-size"),
		ChunkOverlap: c.Int("chunk-overlap"),
		NoGitignore:  c.Bool("no-gitignore"),
		Root:         path,
	})

	name := c.String("name")
	if name == "" {
		name = management.DefaultIndexName(path)
	}

	store, err := openStore(c.Context, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	registry, err := handlers.NewRegistry()
	if err != nil {
		return err
	}
	embedder := buildEmbedder(cfg)
	runner := indexing.NewRunner(registry, symbols.NewExtractor(), embedder, store)

	if c.Bool("watch") {
		watcher := indexing.NewWatcher(runner, c.Duration("watch-debounce"))
		fmt.Printf("watching %s for changes (index %q); ctrl-c to stop\n", path, name)
		err := watcher.Watch(c.Context, path, name, cfg, func(summary types.RunSummary, err error) {
			if err != nil {
				fmt.Println("run failed:", err)
				return
			}
			printIndexSummary(summary)
		})
		return err
	}

	summary, err := runner.Run(c.Context, path, name, cfg)
	if err != nil {
		return err
	}
	printIndexSummary(summary)
	return nil
}

func printIndexSummary(summary types.RunSummary) {
	fmt.Printf("indexed %s: %d files scanned, %d indexed, %d skipped, %d chunks inserted, %d updated, %d deleted (%s)\n",
		summary.IndexName, summary.FilesScanned, summary.FilesIndexed, summary.FilesSkipped,
		summary.ChunksInserted, summary.ChunksUpdated, summary.ChunksDeleted, summary.Elapsed)
	if failed := countParseFailures(summary.ParseVerdicts); failed > 0 {
		fmt.Printf("%d files had parse issues; run `cocosearch stats %s --show-failures` for detail\n", failed, summary.IndexName)
	}
}

func countParseFailures(verdicts []types.ParseVerdict) int {
	n := 0
	for _, v := range verdicts {
		if v.ParseStatus == types.ParseStatusError || v.ParseStatus == types.ParseStatusPartial {
			n++
		}
	}
	return n
}
