package main

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/cocosearch/cocosearch/internal/types"
	"github.com/cocosearch/cocosearch/pkg/pathutil"
)

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Hybrid (dense + lexical) code search",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "index", Usage: "Index to search (defaults to $COCOSEARCH_INDEX_NAME)"},
			&cli.IntFlag{Name: "limit", Value: 10, Usage: "Maximum results"},
			&cli.StringSliceFlag{Name: "lang", Usage: "Restrict to these languages"},
			&cli.StringFlag{Name: "hybrid", Usage: "Force hybrid on/off: true|false (default: let the analyzer decide)"},
			&cli.StringSliceFlag{Name: "symbol-type", Usage: "Restrict to these symbol types"},
			&cli.StringFlag{Name: "symbol-name", Usage: "Symbol name glob"},
			&cli.IntFlag{Name: "A", Usage: "Lines of context after a match"},
			&cli.IntFlag{Name: "B", Usage: "Lines of context before a match"},
			&cli.IntFlag{Name: "C", Usage: "Lines of context on both sides"},
			&cli.BoolFlag{Name: "no-smart", Usage: "Disable tree-sitter enclosing-definition context"},
			&cli.BoolFlag{Name: "no-cache", Usage: "Bypass the query cache"},
			&cli.Float64Flag{Name: "min-score", Usage: "Minimum fused score"},
			&cli.BoolFlag{Name: "pretty", Usage: "Human-readable output instead of JSON"},
		},
		Action: searchAction,
	}
}

func searchAction(c *cli.Context) error {
	text := c.Args().First()
	if text == "" {
		return fmt.Errorf("search requires <query>")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	indexName := c.String("index")
	if indexName == "" {
		indexName = cfg.IndexName
	}
	if indexName == "" {
		return fmt.Errorf("no index specified: pass --index or set COCOSEARCH_INDEX_NAME")
	}

	store, err := openStore(c.Context, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	embedder := buildEmbedder(cfg)
	engine, _ := buildEngine(store, embedder)

	before, after := c.Int("B"), c.Int("A")
	if both := c.Int("C"); both > 0 {
		before, after = both, both
	}

	q := types.Query{
		Text:          text,
		IndexName:     indexName,
		Limit:         c.Int("limit"),
		MinScore:      c.Float64("min-score"),
		LanguageFilter: c.StringSlice("lang"),
		SymbolType:    c.StringSlice("symbol-type"),
		SymbolName:    c.String("symbol-name"),
		UseHybrid:     parseTriState(c.String("hybrid")),
		SmartContext:  before == 0 && after == 0,
		ContextBefore: before,
		ContextAfter:  after,
		NoSmart:       c.Bool("no-smart"),
		NoCache:       c.Bool("no-cache"),
	}

	results, err := engine.Search(c.Context, q)
	if err != nil {
		return err
	}
	results = pathutil.ToRelativeResults(results, cfg.ProjectRoot)

	if c.Bool("pretty") {
		printResultsPretty(results)
		return nil
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func parseTriState(v string) *bool {
	switch v {
	case "true":
		t := true
		return &t
	case "false":
		f := false
		return &f
	default:
		return nil
	}
}

func printResultsPretty(results []types.SearchResult) {
	for _, r := range results {
		fmt.Printf("%s:%d-%d  score=%.3f  %s\n", r.Filename, r.StartByte, r.EndByte, r.Score, r.LanguageID)
		if r.ContextBefore != "" {
			fmt.Println(r.ContextBefore)
		}
		if r.ContextAfter != "" {
			fmt.Println(r.ContextAfter)
		}
		fmt.Println()
	}
}
