package main

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/cocosearch/cocosearch/internal/query"
	"github.com/cocosearch/cocosearch/internal/types"
	"github.com/cocosearch/cocosearch/pkg/pathutil"
)

func analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Explain how a query would be classified and searched",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "index", Usage: "Index to search (defaults to $COCOSEARCH_INDEX_NAME)"},
			&cli.BoolFlag{Name: "json", Usage: "Output as JSON"},
		},
		Action: analyzeAction,
	}
}

type analyzeReport struct {
	Analysis  query.Analysis      `json:"analysis"`
	UseHybrid bool                `json:"use_hybrid"`
	Results   []types.SearchResult `json:"results,omitempty"`
}

func analyzeAction(c *cli.Context) error {
	text := c.Args().First()
	if text == "" {
		return fmt.Errorf("analyze requires <query>")
	}

	analysis := query.Analyze(text)
	report := analyzeReport{
		Analysis:  analysis,
		UseHybrid: analysis.UseHybrid,
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	indexName := c.String("index")
	if indexName == "" {
		indexName = cfg.IndexName
	}
	if indexName != "" {
		store, err := openStore(c.Context, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		embedder := buildEmbedder(cfg)
		engine, _ := buildEngine(store, embedder)
		results, err := engine.Search(c.Context, types.Query{Text: text, IndexName: indexName, Limit: 10, Explain: true})
		if err != nil {
			return err
		}
		report.Results = pathutil.ToRelativeResults(results, cfg.ProjectRoot)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
