package main

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/cocosearch/cocosearch/internal/management"
	"github.com/cocosearch/cocosearch/internal/types"
)

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:      "stats",
		Usage:     "Show per-language and parse-health statistics for an index",
		ArgsUsage: "[<index>]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "all", Usage: "Show stats for every index"},
			&cli.BoolFlag{Name: "json", Usage: "Output as JSON"},
			&cli.BoolFlag{Name: "show-failures", Usage: "Include per-file parse failure detail"},
			&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print JSON output"},
		},
		Action: statsAction,
	}
}

func statsAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	store, err := openStore(c.Context, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	mgr := management.NewManager(store, nil)

	var names []string
	if c.Bool("all") {
		names, err = mgr.List(c.Context)
		if err != nil {
			return err
		}
	} else {
		name := c.Args().First()
		if name == "" {
			name = cfg.IndexName
		}
		if name == "" {
			return fmt.Errorf("no index specified: pass <index>, --all, or set COCOSEARCH_INDEX_NAME")
		}
		names = []string{name}
	}

	var summaries []types.IndexSummary
	for _, name := range names {
		s, err := mgr.Stats(c.Context, name)
		if err != nil {
			return err
		}
		summaries = append(summaries, s)
	}

	if c.Bool("json") {
		var data []byte
		if c.Bool("pretty") {
			data, err = json.MarshalIndent(summaries, "", "  ")
		} else {
			data, err = json.Marshal(summaries)
		}
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	for _, s := range summaries {
		fmt.Printf("%s: %d chunks across %d files (%d bytes)\n", s.Name, s.ChunkCount, s.FileCount, s.SizeBytes)
		for lang, count := range s.LanguageCounts {
			fmt.Printf("  %s: %d\n", lang, count)
		}
		if c.Bool("show-failures") {
			for status, count := range s.ParseStatusCounts {
				if status != types.ParseStatusOK {
					fmt.Printf("  parse %s: %d\n", status, count)
				}
			}
		}
	}
	return nil
}
