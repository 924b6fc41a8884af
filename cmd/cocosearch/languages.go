package main

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/cocosearch/cocosearch/internal/handlers"
)

func languagesCommand() *cli.Command {
	cmd := &cli.Command{
		Name:    "languages",
		Aliases: []string{"grammars"},
		Usage:   "Describe every registered language/grammar handler",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Output as JSON"},
		},
		Action: languagesAction,
	}
	return cmd
}

func languagesAction(c *cli.Context) error {
	registry, err := handlers.NewRegistry()
	if err != nil {
		return err
	}
	descriptors := registry.Describe()

	if c.Bool("json") {
		data, err := json.MarshalIndent(descriptors, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	for _, d := range descriptors {
		fmt.Printf("%-16s %-10s symbols=%-5v exts=%v glob=%q\n", d.Name, d.Kind, d.SymbolsOK, d.Extensions, d.PathGlob)
	}
	return nil
}
