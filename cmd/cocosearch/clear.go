package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/cocosearch/cocosearch/internal/cache"
	"github.com/cocosearch/cocosearch/internal/management"
	"github.com/cocosearch/cocosearch/internal/types"
)

func clearCommand() *cli.Command {
	return &cli.Command{
		Name:      "clear",
		Usage:     "Drop an index and its cached query results",
		ArgsUsage: "<index>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "force", Usage: "Skip the confirmation prompt"},
		},
		Action: clearAction,
	}
}

func clearAction(c *cli.Context) error {
	name := c.Args().First()
	if name == "" {
		return fmt.Errorf("clear requires <index>")
	}

	if !c.Bool("force") {
		fmt.Printf("Drop index %q and all its chunks? [y/N] ", name)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("aborted")
			return nil
		}
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	store, err := openStore(c.Context, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	queryCache := cache.New(types.DefaultCacheConfig())
	mgr := management.NewManager(store, queryCache)
	if err := mgr.Drop(c.Context, name); err != nil {
		return err
	}
	fmt.Printf("dropped %q\n", name)
	return nil
}
