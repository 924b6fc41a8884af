package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/cocosearch/cocosearch/internal/management"
)

func listCommand() *cli.Command {
	return &cli.Command{
		Name:   "list",
		Usage:  "List every index in the configured database",
		Action: listAction,
	}
}

func listAction(c *cli.Context) error {
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
	names, err := mgr.List(c.Context)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}
