package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type matterNumberCmd struct {
	lastName string
}

func (*matterNumberCmd) Name() string     { return "matter-number" }
func (*matterNumberCmd) Synopsis() string { return "print the next matter number for a client" }
func (*matterNumberCmd) Usage() string {
	return `trustctl matter-number -last-name <name>
`
}

func (c *matterNumberCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.lastName, "last-name", "", "client last name")
}

func (c *matterNumberCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, _, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	n, err := a.Cases.GenerateMatterNumber(ctx, c.lastName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println(n)
	return subcommands.ExitSuccess
}
