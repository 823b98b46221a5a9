// Command trustctl prints case summaries, trust balances, reconciliations
// and monthly statements from the ledger database.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	commander.Register(&summaryCmd{}, "cases")
	commander.Register(&matterNumberCmd{}, "cases")

	commander.Register(&totalsCmd{}, "trust")
	commander.Register(&reconcileCmd{}, "trust")
	commander.Register(&invoiceCmd{}, "trust")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
