package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type summaryCmd struct {
	caseID string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display everyone on a case, grouped by side" }
func (*summaryCmd) Usage() string {
	return `trustctl summary -case <id>

  Displays the client, co-counsel, the court and each opposing party with
  their counsel and staff.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.caseID, "case", "", "case id (uuid)")
}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := parseCaseID(c.caseID)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	a, _, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	cs, err := a.Cases.Get(ctx, id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading case: %v\n", err)
		return subcommands.ExitFailure
	}
	summary, err := a.Parties.BuildSummary(ctx, id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building summary: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(summaryMarkdown(cs, summary))
	return subcommands.ExitSuccess
}
