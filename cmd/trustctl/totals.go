package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"
)

type totalsCmd struct {
	caseID string
	asOf   string
}

func (*totalsCmd) Name() string     { return "totals" }
func (*totalsCmd) Synopsis() string { return "display a case's trust account balances" }
func (*totalsCmd) Usage() string {
	return `trustctl totals -case <id> [-as-of YYYY-MM-DD]

  Displays payments received, amounts billed and the resulting fee and
  expense balances, counting only activity on or before the date.
`
}

func (c *totalsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.caseID, "case", "", "case id (uuid)")
	f.StringVar(&c.asOf, "as-of", time.Now().Format(time.DateOnly), "last day to include")
}

func (c *totalsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := parseCaseID(c.caseID)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	asOf, err := time.Parse(time.DateOnly, c.asOf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -as-of: %v\n", err)
		return subcommands.ExitUsageError
	}
	a, cfg, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	cs, err := a.Cases.Get(ctx, id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading case: %v\n", err)
		return subcommands.ExitFailure
	}
	b, err := a.Trust.BalancesAsOf(ctx, id, asOf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing balances: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(balancesMarkdown(cs, b, cfg.Billing.Currency))
	return subcommands.ExitSuccess
}
