package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/aldoetobex/legal-trust-ledger/internal/trust"
)

type reconcileCmd struct {
	feeBalance     int64
	expenseBalance int64
	feeTarget      int64
	expenseTarget  int64
	mode           string
	currency       string
}

func (*reconcileCmd) Name() string     { return "reconcile" }
func (*reconcileCmd) Synopsis() string { return "compute what a client owes from given balances" }
func (*reconcileCmd) Usage() string {
	return `trustctl reconcile -fee-balance <cents> -expense-balance <cents> [-fee-target <cents>] [-expense-target <cents>] [-mode none|transfer|final]

  Balances are in cents: positive is unused retainer, negative is owed.
  Does not read the ledger.
`
}

func (c *reconcileCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.feeBalance, "fee-balance", 0, "fee account balance in cents")
	f.Int64Var(&c.expenseBalance, "expense-balance", 0, "expense account balance in cents")
	f.Int64Var(&c.feeTarget, "fee-target", 0, "fee retainer target in cents")
	f.Int64Var(&c.expenseTarget, "expense-target", 0, "expense retainer target in cents")
	f.StringVar(&c.mode, "mode", string(trust.ModeNone), "none, transfer or final")
	f.StringVar(&c.currency, "currency", "USD", "ISO 4217 currency for display")
}

func (c *reconcileCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	mode, err := trust.ParseModeStrict(c.mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, "-mode must be none, transfer or final")
		return subcommands.ExitUsageError
	}
	if c.feeTarget < 0 || c.expenseTarget < 0 {
		fmt.Fprintln(os.Stderr, "targets must be >= 0")
		return subcommands.ExitUsageError
	}
	if len(c.currency) != 3 {
		fmt.Fprintf(os.Stderr, "-currency %q is not an ISO 4217 code\n", c.currency)
		return subcommands.ExitUsageError
	}

	r := trust.Reconcile(c.feeBalance, c.expenseBalance, c.feeTarget, c.expenseTarget, mode)
	printMarkdown(reconcileMarkdown(r, strings.ToUpper(c.currency)))
	return subcommands.ExitSuccess
}
