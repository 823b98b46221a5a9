package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/aldoetobex/legal-trust-ledger/internal/invoices"
	"github.com/aldoetobex/legal-trust-ledger/internal/trust"
)

type invoiceCmd struct {
	caseID        string
	year          int
	month         int
	feeTarget     int64
	expenseTarget int64
	mode          string
}

func (*invoiceCmd) Name() string     { return "invoice" }
func (*invoiceCmd) Synopsis() string { return "display a monthly statement for a case" }
func (*invoiceCmd) Usage() string {
	return `trustctl invoice -case <id> [-year <yyyy>] [-month <1-12>] [-fee-target <cents>] [-expense-target <cents>] [-mode none|transfer|final]

  Lists the month's entries and reconciles the trust accounts as of the
  last day of the month.
`
}

func (c *invoiceCmd) SetFlags(f *flag.FlagSet) {
	now := time.Now()
	f.StringVar(&c.caseID, "case", "", "case id (uuid)")
	f.IntVar(&c.year, "year", now.Year(), "statement year")
	f.IntVar(&c.month, "month", int(now.Month()), "statement month (1-12)")
	f.Int64Var(&c.feeTarget, "fee-target", 0, "fee retainer target in cents")
	f.Int64Var(&c.expenseTarget, "expense-target", 0, "expense retainer target in cents")
	f.StringVar(&c.mode, "mode", string(trust.ModeNone), "none, transfer or final")
}

func (c *invoiceCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := parseCaseID(c.caseID)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	mode, err := trust.ParseModeStrict(c.mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, "-mode must be none, transfer or final")
		return subcommands.ExitUsageError
	}
	a, cfg, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	inv, err := a.Invoices.Prepare(ctx, invoices.Request{
		CaseID:        id,
		Year:          c.year,
		Month:         c.month,
		FeeTarget:     c.feeTarget,
		ExpenseTarget: c.expenseTarget,
		Mode:          mode,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error preparing invoice: %v\n", err)
		return subcommands.ExitFailure
	}
	md, err := invoices.Markdown(inv, cfg.Billing.Currency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering invoice: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(md)
	return subcommands.ExitSuccess
}
