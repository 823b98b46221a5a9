package main

import (
	"fmt"
	"strings"

	"github.com/aldoetobex/legal-trust-ledger/internal/parties"
	"github.com/aldoetobex/legal-trust-ledger/internal/trust"
	"github.com/aldoetobex/legal-trust-ledger/pkg/models"
	"github.com/aldoetobex/legal-trust-ledger/pkg/money"
)

func summaryMarkdown(cs *models.Case, s *parties.CaseSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", cs.CaseName)
	if cs.CaseNumber != "" {
		fmt.Fprintf(&b, "Docket: %s  \n", cs.CaseNumber)
	}
	fmt.Fprintf(&b, "Status: %s", cs.Status)
	if cs.IsLitigation {
		fmt.Fprintf(&b, "  \nCourt: %s", strings.TrimSpace(cs.CourtType+" "+cs.County))
	}
	b.WriteString("\n\n")

	single := func(title string, p *parties.Participant) {
		if p != nil {
			fmt.Fprintf(&b, "## %s\n\n- %s\n\n", title, participantLine(*p))
		}
	}
	list := func(title string, ps []parties.Participant) {
		if len(ps) == 0 {
			return
		}
		fmt.Fprintf(&b, "## %s\n\n", title)
		for _, p := range ps {
			fmt.Fprintf(&b, "- %s\n", participantLine(p))
		}
		b.WriteString("\n")
	}

	single("Client", s.Client)
	list("Co-Counsel", s.CoCounsel)
	single("Judge", s.Judge)
	list("Judge's Staff", s.JudgeStaff)
	list("Court Staff", s.CourtStaff)
	single("Guardian ad Litem", s.GuardianAdLitem)

	for _, op := range s.OpposingParties {
		fmt.Fprintf(&b, "## Opposing Party: %s\n\n", participantLine(op.Party))
		if op.Party.IsProSe {
			b.WriteString("Appearing pro se.\n\n")
		}
		for _, a := range op.Attorneys {
			fmt.Fprintf(&b, "- Counsel: %s\n", participantLine(a))
		}
		for _, st := range op.Staff {
			fmt.Fprintf(&b, "  - Staff: %s\n", participantLine(st))
		}
		if len(op.Attorneys)+len(op.Staff) > 0 {
			b.WriteString("\n")
		}
	}

	if n := s.Dropped.Total(); n > 0 {
		fmt.Fprintf(&b, "_%d association(s) not shown: they represent someone no longer on the case._\n", n)
	}
	return b.String()
}

func participantLine(p parties.Participant) string {
	line := p.Name
	if p.FirmName != "" {
		line += ", " + p.FirmName
	}
	if p.Designation != nil {
		line += " (" + string(*p.Designation) + ")"
	}
	return line
}

func balancesMarkdown(cs *models.Case, bal trust.Balances, currency string) string {
	f := func(c int64) string { return money.Format(c, currency) }
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\nTrust accounts as of %s\n\n", cs.CaseName, bal.AsOf)
	b.WriteString("| Account | Paid | Billed | Balance |\n|---|---:|---:|---:|\n")
	fmt.Fprintf(&b, "| Fees | %s | %s | %s |\n", f(bal.FeePaymentsCents), f(bal.FeesBilledCents), f(bal.FeeBalance))
	fmt.Fprintf(&b, "| Expenses | %s | %s | %s |\n", f(bal.ExpensePaymentsCents), f(bal.ExpensesBilledCents), f(bal.ExpenseBalance))
	return b.String()
}

func reconcileMarkdown(r trust.Result, currency string) string {
	f := func(c int64) string { return money.Format(c, currency) }
	var b strings.Builder
	fmt.Fprintf(&b, "# Reconciliation (%s)\n\n", r.Mode)
	b.WriteString("| | Fees | Expenses |\n|---|---:|---:|\n")
	fmt.Fprintf(&b, "| Balance | %s | %s |\n", f(r.FeeBalance), f(r.ExpenseBalance))
	fmt.Fprintf(&b, "| Adjusted | %s | %s |\n", f(r.AdjustedFeeBalance), f(r.AdjustedExpenseBalance))
	if !r.TargetsIgnored {
		fmt.Fprintf(&b, "| Target | %s | %s |\n", f(r.FeeTarget), f(r.ExpenseTarget))
		fmt.Fprintf(&b, "| Replenishment | %s | %s |\n", f(r.FeeReplenishment), f(r.ExpenseReplenishment))
	}
	b.WriteString("\n")

	if r.TransferDirection != nil && r.TransferAmount > 0 {
		from, to := "expense", "fee"
		if *r.TransferDirection == trust.FeeToExpense {
			from, to = "fee", "expense"
		}
		verb := "Transfer"
		if r.IsFinal {
			verb = "Offset"
		}
		fmt.Fprintf(&b, "%s %s from the %s account to the %s account.\n\n", verb, f(r.TransferAmount), from, to)
	}
	if r.IsFinal {
		fmt.Fprintf(&b, "Combined balance: %s\n\n", f(r.CombinedBalance))
	}
	fmt.Fprintf(&b, "**Total due: %s**\n", f(r.TotalDue))
	return b.String()
}
