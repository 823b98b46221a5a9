// Package trust turns ledger totals into trust account balances and runs the
// invoicing reconciliation. Reconcile is pure and never fails.
package trust

import (
	"strings"

	"github.com/aldoetobex/legal-trust-ledger/pkg/apperrors"
)

// Mode selects how the fee and expense accounts interact at invoice time.
type Mode string

const (
	ModeNone     Mode = "none"
	ModeTransfer Mode = "transfer"
	ModeFinal    Mode = "final"
)

// ParseMode is case-insensitive. Anything unrecognised is ModeNone.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeTransfer:
		return ModeTransfer
	case ModeFinal:
		return ModeFinal
	default:
		return ModeNone
	}
}

// ParseModeStrict is ParseMode for caller input: "" is ModeNone, any other
// unrecognised value is a ValidationError on mode.
func ParseModeStrict(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeNone:
		return ModeNone, nil
	case ModeTransfer:
		return ModeTransfer, nil
	case ModeFinal:
		return ModeFinal, nil
	default:
		return ModeNone, apperrors.Validation("mode", "Must be none, transfer or final")
	}
}

// Direction names the account a transfer moves money out of and into.
type Direction string

const (
	ExpenseToFee Direction = "expense_to_fee"
	FeeToExpense Direction = "fee_to_expense"
)

// Result is the reconciliation handed to the invoice renderer. In final
// mode TargetsIgnored is set and the transfer is reported for disclosure
// only; it does not change TotalDue.
type Result struct {
	Mode                   Mode       `json:"mode"`
	FeeBalance             int64      `json:"fee_balance"`
	ExpenseBalance         int64      `json:"expense_balance"`
	FeeTarget              int64      `json:"fee_target"`
	ExpenseTarget          int64      `json:"expense_target"`
	TransferAmount         int64      `json:"transfer_amount"`
	TransferDirection      *Direction `json:"transfer_direction,omitempty"`
	AdjustedFeeBalance     int64      `json:"adjusted_fee_balance"`
	AdjustedExpenseBalance int64      `json:"adjusted_expense_balance"`
	FeeReplenishment       int64      `json:"fee_replenishment"`
	ExpenseReplenishment   int64      `json:"expense_replenishment"`
	CombinedBalance        int64      `json:"combined_balance"`
	TotalDue               int64      `json:"total_due"`
	IsFinal                bool       `json:"is_final"`
	TargetsIgnored         bool       `json:"targets_ignored"`
}

// Reconcile computes what the client owes given account balances (cents,
// positive = unused retainer, negative = owed) and replenishment targets.
func Reconcile(feeBalance, expenseBalance, feeTarget, expenseTarget int64, mode Mode) Result {
	r := Result{
		Mode:                   ParseMode(string(mode)),
		FeeBalance:             feeBalance,
		ExpenseBalance:         expenseBalance,
		FeeTarget:              feeTarget,
		ExpenseTarget:          expenseTarget,
		AdjustedFeeBalance:     feeBalance,
		AdjustedExpenseBalance: expenseBalance,
		CombinedBalance:        feeBalance + expenseBalance,
	}

	amount, dir := crossTransfer(feeBalance, expenseBalance)

	switch r.Mode {
	case ModeFinal:
		r.IsFinal = true
		r.TargetsIgnored = true
		r.TransferAmount = amount
		r.TransferDirection = dir
		r.TotalDue = max(0, -r.CombinedBalance)
		return r

	case ModeTransfer:
		r.TransferAmount = amount
		r.TransferDirection = dir
		if dir != nil {
			switch *dir {
			case ExpenseToFee:
				r.AdjustedExpenseBalance -= amount
				r.AdjustedFeeBalance += amount
			case FeeToExpense:
				r.AdjustedFeeBalance -= amount
				r.AdjustedExpenseBalance += amount
			}
		}
	}

	r.FeeReplenishment = replenishment(feeTarget, r.AdjustedFeeBalance)
	r.ExpenseReplenishment = replenishment(expenseTarget, r.AdjustedExpenseBalance)
	r.TotalDue = r.FeeReplenishment + r.ExpenseReplenishment
	return r
}

func replenishment(target, balance int64) int64 {
	return max(0, target-balance)
}

// crossTransfer is the amount that moves from a strictly positive account to
// a strictly negative one. A zero balance on either side means no transfer.
func crossTransfer(fee, expense int64) (int64, *Direction) {
	var d Direction
	switch {
	case fee < 0 && expense > 0:
		d = ExpenseToFee
		return min(-fee, expense), &d
	case fee > 0 && expense < 0:
		d = FeeToExpense
		return min(fee, -expense), &d
	default:
		return 0, nil
	}
}

// Balance is payments received minus amounts billed for one account.
func Balance(paidCents, billedCents int64) int64 { return paidCents - billedCents }
