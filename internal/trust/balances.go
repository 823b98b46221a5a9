package trust

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aldoetobex/legal-trust-ledger/internal/billing"
	"github.com/aldoetobex/legal-trust-ledger/internal/payments"
	"github.com/aldoetobex/legal-trust-ledger/pkg/logger"
	"github.com/aldoetobex/legal-trust-ledger/pkg/models"
)

// Balances are a case's fee and expense trust accounts as of a day,
// with the paid and billed sums they come from.
type Balances struct {
	AsOf                 string `json:"as_of"`
	FeePaymentsCents     int64  `json:"fee_payments_cents"`
	ExpensePaymentsCents int64  `json:"expense_payments_cents"`
	FeesBilledCents      int64  `json:"fees_billed_cents"`
	ExpensesBilledCents  int64  `json:"expenses_billed_cents"`
	FeeBalance           int64  `json:"fee_balance"`
	ExpenseBalance       int64  `json:"expense_balance"`
}

type Service interface {
	BalancesAsOf(ctx context.Context, caseID uuid.UUID, asOf time.Time) (Balances, error)
	ReconcileCase(ctx context.Context, caseID uuid.UUID, asOf time.Time, feeTarget, expenseTarget int64, mode Mode) (Balances, Result, error)
}

type service struct {
	billing  billing.Ledger
	payments payments.Ledger
	log      *logger.Logger
}

func NewService(b billing.Ledger, p payments.Ledger, baseLog *logger.Logger) Service {
	return &service{billing: b, payments: p, log: baseLog.With("service", "TrustService")}
}

// BalancesAsOf counts payments and entries dated on or before asOf.
func (s *service) BalancesAsOf(ctx context.Context, caseID uuid.UUID, asOf time.Time) (Balances, error) {
	day := time.Time(models.Day(asOf))
	billed, err := s.billing.TotalsAsOf(ctx, caseID, day)
	if err != nil {
		return Balances{}, err
	}
	paid, err := s.payments.CaseTotalsAsOf(ctx, caseID, day)
	if err != nil {
		return Balances{}, err
	}
	return Balances{
		AsOf:                 day.Format("2006-01-02"),
		FeePaymentsCents:     paid.FeePaymentsCents,
		ExpensePaymentsCents: paid.ExpensePaymentsCents,
		FeesBilledCents:      billed.FeeCents,
		ExpensesBilledCents:  billed.ExpenseCents,
		FeeBalance:           Balance(paid.FeePaymentsCents, billed.FeeCents),
		ExpenseBalance:       Balance(paid.ExpensePaymentsCents, billed.ExpenseCents),
	}, nil
}

func (s *service) ReconcileCase(ctx context.Context, caseID uuid.UUID, asOf time.Time, feeTarget, expenseTarget int64, mode Mode) (Balances, Result, error) {
	b, err := s.BalancesAsOf(ctx, caseID, asOf)
	if err != nil {
		return Balances{}, Result{}, err
	}
	r := Reconcile(b.FeeBalance, b.ExpenseBalance, feeTarget, expenseTarget, mode)
	s.log.Debug("case reconciled", "case_id", caseID, "as_of", b.AsOf, "mode", r.Mode, "total_due", r.TotalDue)
	return b, r, nil
}
