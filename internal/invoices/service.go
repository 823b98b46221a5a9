// Package invoices assembles everything an invoice renderer needs for one
// case and month: parties, the month's entries, and trust figures at month end.
package invoices

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aldoetobex/legal-trust-ledger/internal/billing"
	"github.com/aldoetobex/legal-trust-ledger/internal/parties"
	"github.com/aldoetobex/legal-trust-ledger/internal/repos"
	"github.com/aldoetobex/legal-trust-ledger/internal/trust"
	"github.com/aldoetobex/legal-trust-ledger/pkg/apperrors"
	"github.com/aldoetobex/legal-trust-ledger/pkg/logger"
	"github.com/aldoetobex/legal-trust-ledger/pkg/models"
)

type Request struct {
	CaseID        uuid.UUID
	Year          int
	Month         int
	FeeTarget     int64
	ExpenseTarget int64
	Mode          trust.Mode
}

// Invoice is the full input for one monthly statement.
type Invoice struct {
	Case                models.Case           `json:"case"`
	Client              *parties.Participant  `json:"client"`
	Summary             *parties.CaseSummary  `json:"summary"`
	PeriodStart         string                `json:"period_start"`
	PeriodEnd           string                `json:"period_end"`
	Entries             []models.BillingEntry `json:"entries"`
	PeriodHours         decimal.Decimal       `json:"period_hours"`
	PeriodFeesCents     int64                 `json:"period_fees_cents"`
	PeriodExpensesCents int64                 `json:"period_expenses_cents"`
	Trust               trust.Balances        `json:"trust"`
	Reconciliation      trust.Result          `json:"reconciliation"`
}

type Service interface {
	Prepare(ctx context.Context, req Request) (*Invoice, error)
}

type service struct {
	cases   repos.CaseStore
	graph   parties.Graph
	billing billing.Ledger
	trust   trust.Service
	log     *logger.Logger
}

func NewService(stores *repos.Stores, g parties.Graph, b billing.Ledger, t trust.Service, baseLog *logger.Logger) Service {
	return &service{
		cases:   stores.Cases,
		graph:   g,
		billing: b,
		trust:   t,
		log:     baseLog.With("service", "InvoiceService"),
	}
}

// Prepare prices the month's hours at the case's current rate and takes
// trust balances as of the last day of the month.
func (s *service) Prepare(ctx context.Context, req Request) (*Invoice, error) {
	from, to, err := billing.MonthRange(req.Year, req.Month)
	if err != nil {
		return nil, err
	}
	if req.FeeTarget < 0 {
		return nil, apperrors.Validation("fee_target", "Must be greater than or equal to 0")
	}
	if req.ExpenseTarget < 0 {
		return nil, apperrors.Validation("expense_target", "Must be greater than or equal to 0")
	}
	cutoff := to.AddDate(0, 0, -1)

	cs, err := s.cases.GetByID(ctx, nil, req.CaseID)
	if err != nil {
		return nil, apperrors.Persist("load case", err)
	}
	summary, err := s.graph.BuildSummary(ctx, req.CaseID)
	if err != nil {
		return nil, err
	}
	entries, err := s.billing.EntriesForPeriod(ctx, req.CaseID, req.Year, req.Month)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.BillingEntry{}
	}
	period := billing.Sum(entries, cs.BillingRateCents)

	balances, recon, err := s.trust.ReconcileCase(ctx, req.CaseID, cutoff, req.FeeTarget, req.ExpenseTarget, req.Mode)
	if err != nil {
		return nil, err
	}

	inv := &Invoice{
		Case:                *cs,
		Client:              summary.Client,
		Summary:             summary,
		PeriodStart:         from.Format(time.DateOnly),
		PeriodEnd:           cutoff.Format(time.DateOnly),
		Entries:             entries,
		PeriodHours:         period.TotalHours,
		PeriodFeesCents:     period.FeeCents,
		PeriodExpensesCents: period.ExpenseCents,
		Trust:               balances,
		Reconciliation:      recon,
	}
	s.log.Info("invoice prepared", "case_id", req.CaseID, "period", inv.PeriodStart, "mode", recon.Mode, "total_due", recon.TotalDue)
	return inv, nil
}
