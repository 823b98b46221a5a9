package payments

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldoetobex/legal-trust-ledger/internal/repos"
	"github.com/aldoetobex/legal-trust-ledger/pkg/apperrors"
	"github.com/aldoetobex/legal-trust-ledger/pkg/logger"
	"github.com/aldoetobex/legal-trust-ledger/pkg/models"
)

// PaymentInput is a payment split into a fee portion and an expense advance.
// CaseID nil records a general payment not tied to one matter.
type PaymentInput struct {
	PersonID           uuid.UUID
	CaseID             *uuid.UUID
	PaymentDate        time.Time
	AmountCents        int64
	ExpenseAmountCents int64
	PaymentMethod      string
	ReferenceNumber    string
	Notes              string
}

type CaseTotals struct {
	FeePaymentsCents     int64 `json:"fee_payments_cents"`
	ExpensePaymentsCents int64 `json:"expense_payments_cents"`
}

// ClientTotals spans all of a client's cases plus their general payments.
type ClientTotals struct {
	TotalPaymentsCents   int64 `json:"total_payments_cents"`
	FeePaymentsCents     int64 `json:"fee_payments_cents"`
	ExpensePaymentsCents int64 `json:"expense_payments_cents"`
}

type Ledger interface {
	Create(ctx context.Context, in PaymentInput) (*models.Payment, error)
	Update(ctx context.Context, id uuid.UUID, in PaymentInput) (*models.Payment, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByCase(ctx context.Context, caseID uuid.UUID) ([]models.Payment, error)
	ListByPerson(ctx context.Context, personID uuid.UUID) ([]models.Payment, error)
	CaseTotals(ctx context.Context, caseID uuid.UUID) (CaseTotals, error)
	CaseTotalsAsOf(ctx context.Context, caseID uuid.UUID, asOf time.Time) (CaseTotals, error)
	ClientTotals(ctx context.Context, personID uuid.UUID) (ClientTotals, error)
}

type ledger struct {
	db       *gorm.DB
	people   repos.PersonStore
	cases    repos.CaseStore
	payments repos.PaymentStore
	log      *logger.Logger
}

func NewLedger(stores *repos.Stores, baseLog *logger.Logger) Ledger {
	return &ledger{
		db:       stores.DB,
		people:   stores.People,
		cases:    stores.Cases,
		payments: stores.Payments,
		log:      baseLog.With("service", "PaymentLedger"),
	}
}

func validate(in PaymentInput) error {
	ve := &apperrors.ValidationError{}
	if in.PersonID == uuid.Nil {
		ve.Add("person_id", "This field is required")
	}
	if in.PaymentDate.IsZero() {
		ve.Add("payment_date", "This field is required")
	}
	if in.AmountCents < 0 {
		ve.Add("amount_cents", "Must be greater than or equal to 0")
	}
	if in.ExpenseAmountCents < 0 {
		ve.Add("expense_amount_cents", "Must be greater than or equal to 0")
	}
	if in.AmountCents == 0 && in.ExpenseAmountCents == 0 {
		ve.Add("amount_cents", "A fee or expense amount is required")
	}
	if ve.Empty() {
		return nil
	}
	return ve
}

// checkRefs confirms the payer and, when set, the case exist.
func (l *ledger) checkRefs(ctx context.Context, tx *gorm.DB, in PaymentInput) error {
	if _, err := l.people.GetByID(ctx, tx, in.PersonID); err != nil {
		return apperrors.Persist("load payer", err)
	}
	if in.CaseID != nil {
		if _, err := l.cases.GetByID(ctx, tx, *in.CaseID); err != nil {
			return apperrors.Persist("load case", err)
		}
	}
	return nil
}

func apply(p *models.Payment, in PaymentInput) {
	p.PersonID = in.PersonID
	p.CaseID = in.CaseID
	p.PaymentDate = models.Day(in.PaymentDate)
	p.AmountCents = in.AmountCents
	p.ExpenseAmountCents = in.ExpenseAmountCents
	p.PaymentMethod = strings.TrimSpace(in.PaymentMethod)
	p.ReferenceNumber = strings.TrimSpace(in.ReferenceNumber)
	p.Notes = strings.TrimSpace(in.Notes)
}

func (l *ledger) Create(ctx context.Context, in PaymentInput) (*models.Payment, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	p := &models.Payment{}
	apply(p, in)
	err := repos.InTx(ctx, l.db, func(tx *gorm.DB) error {
		if err := l.checkRefs(ctx, tx, in); err != nil {
			return err
		}
		return apperrors.Persist("create payment", l.payments.Create(ctx, tx, p))
	})
	if err != nil {
		l.log.Failure("create payment failed", err, "person_id", in.PersonID)
		return nil, err
	}
	l.log.Info("payment recorded", "payment_id", p.ID, "person_id", p.PersonID, "case_id", p.CaseID, "total_cents", p.TotalCents())
	return p, nil
}

func (l *ledger) Update(ctx context.Context, id uuid.UUID, in PaymentInput) (*models.Payment, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	var out *models.Payment
	err := repos.InTx(ctx, l.db, func(tx *gorm.DB) error {
		cur, err := l.payments.GetByID(ctx, tx, id)
		if err != nil {
			return apperrors.Persist("load payment", err)
		}
		if err := l.checkRefs(ctx, tx, in); err != nil {
			return err
		}
		apply(cur, in)
		if err := l.payments.Update(ctx, tx, cur); err != nil {
			return apperrors.Persist("update payment", err)
		}
		out = cur
		return nil
	})
	if err != nil {
		l.log.Failure("update payment failed", err, "payment_id", id)
		return nil, err
	}
	l.log.Info("payment updated", "payment_id", id)
	return out, nil
}

func (l *ledger) Get(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	p, err := l.payments.GetByID(ctx, nil, id)
	if err != nil {
		return nil, apperrors.Persist("load payment", err)
	}
	return p, nil
}

func (l *ledger) Delete(ctx context.Context, id uuid.UUID) error {
	if err := l.payments.Delete(ctx, nil, id); err != nil {
		err = apperrors.Persist("delete payment", err)
		l.log.Failure("delete payment failed", err, "payment_id", id)
		return err
	}
	l.log.Info("payment deleted", "payment_id", id)
	return nil
}

func (l *ledger) ListByCase(ctx context.Context, caseID uuid.UUID) ([]models.Payment, error) {
	out, err := l.payments.ListByCase(ctx, nil, caseID)
	return out, apperrors.Persist("list case payments", err)
}

func (l *ledger) ListByPerson(ctx context.Context, personID uuid.UUID) ([]models.Payment, error) {
	out, err := l.payments.ListByPerson(ctx, nil, personID)
	return out, apperrors.Persist("list person payments", err)
}

func (l *ledger) CaseTotals(ctx context.Context, caseID uuid.UUID) (CaseTotals, error) {
	return l.caseTotals(ctx, caseID, nil)
}

// CaseTotalsAsOf counts payments dated on or before asOf.
func (l *ledger) CaseTotalsAsOf(ctx context.Context, caseID uuid.UUID, asOf time.Time) (CaseTotals, error) {
	d := time.Time(models.Day(asOf))
	return l.caseTotals(ctx, caseID, &d)
}

func (l *ledger) caseTotals(ctx context.Context, caseID uuid.UUID, cutoff *time.Time) (CaseTotals, error) {
	sums, err := l.payments.SumByCase(ctx, nil, caseID, cutoff)
	if err != nil {
		return CaseTotals{}, apperrors.Persist("sum case payments", err)
	}
	return CaseTotals{FeePaymentsCents: sums.FeeCents, ExpensePaymentsCents: sums.ExpenseCents}, nil
}

func (l *ledger) ClientTotals(ctx context.Context, personID uuid.UUID) (ClientTotals, error) {
	sums, err := l.payments.SumByPerson(ctx, nil, personID)
	if err != nil {
		return ClientTotals{}, apperrors.Persist("sum client payments", err)
	}
	return ClientTotals{
		TotalPaymentsCents:   sums.FeeCents + sums.ExpenseCents,
		FeePaymentsCents:     sums.FeeCents,
		ExpensePaymentsCents: sums.ExpenseCents,
	}, nil
}
