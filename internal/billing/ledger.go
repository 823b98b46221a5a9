package billing

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aldoetobex/legal-trust-ledger/internal/repos"
	"github.com/aldoetobex/legal-trust-ledger/pkg/apperrors"
	"github.com/aldoetobex/legal-trust-ledger/pkg/logger"
	"github.com/aldoetobex/legal-trust-ledger/pkg/models"
	"github.com/aldoetobex/legal-trust-ledger/pkg/money"
	"github.com/aldoetobex/legal-trust-ledger/pkg/sanitize"
)

// swapSentinel parks one entry during a swap so the (case, day, order)
// unique index never sees two rows with the same value.
const swapSentinel = math.MinInt32

// EntryInput is a time entry (Hours) or an expense (AmountCents), selected
// by IsExpense. The other field is ignored and stored as null.
type EntryInput struct {
	CaseID      uuid.UUID
	EntryDate   time.Time
	IsExpense   bool
	Hours       *decimal.Decimal
	AmountCents *int64
	Description string
}

// Totals aggregates a case's entries. FeeCents prices hours at the case's
// current rate.
type Totals struct {
	TotalHours   decimal.Decimal `json:"total_hours"`
	FeeCents     int64           `json:"fee_cents"`
	ExpenseCents int64           `json:"expense_cents"`
	RateCents    int64           `json:"rate_cents"`
}

type Ledger interface {
	Append(ctx context.Context, in EntryInput) (*models.BillingEntry, error)
	Update(ctx context.Context, id uuid.UUID, in EntryInput) (*models.BillingEntry, error)
	Get(ctx context.Context, id uuid.UUID) (*models.BillingEntry, error)
	Delete(ctx context.Context, id uuid.UUID) error
	MoveUp(ctx context.Context, id uuid.UUID) (bool, error)
	MoveDown(ctx context.Context, id uuid.UUID) (bool, error)
	ListByCase(ctx context.Context, caseID uuid.UUID) ([]models.BillingEntry, error)
	Totals(ctx context.Context, caseID uuid.UUID) (Totals, error)
	TotalsAsOf(ctx context.Context, caseID uuid.UUID, asOf time.Time) (Totals, error)
	EntriesForPeriod(ctx context.Context, caseID uuid.UUID, year, month int) ([]models.BillingEntry, error)
}

type ledger struct {
	db      *gorm.DB
	cases   repos.CaseStore
	entries repos.BillingEntryStore
	log     *logger.Logger
}

func NewLedger(stores *repos.Stores, baseLog *logger.Logger) Ledger {
	return &ledger{
		db:      stores.DB,
		cases:   stores.Cases,
		entries: stores.Billing,
		log:     baseLog.With("service", "BillingLedger"),
	}
}

// normalize checks the input and applies the one-of hours/amount rule.
func normalize(in EntryInput) (EntryInput, error) {
	ve := &apperrors.ValidationError{}
	if in.EntryDate.IsZero() {
		ve.Add("entry_date", "This field is required")
	}
	in.Description = strings.TrimSpace(in.Description)
	if len(in.Description) > 2000 {
		ve.Add("description", "Must be at most 2000 characters")
	}
	if in.IsExpense {
		in.Hours = nil
		switch {
		case in.AmountCents == nil:
			ve.Add("amount_cents", "Expense entries need an amount")
		case *in.AmountCents < 0:
			ve.Add("amount_cents", "Must be greater than or equal to 0")
		}
	} else {
		in.AmountCents = nil
		switch {
		case in.Hours == nil:
			ve.Add("hours", "Time entries need hours")
		case in.Hours.IsNegative():
			ve.Add("hours", "Must be greater than or equal to 0")
		default:
			h := in.Hours.Round(2)
			in.Hours = &h
		}
	}
	if !ve.Empty() {
		return in, ve
	}
	in.EntryDate = time.Time(models.Day(in.EntryDate))
	return in, nil
}

// Append adds the entry at the end of its day's list.
func (l *ledger) Append(ctx context.Context, in EntryInput) (*models.BillingEntry, error) {
	in, err := normalize(in)
	if err != nil {
		return nil, err
	}

	e := &models.BillingEntry{
		CaseID:      in.CaseID,
		EntryDate:   models.Day(in.EntryDate),
		IsExpense:   in.IsExpense,
		Hours:       in.Hours,
		AmountCents: in.AmountCents,
		Description: in.Description,
	}
	err = repos.InTx(ctx, l.db, func(tx *gorm.DB) error {
		if _, err := l.cases.GetForUpdate(ctx, tx, in.CaseID); err != nil {
			return apperrors.Persist("load case", err)
		}
		max, err := l.entries.MaxSortOrder(ctx, tx, in.CaseID, in.EntryDate)
		if err != nil {
			return apperrors.Persist("next sort order", err)
		}
		e.SortOrder = max + 1
		return apperrors.Persist("create billing entry", l.entries.Create(ctx, tx, e))
	})
	if err != nil {
		l.log.Failure("append entry failed", err, "case_id", in.CaseID)
		return nil, err
	}
	l.log.Info("billing entry added", "case_id", e.CaseID, "entry_id", e.ID, "sort_order", e.SortOrder,
		"description", sanitize.Summary(e.Description, 60))
	return e, nil
}

// Update rewrites the entry. Moving it to another day puts it at the end of
// that day's list; otherwise its position is kept. The case never changes.
func (l *ledger) Update(ctx context.Context, id uuid.UUID, in EntryInput) (*models.BillingEntry, error) {
	in, err := normalize(in)
	if err != nil {
		return nil, err
	}

	var out *models.BillingEntry
	err = repos.InTx(ctx, l.db, func(tx *gorm.DB) error {
		cur, err := l.entries.GetForUpdate(ctx, tx, id)
		if err != nil {
			return apperrors.Persist("load billing entry", err)
		}
		next := *cur
		next.EntryDate = models.Day(in.EntryDate)
		next.IsExpense = in.IsExpense
		next.Hours = in.Hours
		next.AmountCents = in.AmountCents
		next.Description = in.Description

		if !models.SameDay(cur.EntryDate, next.EntryDate) {
			max, err := l.entries.MaxSortOrder(ctx, tx, cur.CaseID, in.EntryDate)
			if err != nil {
				return apperrors.Persist("next sort order", err)
			}
			next.SortOrder = max + 1
		}
		if err := l.entries.Update(ctx, tx, &next); err != nil {
			return apperrors.Persist("update billing entry", err)
		}
		out = &next
		return nil
	})
	if err != nil {
		l.log.Failure("update entry failed", err, "entry_id", id)
		return nil, err
	}
	l.log.Info("billing entry updated", "entry_id", id, "sort_order", out.SortOrder)
	return out, nil
}

func (l *ledger) Get(ctx context.Context, id uuid.UUID) (*models.BillingEntry, error) {
	e, err := l.entries.GetByID(ctx, nil, id)
	if err != nil {
		return nil, apperrors.Persist("load billing entry", err)
	}
	return e, nil
}

func (l *ledger) Delete(ctx context.Context, id uuid.UUID) error {
	if err := l.entries.Delete(ctx, nil, id); err != nil {
		err = apperrors.Persist("delete billing entry", err)
		l.log.Failure("delete entry failed", err, "entry_id", id)
		return err
	}
	l.log.Info("billing entry deleted", "entry_id", id)
	return nil
}

func (l *ledger) MoveUp(ctx context.Context, id uuid.UUID) (bool, error) {
	return l.move(ctx, id, -1)
}

func (l *ledger) MoveDown(ctx context.Context, id uuid.UUID) (bool, error) {
	return l.move(ctx, id, +1)
}

// move swaps sort_order values with the neighbour in direction dir within
// the entry's (case, day) group. Other entries keep their values.
func (l *ledger) move(ctx context.Context, id uuid.UUID, dir int) (bool, error) {
	moved := false
	err := repos.InTx(ctx, l.db, func(tx *gorm.DB) error {
		cur, err := l.entries.GetForUpdate(ctx, tx, id)
		if err != nil {
			return apperrors.Persist("load billing entry", err)
		}
		group, err := l.entries.DayGroup(ctx, tx, cur.CaseID, time.Time(cur.EntryDate))
		if err != nil {
			return apperrors.Persist("load day group", err)
		}
		pos := -1
		for i := range group {
			if group[i].ID == id {
				pos = i
				break
			}
		}
		if pos < 0 {
			return nil
		}
		j := pos + dir
		if j < 0 || j >= len(group) {
			return nil
		}
		a, b := group[pos], group[j]
		if err := l.entries.SetSortOrder(ctx, tx, a.ID, swapSentinel); err != nil {
			return apperrors.Persist("swap sort order", err)
		}
		if err := l.entries.SetSortOrder(ctx, tx, b.ID, a.SortOrder); err != nil {
			return apperrors.Persist("swap sort order", err)
		}
		if err := l.entries.SetSortOrder(ctx, tx, a.ID, b.SortOrder); err != nil {
			return apperrors.Persist("swap sort order", err)
		}
		moved = true
		return nil
	})
	if err != nil {
		l.log.Failure("move entry failed", err, "entry_id", id)
		return false, err
	}
	return moved, nil
}

func (l *ledger) ListByCase(ctx context.Context, caseID uuid.UUID) ([]models.BillingEntry, error) {
	out, err := l.entries.ListByCase(ctx, nil, caseID)
	if err != nil {
		return nil, apperrors.Persist("list billing entries", err)
	}
	return out, nil
}

func (l *ledger) Totals(ctx context.Context, caseID uuid.UUID) (Totals, error) {
	return l.totals(ctx, caseID, nil)
}

// TotalsAsOf counts only entries dated on or before asOf.
func (l *ledger) TotalsAsOf(ctx context.Context, caseID uuid.UUID, asOf time.Time) (Totals, error) {
	d := time.Time(models.Day(asOf))
	return l.totals(ctx, caseID, &d)
}

func (l *ledger) totals(ctx context.Context, caseID uuid.UUID, cutoff *time.Time) (Totals, error) {
	cs, err := l.cases.GetByID(ctx, nil, caseID)
	if err != nil {
		return Totals{}, apperrors.Persist("load case", err)
	}
	entries, err := l.entries.ListThrough(ctx, nil, caseID, cutoff)
	if err != nil {
		return Totals{}, apperrors.Persist("load billing entries", err)
	}
	return Sum(entries, cs.BillingRateCents), nil
}

// Sum totals entries at rateCents per hour. The fee is the exact product of
// summed hours and rate, rounded to the cent once.
func Sum(entries []models.BillingEntry, rateCents int64) Totals {
	t := Totals{TotalHours: decimal.Zero, RateCents: rateCents}
	for _, e := range entries {
		if e.IsExpense {
			if e.AmountCents != nil {
				t.ExpenseCents += *e.AmountCents
			}
			continue
		}
		if e.Hours != nil {
			t.TotalHours = t.TotalHours.Add(*e.Hours)
		}
	}
	t.FeeCents = money.FeeCents(t.TotalHours, rateCents)
	return t
}

// EntriesForPeriod returns the month's entries, [first of month, first of next).
func (l *ledger) EntriesForPeriod(ctx context.Context, caseID uuid.UUID, year, month int) ([]models.BillingEntry, error) {
	from, to, err := MonthRange(year, month)
	if err != nil {
		return nil, err
	}
	out, err := l.entries.ListRange(ctx, nil, caseID, from, to)
	if err != nil {
		return nil, apperrors.Persist("list billing period", err)
	}
	return out, nil
}

// MonthRange is the half-open UTC range covering the month.
func MonthRange(year, month int) (from, to time.Time, err error) {
	if month < 1 || month > 12 {
		return from, to, apperrors.Validation("month", "Must be between 1 and 12")
	}
	if year < 1900 || year > 9999 {
		return from, to, apperrors.Validation("year", "Must be between 1900 and 9999")
	}
	from = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0), nil
}
