package payments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/aldoetobex/legal-trust-ledger/internal/repos"
	"github.com/aldoetobex/legal-trust-ledger/pkg/apperrors"
	"github.com/aldoetobex/legal-trust-ledger/pkg/database/dbtest"
	"github.com/aldoetobex/legal-trust-ledger/pkg/logger"
)

func newLedger(t *testing.T) (Ledger, *gorm.DB) {
	t.Helper()
	db := dbtest.Open(t)
	return NewLedger(repos.NewStores(db, logger.Nop()), logger.Nop()), db
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func Test_Create_Validation(t *testing.T) {
	l, db := newLedger(t)
	ctx := context.Background()
	p := dbtest.SeedPerson(t, db, "Alice", "Smith")

	cases := []struct {
		name  string
		in    PaymentInput
		field string
	}{
		{"both zero", PaymentInput{PersonID: p.ID, PaymentDate: day(2024, 3, 1)}, "amount_cents"},
		{"negative fee", PaymentInput{PersonID: p.ID, PaymentDate: day(2024, 3, 1), AmountCents: -1, ExpenseAmountCents: 100}, "amount_cents"},
		{"negative expense", PaymentInput{PersonID: p.ID, PaymentDate: day(2024, 3, 1), AmountCents: 100, ExpenseAmountCents: -1}, "expense_amount_cents"},
		{"no date", PaymentInput{PersonID: p.ID, AmountCents: 100}, "payment_date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := l.Create(ctx, tc.in)
			var ve *apperrors.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Fields, tc.field)
		})
	}

	var n int64
	require.NoError(t, db.Table("payments").Count(&n).Error)
	assert.Zero(t, n)
}

func Test_Create_UnknownRefs(t *testing.T) {
	l, db := newLedger(t)
	ctx := context.Background()
	p := dbtest.SeedPerson(t, db, "Alice", "Smith")
	missing := uuid.New()

	_, err := l.Create(ctx, PaymentInput{PersonID: uuid.New(), PaymentDate: day(2024, 3, 1), AmountCents: 100})
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = l.Create(ctx, PaymentInput{PersonID: p.ID, CaseID: &missing, PaymentDate: day(2024, 3, 1), AmountCents: 100})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func Test_Totals_CaseAndClient(t *testing.T) {
	l, db := newLedger(t)
	ctx := context.Background()
	client := dbtest.SeedPerson(t, db, "Alice", "Smith")
	a := dbtest.SeedCase(t, db, "Smith-001", true)
	b := dbtest.SeedCase(t, db, "Smith-002", false)

	for _, in := range []PaymentInput{
		{PersonID: client.ID, CaseID: &a.ID, PaymentDate: day(2024, 1, 10), AmountCents: 50000, ExpenseAmountCents: 10000},
		{PersonID: client.ID, CaseID: &a.ID, PaymentDate: day(2024, 2, 10), AmountCents: 25000},
		{PersonID: client.ID, CaseID: &b.ID, PaymentDate: day(2024, 1, 15), ExpenseAmountCents: 3000},
		{PersonID: client.ID, PaymentDate: day(2024, 1, 20), AmountCents: 1000},
	} {
		_, err := l.Create(ctx, in)
		require.NoError(t, err)
	}

	ct, err := l.CaseTotals(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, CaseTotals{FeePaymentsCents: 75000, ExpensePaymentsCents: 10000}, ct)

	asOf, err := l.CaseTotalsAsOf(ctx, a.ID, day(2024, 1, 31))
	require.NoError(t, err)
	assert.Equal(t, CaseTotals{FeePaymentsCents: 50000, ExpensePaymentsCents: 10000}, asOf)

	empty, err := l.CaseTotals(ctx, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, CaseTotals{}, empty)

	tot, err := l.ClientTotals(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, ClientTotals{TotalPaymentsCents: 89000, FeePaymentsCents: 76000, ExpensePaymentsCents: 13000}, tot)

	listed, err := l.ListByPerson(ctx, client.ID)
	require.NoError(t, err)
	var sum int64
	for _, p := range listed {
		sum += p.TotalCents()
	}
	assert.Equal(t, tot.TotalPaymentsCents, sum)
}

func Test_Update_MovesToGeneral(t *testing.T) {
	l, db := newLedger(t)
	ctx := context.Background()
	client := dbtest.SeedPerson(t, db, "Alice", "Smith")
	a := dbtest.SeedCase(t, db, "Smith-001", true)

	p, err := l.Create(ctx, PaymentInput{PersonID: client.ID, CaseID: &a.ID, PaymentDate: day(2024, 1, 10), AmountCents: 50000, PaymentMethod: " check "})
	require.NoError(t, err)
	assert.Equal(t, "check", p.PaymentMethod)

	_, err = l.Update(ctx, p.ID, PaymentInput{PersonID: client.ID, PaymentDate: day(2024, 1, 11), AmountCents: 40000})
	require.NoError(t, err)

	got, err := l.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CaseID)
	assert.Equal(t, int64(40000), got.AmountCents)

	list, err := l.ListByCase(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = l.ListByPerson(ctx, client.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, l.Delete(ctx, p.ID))
	require.ErrorIs(t, l.Delete(ctx, p.ID), apperrors.ErrNotFound)
}
