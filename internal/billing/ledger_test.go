package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/aldoetobex/legal-trust-ledger/internal/repos"
	"github.com/aldoetobex/legal-trust-ledger/pkg/apperrors"
	"github.com/aldoetobex/legal-trust-ledger/pkg/database/dbtest"
	"github.com/aldoetobex/legal-trust-ledger/pkg/logger"
	"github.com/aldoetobex/legal-trust-ledger/pkg/models"
)

/* ============================================================================
   Helpers
   ============================================================================ */

func newLedger(t *testing.T) (Ledger, *gorm.DB) {
	t.Helper()
	db := dbtest.Open(t)
	return NewLedger(repos.NewStores(db, logger.Nop()), logger.Nop()), db
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func hours(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func cents(v int64) *int64 { return &v }

func timeEntry(caseID uuid.UUID, d time.Time, h string) EntryInput {
	return EntryInput{CaseID: caseID, EntryDate: d, Hours: hours(h), Description: "work"}
}

func ids(entries []models.BillingEntry) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

/* ============================================================================
   Tests
   ============================================================================ */

func Test_Append_IncreasingSortOrder(t *testing.T) {
	l, db := newLedger(t)
	ctx := context.Background()
	cs := dbtest.SeedCase(t, db, "Smith-001", true)
	d := day(2024, time.March, 5)

	a, err := l.Append(ctx, timeEntry(cs.ID, d, "1"))
	require.NoError(t, err)
	b, err := l.Append(ctx, timeEntry(cs.ID, d.Add(15*time.Hour), "2"))
	require.NoError(t, err)
	other, err := l.Append(ctx, timeEntry(cs.ID, day(2024, time.March, 6), "1"))
	require.NoError(t, err)

	assert.Equal(t, 0, a.SortOrder)
	assert.Equal(t, 1, b.SortOrder)
	assert.Equal(t, 0, other.SortOrder)
}

func Test_Append_UnknownCase(t *testing.T) {
	l, _ := newLedger(t)
	_, err := l.Append(context.Background(), timeEntry(uuid.New(), day(2024, 1, 1), "1"))
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func Test_Move_SwapsWithinDay(t *testing.T) {
	l, db := newLedger(t)
	ctx := context.Background()
	cs := dbtest.SeedCase(t, db, "Smith-001", true)
	d := day(2024, time.March, 5)

	a, err := l.Append(ctx, timeEntry(cs.ID, d, "1"))
	require.NoError(t, err)
	b, err := l.Append(ctx, timeEntry(cs.ID, d, "1"))
	require.NoError(t, err)
	c, err := l.Append(ctx, timeEntry(cs.ID, d, "1"))
	require.NoError(t, err)

	moved, err := l.MoveUp(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, moved)
	moved, err = l.MoveDown(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, moved)

	moved, err = l.MoveUp(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, moved)

	got, err := l.EntriesForPeriod(ctx, cs.ID, 2024, 3)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a.ID, c.ID, b.ID}, ids(got))

	moved, err = l.MoveDown(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, moved)

	got, err = l.EntriesForPeriod(ctx, cs.ID, 2024, 3)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a.ID, b.ID, c.ID}, ids(got))
}

func Test_Move_SingleEntryDay(t *testing.T) {
	l, db := newLedger(t)
	ctx := context.Background()
	cs := dbtest.SeedCase(t, db, "Smith-001", true)

	a, err := l.Append(ctx, timeEntry(cs.ID, day(2024, 3, 5), "1"))
	require.NoError(t, err)
	_, err = l.Append(ctx, timeEntry(cs.ID, day(2024, 3, 6), "1"))
	require.NoError(t, err)

	moved, err := l.MoveDown(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, moved)

	_, err = l.MoveDown(ctx, uuid.New())
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func Test_Totals(t *testing.T) {
	l, db := newLedger(t)
	ctx := context.Background()
	cs := dbtest.SeedCase(t, db, "Smith-001", true)

	_, err := l.Append(ctx, timeEntry(cs.ID, day(2024, 3, 5), "2.0"))
	require.NoError(t, err)
	_, err = l.Append(ctx, timeEntry(cs.ID, day(2024, 3, 6), "1.5"))
	require.NoError(t, err)
	_, err = l.Append(ctx, EntryInput{CaseID: cs.ID, EntryDate: day(2024, 3, 7), IsExpense: true, AmountCents: cents(5000), Description: "filing fee"})
	require.NoError(t, err)

	tot, err := l.Totals(ctx, cs.ID)
	require.NoError(t, err)
	assert.True(t, tot.TotalHours.Equal(decimal.RequireFromString("3.5")), "hours %s", tot.TotalHours)
	assert.Equal(t, int64(105000), tot.FeeCents)
	assert.Equal(t, int64(5000), tot.ExpenseCents)

	asOf, err := l.TotalsAsOf(ctx, cs.ID, day(2024, 3, 6))
	require.NoError(t, err)
	assert.Equal(t, int64(105000), asOf.FeeCents)
	assert.Equal(t, int64(0), asOf.ExpenseCents)

	// The case's current rate reprices history.
	require.NoError(t, db.Model(&models.Case{}).Where("id = ?", cs.ID).Update("billing_rate_cents", 20000).Error)
	tot, err = l.Totals(ctx, cs.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(70000), tot.FeeCents)
}

func Test_Update_DateChangeAppendsToNewDay(t *testing.T) {
	l, db := newLedger(t)
	ctx := context.Background()
	cs := dbtest.SeedCase(t, db, "Smith-001", true)
	d1, d2 := day(2024, 3, 5), day(2024, 3, 6)

	a, err := l.Append(ctx, timeEntry(cs.ID, d1, "1"))
	require.NoError(t, err)
	b, err := l.Append(ctx, timeEntry(cs.ID, d1, "1"))
	require.NoError(t, err)
	_, err = l.Append(ctx, timeEntry(cs.ID, d2, "1"))
	require.NoError(t, err)
	_, err = l.Append(ctx, timeEntry(cs.ID, d2, "1"))
	require.NoError(t, err)

	// Same day: position kept.
	same, err := l.Update(ctx, b.ID, EntryInput{EntryDate: d1, Hours: hours("3"), Description: "edited"})
	require.NoError(t, err)
	assert.Equal(t, b.SortOrder, same.SortOrder)

	moved, err := l.Update(ctx, a.ID, timeEntry(cs.ID, d2, "1"))
	require.NoError(t, err)
	assert.Equal(t, 2, moved.SortOrder)
	assert.Equal(t, cs.ID, moved.CaseID)
}

func Test_Update_ToggleExpenseNullsHours(t *testing.T) {
	l, db := newLedger(t)
	ctx := context.Background()
	cs := dbtest.SeedCase(t, db, "Smith-001", true)

	e, err := l.Append(ctx, timeEntry(cs.ID, day(2024, 3, 5), "1.25"))
	require.NoError(t, err)

	_, err = l.Update(ctx, e.ID, EntryInput{EntryDate: day(2024, 3, 5), IsExpense: true, Hours: hours("1.25"), AmountCents: cents(1200)})
	require.NoError(t, err)

	got, err := l.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, got.IsExpense)
	assert.Nil(t, got.Hours)
	require.NotNil(t, got.AmountCents)
	assert.Equal(t, int64(1200), *got.AmountCents)
}

func Test_Append_Validation(t *testing.T) {
	l, db := newLedger(t)
	ctx := context.Background()
	cs := dbtest.SeedCase(t, db, "Smith-001", true)

	_, err := l.Append(ctx, EntryInput{CaseID: cs.ID, EntryDate: day(2024, 3, 5)})
	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "hours")

	_, err = l.Append(ctx, EntryInput{CaseID: cs.ID, EntryDate: day(2024, 3, 5), IsExpense: true, AmountCents: cents(-1)})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "amount_cents")

	_, err = l.Append(ctx, EntryInput{CaseID: cs.ID, Hours: hours("1")})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "entry_date")
}

func Test_EntriesForPeriod_HalfOpen(t *testing.T) {
	l, db := newLedger(t)
	ctx := context.Background()
	cs := dbtest.SeedCase(t, db, "Smith-001", true)

	_, err := l.Append(ctx, timeEntry(cs.ID, day(2024, 2, 29), "1"))
	require.NoError(t, err)
	first, err := l.Append(ctx, timeEntry(cs.ID, day(2024, 3, 1), "1"))
	require.NoError(t, err)
	last, err := l.Append(ctx, timeEntry(cs.ID, day(2024, 3, 31), "1"))
	require.NoError(t, err)
	_, err = l.Append(ctx, timeEntry(cs.ID, day(2024, 4, 1), "1"))
	require.NoError(t, err)

	got, err := l.EntriesForPeriod(ctx, cs.ID, 2024, 3)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first.ID, last.ID}, ids(got))

	_, err = l.EntriesForPeriod(ctx, cs.ID, 2024, 13)
	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
}

func Test_Sum_RoundsOnce(t *testing.T) {
	entries := []models.BillingEntry{
		{Hours: hours("0.33")},
		{Hours: hours("0.33")},
		{Hours: hours("0.34")},
		{IsExpense: true, AmountCents: cents(250)},
	}
	tot := Sum(entries, 12555)
	assert.True(t, tot.TotalHours.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, int64(12555), tot.FeeCents)
	assert.Equal(t, int64(250), tot.ExpenseCents)
}
