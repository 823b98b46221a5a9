package people

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
	"github.com/aldoetobex/legal-trust-ledger/pkg/models"
)

func newService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := dbtest.Open(t)
	return NewService(repos.NewStores(db, logger.Nop()), 30000, logger.Nop()), db
}

func Test_Create_DefaultsRateAndTrims(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, PersonInput{FirstName: " Alice ", LastName: "Smith", Email: "alice@example.com", Phone: "(555) 123-4567"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", p.FirstName)
	assert.Equal(t, int64(30000), p.BillingRateCents)

	custom, err := svc.Create(ctx, PersonInput{FirstName: "Bob", LastName: "Jones", BillingRateCents: 45000})
	require.NoError(t, err)
	assert.Equal(t, int64(45000), custom.BillingRateCents)
}

func Test_Create_Validation(t *testing.T) {
	svc, db := newService(t)

	_, err := svc.Create(context.Background(), PersonInput{FirstName: "  ", Email: "nope", Phone: "12", BillingRateCents: -1})
	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	for _, f := range []string{"first_name", "last_name", "email", "phone", "billing_rate_cents"} {
		assert.Contains(t, ve.Fields, f)
	}

	var n int64
	require.NoError(t, db.Table("people").Count(&n).Error)
	assert.Zero(t, n)
}

func Test_Update_And_List(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	zed, err := svc.Create(ctx, PersonInput{FirstName: "Zed", LastName: "Adams"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, PersonInput{FirstName: "Amy", LastName: "Brown"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, PersonInput{FirstName: "Abe", LastName: "Adams"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, zed.ID, PersonInput{FirstName: "Zed", LastName: "Adams", FirmName: "Adams LLP", BillingRateCents: 10000})
	require.NoError(t, err)
	got, err := svc.Get(ctx, zed.ID)
	require.NoError(t, err)
	assert.Equal(t, "Adams LLP", got.FirmName)
	assert.Equal(t, int64(10000), got.BillingRateCents)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Abe", list[0].FirstName)
	assert.Equal(t, "Zed", list[1].FirstName)
	assert.Equal(t, "Brown", list[2].LastName)

	_, err = svc.Update(ctx, uuid.New(), PersonInput{FirstName: "X", LastName: "Y"})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func Test_FindDuplicates_CaseInsensitive(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, PersonInput{FirstName: "Alice", LastName: "Smith"})
	require.NoError(t, err)

	dups, err := svc.FindDuplicates(ctx, " alice", "SMITH ")
	require.NoError(t, err)
	assert.Len(t, dups, 1)

	dups, err = svc.FindDuplicates(ctx, "", "Smith")
	require.NoError(t, err)
	assert.Empty(t, dups)
}

func Test_ListClients(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	client := dbtest.SeedPerson(t, db, "Alice", "Smith")
	judge := dbtest.SeedPerson(t, db, "Jane", "Roe")
	cs := dbtest.SeedCase(t, db, "Smith-001", true)
	dbtest.SeedParty(t, db, &models.CaseParty{CaseID: cs.ID, PersonID: client.ID, Role: models.RoleClient})
	dbtest.SeedParty(t, db, &models.CaseParty{CaseID: cs.ID, PersonID: judge.ID, Role: models.RoleJudge})

	clients, err := svc.ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, client.ID, clients[0].ID)
}

func Test_Delete_CascadesAndUnlinks(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	party := dbtest.SeedPerson(t, db, "Oscar", "Opp")
	counsel := dbtest.SeedPerson(t, db, "Carla", "Counsel")
	cs := dbtest.SeedCase(t, db, "Smith-001", true)
	dbtest.SeedParty(t, db, &models.CaseParty{CaseID: cs.ID, PersonID: party.ID, Role: models.RoleOpposingParty})
	edge := dbtest.SeedParty(t, db, &models.CaseParty{CaseID: cs.ID, PersonID: counsel.ID, Role: models.RoleOpposingCounsel, RepresentsPersonID: &party.ID})
	require.NoError(t, db.Create(&models.Payment{PersonID: party.ID, PaymentDate: models.Day(time.Now()), AmountCents: 100}).Error)

	require.NoError(t, svc.Delete(ctx, party.ID))

	var remaining []models.CaseParty
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, edge.ID, remaining[0].ID)
	assert.Nil(t, remaining[0].RepresentsPersonID)

	var pays int64
	require.NoError(t, db.Table("payments").Count(&pays).Error)
	assert.Zero(t, pays)

	_, err := svc.Get(ctx, party.ID)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	require.ErrorIs(t, svc.Delete(ctx, party.ID), apperrors.ErrNotFound)
}
