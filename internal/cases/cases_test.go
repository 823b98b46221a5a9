package cases

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/aldoetobex/legal-trust-ledger/internal/parties"
	"github.com/aldoetobex/legal-trust-ledger/internal/repos"
	"github.com/aldoetobex/legal-trust-ledger/pkg/apperrors"
	"github.com/aldoetobex/legal-trust-ledger/pkg/database/dbtest"
	"github.com/aldoetobex/legal-trust-ledger/pkg/logger"
	"github.com/aldoetobex/legal-trust-ledger/pkg/models"
)

/* ============================================================================
   Helpers
   ============================================================================ */

type fixture struct {
	db    *gorm.DB
	svc   Service
	graph parties.Graph
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := dbtest.Open(t)
	stores := repos.NewStores(db, logger.Nop())
	g := parties.NewGraph(stores, logger.Nop())
	return fixture{db: db, svc: NewService(stores, g, 30000, logger.Nop()), graph: g}
}

func count(t *testing.T, db *gorm.DB, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Table(table).Count(&n).Error)
	return n
}

func designation(d models.Designation) *models.Designation { return &d }

/* ============================================================================
   Matter numbers
   ============================================================================ */

func Test_NextMatterNumber(t *testing.T) {
	cases := []struct {
		name     string
		prefix   string
		existing []string
		want     string
	}{
		{"first", "Smith", nil, "Smith-001"},
		{"after highest", "Smith", []string{"Smith-001", "Smith-007", "Smith-003"}, "Smith-008"},
		{"ignores non numeric", "Smith", []string{"Smith-abc", "Smith-002"}, "Smith-003"},
		{"last segment wins", "Smith", []string{"Smith-Jones-004"}, "Smith-005"},
		{"past three digits", "Lee", []string{"Lee-999"}, "Lee-1000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, nextMatterNumber(tc.prefix, tc.existing))
		})
	}

	assert.Equal(t, "OBrien", matterPrefix("O'Brien"))
	assert.Equal(t, "Matter", matterPrefix(" - "))
}

func Test_GenerateMatterNumber_ScansExisting(t *testing.T) {
	f := newFixture(t)
	dbtest.SeedCase(t, f.db, "Smith-001", false)
	dbtest.SeedCase(t, f.db, "Smith-007", false)
	dbtest.SeedCase(t, f.db, "Smithson-012", false)

	n, err := f.svc.GenerateMatterNumber(context.Background(), "Smith")
	require.NoError(t, err)
	assert.Equal(t, "Smith-008", n)

	n, err = f.svc.GenerateMatterNumber(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "Matter-001", n)
}

/* ============================================================================
   Create / update
   ============================================================================ */

func Test_CreateWithClient_DefaultsNameAndRate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := dbtest.SeedPerson(t, f.db, "Alice", "Smith")
	require.NoError(t, f.db.Model(client).Update("billing_rate_cents", 25000).Error)

	cs, err := f.svc.CreateWithClient(ctx, CaseInput{IsLitigation: true, CourtType: "District"}, client.ID, designation(models.DesignationPlaintiff))
	require.NoError(t, err)
	assert.Equal(t, "Smith-001", cs.CaseName)
	assert.Equal(t, int64(25000), cs.BillingRateCents)
	assert.Equal(t, models.CaseOpen, cs.Status)

	sum, err := f.graph.BuildSummary(ctx, cs.ID)
	require.NoError(t, err)
	require.NotNil(t, sum.Client)
	assert.Equal(t, client.ID, sum.Client.PersonID)
	require.NotNil(t, sum.Client.Designation)
	assert.Equal(t, models.DesignationPlaintiff, *sum.Client.Designation)

	second, err := f.svc.CreateWithClient(ctx, CaseInput{}, client.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "Smith-002", second.CaseName)
}

func Test_CreateWithClient_RollsBackOnClientFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := dbtest.SeedPerson(t, f.db, "Alice", "Smith")

	// Designations only apply to litigation; the case insert must not survive.
	_, err := f.svc.CreateWithClient(ctx, CaseInput{CaseName: "Smith-001"}, client.ID, designation(models.DesignationDefendant))
	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Zero(t, count(t, f.db, "cases"))
	assert.Zero(t, count(t, f.db, "case_parties"))

	_, err = f.svc.CreateWithClient(ctx, CaseInput{}, uuid.New(), nil)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Zero(t, count(t, f.db, "cases"))
}

func Test_CreateWithClient_Validation(t *testing.T) {
	f := newFixture(t)
	client := dbtest.SeedPerson(t, f.db, "Alice", "Smith")

	_, err := f.svc.CreateWithClient(context.Background(), CaseInput{Status: "Pending", BillingRateCents: -1}, client.ID, nil)
	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "status")
	assert.Contains(t, ve.Fields, "billing_rate_cents")
}

func Test_Update_NonLitigationClearsCourtAndDesignation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := dbtest.SeedPerson(t, f.db, "Alice", "Smith")

	cs, err := f.svc.CreateWithClient(ctx, CaseInput{IsLitigation: true, CourtType: "Circuit", County: "Cook"}, client.ID, designation(models.DesignationPlaintiff))
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, cs.ID, CaseInput{
		CaseName:         cs.CaseName,
		IsLitigation:     false,
		CourtType:        "Circuit",
		County:           "Cook",
		Status:           models.CaseClosed,
		BillingRateCents: 40000,
	}, designation(models.DesignationPlaintiff))
	require.NoError(t, err)
	assert.Empty(t, updated.CourtType)
	assert.Empty(t, updated.County)
	assert.Equal(t, models.CaseClosed, updated.Status)

	got, err := f.svc.Get(ctx, cs.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(40000), got.BillingRateCents)

	sum, err := f.graph.BuildSummary(ctx, cs.ID)
	require.NoError(t, err)
	require.NotNil(t, sum.Client)
	assert.Nil(t, sum.Client.Designation)
}

func Test_Update_ChangesDesignation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := dbtest.SeedPerson(t, f.db, "Alice", "Smith")
	cs, err := f.svc.CreateWithClient(ctx, CaseInput{IsLitigation: true}, client.ID, nil)
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, cs.ID, CaseInput{CaseName: cs.CaseName, IsLitigation: true}, designation(models.DesignationDefendant))
	require.NoError(t, err)

	sum, err := f.graph.BuildSummary(ctx, cs.ID)
	require.NoError(t, err)
	require.NotNil(t, sum.Client.Designation)
	assert.Equal(t, models.DesignationDefendant, *sum.Client.Designation)

	_, err = f.svc.Update(ctx, uuid.New(), CaseInput{CaseName: "x"}, nil)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

/* ============================================================================
   Listings
   ============================================================================ */

func Test_List_IncludeClosedAndClientName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := dbtest.SeedPerson(t, f.db, "Alice", "Smith")
	bob := dbtest.SeedPerson(t, f.db, "Bob", "Jones")

	open, err := f.svc.CreateWithClient(ctx, CaseInput{}, alice.ID, nil)
	require.NoError(t, err)
	_, err = f.svc.CreateWithClient(ctx, CaseInput{Status: models.CaseClosed}, bob.ID, nil)
	require.NoError(t, err)

	all, err := f.svc.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Jones-001", all[0].CaseName)
	assert.Equal(t, "Bob Jones", all[0].ClientName())

	active, err := f.svc.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, open.ID, active[0].ID)

	byClient, err := f.svc.ListByClient(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, byClient, 1)
	assert.Equal(t, open.ID, byClient[0].ID)
}

func Test_ListForPerson_RolesInRankOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := dbtest.SeedPerson(t, f.db, "Alice", "Smith")
	judge := dbtest.SeedPerson(t, f.db, "Jane", "Roe")

	cs, err := f.svc.CreateWithClient(ctx, CaseInput{IsLitigation: true}, alice.ID, nil)
	require.NoError(t, err)
	_, err = f.graph.AddParty(ctx, parties.AddInput{CaseID: cs.ID, PersonID: judge.ID, Role: models.RoleGuardianAdLitem})
	require.NoError(t, err)
	_, err = f.graph.AddParty(ctx, parties.AddInput{CaseID: cs.ID, PersonID: judge.ID, Role: models.RoleJudge})
	require.NoError(t, err)

	out, err := f.svc.ListForPerson(ctx, judge.ID)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, []models.Role{models.RoleJudge, models.RoleGuardianAdLitem}, out[0].Roles)

	none, err := f.svc.ListForPerson(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)
}

/* ============================================================================
   Delete
   ============================================================================ */

func Test_Delete_CascadesAndDetachesPayments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := dbtest.SeedPerson(t, f.db, "Alice", "Smith")
	cs, err := f.svc.CreateWithClient(ctx, CaseInput{}, client.ID, nil)
	require.NoError(t, err)

	amount := int64(1200)
	require.NoError(t, f.db.Create(&models.BillingEntry{
		CaseID: cs.ID, EntryDate: models.Day(time.Now()), IsExpense: true, AmountCents: &amount,
	}).Error)
	pay := &models.Payment{PersonID: client.ID, CaseID: &cs.ID, PaymentDate: models.Day(time.Now()), AmountCents: 5000}
	require.NoError(t, f.db.Create(pay).Error)

	require.NoError(t, f.svc.Delete(ctx, cs.ID))

	assert.Zero(t, count(t, f.db, "cases"))
	assert.Zero(t, count(t, f.db, "case_parties"))
	assert.Zero(t, count(t, f.db, "billing_entries"))

	var kept models.Payment
	require.NoError(t, f.db.First(&kept, "id = ?", pay.ID).Error)
	assert.Nil(t, kept.CaseID)

	require.ErrorIs(t, f.svc.Delete(ctx, cs.ID), apperrors.ErrNotFound)
}
