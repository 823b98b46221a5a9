package parties

import (
	"context"
	"errors"
	"testing"

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

/* ============================================================================
   Helpers
   ============================================================================ */

func newGraph(t *testing.T) (Graph, *gorm.DB) {
	t.Helper()
	db := dbtest.Open(t)
	return NewGraph(repos.NewStores(db, logger.Nop()), logger.Nop()), db
}

func uuidPtr(id uuid.UUID) *uuid.UUID { return &id }

func designation(d models.Designation) *models.Designation { return &d }

func countRole(t *testing.T, db *gorm.DB, caseID uuid.UUID, role models.Role) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.CaseParty{}).
		Where("case_id = ? AND role = ?", caseID, role).Count(&n).Error)
	return n
}

/* ============================================================================
   Tests
   ============================================================================ */

func Test_AddParty_DuplicateTriple(t *testing.T) {
	g, db := newGraph(t)
	ctx := context.Background()
	cs := dbtest.SeedCase(t, db, "Smith-001", true)
	p := dbtest.SeedPerson(t, db, "Ann", "Judge")

	_, err := g.AddParty(ctx, AddInput{CaseID: cs.ID, PersonID: p.ID, Role: models.RoleJudge})
	require.NoError(t, err)

	_, err = g.AddParty(ctx, AddInput{CaseID: cs.ID, PersonID: p.ID, Role: models.RoleJudge})
	var dup *apperrors.DuplicateRoleError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "judge", dup.Role)
	assert.Equal(t, int64(1), countRole(t, db, cs.ID, models.RoleJudge))

	// Same person, different role is fine.
	_, err = g.AddParty(ctx, AddInput{CaseID: cs.ID, PersonID: p.ID, Role: models.RoleCourtStaff})
	require.NoError(t, err)
}

func Test_SetClient_ReplacesExactlyOne(t *testing.T) {
	g, db := newGraph(t)
	ctx := context.Background()
	cs := dbtest.SeedCase(t, db, "Smith-001", true)
	a := dbtest.SeedPerson(t, db, "Alice", "Smith")
	b := dbtest.SeedPerson(t, db, "Bob", "Jones")

	_, err := g.SetClient(ctx, cs.ID, a.ID, designation(models.DesignationPlaintiff))
	require.NoError(t, err)
	assert.Equal(t, int64(1), countRole(t, db, cs.ID, models.RoleClient))

	_, err = g.SetClient(ctx, cs.ID, b.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), countRole(t, db, cs.ID, models.RoleClient))

	s, err := g.BuildSummary(ctx, cs.ID)
	require.NoError(t, err)
	require.NotNil(t, s.Client)
	assert.Equal(t, b.ID, s.Client.PersonID)
	assert.Nil(t, s.Client.Designation)

	// Setting the same client again keeps a single edge.
	_, err = g.SetClient(ctx, cs.ID, b.ID, designation(models.DesignationDefendant))
	require.NoError(t, err)
	assert.Equal(t, int64(1), countRole(t, db, cs.ID, models.RoleClient))
}

func Test_SetClient_FailureKeepsExistingClient(t *testing.T) {
	g, db := newGraph(t)
	ctx := context.Background()
	cs := dbtest.SeedCase(t, db, "Smith-001", true)
	a := dbtest.SeedPerson(t, db, "Alice", "Smith")

	_, err := g.SetClient(ctx, cs.ID, a.ID, nil)
	require.NoError(t, err)

	_, err = g.SetClient(ctx, cs.ID, uuid.New(), nil)
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	members, err := g.ByRole(ctx, cs.ID, models.RoleClient)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, a.ID, members[0].PersonID)
}

func Test_AddParty_SecondClientRejected(t *testing.T) {
	g, db := newGraph(t)
	ctx := context.Background()
	cs := dbtest.SeedCase(t, db, "Smith-001", false)
	a := dbtest.SeedPerson(t, db, "Alice", "Smith")
	b := dbtest.SeedPerson(t, db, "Bob", "Jones")

	_, err := g.AddParty(ctx, AddInput{CaseID: cs.ID, PersonID: a.ID, Role: models.RoleClient})
	require.NoError(t, err)

	_, err = g.AddParty(ctx, AddInput{CaseID: cs.ID, PersonID: b.ID, Role: models.RoleClient})
	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "role")
	assert.Equal(t, int64(1), countRole(t, db, cs.ID, models.RoleClient))
}

func Test_AddCounsel_ClearsProSe(t *testing.T) {
	g, db := newGraph(t)
	ctx := context.Background()
	cs := dbtest.SeedCase(t, db, "Smith-001", true)
	party := dbtest.SeedPerson(t, db, "Dan", "Doe")
	atty := dbtest.SeedPerson(t, db, "Lee", "Lawyer")

	_, err := g.AddParty(ctx, AddInput{CaseID: cs.ID, PersonID: party.ID, Role: models.RoleOpposingParty, IsProSe: true})
	require.NoError(t, err)

	s, err := g.BuildSummary(ctx, cs.ID)
	require.NoError(t, err)
	require.Len(t, s.OpposingParties, 1)
	assert.True(t, s.OpposingParties[0].Party.IsProSe)

	_, err = g.AddParty(ctx, AddInput{
		CaseID: cs.ID, PersonID: atty.ID, Role: models.RoleOpposingCounsel,
		RepresentsPersonID: uuidPtr(party.ID),
	})
	require.NoError(t, err)

	s, err = g.BuildSummary(ctx, cs.ID)
	require.NoError(t, err)
	require.Len(t, s.OpposingParties, 1)
	assert.False(t, s.OpposingParties[0].Party.IsProSe)
	require.Len(t, s.OpposingParties[0].Attorneys, 1)
	assert.Equal(t, atty.ID, s.OpposingParties[0].Attorneys[0].PersonID)
}

func Test_AddProSeParty_WithExistingCounsel(t *testing.T) {
	g, db := newGraph(t)
	ctx := context.Background()
	cs := dbtest.SeedCase(t, db, "Smith-001", true)
	party := dbtest.SeedPerson(t, db, "Dan", "Doe")
	atty := dbtest.SeedPerson(t, db, "Lee", "Lawyer")

	partyEdge, err := g.AddParty(ctx, AddInput{CaseID: cs.ID, PersonID: party.ID, Role: models.RoleOpposingParty})
	require.NoError(t, err)
	_, err = g.AddParty(ctx, AddInput{
		CaseID: cs.ID, PersonID: atty.ID, Role: models.RoleOpposingCounsel,
		RepresentsPersonID: uuidPtr(party.ID),
	})
	require.NoError(t, err)

	// Re-adding the party as pro se while counsel still points at them.
	require.NoError(t, g.RemoveParty(ctx, partyEdge))
	_, err = g.AddParty(ctx, AddInput{CaseID: cs.ID, PersonID: party.ID, Role: models.RoleOpposingParty, IsProSe: true})
	require.NoError(t, err)

	var cp models.CaseParty
	require.NoError(t, db.Where("case_id = ? AND person_id = ? AND role = ?", cs.ID, party.ID, models.RoleOpposingParty).First(&cp).Error)
	assert.False(t, cp.IsProSe)
}

func Test_AddParty_InvalidRepresentation(t *testing.T) {
	g, db := newGraph(t)
	ctx := context.Background()
	cs := dbtest.SeedCase(t, db, "Smith-001", true)
	other := dbtest.SeedCase(t, db, "Other-001", true)
	party := dbtest.SeedPerson(t, db, "Dan", "Doe")
	atty := dbtest.SeedPerson(t, db, "Lee", "Lawyer")
	clerk := dbtest.SeedPerson(t, db, "Kim", "Clerk")

	// Party exists only on another case.
	_, err := g.AddParty(ctx, AddInput{CaseID: other.ID, PersonID: party.ID, Role: models.RoleOpposingParty})
	require.NoError(t, err)

	_, err = g.AddParty(ctx, AddInput{
		CaseID: cs.ID, PersonID: atty.ID, Role: models.RoleOpposingCounsel,
		RepresentsPersonID: uuidPtr(party.ID),
	})
	var rep *apperrors.InvalidRepresentationError
	require.ErrorAs(t, err, &rep)

	// judge_staff must point at the judge.
	_, err = g.AddParty(ctx, AddInput{
		CaseID: other.ID, PersonID: clerk.ID, Role: models.RoleJudgeStaff,
		RepresentsPersonID: uuidPtr(party.ID),
	})
	require.ErrorAs(t, err, &rep)

	// Roles without a parent cannot carry a represents edge at all.
	_, err = g.AddParty(ctx, AddInput{
		CaseID: other.ID, PersonID: clerk.ID, Role: models.RoleCoCounsel,
		RepresentsPersonID: uuidPtr(party.ID),
	})
	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "represents_person_id")
}

func Test_AddParty_DesignationRules(t *testing.T) {
	g, db := newGraph(t)
	ctx := context.Background()
	transactional := dbtest.SeedCase(t, db, "Will-001", false)
	p := dbtest.SeedPerson(t, db, "Dan", "Doe")

	_, err := g.AddParty(ctx, AddInput{
		CaseID: transactional.ID, PersonID: p.ID, Role: models.RoleOpposingParty,
		Designation: designation(models.DesignationDefendant),
	})
	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)

	_, err = g.AddParty(ctx, AddInput{
		CaseID: transactional.ID, PersonID: p.ID, Role: models.RoleJudge,
		Designation: designation(models.DesignationDefendant),
	})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "party_designation")
}

func Test_SetDesignation(t *testing.T) {
	g, db := newGraph(t)
	ctx := context.Background()
	cs := dbtest.SeedCase(t, db, "Smith-001", true)
	a := dbtest.SeedPerson(t, db, "Alice", "Smith")

	require.ErrorIs(t, g.SetDesignation(ctx, cs.ID, designation(models.DesignationPlaintiff)), apperrors.ErrNotFound)

	_, err := g.SetClient(ctx, cs.ID, a.ID, nil)
	require.NoError(t, err)
	require.NoError(t, g.SetDesignation(ctx, cs.ID, designation(models.DesignationPlaintiff)))

	s, err := g.BuildSummary(ctx, cs.ID)
	require.NoError(t, err)
	require.NotNil(t, s.Client.Designation)
	assert.Equal(t, models.DesignationPlaintiff, *s.Client.Designation)

	require.NoError(t, g.SetDesignation(ctx, cs.ID, nil))
	s, err = g.BuildSummary(ctx, cs.ID)
	require.NoError(t, err)
	assert.Nil(t, s.Client.Designation)
}

func Test_Summary_DropsOrphanedStaff(t *testing.T) {
	g, db := newGraph(t)
	ctx := context.Background()
	cs := dbtest.SeedCase(t, db, "Smith-001", true)
	party := dbtest.SeedPerson(t, db, "Dan", "Doe")
	atty := dbtest.SeedPerson(t, db, "Lee", "Lawyer")
	para := dbtest.SeedPerson(t, db, "Pat", "Paralegal")

	_, err := g.AddParty(ctx, AddInput{CaseID: cs.ID, PersonID: party.ID, Role: models.RoleOpposingParty})
	require.NoError(t, err)
	attyEdge, err := g.AddParty(ctx, AddInput{CaseID: cs.ID, PersonID: atty.ID, Role: models.RoleOpposingCounsel, RepresentsPersonID: uuidPtr(party.ID)})
	require.NoError(t, err)
	staffEdge, err := g.AddParty(ctx, AddInput{CaseID: cs.ID, PersonID: para.ID, Role: models.RoleOpposingStaff, RepresentsPersonID: uuidPtr(atty.ID)})
	require.NoError(t, err)

	s, err := g.BuildSummary(ctx, cs.ID)
	require.NoError(t, err)
	require.Len(t, s.OpposingParties, 1)
	require.Len(t, s.OpposingParties[0].Staff, 1)
	assert.Equal(t, para.ID, s.OpposingParties[0].Staff[0].PersonID)
	assert.Zero(t, s.Dropped.Total())

	require.NoError(t, g.RemoveParty(ctx, attyEdge))

	first, err := g.BuildSummary(ctx, cs.ID)
	require.NoError(t, err)
	second, err := g.BuildSummary(ctx, cs.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	require.Len(t, first.OpposingParties, 1)
	assert.Empty(t, first.OpposingParties[0].Attorneys)
	assert.Empty(t, first.OpposingParties[0].Staff)
	assert.Equal(t, 1, first.Dropped.Staff)
	assert.Equal(t, []uuid.UUID{staffEdge}, first.Dropped.AssociationIDs)

	// The staff edge is still stored.
	var n int64
	require.NoError(t, db.Model(&models.CaseParty{}).Where("id = ?", staffEdge).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func Test_Members_RoleThenName(t *testing.T) {
	g, db := newGraph(t)
	ctx := context.Background()
	cs := dbtest.SeedCase(t, db, "Smith-001", true)
	judge := dbtest.SeedPerson(t, db, "Ann", "Bench")
	client := dbtest.SeedPerson(t, db, "Zed", "Zulu")
	oppB := dbtest.SeedPerson(t, db, "Bea", "Young")
	oppA := dbtest.SeedPerson(t, db, "Abe", "Young")
	gal := dbtest.SeedPerson(t, db, "Gil", "Adams")

	for _, in := range []AddInput{
		{CaseID: cs.ID, PersonID: gal.ID, Role: models.RoleGuardianAdLitem},
		{CaseID: cs.ID, PersonID: judge.ID, Role: models.RoleJudge},
		{CaseID: cs.ID, PersonID: oppB.ID, Role: models.RoleOpposingParty},
		{CaseID: cs.ID, PersonID: oppA.ID, Role: models.RoleOpposingParty},
		{CaseID: cs.ID, PersonID: client.ID, Role: models.RoleClient},
	} {
		_, err := g.AddParty(ctx, in)
		require.NoError(t, err)
	}

	members, err := g.Members(ctx, cs.ID)
	require.NoError(t, err)
	got := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		got = append(got, m.PersonID)
	}
	assert.Equal(t, []uuid.UUID{client.ID, oppA.ID, oppB.ID, judge.ID, gal.ID}, got)

	_, err = g.ByRole(ctx, cs.ID, models.Role("bailiff"))
	var ve *apperrors.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func Test_ClearProSe(t *testing.T) {
	g, db := newGraph(t)
	ctx := context.Background()
	cs := dbtest.SeedCase(t, db, "Smith-001", true)
	p := dbtest.SeedPerson(t, db, "Dan", "Doe")

	require.ErrorIs(t, g.ClearProSe(ctx, cs.ID, p.ID), apperrors.ErrNotFound)

	_, err := g.AddParty(ctx, AddInput{CaseID: cs.ID, PersonID: p.ID, Role: models.RoleOpposingParty, IsProSe: true})
	require.NoError(t, err)
	require.NoError(t, g.ClearProSe(ctx, cs.ID, p.ID))

	rows, err := g.ByRole(ctx, cs.ID, models.RoleOpposingParty)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].IsProSe)
}
