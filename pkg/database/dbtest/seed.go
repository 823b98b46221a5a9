package dbtest

import (
	"testing"

	"gorm.io/gorm"

	"github.com/aldoetobex/legal-trust-ledger/pkg/models"
)

func SeedPerson(tb testing.TB, db *gorm.DB, first, last string) *models.Person {
	tb.Helper()
	p := &models.Person{
		FirstName:        first,
		LastName:         last,
		BillingRateCents: models.DefaultBillingRateCents,
	}
	if err := db.Create(p).Error; err != nil {
		tb.Fatalf("seed person: %v", err)
	}
	return p
}

func SeedCase(tb testing.TB, db *gorm.DB, name string, litigation bool) *models.Case {
	tb.Helper()
	c := &models.Case{
		CaseName:         name,
		IsLitigation:     litigation,
		Status:           models.CaseOpen,
		BillingRateCents: models.DefaultBillingRateCents,
	}
	if err := db.Create(c).Error; err != nil {
		tb.Fatalf("seed case: %v", err)
	}
	return c
}

// SeedParty inserts an edge directly, bypassing graph rules, to set up
// states such as orphaned staff.
func SeedParty(tb testing.TB, db *gorm.DB, cp *models.CaseParty) *models.CaseParty {
	tb.Helper()
	if err := db.Create(cp).Error; err != nil {
		tb.Fatalf("seed case party: %v", err)
	}
	return cp
}
