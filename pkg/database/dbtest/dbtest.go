// Package dbtest opens a throwaway in-memory SQLite database per test,
// migrated with the production model list.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldoetobex/legal-trust-ledger/pkg/config"
	"github.com/aldoetobex/legal-trust-ledger/pkg/database"
)

// Open returns a fresh, migrated database. Data never leaks between tests.
func Open(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", SQLitePath: dsn}, true)
	if err != nil {
		tb.Fatalf("open db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
