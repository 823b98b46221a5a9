package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/aldoetobex/legal-trust-ledger/pkg/config"
	"github.com/aldoetobex/legal-trust-ledger/pkg/models"
)

// Models is the AutoMigrate list shared by the server, the CLI and tests.
func Models() []any {
	return []any{
		&models.Person{},
		&models.Case{},
		&models.CaseParty{},
		&models.BillingEntry{},
		&models.Payment{},
	}
}

// Open connects to the configured store. Unique-constraint violations are
// translated to gorm.ErrDuplicatedKey so callers can classify them.
func Open(cfg config.DatabaseConfig, quiet bool) (*gorm.DB, error) {
	gcfg := &gorm.Config{TranslateError: true}
	if quiet {
		gcfg.Logger = gormlogger.Default.LogMode(gormlogger.Silent)
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.URL)
	case "sqlite", "":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if cfg.Driver != "postgres" {
		// One writer; every multi-statement sequence runs on the same connection.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// Migrate creates or updates every table and index.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
