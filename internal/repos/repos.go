// Package repos holds one store per entity. Every method takes an optional
// transaction; a nil tx runs against the store's own connection.
package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/aldoetobex/legal-trust-ledger/pkg/apperrors"
	"github.com/aldoetobex/legal-trust-ledger/pkg/logger"
)

// Stores bundles every store over one connection.
type Stores struct {
	DB       *gorm.DB
	People   PersonStore
	Cases    CaseStore
	Parties  CasePartyStore
	Billing  BillingEntryStore
	Payments PaymentStore
}

func NewStores(db *gorm.DB, log *logger.Logger) *Stores {
	return &Stores{
		DB:       db,
		People:   NewPersonStore(db, log),
		Cases:    NewCaseStore(db, log),
		Parties:  NewCasePartyStore(db, log),
		Billing:  NewBillingEntryStore(db, log),
		Payments: NewPaymentStore(db, log),
	}
}

func conn(ctx context.Context, db, tx *gorm.DB) *gorm.DB {
	if tx == nil {
		tx = db
	}
	return tx.WithContext(ctx)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound
	}
	return err
}

// InTx runs fn inside a transaction on db, rolling back on error or panic.
func InTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) (err error) {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return apperrors.Persist("begin transaction", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()
	if err = fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err = tx.Commit().Error; err != nil {
		return apperrors.Persist("commit transaction", err)
	}
	return nil
}
