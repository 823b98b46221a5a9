package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aldoetobex/legal-trust-ledger/pkg/logger"
	"github.com/aldoetobex/legal-trust-ledger/pkg/models"
)

type BillingEntryStore interface {
	Create(ctx context.Context, tx *gorm.DB, e *models.BillingEntry) error
	Update(ctx context.Context, tx *gorm.DB, e *models.BillingEntry) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.BillingEntry, error)
	GetForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.BillingEntry, error)
	ListByCase(ctx context.Context, tx *gorm.DB, caseID uuid.UUID) ([]models.BillingEntry, error)
	ListRange(ctx context.Context, tx *gorm.DB, caseID uuid.UUID, from, to time.Time) ([]models.BillingEntry, error)
	ListThrough(ctx context.Context, tx *gorm.DB, caseID uuid.UUID, cutoff *time.Time) ([]models.BillingEntry, error)
	DayGroup(ctx context.Context, tx *gorm.DB, caseID uuid.UUID, day time.Time) ([]models.BillingEntry, error)
	MaxSortOrder(ctx context.Context, tx *gorm.DB, caseID uuid.UUID, day time.Time) (int, error)
	SetSortOrder(ctx context.Context, tx *gorm.DB, id uuid.UUID, order int) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	DeleteByCase(ctx context.Context, tx *gorm.DB, caseID uuid.UUID) (int64, error)
}

type billingEntryStore struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBillingEntryStore(db *gorm.DB, baseLog *logger.Logger) BillingEntryStore {
	return &billingEntryStore{db: db, log: baseLog.With("repo", "BillingEntryStore")}
}

func (s *billingEntryStore) Create(ctx context.Context, tx *gorm.DB, e *models.BillingEntry) error {
	return conn(ctx, s.db, tx).Create(e).Error
}

// Update writes every column except id and created_at, nulls included.
func (s *billingEntryStore) Update(ctx context.Context, tx *gorm.DB, e *models.BillingEntry) error {
	res := conn(ctx, s.db, tx).Model(&models.BillingEntry{ID: e.ID}).
		Select("*").Omit("id", "created_at").
		Updates(e)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound)
	}
	return nil
}

func (s *billingEntryStore) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.BillingEntry, error) {
	var e models.BillingEntry
	if err := conn(ctx, s.db, tx).First(&e, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

func (s *billingEntryStore) GetForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.BillingEntry, error) {
	var e models.BillingEntry
	if err := conn(ctx, s.db, tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&e, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

// ListByCase is newest day first, manual order within a day.
func (s *billingEntryStore) ListByCase(ctx context.Context, tx *gorm.DB, caseID uuid.UUID) ([]models.BillingEntry, error) {
	var out []models.BillingEntry
	err := conn(ctx, s.db, tx).
		Where("case_id = ?", caseID).
		Order("entry_date DESC, sort_order ASC").
		Find(&out).Error
	return out, err
}

// ListRange returns entries with from <= entry_date < to, in display order.
func (s *billingEntryStore) ListRange(ctx context.Context, tx *gorm.DB, caseID uuid.UUID, from, to time.Time) ([]models.BillingEntry, error) {
	var out []models.BillingEntry
	err := conn(ctx, s.db, tx).
		Where("case_id = ? AND entry_date >= ? AND entry_date < ?", caseID, from, to).
		Order("entry_date ASC, sort_order ASC").
		Find(&out).Error
	return out, err
}

// ListThrough returns entries dated on or before cutoff; nil means all.
func (s *billingEntryStore) ListThrough(ctx context.Context, tx *gorm.DB, caseID uuid.UUID, cutoff *time.Time) ([]models.BillingEntry, error) {
	q := conn(ctx, s.db, tx).Where("case_id = ?", caseID)
	if cutoff != nil {
		q = q.Where("entry_date <= ?", *cutoff)
	}
	var out []models.BillingEntry
	err := q.Order("entry_date ASC, sort_order ASC").Find(&out).Error
	return out, err
}

func (s *billingEntryStore) DayGroup(ctx context.Context, tx *gorm.DB, caseID uuid.UUID, day time.Time) ([]models.BillingEntry, error) {
	var out []models.BillingEntry
	err := conn(ctx, s.db, tx).
		Where("case_id = ? AND entry_date = ?", caseID, day).
		Order("sort_order ASC").
		Find(&out).Error
	return out, err
}

// MaxSortOrder is the highest sort_order of the day, or -1 for an empty day.
func (s *billingEntryStore) MaxSortOrder(ctx context.Context, tx *gorm.DB, caseID uuid.UUID, day time.Time) (int, error) {
	var max int
	err := conn(ctx, s.db, tx).Model(&models.BillingEntry{}).
		Select("COALESCE(MAX(sort_order), -1)").
		Where("case_id = ? AND entry_date = ?", caseID, day).
		Scan(&max).Error
	return max, err
}

func (s *billingEntryStore) SetSortOrder(ctx context.Context, tx *gorm.DB, id uuid.UUID, order int) error {
	return conn(ctx, s.db, tx).Model(&models.BillingEntry{}).
		Where("id = ?", id).
		Update("sort_order", order).Error
}

func (s *billingEntryStore) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	res := conn(ctx, s.db, tx).Delete(&models.BillingEntry{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound)
	}
	return nil
}

func (s *billingEntryStore) DeleteByCase(ctx context.Context, tx *gorm.DB, caseID uuid.UUID) (int64, error) {
	res := conn(ctx, s.db, tx).Where("case_id = ?", caseID).Delete(&models.BillingEntry{})
	return res.RowsAffected, res.Error
}
