package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldoetobex/legal-trust-ledger/pkg/logger"
	"github.com/aldoetobex/legal-trust-ledger/pkg/models"
)

// PaymentSums are the fee and expense portions summed over a set of payments.
type PaymentSums struct {
	FeeCents     int64 `json:"fee_payments_cents"`
	ExpenseCents int64 `json:"expense_payments_cents"`
}

type PaymentStore interface {
	Create(ctx context.Context, tx *gorm.DB, p *models.Payment) error
	Update(ctx context.Context, tx *gorm.DB, p *models.Payment) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Payment, error)
	ListByCase(ctx context.Context, tx *gorm.DB, caseID uuid.UUID) ([]models.Payment, error)
	ListByPerson(ctx context.Context, tx *gorm.DB, personID uuid.UUID) ([]models.Payment, error)
	SumByCase(ctx context.Context, tx *gorm.DB, caseID uuid.UUID, cutoff *time.Time) (PaymentSums, error)
	SumByPerson(ctx context.Context, tx *gorm.DB, personID uuid.UUID) (PaymentSums, error)
	DetachCase(ctx context.Context, tx *gorm.DB, caseID uuid.UUID) (int64, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	DeleteByPerson(ctx context.Context, tx *gorm.DB, personID uuid.UUID) (int64, error)
}

type paymentStore struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPaymentStore(db *gorm.DB, baseLog *logger.Logger) PaymentStore {
	return &paymentStore{db: db, log: baseLog.With("repo", "PaymentStore")}
}

func (s *paymentStore) Create(ctx context.Context, tx *gorm.DB, p *models.Payment) error {
	return conn(ctx, s.db, tx).Create(p).Error
}

func (s *paymentStore) Update(ctx context.Context, tx *gorm.DB, p *models.Payment) error {
	res := conn(ctx, s.db, tx).Model(&models.Payment{ID: p.ID}).
		Select("*").Omit("id", "created_at").
		Updates(p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound)
	}
	return nil
}

func (s *paymentStore) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Payment, error) {
	var p models.Payment
	if err := conn(ctx, s.db, tx).First(&p, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (s *paymentStore) ListByCase(ctx context.Context, tx *gorm.DB, caseID uuid.UUID) ([]models.Payment, error) {
	var out []models.Payment
	err := conn(ctx, s.db, tx).
		Where("case_id = ?", caseID).
		Order("payment_date DESC, created_at DESC").
		Find(&out).Error
	return out, err
}

func (s *paymentStore) ListByPerson(ctx context.Context, tx *gorm.DB, personID uuid.UUID) ([]models.Payment, error) {
	var out []models.Payment
	err := conn(ctx, s.db, tx).
		Where("person_id = ?", personID).
		Order("payment_date DESC, created_at DESC").
		Find(&out).Error
	return out, err
}

// SumByCase sums payments on the case dated on or before cutoff; nil means all.
func (s *paymentStore) SumByCase(ctx context.Context, tx *gorm.DB, caseID uuid.UUID, cutoff *time.Time) (PaymentSums, error) {
	q := conn(ctx, s.db, tx).Model(&models.Payment{}).
		Select("COALESCE(SUM(amount_cents), 0) AS fee_cents, COALESCE(SUM(expense_amount_cents), 0) AS expense_cents").
		Where("case_id = ?", caseID)
	if cutoff != nil {
		q = q.Where("payment_date <= ?", *cutoff)
	}
	var sums PaymentSums
	err := q.Scan(&sums).Error
	return sums, err
}

// SumByPerson covers every payment by the person, general payments included.
func (s *paymentStore) SumByPerson(ctx context.Context, tx *gorm.DB, personID uuid.UUID) (PaymentSums, error) {
	var sums PaymentSums
	err := conn(ctx, s.db, tx).Model(&models.Payment{}).
		Select("COALESCE(SUM(amount_cents), 0) AS fee_cents, COALESCE(SUM(expense_amount_cents), 0) AS expense_cents").
		Where("person_id = ?", personID).
		Scan(&sums).Error
	return sums, err
}

// DetachCase turns the case's payments into general payments.
func (s *paymentStore) DetachCase(ctx context.Context, tx *gorm.DB, caseID uuid.UUID) (int64, error) {
	res := conn(ctx, s.db, tx).Model(&models.Payment{}).
		Where("case_id = ?", caseID).
		Update("case_id", nil)
	return res.RowsAffected, res.Error
}

func (s *paymentStore) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	res := conn(ctx, s.db, tx).Delete(&models.Payment{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound)
	}
	return nil
}

func (s *paymentStore) DeleteByPerson(ctx context.Context, tx *gorm.DB, personID uuid.UUID) (int64, error) {
	res := conn(ctx, s.db, tx).Where("person_id = ?", personID).Delete(&models.Payment{})
	return res.RowsAffected, res.Error
}
