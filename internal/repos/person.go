package repos

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldoetobex/legal-trust-ledger/pkg/logger"
	"github.com/aldoetobex/legal-trust-ledger/pkg/models"
)

type PersonStore interface {
	Create(ctx context.Context, tx *gorm.DB, p *models.Person) error
	Update(ctx context.Context, tx *gorm.DB, p *models.Person) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Person, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]models.Person, error)
	List(ctx context.Context, tx *gorm.DB) ([]models.Person, error)
	FindByName(ctx context.Context, tx *gorm.DB, first, last string) ([]models.Person, error)
	ListClients(ctx context.Context, tx *gorm.DB) ([]models.Person, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type personStore struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPersonStore(db *gorm.DB, baseLog *logger.Logger) PersonStore {
	return &personStore{db: db, log: baseLog.With("repo", "PersonStore")}
}

func (s *personStore) Create(ctx context.Context, tx *gorm.DB, p *models.Person) error {
	return conn(ctx, s.db, tx).Create(p).Error
}

// Update writes every column except id and created_at.
func (s *personStore) Update(ctx context.Context, tx *gorm.DB, p *models.Person) error {
	res := conn(ctx, s.db, tx).Model(&models.Person{ID: p.ID}).
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

func (s *personStore) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Person, error) {
	var p models.Person
	if err := conn(ctx, s.db, tx).First(&p, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (s *personStore) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]models.Person, error) {
	var out []models.Person
	if len(ids) == 0 {
		return out, nil
	}
	if err := conn(ctx, s.db, tx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *personStore) List(ctx context.Context, tx *gorm.DB) ([]models.Person, error) {
	var out []models.Person
	err := conn(ctx, s.db, tx).Order("last_name ASC, first_name ASC").Find(&out).Error
	return out, err
}

// FindByName matches first and last name case-insensitively.
func (s *personStore) FindByName(ctx context.Context, tx *gorm.DB, first, last string) ([]models.Person, error) {
	var out []models.Person
	err := conn(ctx, s.db, tx).
		Where("LOWER(first_name) = ? AND LOWER(last_name) = ?",
			strings.ToLower(strings.TrimSpace(first)), strings.ToLower(strings.TrimSpace(last))).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

// ListClients returns people holding a client edge on at least one case.
func (s *personStore) ListClients(ctx context.Context, tx *gorm.DB) ([]models.Person, error) {
	var out []models.Person
	sub := conn(ctx, s.db, tx).Model(&models.CaseParty{}).
		Select("person_id").
		Where("role = ?", models.RoleClient)
	err := conn(ctx, s.db, tx).
		Where("id IN (?)", sub).
		Order("last_name ASC, first_name ASC").
		Find(&out).Error
	return out, err
}

func (s *personStore) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	res := conn(ctx, s.db, tx).Delete(&models.Person{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound)
	}
	return nil
}
