package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldoetobex/legal-trust-ledger/pkg/apperrors"
	"github.com/aldoetobex/legal-trust-ledger/pkg/logger"
	"github.com/aldoetobex/legal-trust-ledger/pkg/models"
)

// PartyRow is a case_parties row joined with the person it names and, when
// set, the name of the person it represents.
type PartyRow struct {
	models.CaseParty `gorm:"embedded"`
	FirstName        string  `json:"first_name"`
	MiddleName       string  `json:"middle_name"`
	LastName         string  `json:"last_name"`
	FirmName         string  `json:"firm_name"`
	JobTitle         string  `json:"job_title"`
	Email            string  `json:"email"`
	Phone            string  `json:"phone"`
	RepFirstName     *string `json:"-"`
	RepLastName      *string `json:"-"`
}

// FullName is the associated person's "First Middle Last".
func (r PartyRow) FullName() string { return models.JoinName(r.FirstName, r.MiddleName, r.LastName) }

// RepresentsName is the represented person's "First Last", or empty when
// the edge points nowhere or at a deleted person.
func (r PartyRow) RepresentsName() string {
	var first, last string
	if r.RepFirstName != nil {
		first = *r.RepFirstName
	}
	if r.RepLastName != nil {
		last = *r.RepLastName
	}
	return models.JoinName(first, last)
}

type CasePartyStore interface {
	Create(ctx context.Context, tx *gorm.DB, cp *models.CaseParty) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.CaseParty, error)
	Find(ctx context.Context, tx *gorm.DB, caseID, personID uuid.UUID, role models.Role) (*models.CaseParty, error)
	ListByCase(ctx context.Context, tx *gorm.DB, caseID uuid.UUID) ([]PartyRow, error)
	ListByCaseRole(ctx context.Context, tx *gorm.DB, caseID uuid.UUID, role models.Role) ([]PartyRow, error)
	CountRepresenting(ctx context.Context, tx *gorm.DB, caseID, personID uuid.UUID, role models.Role) (int64, error)
	UpdateDesignation(ctx context.Context, tx *gorm.DB, caseID uuid.UUID, role models.Role, d *models.Designation) (int64, error)
	SetProSe(ctx context.Context, tx *gorm.DB, caseID, personID uuid.UUID, proSe bool) (int64, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	DeleteByCaseRole(ctx context.Context, tx *gorm.DB, caseID uuid.UUID, role models.Role) (int64, error)
	DeleteByCase(ctx context.Context, tx *gorm.DB, caseID uuid.UUID) (int64, error)
	DeleteByPerson(ctx context.Context, tx *gorm.DB, personID uuid.UUID) (int64, error)
	ClearRepresents(ctx context.Context, tx *gorm.DB, personID uuid.UUID) (int64, error)
}

type casePartyStore struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCasePartyStore(db *gorm.DB, baseLog *logger.Logger) CasePartyStore {
	return &casePartyStore{db: db, log: baseLog.With("repo", "CasePartyStore")}
}

// Create inserts the edge. A (case, person, role) collision comes back as
// *apperrors.DuplicateRoleError.
func (s *casePartyStore) Create(ctx context.Context, tx *gorm.DB, cp *models.CaseParty) error {
	err := conn(ctx, s.db, tx).Create(cp).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &apperrors.DuplicateRoleError{CaseID: cp.CaseID, PersonID: cp.PersonID, Role: string(cp.Role)}
	}
	return err
}

func (s *casePartyStore) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.CaseParty, error) {
	var cp models.CaseParty
	if err := conn(ctx, s.db, tx).First(&cp, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &cp, nil
}

func (s *casePartyStore) Find(ctx context.Context, tx *gorm.DB, caseID, personID uuid.UUID, role models.Role) (*models.CaseParty, error) {
	var cp models.CaseParty
	if err := conn(ctx, s.db, tx).
		Where("case_id = ? AND person_id = ? AND role = ?", caseID, personID, role).
		First(&cp).Error; err != nil {
		return nil, notFound(err)
	}
	return &cp, nil
}

func (s *casePartyStore) joined(ctx context.Context, tx *gorm.DB) *gorm.DB {
	return conn(ctx, s.db, tx).Table("case_parties").
		Select(`case_parties.*,
			p.first_name AS first_name, p.middle_name AS middle_name, p.last_name AS last_name,
			p.firm_name AS firm_name, p.job_title AS job_title, p.email AS email, p.phone AS phone,
			rp.first_name AS rep_first_name, rp.last_name AS rep_last_name`).
		Joins("JOIN people p ON p.id = case_parties.person_id").
		Joins("LEFT JOIN people rp ON rp.id = case_parties.represents_person_id")
}

// ListByCase reads every edge of the case in one query, in insertion order.
func (s *casePartyStore) ListByCase(ctx context.Context, tx *gorm.DB, caseID uuid.UUID) ([]PartyRow, error) {
	var rows []PartyRow
	err := s.joined(ctx, tx).
		Where("case_parties.case_id = ?", caseID).
		Order("case_parties.created_at ASC").
		Scan(&rows).Error
	return rows, err
}

func (s *casePartyStore) ListByCaseRole(ctx context.Context, tx *gorm.DB, caseID uuid.UUID, role models.Role) ([]PartyRow, error) {
	var rows []PartyRow
	err := s.joined(ctx, tx).
		Where("case_parties.case_id = ? AND case_parties.role = ?", caseID, role).
		Order("p.last_name ASC, p.first_name ASC").
		Scan(&rows).Error
	return rows, err
}

// CountRepresenting counts edges of role on the case that represent personID.
func (s *casePartyStore) CountRepresenting(ctx context.Context, tx *gorm.DB, caseID, personID uuid.UUID, role models.Role) (int64, error) {
	var n int64
	err := conn(ctx, s.db, tx).Model(&models.CaseParty{}).
		Where("case_id = ? AND represents_person_id = ? AND role = ?", caseID, personID, role).
		Count(&n).Error
	return n, err
}

func (s *casePartyStore) UpdateDesignation(ctx context.Context, tx *gorm.DB, caseID uuid.UUID, role models.Role, d *models.Designation) (int64, error) {
	res := conn(ctx, s.db, tx).Model(&models.CaseParty{}).
		Where("case_id = ? AND role = ?", caseID, role).
		Update("party_designation", d)
	return res.RowsAffected, res.Error
}

func (s *casePartyStore) SetProSe(ctx context.Context, tx *gorm.DB, caseID, personID uuid.UUID, proSe bool) (int64, error) {
	res := conn(ctx, s.db, tx).Model(&models.CaseParty{}).
		Where("case_id = ? AND person_id = ? AND role = ?", caseID, personID, models.RoleOpposingParty).
		Update("is_pro_se", proSe)
	return res.RowsAffected, res.Error
}

func (s *casePartyStore) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	res := conn(ctx, s.db, tx).Delete(&models.CaseParty{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound)
	}
	return nil
}

func (s *casePartyStore) DeleteByCaseRole(ctx context.Context, tx *gorm.DB, caseID uuid.UUID, role models.Role) (int64, error) {
	res := conn(ctx, s.db, tx).
		Where("case_id = ? AND role = ?", caseID, role).
		Delete(&models.CaseParty{})
	return res.RowsAffected, res.Error
}

func (s *casePartyStore) DeleteByCase(ctx context.Context, tx *gorm.DB, caseID uuid.UUID) (int64, error) {
	res := conn(ctx, s.db, tx).Where("case_id = ?", caseID).Delete(&models.CaseParty{})
	return res.RowsAffected, res.Error
}

func (s *casePartyStore) DeleteByPerson(ctx context.Context, tx *gorm.DB, personID uuid.UUID) (int64, error) {
	res := conn(ctx, s.db, tx).Where("person_id = ?", personID).Delete(&models.CaseParty{})
	return res.RowsAffected, res.Error
}

// ClearRepresents nulls every represents edge pointing at personID. The
// edges themselves stay; their holders become unattached.
func (s *casePartyStore) ClearRepresents(ctx context.Context, tx *gorm.DB, personID uuid.UUID) (int64, error) {
	res := conn(ctx, s.db, tx).Model(&models.CaseParty{}).
		Where("represents_person_id = ?", personID).
		Update("represents_person_id", nil)
	return res.RowsAffected, res.Error
}
