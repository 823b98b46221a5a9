package repos

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aldoetobex/legal-trust-ledger/pkg/logger"
	"github.com/aldoetobex/legal-trust-ledger/pkg/models"
)

// CaseRow is a case with its client's name, when it has one.
type CaseRow struct {
	models.Case     `gorm:"embedded"`
	ClientID        *uuid.UUID `json:"client_id,omitempty"`
	ClientFirstName *string    `json:"client_first_name,omitempty"`
	ClientLastName  *string    `json:"client_last_name,omitempty"`
}

// ClientName is "First Last" or empty.
func (r CaseRow) ClientName() string {
	var first, last string
	if r.ClientFirstName != nil {
		first = *r.ClientFirstName
	}
	if r.ClientLastName != nil {
		last = *r.ClientLastName
	}
	return models.JoinName(first, last)
}

// PersonCase is a case together with every role one person holds on it.
type PersonCase struct {
	Case  models.Case   `json:"case"`
	Roles []models.Role `json:"roles"`
}

type CaseStore interface {
	Create(ctx context.Context, tx *gorm.DB, c *models.Case) error
	Update(ctx context.Context, tx *gorm.DB, c *models.Case) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Case, error)
	GetForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Case, error)
	List(ctx context.Context, tx *gorm.DB, includeClosed bool) ([]CaseRow, error)
	ListByClient(ctx context.Context, tx *gorm.DB, personID uuid.UUID) ([]models.Case, error)
	ListForPerson(ctx context.Context, tx *gorm.DB, personID uuid.UUID) ([]PersonCase, error)
	NamesWithPrefix(ctx context.Context, tx *gorm.DB, prefix string) ([]string, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type caseStore struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCaseStore(db *gorm.DB, baseLog *logger.Logger) CaseStore {
	return &caseStore{db: db, log: baseLog.With("repo", "CaseStore")}
}

func (s *caseStore) Create(ctx context.Context, tx *gorm.DB, c *models.Case) error {
	return conn(ctx, s.db, tx).Create(c).Error
}

func (s *caseStore) Update(ctx context.Context, tx *gorm.DB, c *models.Case) error {
	res := conn(ctx, s.db, tx).Model(&models.Case{ID: c.ID}).
		Select("*").Omit("id", "created_at").
		Updates(c)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound)
	}
	return nil
}

func (s *caseStore) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Case, error) {
	var c models.Case
	if err := conn(ctx, s.db, tx).First(&c, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// GetForUpdate locks the case row for the rest of tx (a no-op on SQLite,
// where the single connection already serializes writers).
func (s *caseStore) GetForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Case, error) {
	var c models.Case
	if err := conn(ctx, s.db, tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&c, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (s *caseStore) List(ctx context.Context, tx *gorm.DB, includeClosed bool) ([]CaseRow, error) {
	q := conn(ctx, s.db, tx).Table("cases").
		Select("cases.*, people.id AS client_id, people.first_name AS client_first_name, people.last_name AS client_last_name").
		Joins("LEFT JOIN case_parties cp ON cp.case_id = cases.id AND cp.role = ?", models.RoleClient).
		Joins("LEFT JOIN people ON people.id = cp.person_id")
	if !includeClosed {
		q = q.Where("cases.status = ?", models.CaseOpen)
	}
	var rows []CaseRow
	if err := q.Order("cases.case_name ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *caseStore) ListByClient(ctx context.Context, tx *gorm.DB, personID uuid.UUID) ([]models.Case, error) {
	var out []models.Case
	sub := conn(ctx, s.db, tx).Model(&models.CaseParty{}).
		Select("case_id").
		Where("person_id = ? AND role = ?", personID, models.RoleClient)
	err := conn(ctx, s.db, tx).
		Where("id IN (?)", sub).
		Order("case_name ASC").
		Find(&out).Error
	return out, err
}

func (s *caseStore) ListForPerson(ctx context.Context, tx *gorm.DB, personID uuid.UUID) ([]PersonCase, error) {
	var edges []models.CaseParty
	if err := conn(ctx, s.db, tx).
		Where("person_id = ?", personID).
		Find(&edges).Error; err != nil {
		return nil, err
	}
	if len(edges) == 0 {
		return []PersonCase{}, nil
	}

	roles := map[uuid.UUID][]models.Role{}
	ids := make([]uuid.UUID, 0, len(edges))
	for _, e := range edges {
		if _, seen := roles[e.CaseID]; !seen {
			ids = append(ids, e.CaseID)
		}
		roles[e.CaseID] = append(roles[e.CaseID], e.Role)
	}

	var cases []models.Case
	if err := conn(ctx, s.db, tx).
		Where("id IN ?", ids).
		Order("case_name ASC").
		Find(&cases).Error; err != nil {
		return nil, err
	}

	out := make([]PersonCase, 0, len(cases))
	for _, c := range cases {
		rs := roles[c.ID]
		sortRoles(rs)
		out = append(out, PersonCase{Case: c, Roles: rs})
	}
	return out, nil
}

// NamesWithPrefix returns every case_name shaped like "<prefix>-...".
func (s *caseStore) NamesWithPrefix(ctx context.Context, tx *gorm.DB, prefix string) ([]string, error) {
	var names []string
	err := conn(ctx, s.db, tx).Model(&models.Case{}).
		Where("case_name LIKE ?", prefix+"-%").
		Pluck("case_name", &names).Error
	return names, err
}

func (s *caseStore) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	res := conn(ctx, s.db, tx).Delete(&models.Case{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound)
	}
	return nil
}

func sortRoles(rs []models.Role) {
	sort.Slice(rs, func(i, j int) bool { return rs[i].Rank() < rs[j].Rank() })
}
