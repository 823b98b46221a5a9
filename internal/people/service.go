// Package people manages the person directory. A person's identity is
// independent of any role they hold on a case.
package people

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldoetobex/legal-trust-ledger/internal/repos"
	"github.com/aldoetobex/legal-trust-ledger/pkg/apperrors"
	"github.com/aldoetobex/legal-trust-ledger/pkg/logger"
	"github.com/aldoetobex/legal-trust-ledger/pkg/models"
	"github.com/aldoetobex/legal-trust-ledger/pkg/validation"
)

type PersonInput struct {
	FirstName        string `json:"first_name" validate:"required,max=100"`
	MiddleName       string `json:"middle_name" validate:"max=100"`
	LastName         string `json:"last_name" validate:"required,max=100"`
	Phone            string `json:"phone" validate:"omitempty,phone"`
	Email            string `json:"email" validate:"omitempty,email,max=254"`
	Address          string `json:"address" validate:"max=500"`
	BillingRateCents int64  `json:"billing_rate_cents" validate:"gte=0"`
	FirmName         string `json:"firm_name" validate:"max=200"`
	JobTitle         string `json:"job_title" validate:"max=100"`
}

type Service interface {
	Create(ctx context.Context, in PersonInput) (*models.Person, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Person, error)
	Update(ctx context.Context, id uuid.UUID, in PersonInput) (*models.Person, error)
	List(ctx context.Context) ([]models.Person, error)
	FindDuplicates(ctx context.Context, first, last string) ([]models.Person, error)
	ListClients(ctx context.Context) ([]models.Person, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	db          *gorm.DB
	stores      *repos.Stores
	defaultRate int64
	log         *logger.Logger
}

func NewService(stores *repos.Stores, defaultRateCents int64, baseLog *logger.Logger) Service {
	return &service{
		db:          stores.DB,
		stores:      stores,
		defaultRate: defaultRateCents,
		log:         baseLog.With("service", "PersonService"),
	}
}

func clean(in PersonInput) (PersonInput, error) {
	for _, f := range []*string{&in.FirstName, &in.MiddleName, &in.LastName, &in.Phone, &in.Email, &in.Address, &in.FirmName, &in.JobTitle} {
		*f = strings.TrimSpace(*f)
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return in, apperrors.FromFields(errs)
	}
	return in, nil
}

func apply(p *models.Person, in PersonInput) {
	p.FirstName = in.FirstName
	p.MiddleName = in.MiddleName
	p.LastName = in.LastName
	p.Phone = in.Phone
	p.Email = in.Email
	p.Address = in.Address
	p.BillingRateCents = in.BillingRateCents
	p.FirmName = in.FirmName
	p.JobTitle = in.JobTitle
}

// Create stores a new person. A zero rate takes the firm default.
func (s *service) Create(ctx context.Context, in PersonInput) (*models.Person, error) {
	in, err := clean(in)
	if err != nil {
		return nil, err
	}
	if in.BillingRateCents == 0 {
		in.BillingRateCents = s.defaultRate
	}
	p := &models.Person{}
	apply(p, in)
	if err := s.stores.People.Create(ctx, nil, p); err != nil {
		err = apperrors.Persist("create person", err)
		s.log.Failure("create person failed", err)
		return nil, err
	}
	s.log.Info("person created", "person_id", p.ID)
	return p, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Person, error) {
	p, err := s.stores.People.GetByID(ctx, nil, id)
	if err != nil {
		return nil, apperrors.Persist("load person", err)
	}
	return p, nil
}

// Update replaces every editable field.
func (s *service) Update(ctx context.Context, id uuid.UUID, in PersonInput) (*models.Person, error) {
	in, err := clean(in)
	if err != nil {
		return nil, err
	}
	var out *models.Person
	err = repos.InTx(ctx, s.db, func(tx *gorm.DB) error {
		p, err := s.stores.People.GetByID(ctx, tx, id)
		if err != nil {
			return apperrors.Persist("load person", err)
		}
		apply(p, in)
		if err := s.stores.People.Update(ctx, tx, p); err != nil {
			return apperrors.Persist("update person", err)
		}
		out = p
		return nil
	})
	if err != nil {
		s.log.Failure("update person failed", err, "person_id", id)
		return nil, err
	}
	s.log.Info("person updated", "person_id", id)
	return out, nil
}

func (s *service) List(ctx context.Context) ([]models.Person, error) {
	out, err := s.stores.People.List(ctx, nil)
	return out, apperrors.Persist("list people", err)
}

// FindDuplicates returns people whose first and last names match,
// ignoring case and surrounding spaces.
func (s *service) FindDuplicates(ctx context.Context, first, last string) ([]models.Person, error) {
	if strings.TrimSpace(first) == "" || strings.TrimSpace(last) == "" {
		return []models.Person{}, nil
	}
	out, err := s.stores.People.FindByName(ctx, nil, first, last)
	return out, apperrors.Persist("find duplicates", err)
}

func (s *service) ListClients(ctx context.Context) ([]models.Person, error) {
	out, err := s.stores.People.ListClients(ctx, nil)
	return out, apperrors.Persist("list clients", err)
}

// Delete removes the person with their case edges and payments. Edges on
// other participants that represented them are kept with the link cleared.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	var edges, unlinked, payments int64
	err := repos.InTx(ctx, s.db, func(tx *gorm.DB) error {
		if _, err := s.stores.People.GetByID(ctx, tx, id); err != nil {
			return apperrors.Persist("load person", err)
		}
		var err error
		if unlinked, err = s.stores.Parties.ClearRepresents(ctx, tx, id); err != nil {
			return apperrors.Persist("clear represents", err)
		}
		if edges, err = s.stores.Parties.DeleteByPerson(ctx, tx, id); err != nil {
			return apperrors.Persist("delete case parties", err)
		}
		if payments, err = s.stores.Payments.DeleteByPerson(ctx, tx, id); err != nil {
			return apperrors.Persist("delete payments", err)
		}
		return apperrors.Persist("delete person", s.stores.People.Delete(ctx, tx, id))
	})
	if err != nil {
		s.log.Failure("delete person failed", err, "person_id", id)
		return err
	}
	s.log.Info("person deleted", "person_id", id, "parties", edges, "unlinked", unlinked, "payments", payments)
	return nil
}
