package cases

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldoetobex/legal-trust-ledger/internal/parties"
	"github.com/aldoetobex/legal-trust-ledger/internal/repos"
	"github.com/aldoetobex/legal-trust-ledger/pkg/apperrors"
	"github.com/aldoetobex/legal-trust-ledger/pkg/logger"
	"github.com/aldoetobex/legal-trust-ledger/pkg/models"
)

// CaseInput is the editable part of a matter.
type CaseInput struct {
	CaseNumber       string
	CaseName         string
	IsLitigation     bool
	CourtType        string
	County           string
	Status           models.CaseStatus
	BillingRateCents int64
}

type Service interface {
	GenerateMatterNumber(ctx context.Context, lastName string) (string, error)
	CreateWithClient(ctx context.Context, in CaseInput, clientID uuid.UUID, d *models.Designation) (*models.Case, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Case, error)
	Update(ctx context.Context, id uuid.UUID, in CaseInput, d *models.Designation) (*models.Case, error)
	List(ctx context.Context, includeClosed bool) ([]repos.CaseRow, error)
	ListByClient(ctx context.Context, personID uuid.UUID) ([]models.Case, error)
	ListForPerson(ctx context.Context, personID uuid.UUID) ([]repos.PersonCase, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	db          *gorm.DB
	stores      *repos.Stores
	graph       parties.Graph
	defaultRate int64
	log         *logger.Logger
}

// NewService builds the matters service. defaultRateCents prices a new
// matter when neither the request nor the client carries a rate.
func NewService(stores *repos.Stores, g parties.Graph, defaultRateCents int64, baseLog *logger.Logger) Service {
	return &service{
		db:          stores.DB,
		stores:      stores,
		graph:       g,
		defaultRate: defaultRateCents,
		log:         baseLog.With("service", "CaseService"),
	}
}

// matterPrefix keeps letters and digits only.
func matterPrefix(lastName string) string {
	var b strings.Builder
	for _, r := range lastName {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "Matter"
	}
	return b.String()
}

// nextMatterNumber is "<prefix>-NNN", one past the largest numeric suffix
// among existing names. Names with a non-numeric suffix are ignored.
func nextMatterNumber(prefix string, existing []string) string {
	next := 1
	for _, name := range existing {
		i := strings.LastIndexByte(name, '-')
		if i < 0 {
			continue
		}
		n, err := strconv.Atoi(name[i+1:])
		if err != nil {
			continue
		}
		if n+1 > next {
			next = n + 1
		}
	}
	return fmt.Sprintf("%s-%03d", prefix, next)
}

func (s *service) matterNumber(ctx context.Context, tx *gorm.DB, lastName string) (string, error) {
	prefix := matterPrefix(lastName)
	names, err := s.stores.Cases.NamesWithPrefix(ctx, tx, prefix)
	if err != nil {
		return "", apperrors.Persist("scan matter numbers", err)
	}
	return nextMatterNumber(prefix, names), nil
}

func (s *service) GenerateMatterNumber(ctx context.Context, lastName string) (string, error) {
	return s.matterNumber(ctx, nil, lastName)
}

func validateCase(in *CaseInput) error {
	ve := &apperrors.ValidationError{}
	in.CaseName = strings.TrimSpace(in.CaseName)
	in.CaseNumber = strings.TrimSpace(in.CaseNumber)
	if in.Status == "" {
		in.Status = models.CaseOpen
	}
	if in.Status != models.CaseOpen && in.Status != models.CaseClosed {
		ve.Add("status", "Must be Open or Closed")
	}
	if in.BillingRateCents < 0 {
		ve.Add("billing_rate_cents", "Must be greater than or equal to 0")
	}
	if !in.IsLitigation {
		in.CourtType, in.County = "", ""
	}
	if ve.Empty() {
		return nil
	}
	return ve
}

func apply(cs *models.Case, in CaseInput) {
	cs.CaseNumber = in.CaseNumber
	cs.CaseName = in.CaseName
	cs.IsLitigation = in.IsLitigation
	cs.CourtType = strings.TrimSpace(in.CourtType)
	cs.County = strings.TrimSpace(in.County)
	cs.Status = in.Status
	cs.BillingRateCents = in.BillingRateCents
}

// CreateWithClient inserts the case and its client edge in one transaction.
// An empty case name gets the next matter number for the client's last
// name; a zero rate falls back to the client's rate.
func (s *service) CreateWithClient(ctx context.Context, in CaseInput, clientID uuid.UUID, d *models.Designation) (*models.Case, error) {
	if err := validateCase(&in); err != nil {
		return nil, err
	}
	cs := &models.Case{}
	err := repos.InTx(ctx, s.db, func(tx *gorm.DB) error {
		client, err := s.stores.People.GetByID(ctx, tx, clientID)
		if err != nil {
			return apperrors.Persist("load client", err)
		}
		if in.CaseName == "" {
			if in.CaseName, err = s.matterNumber(ctx, tx, client.LastName); err != nil {
				return err
			}
		}
		if in.BillingRateCents == 0 {
			in.BillingRateCents = client.BillingRateCents
		}
		if in.BillingRateCents == 0 {
			in.BillingRateCents = s.defaultRate
		}
		apply(cs, in)
		if err := s.stores.Cases.Create(ctx, tx, cs); err != nil {
			return apperrors.Persist("create case", err)
		}
		_, err = s.graph.SetClientTx(ctx, tx, cs.ID, clientID, d)
		return err
	})
	if err != nil {
		s.log.Failure("create case failed", err, "client_id", clientID)
		return nil, err
	}
	s.log.Info("case created", "case_id", cs.ID, "case_name", cs.CaseName, "client_id", clientID)
	return cs, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Case, error) {
	cs, err := s.stores.Cases.GetByID(ctx, nil, id)
	if err != nil {
		return nil, apperrors.Persist("load case", err)
	}
	return cs, nil
}

// Update replaces the case record and the client's designation. Turning a
// matter into non-litigation clears the court fields and the designation.
func (s *service) Update(ctx context.Context, id uuid.UUID, in CaseInput, d *models.Designation) (*models.Case, error) {
	if err := validateCase(&in); err != nil {
		return nil, err
	}
	if in.CaseName == "" {
		return nil, apperrors.Validation("case_name", "This field is required")
	}
	if !in.IsLitigation {
		d = nil
	}
	var out *models.Case
	err := repos.InTx(ctx, s.db, func(tx *gorm.DB) error {
		cs, err := s.stores.Cases.GetForUpdate(ctx, tx, id)
		if err != nil {
			return apperrors.Persist("load case", err)
		}
		apply(cs, in)
		if err := s.stores.Cases.Update(ctx, tx, cs); err != nil {
			return apperrors.Persist("update case", err)
		}
		// A case without a client edge has no designation to carry.
		if err := s.graph.SetDesignationTx(ctx, tx, id, d); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		out = cs
		return nil
	})
	if err != nil {
		s.log.Failure("update case failed", err, "case_id", id)
		return nil, err
	}
	s.log.Info("case updated", "case_id", id)
	return out, nil
}

func (s *service) List(ctx context.Context, includeClosed bool) ([]repos.CaseRow, error) {
	out, err := s.stores.Cases.List(ctx, nil, includeClosed)
	return out, apperrors.Persist("list cases", err)
}

func (s *service) ListByClient(ctx context.Context, personID uuid.UUID) ([]models.Case, error) {
	out, err := s.stores.Cases.ListByClient(ctx, nil, personID)
	return out, apperrors.Persist("list client cases", err)
}

func (s *service) ListForPerson(ctx context.Context, personID uuid.UUID) ([]repos.PersonCase, error) {
	out, err := s.stores.Cases.ListForPerson(ctx, nil, personID)
	return out, apperrors.Persist("list person cases", err)
}

// Delete removes the case with its parties and billing entries. Its
// payments stay on the payer as general payments.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	var edges, entries, detached int64
	err := repos.InTx(ctx, s.db, func(tx *gorm.DB) error {
		if _, err := s.stores.Cases.GetForUpdate(ctx, tx, id); err != nil {
			return apperrors.Persist("load case", err)
		}
		var err error
		if edges, err = s.stores.Parties.DeleteByCase(ctx, tx, id); err != nil {
			return apperrors.Persist("delete case parties", err)
		}
		if entries, err = s.stores.Billing.DeleteByCase(ctx, tx, id); err != nil {
			return apperrors.Persist("delete billing entries", err)
		}
		if detached, err = s.stores.Payments.DetachCase(ctx, tx, id); err != nil {
			return apperrors.Persist("detach payments", err)
		}
		return apperrors.Persist("delete case", s.stores.Cases.Delete(ctx, tx, id))
	})
	if err != nil {
		s.log.Failure("delete case failed", err, "case_id", id)
		return err
	}
	s.log.Info("case deleted", "case_id", id, "parties", edges, "entries", entries, "payments_detached", detached)
	return nil
}
