package parties

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldoetobex/legal-trust-ledger/internal/repos"
	"github.com/aldoetobex/legal-trust-ledger/pkg/apperrors"
	"github.com/aldoetobex/legal-trust-ledger/pkg/logger"
	"github.com/aldoetobex/legal-trust-ledger/pkg/models"
	"github.com/aldoetobex/legal-trust-ledger/pkg/validation"
)

// AddInput describes a new case_parties edge.
type AddInput struct {
	CaseID             uuid.UUID           `json:"case_id" validate:"required"`
	PersonID           uuid.UUID           `json:"person_id" validate:"required"`
	Role               models.Role         `json:"role" validate:"required,role"`
	Designation        *models.Designation `json:"party_designation" validate:"omitempty,designation"`
	RepresentsPersonID *uuid.UUID          `json:"represents_person_id"`
	IsProSe            bool                `json:"is_pro_se"`
}

// Graph owns the case_parties edges and the views derived from them.
type Graph interface {
	AddParty(ctx context.Context, in AddInput) (uuid.UUID, error)
	RemoveParty(ctx context.Context, associationID uuid.UUID) error
	SetClient(ctx context.Context, caseID, personID uuid.UUID, d *models.Designation) (uuid.UUID, error)
	SetDesignation(ctx context.Context, caseID uuid.UUID, d *models.Designation) error
	ClearProSe(ctx context.Context, caseID, personID uuid.UUID) error
	BuildSummary(ctx context.Context, caseID uuid.UUID) (*CaseSummary, error)
	Members(ctx context.Context, caseID uuid.UUID) ([]Participant, error)
	ByRole(ctx context.Context, caseID uuid.UUID, role models.Role) ([]Participant, error)

	// Tx variants let other services compose graph writes into their own transaction.
	SetClientTx(ctx context.Context, tx *gorm.DB, caseID, personID uuid.UUID, d *models.Designation) (uuid.UUID, error)
	SetDesignationTx(ctx context.Context, tx *gorm.DB, caseID uuid.UUID, d *models.Designation) error
}

type graph struct {
	db      *gorm.DB
	cases   repos.CaseStore
	people  repos.PersonStore
	parties repos.CasePartyStore
	log     *logger.Logger
}

func NewGraph(stores *repos.Stores, baseLog *logger.Logger) Graph {
	return &graph{
		db:      stores.DB,
		cases:   stores.Cases,
		people:  stores.People,
		parties: stores.Parties,
		log:     baseLog.With("service", "PartyGraph"),
	}
}

// AddParty inserts one edge. Adding opposing counsel clears the pro se flag
// of the party they represent in the same transaction.
func (g *graph) AddParty(ctx context.Context, in AddInput) (uuid.UUID, error) {
	if err := validateAdd(in); err != nil {
		return uuid.Nil, err
	}

	var id uuid.UUID
	err := repos.InTx(ctx, g.db, func(tx *gorm.DB) error {
		cs, err := g.cases.GetForUpdate(ctx, tx, in.CaseID)
		if err != nil {
			return apperrors.Persist("load case", err)
		}
		if in.Designation != nil && !cs.IsLitigation {
			return apperrors.Validation("party_designation", "Designation only applies to litigation matters")
		}
		if _, err := g.people.GetByID(ctx, tx, in.PersonID); err != nil {
			return apperrors.Persist("load person", err)
		}

		if in.RepresentsPersonID != nil {
			if err := g.checkRepresents(ctx, tx, in); err != nil {
				return err
			}
		}

		if in.Role == models.RoleClient {
			existing, err := g.parties.ListByCaseRole(ctx, tx, in.CaseID, models.RoleClient)
			if err != nil {
				return apperrors.Persist("load client", err)
			}
			for _, e := range existing {
				if e.PersonID == in.PersonID {
					return &apperrors.DuplicateRoleError{CaseID: in.CaseID, PersonID: in.PersonID, Role: string(in.Role)}
				}
			}
			if len(existing) > 0 {
				return apperrors.Validation("role", "Case already has a client; replace the client instead")
			}
		}

		proSe := in.IsProSe
		if in.Role == models.RoleOpposingParty && proSe {
			n, err := g.parties.CountRepresenting(ctx, tx, in.CaseID, in.PersonID, models.RoleOpposingCounsel)
			if err != nil {
				return apperrors.Persist("count counsel", err)
			}
			proSe = n == 0
		}

		cp := &models.CaseParty{
			CaseID:             in.CaseID,
			PersonID:           in.PersonID,
			Role:               in.Role,
			PartyDesignation:   in.Designation,
			RepresentsPersonID: in.RepresentsPersonID,
			IsProSe:            proSe,
		}
		if err := g.parties.Create(ctx, tx, cp); err != nil {
			return apperrors.Persist("create case party", err)
		}

		if in.Role == models.RoleOpposingCounsel && in.RepresentsPersonID != nil {
			if _, err := g.parties.SetProSe(ctx, tx, in.CaseID, *in.RepresentsPersonID, false); err != nil {
				return apperrors.Persist("clear pro se", err)
			}
		}
		id = cp.ID
		return nil
	})
	if err != nil {
		g.log.Failure("add party failed", err, "case_id", in.CaseID, "person_id", in.PersonID, "role", in.Role)
		return uuid.Nil, err
	}
	g.log.Info("party added", "case_id", in.CaseID, "person_id", in.PersonID, "role", in.Role, "association_id", id)
	return id, nil
}

func validateAdd(in AddInput) error {
	errs, err := validation.Validate(in)
	if err != nil {
		return err
	}
	ve := &apperrors.ValidationError{Fields: errs}
	if _, ok := errs["role"]; !ok {
		if in.Designation != nil && !in.Role.AllowsDesignation() {
			ve.Add("party_designation", "Designation only applies to clients and opposing parties")
		}
		if in.RepresentsPersonID != nil {
			if _, ok := in.Role.Parent(); !ok {
				ve.Add("represents_person_id", "This role cannot represent anyone")
			}
		}
		if in.IsProSe && in.Role != models.RoleOpposingParty {
			ve.Add("is_pro_se", "Only an opposing party can be pro se")
		}
	}
	if ve.Empty() {
		return nil
	}
	return ve
}

// checkRepresents requires the target to hold the parent role on the same case.
func (g *graph) checkRepresents(ctx context.Context, tx *gorm.DB, in AddInput) error {
	target := *in.RepresentsPersonID
	parent, _ := in.Role.Parent()
	if target == in.PersonID {
		return &apperrors.InvalidRepresentationError{Role: string(in.Role), RepresentsPersonID: target, Reason: "a participant cannot represent themselves"}
	}
	if _, err := g.parties.Find(ctx, tx, in.CaseID, target, parent); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &apperrors.InvalidRepresentationError{
				Role:               string(in.Role),
				RepresentsPersonID: target,
				Reason:             "not a " + string(parent) + " on this case",
			}
		}
		return apperrors.Persist("load represented party", err)
	}
	return nil
}

// RemoveParty deletes the edge only; the person is untouched.
func (g *graph) RemoveParty(ctx context.Context, associationID uuid.UUID) error {
	if err := g.parties.Delete(ctx, nil, associationID); err != nil {
		err = apperrors.Persist("remove case party", err)
		g.log.Failure("remove party failed", err, "association_id", associationID)
		return err
	}
	g.log.Info("party removed", "association_id", associationID)
	return nil
}

func (g *graph) SetClient(ctx context.Context, caseID, personID uuid.UUID, d *models.Designation) (uuid.UUID, error) {
	var id uuid.UUID
	err := repos.InTx(ctx, g.db, func(tx *gorm.DB) error {
		var err error
		id, err = g.SetClientTx(ctx, tx, caseID, personID, d)
		return err
	})
	if err != nil {
		g.log.Failure("set client failed", err, "case_id", caseID, "person_id", personID)
		return uuid.Nil, err
	}
	g.log.Info("client set", "case_id", caseID, "person_id", personID)
	return id, nil
}

// SetClientTx replaces the case's client edge. The delete and insert share tx,
// so the case is never observed with zero or two clients.
func (g *graph) SetClientTx(ctx context.Context, tx *gorm.DB, caseID, personID uuid.UUID, d *models.Designation) (uuid.UUID, error) {
	if d != nil && !d.Valid() {
		return uuid.Nil, apperrors.Validation("party_designation", "Must be plaintiff or defendant")
	}
	cs, err := g.cases.GetForUpdate(ctx, tx, caseID)
	if err != nil {
		return uuid.Nil, apperrors.Persist("load case", err)
	}
	if d != nil && !cs.IsLitigation {
		return uuid.Nil, apperrors.Validation("party_designation", "Designation only applies to litigation matters")
	}
	if _, err := g.people.GetByID(ctx, tx, personID); err != nil {
		return uuid.Nil, apperrors.Persist("load person", err)
	}
	if _, err := g.parties.DeleteByCaseRole(ctx, tx, caseID, models.RoleClient); err != nil {
		return uuid.Nil, apperrors.Persist("remove client", err)
	}
	cp := &models.CaseParty{
		CaseID:           caseID,
		PersonID:         personID,
		Role:             models.RoleClient,
		PartyDesignation: d,
	}
	if err := g.parties.Create(ctx, tx, cp); err != nil {
		return uuid.Nil, apperrors.Persist("create client", err)
	}
	return cp.ID, nil
}

func (g *graph) SetDesignation(ctx context.Context, caseID uuid.UUID, d *models.Designation) error {
	err := repos.InTx(ctx, g.db, func(tx *gorm.DB) error {
		return g.SetDesignationTx(ctx, tx, caseID, d)
	})
	if err != nil {
		g.log.Failure("set designation failed", err, "case_id", caseID)
		return err
	}
	g.log.Info("client designation set", "case_id", caseID)
	return nil
}

// SetDesignationTx updates the client edge in place. A nil designation clears it.
func (g *graph) SetDesignationTx(ctx context.Context, tx *gorm.DB, caseID uuid.UUID, d *models.Designation) error {
	if d != nil && !d.Valid() {
		return apperrors.Validation("party_designation", "Must be plaintiff or defendant")
	}
	cs, err := g.cases.GetByID(ctx, tx, caseID)
	if err != nil {
		return apperrors.Persist("load case", err)
	}
	if d != nil && !cs.IsLitigation {
		return apperrors.Validation("party_designation", "Designation only applies to litigation matters")
	}
	n, err := g.parties.UpdateDesignation(ctx, tx, caseID, models.RoleClient, d)
	if err != nil {
		return apperrors.Persist("update designation", err)
	}
	if n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (g *graph) ClearProSe(ctx context.Context, caseID, personID uuid.UUID) error {
	n, err := g.parties.SetProSe(ctx, nil, caseID, personID, false)
	if err != nil {
		err = apperrors.Persist("clear pro se", err)
		g.log.Failure("clear pro se failed", err, "case_id", caseID, "person_id", personID)
		return err
	}
	if n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (g *graph) BuildSummary(ctx context.Context, caseID uuid.UUID) (*CaseSummary, error) {
	if _, err := g.cases.GetByID(ctx, nil, caseID); err != nil {
		return nil, apperrors.Persist("load case", err)
	}
	rows, err := g.parties.ListByCase(ctx, nil, caseID)
	if err != nil {
		return nil, apperrors.Persist("load case parties", err)
	}
	s := Summarize(caseID, rows)
	if s.Dropped.Total() > 0 {
		g.log.Warn("case summary omitted unattached edges",
			"case_id", caseID, "counsel", s.Dropped.Counsel, "staff", s.Dropped.Staff)
	}
	return &s, nil
}

func (g *graph) Members(ctx context.Context, caseID uuid.UUID) ([]Participant, error) {
	rows, err := g.parties.ListByCase(ctx, nil, caseID)
	if err != nil {
		return nil, apperrors.Persist("load case parties", err)
	}
	return Ordered(rows), nil
}

func (g *graph) ByRole(ctx context.Context, caseID uuid.UUID, role models.Role) ([]Participant, error) {
	if !role.Valid() {
		return nil, apperrors.Validation("role", "Unknown role")
	}
	rows, err := g.parties.ListByCaseRole(ctx, nil, caseID, role)
	if err != nil {
		return nil, apperrors.Persist("load case parties", err)
	}
	return Ordered(rows), nil
}
