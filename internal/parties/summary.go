package parties

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/aldoetobex/legal-trust-ledger/internal/repos"
	"github.com/aldoetobex/legal-trust-ledger/pkg/models"
)

// Participant is one case_parties edge as the rendering layer sees it.
type Participant struct {
	AssociationID      uuid.UUID           `json:"association_id"`
	PersonID           uuid.UUID           `json:"person_id"`
	Role               models.Role         `json:"role"`
	Name               string              `json:"name"`
	FirstName          string              `json:"first_name"`
	LastName           string              `json:"last_name"`
	FirmName           string              `json:"firm_name,omitempty"`
	JobTitle           string              `json:"job_title,omitempty"`
	Email              string              `json:"email,omitempty"`
	Phone              string              `json:"phone,omitempty"`
	Designation        *models.Designation `json:"party_designation,omitempty"`
	RepresentsPersonID *uuid.UUID          `json:"represents_person_id,omitempty"`
	RepresentsName     string              `json:"represents_name,omitempty"`
	IsProSe            bool                `json:"is_pro_se"`
}

// OpposingParty groups an opposing party with the attorneys representing
// them and those attorneys' staff.
type OpposingParty struct {
	Party     Participant   `json:"party"`
	Attorneys []Participant `json:"attorneys"`
	Staff     []Participant `json:"staff"`
}

// Dropped reports edges left out of the hierarchy because their represents
// target is not a current participant. The rows themselves still exist.
type Dropped struct {
	Counsel        int         `json:"counsel"`
	Staff          int         `json:"staff"`
	AssociationIDs []uuid.UUID `json:"association_ids"`
}

// Total is the number of dropped edges.
func (d Dropped) Total() int { return d.Counsel + d.Staff }

// CaseSummary is the hierarchical view of everyone on a case.
type CaseSummary struct {
	CaseID          uuid.UUID       `json:"case_id"`
	Client          *Participant    `json:"client"`
	CoCounsel       []Participant   `json:"co_counsel"`
	Judge           *Participant    `json:"judge"`
	JudgeStaff      []Participant   `json:"judge_staff"`
	CourtStaff      []Participant   `json:"court_staff"`
	GuardianAdLitem *Participant    `json:"guardian_ad_litem"`
	OpposingParties []OpposingParty `json:"opposing_parties"`
	Dropped         Dropped         `json:"dropped"`
}

func participantFromRow(r repos.PartyRow) Participant {
	return Participant{
		AssociationID:      r.ID,
		PersonID:           r.PersonID,
		Role:               r.Role,
		Name:               r.FullName(),
		FirstName:          r.FirstName,
		LastName:           r.LastName,
		FirmName:           r.FirmName,
		JobTitle:           r.JobTitle,
		Email:              r.Email,
		Phone:              r.Phone,
		Designation:        r.PartyDesignation,
		RepresentsPersonID: r.RepresentsPersonID,
		RepresentsName:     r.RepresentsName(),
		IsProSe:            r.IsProSe,
	}
}

// Ordered returns the participants in listing order: role rank, then last
// name, then first name. Ties keep their input order.
func Ordered(rows []repos.PartyRow) []Participant {
	out := make([]Participant, 0, len(rows))
	for _, r := range rows {
		out = append(out, participantFromRow(r))
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Role.Rank() != b.Role.Rank() {
			return a.Role.Rank() < b.Role.Rank()
		}
		if al, bl := strings.ToLower(a.LastName), strings.ToLower(b.LastName); al != bl {
			return al < bl
		}
		return strings.ToLower(a.FirstName) < strings.ToLower(b.FirstName)
	})
	return out
}

// Summarize builds the case hierarchy from one read of the case's edges.
// It has no side effects; the same rows always give the same summary.
func Summarize(caseID uuid.UUID, rows []repos.PartyRow) CaseSummary {
	s := CaseSummary{
		CaseID:          caseID,
		CoCounsel:       []Participant{},
		JudgeStaff:      []Participant{},
		CourtStaff:      []Participant{},
		OpposingParties: []OpposingParty{},
		Dropped:         Dropped{AssociationIDs: []uuid.UUID{}},
	}

	ordered := Ordered(rows)

	// Parties first, then counsel, then staff: each tier resolves against the one above.
	partyIdx := map[uuid.UUID]int{}
	for _, p := range ordered {
		switch p.Role {
		case models.RoleClient:
			if s.Client == nil {
				s.Client = ptr(p)
			}
		case models.RoleCoCounsel:
			s.CoCounsel = append(s.CoCounsel, p)
		case models.RoleOpposingParty:
			if _, seen := partyIdx[p.PersonID]; !seen {
				partyIdx[p.PersonID] = len(s.OpposingParties)
				s.OpposingParties = append(s.OpposingParties, OpposingParty{
					Party:     p,
					Attorneys: []Participant{},
					Staff:     []Participant{},
				})
			}
		case models.RoleOpposingCounsel, models.RoleOpposingStaff:
			// attached below
		case models.RoleJudge:
			if s.Judge == nil {
				s.Judge = ptr(p)
			}
		case models.RoleJudgeStaff:
			s.JudgeStaff = append(s.JudgeStaff, p)
		case models.RoleCourtStaff:
			s.CourtStaff = append(s.CourtStaff, p)
		case models.RoleGuardianAdLitem:
			if s.GuardianAdLitem == nil {
				s.GuardianAdLitem = ptr(p)
			}
		}
	}

	attorneyToParty := map[uuid.UUID]uuid.UUID{}
	for _, p := range ordered {
		if p.Role != models.RoleOpposingCounsel {
			continue
		}
		if p.RepresentsPersonID != nil {
			if i, ok := partyIdx[*p.RepresentsPersonID]; ok {
				s.OpposingParties[i].Attorneys = append(s.OpposingParties[i].Attorneys, p)
				attorneyToParty[p.PersonID] = *p.RepresentsPersonID
				continue
			}
		}
		s.Dropped.Counsel++
		s.Dropped.AssociationIDs = append(s.Dropped.AssociationIDs, p.AssociationID)
	}

	for _, p := range ordered {
		if p.Role != models.RoleOpposingStaff {
			continue
		}
		if p.RepresentsPersonID != nil {
			if party, ok := attorneyToParty[*p.RepresentsPersonID]; ok {
				i := partyIdx[party]
				s.OpposingParties[i].Staff = append(s.OpposingParties[i].Staff, p)
				continue
			}
		}
		s.Dropped.Staff++
		s.Dropped.AssociationIDs = append(s.Dropped.AssociationIDs, p.AssociationID)
	}

	return s
}

func ptr(p Participant) *Participant { return &p }
