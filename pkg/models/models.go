package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Hours and hour totals serialise as JSON numbers (3.5, not "3.5").
// Unmarshalling still accepts both forms.
func init() { decimal.MarshalJSONWithoutQuotes = true }

/* =============================== Enums ================================== */

// Role is the capacity in which a person is associated with a case.
type Role string

const (
	RoleClient          Role = "client"
	RoleCoCounsel       Role = "co_counsel"
	RoleOpposingParty   Role = "opposing_party"
	RoleOpposingCounsel Role = "opposing_counsel"
	RoleOpposingStaff   Role = "opposing_staff"
	RoleJudge           Role = "judge"
	RoleJudgeStaff      Role = "judge_staff"
	RoleCourtStaff      Role = "court_staff"
	RoleGuardianAdLitem Role = "guardian_ad_litem"
)

// AllRoles lists every role in display order.
var AllRoles = []Role{
	RoleClient,
	RoleCoCounsel,
	RoleOpposingParty,
	RoleOpposingCounsel,
	RoleOpposingStaff,
	RoleJudge,
	RoleJudgeStaff,
	RoleCourtStaff,
	RoleGuardianAdLitem,
}

// Rank is the position of the role in any flattened participant listing.
// Unknown roles sort last.
func (r Role) Rank() int {
	switch r {
	case RoleClient:
		return 1
	case RoleCoCounsel:
		return 2
	case RoleOpposingParty:
		return 3
	case RoleOpposingCounsel:
		return 4
	case RoleOpposingStaff:
		return 5
	case RoleJudge:
		return 6
	case RoleJudgeStaff:
		return 7
	case RoleCourtStaff:
		return 8
	case RoleGuardianAdLitem:
		return 9
	default:
		return 10
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool { return slices.Contains(AllRoles, r) }

// Parent returns the role one level up the hierarchy that a represents
// edge from r must point to. ok is false for roles that cannot represent anyone.
func (r Role) Parent() (parent Role, ok bool) {
	switch r {
	case RoleOpposingCounsel:
		return RoleOpposingParty, true
	case RoleOpposingStaff:
		return RoleOpposingCounsel, true
	case RoleJudgeStaff:
		return RoleJudge, true
	default:
		return "", false
	}
}

// AllowsDesignation reports whether a plaintiff/defendant designation is
// meaningful for the role.
func (r Role) AllowsDesignation() bool {
	return r == RoleClient || r == RoleOpposingParty
}

// DisplayName is the human label for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleClient:
		return "Client"
	case RoleCoCounsel:
		return "Co-Counsel"
	case RoleOpposingParty:
		return "Opposing Party"
	case RoleOpposingCounsel:
		return "Opposing Counsel"
	case RoleOpposingStaff:
		return "Opposing Staff"
	case RoleJudge:
		return "Judge"
	case RoleJudgeStaff:
		return "Judge's Staff"
	case RoleCourtStaff:
		return "Court Staff"
	case RoleGuardianAdLitem:
		return "Guardian ad Litem"
	default:
		return string(r)
	}
}

// Designation is the litigation side of a client or opposing party.
type Designation string

const (
	DesignationPlaintiff Designation = "plaintiff"
	DesignationDefendant Designation = "defendant"
)

func (d Designation) Valid() bool {
	return d == DesignationPlaintiff || d == DesignationDefendant
}

// DesignationPtr maps "" to nil, the stored form of "no designation".
func DesignationPtr(s string) *Designation {
	if s == "" {
		return nil
	}
	d := Designation(s)
	return &d
}

// CaseStatus defines lifecycle states for a matter.
type CaseStatus string

const (
	CaseOpen   CaseStatus = "Open"
	CaseClosed CaseStatus = "Closed"
)

// DefaultBillingRateCents is used when neither the matter nor the person carries a rate.
const DefaultBillingRateCents int64 = 30000

/* =============================== Entities =============================== */

// Person is anyone who can be associated with a case. Identity is independent of role.
type Person struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName        string    `gorm:"not null" json:"first_name"`
	LastName         string    `gorm:"not null;index" json:"last_name"`
	MiddleName       string    `json:"middle_name"`
	Phone            string    `json:"phone"`
	Email            string    `json:"email"`
	Address          string    `json:"address"`
	BillingRateCents int64     `gorm:"not null" json:"billing_rate_cents"`
	FirmName         string    `json:"firm_name"`
	JobTitle         string    `json:"job_title"`
	CreatedAt        time.Time `json:"created_at"`
}

func (p *Person) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (Person) TableName() string { return "people" }

// FullName is "First Middle Last".
func (p Person) FullName() string { return JoinName(p.FirstName, p.MiddleName, p.LastName) }

// DisplayName is "Last, First Middle", used in sorted listings.
func (p Person) DisplayName() string {
	if p.MiddleName != "" {
		return p.LastName + ", " + p.FirstName + " " + p.MiddleName
	}
	return p.LastName + ", " + p.FirstName
}

// Case is a matter handled by the firm.
type Case struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CaseNumber       string     `json:"case_number"` // court docket number
	CaseName         string     `gorm:"index" json:"case_name"`
	IsLitigation     bool       `gorm:"not null" json:"is_litigation"`
	CourtType        string     `json:"court_type"`
	County           string     `json:"county"`
	Status           CaseStatus `gorm:"type:varchar(10);not null" json:"status"`
	BillingRateCents int64      `gorm:"not null" json:"billing_rate_cents"`
	CreatedAt        time.Time  `json:"created_at"`
}

func (c *Case) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (Case) TableName() string { return "cases" }

// CaseParty is one edge of the party graph: a person associated with a case under a role.
type CaseParty struct {
	ID                 uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	CaseID             uuid.UUID    `gorm:"type:uuid;not null;index;uniqueIndex:ux_case_person_role,priority:1" json:"case_id"`
	PersonID           uuid.UUID    `gorm:"type:uuid;not null;index;uniqueIndex:ux_case_person_role,priority:2" json:"person_id"`
	Role               Role         `gorm:"type:varchar(30);not null;uniqueIndex:ux_case_person_role,priority:3" json:"role"`
	PartyDesignation   *Designation `gorm:"type:varchar(20)" json:"party_designation,omitempty"`
	RepresentsPersonID *uuid.UUID   `gorm:"type:uuid;index" json:"represents_person_id,omitempty"`
	IsProSe            bool         `gorm:"not null" json:"is_pro_se"`
	CreatedAt          time.Time    `json:"created_at"`
}

func (cp *CaseParty) BeforeCreate(tx *gorm.DB) error {
	if cp.ID == uuid.Nil {
		cp.ID = uuid.New()
	}
	return nil
}

func (CaseParty) TableName() string { return "case_parties" }

// BillingEntry is a dated time or expense record on a case. Exactly one of
// Hours and AmountCents is set, selected by IsExpense.
type BillingEntry struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	CaseID      uuid.UUID        `gorm:"type:uuid;not null;index;uniqueIndex:ux_billing_day_order,priority:1" json:"case_id"`
	EntryDate   datatypes.Date   `gorm:"not null;uniqueIndex:ux_billing_day_order,priority:2" json:"entry_date"`
	Hours       *decimal.Decimal `gorm:"type:numeric(10,2)" json:"hours,omitempty"`
	IsExpense   bool             `gorm:"not null" json:"is_expense"`
	AmountCents *int64           `json:"amount_cents,omitempty"`
	Description string           `json:"description"`
	SortOrder   int              `gorm:"not null;uniqueIndex:ux_billing_day_order,priority:3" json:"sort_order"`
	CreatedAt   time.Time        `json:"created_at"`
}

func (b *BillingEntry) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (BillingEntry) TableName() string { return "billing_entries" }

// Payment is money received from a client, split into a fee portion and an
// expense-advance portion. CaseID is nil for general payments.
type Payment struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	PersonID           uuid.UUID      `gorm:"type:uuid;not null;index" json:"person_id"`
	CaseID             *uuid.UUID     `gorm:"type:uuid;index" json:"case_id,omitempty"`
	PaymentDate        datatypes.Date `gorm:"not null" json:"payment_date"`
	AmountCents        int64          `gorm:"not null" json:"amount_cents"`         // fee portion
	ExpenseAmountCents int64          `gorm:"not null" json:"expense_amount_cents"` // expense advance
	PaymentMethod      string         `json:"payment_method"`
	ReferenceNumber    string         `json:"reference_number"`
	Notes              string         `json:"notes"`
	CreatedAt          time.Time      `json:"created_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (Payment) TableName() string { return "payments" }

// TotalCents is the fee and expense portions combined.
func (p Payment) TotalCents() int64 { return p.AmountCents + p.ExpenseAmountCents }

/* =============================== Helpers ================================ */

// Day normalizes t to midnight UTC of its calendar day, the form every date
// column is written and compared in.
func Day(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// SameDay reports whether two stored dates fall on the same calendar day.
func SameDay(a, b datatypes.Date) bool {
	ay, am, ad := time.Time(a).Date()
	by, bm, bd := time.Time(b).Date()
	return ay == by && am == bm && ad == bd
}

// JoinName joins non-empty name parts with single spaces.
func JoinName(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += p
	}
	return out
}
