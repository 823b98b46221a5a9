package cases

import (
	"math"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/aldoetobex/legal-trust-ledger/internal/repos"
	"github.com/aldoetobex/legal-trust-ledger/pkg/apperrors"
	"github.com/aldoetobex/legal-trust-ledger/pkg/models"
	"github.com/aldoetobex/legal-trust-ledger/pkg/validation"
)

// ===== DTOs =====

type CaseRequest struct {
	CaseNumber       string `json:"case_number" validate:"max=80"`
	CaseName         string `json:"case_name" validate:"max=200"`
	IsLitigation     bool   `json:"is_litigation"`
	CourtType        string `json:"court_type" validate:"max=80"`
	County           string `json:"county" validate:"max=80"`
	Status           string `json:"status" validate:"matterstatus"`
	BillingRateCents int64  `json:"billing_rate_cents" validate:"gte=0"`
	PartyDesignation string `json:"party_designation" validate:"omitempty,designation"`
}

type CreateCaseRequest struct {
	ClientID string `json:"client_id" validate:"required,uuid"`
	CaseRequest
}

type CaseListItem struct {
	ID               uuid.UUID         `json:"id"`
	CaseNumber       string            `json:"case_number"`
	CaseName         string            `json:"case_name"`
	IsLitigation     bool              `json:"is_litigation"`
	Status           models.CaseStatus `json:"status"`
	BillingRateCents int64             `json:"billing_rate_cents"`
	ClientID         *uuid.UUID        `json:"client_id,omitempty"`
	ClientName       string            `json:"client_name"`
	CreatedAt        time.Time         `json:"created_at"`
}

type PageCases struct {
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
	Total    int64          `json:"total"`
	Pages    int            `json:"pages"`
	Items    []CaseListItem `json:"items"`
}

type Handler struct {
	svc Service
}

func NewHandler(s Service) *Handler {
	return &Handler{svc: s}
}

func (r CaseRequest) input() CaseInput {
	return CaseInput{
		CaseNumber:       r.CaseNumber,
		CaseName:         r.CaseName,
		IsLitigation:     r.IsLitigation,
		CourtType:        r.CourtType,
		County:           r.County,
		Status:           models.CaseStatus(r.Status),
		BillingRateCents: r.BillingRateCents,
	}
}

// Create Case godoc
// @Summary      Create case with its client
// @Description  An empty case_name gets the next matter number for the client's last name. A zero rate uses the client's rate.
// @Tags         cases
// @Accept       json
// @Produce      json
// @Param        payload  body  CreateCaseRequest  true  "Case payload"
// @Success      201  {object}  models.Case
// @Failure      400  {object}  models.ValidationErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /cases [post]
func (h *Handler) Create(c *fiber.Ctx) error {
	var in CreateCaseRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return apperrors.FromFields(errs)
	}
	cs, err := h.svc.CreateWithClient(c.UserContext(), in.input(), uuid.MustParse(in.ClientID), models.DesignationPtr(in.PartyDesignation))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(cs)
}

func parsePage(c *fiber.Ctx) (page, size int) {
	page, _ = strconv.Atoi(c.Query("page", "1"))
	size, _ = strconv.Atoi(c.Query("pageSize", "25"))
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 200 {
		size = 25
	}
	return
}

func listItem(r repos.CaseRow) CaseListItem {
	return CaseListItem{
		ID:               r.ID,
		CaseNumber:       r.CaseNumber,
		CaseName:         r.CaseName,
		IsLitigation:     r.IsLitigation,
		Status:           r.Status,
		BillingRateCents: r.BillingRateCents,
		ClientID:         r.ClientID,
		ClientName:       r.ClientName(),
		CreatedAt:        r.CreatedAt,
	}
}

// List Cases godoc
// @Summary      List cases
// @Description  Cases with their client's name, ordered by case name (paginated)
// @Tags         cases
// @Produce      json
// @Param        include_closed  query bool false "include closed matters (default true)"
// @Param        page            query int  false "page"
// @Param        pageSize        query int  false "pageSize"
// @Success      200  {object}  PageCases
// @Router       /cases [get]
func (h *Handler) List(c *fiber.Ctx) error {
	page, size := parsePage(c)
	includeClosed := c.QueryBool("include_closed", true)

	rows, err := h.svc.List(c.UserContext(), includeClosed)
	if err != nil {
		return err
	}

	total := len(rows)
	start := min((page-1)*size, total)
	end := min(start+size, total)

	items := make([]CaseListItem, 0, end-start)
	for _, r := range rows[start:end] {
		items = append(items, listItem(r))
	}

	return c.JSON(PageCases{
		Page:     page,
		PageSize: size,
		Total:    int64(total),
		Pages:    int(math.Ceil(float64(total) / float64(size))),
		Items:    items,
	})
}

// Get case godoc
// @Summary      Case detail
// @Tags         cases
// @Produce      json
// @Param        id   path string true "case id (uuid)"
// @Success      200  {object}  models.Case
// @Failure      404  {object}  models.ErrorResponse
// @Router       /cases/{id} [get]
func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := validation.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	cs, err := h.svc.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(cs)
}

// Update case godoc
// @Summary      Update case
// @Description  Full record. party_designation updates the client's designation; non-litigation matters clear court fields.
// @Tags         cases
// @Accept       json
// @Produce      json
// @Param        id       path  string       true  "case id (uuid)"
// @Param        payload  body  CaseRequest  true  "Case payload"
// @Success      200  {object}  models.Case
// @Failure      400  {object}  models.ValidationErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /cases/{id} [put]
func (h *Handler) Update(c *fiber.Ctx) error {
	id, err := validation.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var in CaseRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return apperrors.FromFields(errs)
	}
	cs, err := h.svc.Update(c.UserContext(), id, in.input(), models.DesignationPtr(in.PartyDesignation))
	if err != nil {
		return err
	}
	return c.JSON(cs)
}

// Delete case godoc
// @Summary      Delete case
// @Description  Removes parties and billing entries; payments become general payments
// @Tags         cases
// @Param        id   path string true "case id (uuid)"
// @Success      204
// @Failure      404  {object}  models.ErrorResponse
// @Router       /cases/{id} [delete]
func (h *Handler) Delete(c *fiber.Ctx) error {
	id, err := validation.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Cases for person godoc
// @Summary      Cases a person is involved in
// @Description  Every role the person holds on each case
// @Tags         cases
// @Produce      json
// @Param        id   path string true "person id (uuid)"
// @Success      200  {array}  repos.PersonCase
// @Router       /people/{id}/cases [get]
func (h *Handler) ListForPerson(c *fiber.Ctx) error {
	id, err := validation.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.svc.ListForPerson(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Client cases godoc
// @Summary      Cases where the person is the client
// @Tags         cases
// @Produce      json
// @Param        id   path string true "person id (uuid)"
// @Success      200  {array}  models.Case
// @Router       /people/{id}/client-cases [get]
func (h *Handler) ListByClient(c *fiber.Ctx) error {
	id, err := validation.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.svc.ListByClient(c.UserContext(), id)
	if err != nil {
		return err
	}
	if out == nil {
		out = []models.Case{}
	}
	return c.JSON(out)
}

// Matter number godoc
// @Summary      Next matter number
// @Description  "<LastName>-NNN", one past the highest existing number
// @Tags         cases
// @Produce      json
// @Param        last_name  query string true "client last name"
// @Success      200  {object}  map[string]string  "matter_number"
// @Router       /matter-number [get]
func (h *Handler) MatterNumber(c *fiber.Ctx) error {
	n, err := h.svc.GenerateMatterNumber(c.UserContext(), c.Query("last_name"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"matter_number": n})
}
