package billing

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/aldoetobex/legal-trust-ledger/pkg/apperrors"
	"github.com/aldoetobex/legal-trust-ledger/pkg/models"
	"github.com/aldoetobex/legal-trust-ledger/pkg/validation"
)

// ===== DTOs =====

type EntryRequest struct {
	EntryDate   string           `json:"entry_date" validate:"required,datetime=2006-01-02"`
	IsExpense   bool             `json:"is_expense"`
	Hours       *decimal.Decimal `json:"hours" swaggertype:"number"`
	AmountCents *int64           `json:"amount_cents"`
	Description string           `json:"description" validate:"max=2000"`
}

type Handler struct {
	ledger Ledger
}

func NewHandler(l Ledger) *Handler {
	return &Handler{ledger: l}
}

func (h *Handler) parseEntry(c *fiber.Ctx) (EntryInput, error) {
	var in EntryRequest
	if err := c.BodyParser(&in); err != nil {
		return EntryInput{}, fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return EntryInput{}, apperrors.FromFields(errs)
	}
	d, _ := validation.ParseDate(in.EntryDate)
	return EntryInput{
		EntryDate:   d,
		IsExpense:   in.IsExpense,
		Hours:       in.Hours,
		AmountCents: in.AmountCents,
		Description: in.Description,
	}, nil
}

// Append godoc
// @Summary      Add a time or expense entry
// @Description  The entry goes to the end of its day's list
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        id       path  string        true  "case id (uuid)"
// @Param        payload  body  EntryRequest  true  "Entry payload"
// @Success      201  {object}  models.BillingEntry
// @Failure      400  {object}  models.ValidationErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /cases/{id}/billing [post]
func (h *Handler) Append(c *fiber.Ctx) error {
	caseID, err := validation.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	in, err := h.parseEntry(c)
	if err != nil {
		return err
	}
	in.CaseID = caseID
	e, err := h.ledger.Append(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(e)
}

// List godoc
// @Summary      List a case's entries
// @Description  Newest day first, manual order within a day
// @Tags         billing
// @Produce      json
// @Param        id   path string true "case id (uuid)"
// @Success      200  {array}  models.BillingEntry
// @Router       /cases/{id}/billing [get]
func (h *Handler) List(c *fiber.Ctx) error {
	caseID, err := validation.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.ledger.ListByCase(c.UserContext(), caseID)
	if err != nil {
		return err
	}
	if out == nil {
		out = []models.BillingEntry{}
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Get an entry
// @Tags         billing
// @Produce      json
// @Param        id   path string true "entry id (uuid)"
// @Success      200  {object}  models.BillingEntry
// @Failure      404  {object}  models.ErrorResponse
// @Router       /billing/{id} [get]
func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := validation.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	e, err := h.ledger.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(e)
}

// Update godoc
// @Summary      Update an entry
// @Description  Changing the date moves the entry to the end of the new day
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        id       path  string        true  "entry id (uuid)"
// @Param        payload  body  EntryRequest  true  "Entry payload"
// @Success      200  {object}  models.BillingEntry
// @Failure      400  {object}  models.ValidationErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /billing/{id} [put]
func (h *Handler) Update(c *fiber.Ctx) error {
	id, err := validation.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	in, err := h.parseEntry(c)
	if err != nil {
		return err
	}
	e, err := h.ledger.Update(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(e)
}

// Delete godoc
// @Summary      Delete an entry
// @Tags         billing
// @Param        id   path string true "entry id (uuid)"
// @Success      204
// @Failure      404  {object}  models.ErrorResponse
// @Router       /billing/{id} [delete]
func (h *Handler) Delete(c *fiber.Ctx) error {
	id, err := validation.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.ledger.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Move up godoc
// @Summary      Move an entry up within its day
// @Tags         billing
// @Produce      json
// @Param        id   path string true "entry id (uuid)"
// @Success      200  {object}  map[string]bool  "moved"
// @Failure      404  {object}  models.ErrorResponse
// @Router       /billing/{id}/move-up [post]
func (h *Handler) MoveUp(c *fiber.Ctx) error {
	id, err := validation.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	moved, err := h.ledger.MoveUp(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"moved": moved})
}

// Move down godoc
// @Summary      Move an entry down within its day
// @Tags         billing
// @Produce      json
// @Param        id   path string true "entry id (uuid)"
// @Success      200  {object}  map[string]bool  "moved"
// @Failure      404  {object}  models.ErrorResponse
// @Router       /billing/{id}/move-down [post]
func (h *Handler) MoveDown(c *fiber.Ctx) error {
	id, err := validation.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	moved, err := h.ledger.MoveDown(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"moved": moved})
}

// Totals godoc
// @Summary      Case billing totals
// @Description  Hours, fees at the case's current rate, and expenses. as_of limits to entries on or before that date.
// @Tags         billing
// @Produce      json
// @Param        id     path  string true  "case id (uuid)"
// @Param        as_of  query string false "YYYY-MM-DD"
// @Success      200  {object}  Totals
// @Failure      404  {object}  models.ErrorResponse
// @Router       /cases/{id}/billing/totals [get]
func (h *Handler) Totals(c *fiber.Ctx) error {
	caseID, err := validation.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	asOf, err := validation.QueryDate(c, "as_of")
	if err != nil {
		return err
	}
	var t Totals
	if asOf != nil {
		t, err = h.ledger.TotalsAsOf(c.UserContext(), caseID, *asOf)
	} else {
		t, err = h.ledger.Totals(c.UserContext(), caseID)
	}
	if err != nil {
		return err
	}
	return c.JSON(t)
}

// Period godoc
// @Summary      Entries for one month
// @Tags         billing
// @Produce      json
// @Param        id     path  string true "case id (uuid)"
// @Param        year   query int    true "year"
// @Param        month  query int    true "month (1-12)"
// @Success      200  {array}   models.BillingEntry
// @Failure      400  {object}  models.ValidationErrorResponse
// @Router       /cases/{id}/billing/period [get]
func (h *Handler) Period(c *fiber.Ctx) error {
	caseID, err := validation.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	year, err := validation.QueryInt(c, "year", 0)
	if err != nil {
		return err
	}
	month, err := validation.QueryInt(c, "month", 0)
	if err != nil {
		return err
	}
	out, err := h.ledger.EntriesForPeriod(c.UserContext(), caseID, year, month)
	if err != nil {
		return err
	}
	if out == nil {
		out = []models.BillingEntry{}
	}
	return c.JSON(out)
}
