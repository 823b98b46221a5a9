package payments

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/aldoetobex/legal-trust-ledger/pkg/apperrors"
	"github.com/aldoetobex/legal-trust-ledger/pkg/models"
	"github.com/aldoetobex/legal-trust-ledger/pkg/validation"
)

// ===== DTOs =====

type PaymentRequest struct {
	PersonID           string `json:"person_id" validate:"required,uuid"`
	CaseID             string `json:"case_id" validate:"omitempty,uuid"`
	PaymentDate        string `json:"payment_date" validate:"required,datetime=2006-01-02"`
	AmountCents        int64  `json:"amount_cents" validate:"gte=0"`
	ExpenseAmountCents int64  `json:"expense_amount_cents" validate:"gte=0"`
	PaymentMethod      string `json:"payment_method" validate:"max=40"`
	ReferenceNumber    string `json:"reference_number" validate:"max=80"`
	Notes              string `json:"notes" validate:"max=2000"`
}

type Handler struct{ ledger Ledger }

func NewHandler(l Ledger) *Handler { return &Handler{ledger: l} }

func parsePayment(c *fiber.Ctx) (PaymentInput, error) {
	var in PaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return PaymentInput{}, fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return PaymentInput{}, apperrors.FromFields(errs)
	}
	caseID, _ := validation.OptionalUUID(in.CaseID)
	d, _ := validation.ParseDate(in.PaymentDate)
	return PaymentInput{
		PersonID:           uuid.MustParse(in.PersonID),
		CaseID:             caseID,
		PaymentDate:        d,
		AmountCents:        in.AmountCents,
		ExpenseAmountCents: in.ExpenseAmountCents,
		PaymentMethod:      in.PaymentMethod,
		ReferenceNumber:    in.ReferenceNumber,
		Notes:              in.Notes,
	}, nil
}

// Create godoc
// @Summary      Record a payment
// @Description  Fee and expense portions must be >= 0 with at least one > 0. Omit case_id for a general payment.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        payload  body  PaymentRequest  true  "Payment payload"
// @Success      201  {object}  models.Payment
// @Failure      400  {object}  models.ValidationErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /payments [post]
func (h *Handler) Create(c *fiber.Ctx) error {
	in, err := parsePayment(c)
	if err != nil {
		return err
	}
	p, err := h.ledger.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// Get godoc
// @Summary      Get a payment
// @Tags         payments
// @Produce      json
// @Param        id   path string true "payment id (uuid)"
// @Success      200  {object}  models.Payment
// @Failure      404  {object}  models.ErrorResponse
// @Router       /payments/{id} [get]
func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := validation.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.ledger.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(p)
}

// Update godoc
// @Summary      Update a payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id       path  string          true  "payment id (uuid)"
// @Param        payload  body  PaymentRequest  true  "Payment payload"
// @Success      200  {object}  models.Payment
// @Failure      400  {object}  models.ValidationErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /payments/{id} [put]
func (h *Handler) Update(c *fiber.Ctx) error {
	id, err := validation.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	in, err := parsePayment(c)
	if err != nil {
		return err
	}
	p, err := h.ledger.Update(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(p)
}

// Delete godoc
// @Summary      Delete a payment
// @Tags         payments
// @Param        id   path string true "payment id (uuid)"
// @Success      204
// @Failure      404  {object}  models.ErrorResponse
// @Router       /payments/{id} [delete]
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

// List by case godoc
// @Summary      Payments on a case
// @Tags         payments
// @Produce      json
// @Param        id   path string true "case id (uuid)"
// @Success      200  {array}  models.Payment
// @Router       /cases/{id}/payments [get]
func (h *Handler) ListByCase(c *fiber.Ctx) error {
	id, err := validation.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.ledger.ListByCase(c.UserContext(), id)
	if err != nil {
		return err
	}
	if out == nil {
		out = []models.Payment{}
	}
	return c.JSON(out)
}

// List by person godoc
// @Summary      Payments made by a person
// @Tags         payments
// @Produce      json
// @Param        id   path string true "person id (uuid)"
// @Success      200  {array}  models.Payment
// @Router       /people/{id}/payments [get]
func (h *Handler) ListByPerson(c *fiber.Ctx) error {
	id, err := validation.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.ledger.ListByPerson(c.UserContext(), id)
	if err != nil {
		return err
	}
	if out == nil {
		out = []models.Payment{}
	}
	return c.JSON(out)
}

// Case totals godoc
// @Summary      Fee and expense payments on a case
// @Tags         payments
// @Produce      json
// @Param        id     path  string true  "case id (uuid)"
// @Param        as_of  query string false "YYYY-MM-DD"
// @Success      200  {object}  CaseTotals
// @Router       /cases/{id}/payments/totals [get]
func (h *Handler) CaseTotals(c *fiber.Ctx) error {
	id, err := validation.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	asOf, err := validation.QueryDate(c, "as_of")
	if err != nil {
		return err
	}
	var t CaseTotals
	if asOf != nil {
		t, err = h.ledger.CaseTotalsAsOf(c.UserContext(), id, *asOf)
	} else {
		t, err = h.ledger.CaseTotals(c.UserContext(), id)
	}
	if err != nil {
		return err
	}
	return c.JSON(t)
}

// Client totals godoc
// @Summary      Everything a client has paid
// @Description  All cases plus general payments, with the fee/expense split
// @Tags         payments
// @Produce      json
// @Param        id   path string true "person id (uuid)"
// @Success      200  {object}  ClientTotals
// @Router       /people/{id}/payments/totals [get]
func (h *Handler) ClientTotals(c *fiber.Ctx) error {
	id, err := validation.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	t, err := h.ledger.ClientTotals(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(t)
}
