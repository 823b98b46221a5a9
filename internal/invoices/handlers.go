package invoices

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aldoetobex/legal-trust-ledger/internal/trust"
	"github.com/aldoetobex/legal-trust-ledger/pkg/apperrors"
	"github.com/aldoetobex/legal-trust-ledger/pkg/validation"
)

type Handler struct {
	svc      Service
	currency string
}

func NewHandler(s Service, currency string) *Handler {
	return &Handler{svc: s, currency: currency}
}

// Prepare godoc
// @Summary      Prepare a monthly invoice
// @Description  Period entries, trust balances at month end and the reconciliation. format=markdown returns a rendered statement.
// @Tags         invoices
// @Produce      json
// @Produce      text/markdown
// @Param        id              path  string true  "case id (uuid)"
// @Param        year            query int    true  "year"
// @Param        month           query int    true  "month (1-12)"
// @Param        fee_target      query int    false "cents"
// @Param        expense_target  query int    false "cents"
// @Param        mode            query string false "none|transfer|final"
// @Param        format          query string false "json|markdown"
// @Success      200  {object}  Invoice
// @Failure      400  {object}  models.ValidationErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /cases/{id}/invoice [get]
func (h *Handler) Prepare(c *fiber.Ctx) error {
	caseID, err := validation.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	req := Request{CaseID: caseID}
	if req.Mode, err = trust.ParseModeStrict(c.Query("mode")); err != nil {
		return err
	}
	if req.Year, err = validation.QueryInt(c, "year", 0); err != nil {
		return err
	}
	if req.Month, err = validation.QueryInt(c, "month", 0); err != nil {
		return err
	}
	feeTarget, err := validation.QueryInt(c, "fee_target", 0)
	if err != nil {
		return err
	}
	expenseTarget, err := validation.QueryInt(c, "expense_target", 0)
	if err != nil {
		return err
	}
	req.FeeTarget, req.ExpenseTarget = int64(feeTarget), int64(expenseTarget)

	inv, err := h.svc.Prepare(c.UserContext(), req)
	if err != nil {
		return err
	}

	switch c.Query("format", "json") {
	case "json":
		return c.JSON(inv)
	case "markdown", "md":
		doc, err := Markdown(inv, h.currency)
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, "text/markdown; charset=utf-8")
		return c.SendString(doc)
	default:
		return apperrors.Validation("format", "Must be json or markdown")
	}
}
