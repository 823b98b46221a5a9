package trust

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/aldoetobex/legal-trust-ledger/pkg/apperrors"
	"github.com/aldoetobex/legal-trust-ledger/pkg/validation"
)

// ===== DTOs =====

type ReconcileRequest struct {
	FeeBalance     int64  `json:"fee_balance"`
	ExpenseBalance int64  `json:"expense_balance"`
	FeeTarget      int64  `json:"fee_target" validate:"gte=0"`
	ExpenseTarget  int64  `json:"expense_target" validate:"gte=0"`
	Mode           string `json:"mode" validate:"reconmode"`
}

type CaseTrustResponse struct {
	Balances       Balances `json:"balances"`
	Reconciliation Result   `json:"reconciliation"`
}

type Handler struct{ svc Service }

func NewHandler(s Service) *Handler { return &Handler{svc: s} }

// Reconcile godoc
// @Summary      Reconcile fee and expense balances
// @Description  Pure calculation. mode is none, transfer or final; final ignores targets.
// @Tags         trust
// @Accept       json
// @Produce      json
// @Param        payload  body  ReconcileRequest  true  "Balances and targets in cents"
// @Success      200  {object}  Result
// @Failure      400  {object}  models.ValidationErrorResponse
// @Router       /trust/reconcile [post]
func (h *Handler) Reconcile(c *fiber.Ctx) error {
	var in ReconcileRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return apperrors.FromFields(errs)
	}
	return c.JSON(Reconcile(in.FeeBalance, in.ExpenseBalance, in.FeeTarget, in.ExpenseTarget, ParseMode(in.Mode)))
}

// Case trust godoc
// @Summary      Trust balances for a case
// @Description  Balances as of as_of (default today), reconciled with the given targets and mode
// @Tags         trust
// @Produce      json
// @Param        id              path  string true  "case id (uuid)"
// @Param        as_of           query string false "YYYY-MM-DD"
// @Param        fee_target      query int    false "cents"
// @Param        expense_target  query int    false "cents"
// @Param        mode            query string false "none|transfer|final"
// @Success      200  {object}  CaseTrustResponse
// @Failure      400  {object}  models.ValidationErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /cases/{id}/trust [get]
func (h *Handler) CaseTrust(c *fiber.Ctx) error {
	caseID, err := validation.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	asOf, err := validation.QueryDate(c, "as_of")
	if err != nil {
		return err
	}
	day := time.Now().UTC()
	if asOf != nil {
		day = *asOf
	}
	feeTarget, err := validation.QueryInt(c, "fee_target", 0)
	if err != nil {
		return err
	}
	expenseTarget, err := validation.QueryInt(c, "expense_target", 0)
	if err != nil {
		return err
	}
	if feeTarget < 0 || expenseTarget < 0 {
		return apperrors.Validation("fee_target", "Targets must be greater than or equal to 0")
	}
	mode, err := ParseModeStrict(c.Query("mode"))
	if err != nil {
		return err
	}
	b, r, err := h.svc.ReconcileCase(c.UserContext(), caseID, day, int64(feeTarget), int64(expenseTarget), mode)
	if err != nil {
		return err
	}
	return c.JSON(CaseTrustResponse{Balances: b, Reconciliation: r})
}
