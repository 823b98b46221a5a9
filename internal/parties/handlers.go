package parties

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/aldoetobex/legal-trust-ledger/pkg/models"
	"github.com/aldoetobex/legal-trust-ledger/pkg/validation"
)

// ===== DTOs =====

type AddPartyRequest struct {
	PersonID           string `json:"person_id" validate:"required,uuid"`
	Role               string `json:"role" validate:"required,role"`
	PartyDesignation   string `json:"party_designation" validate:"omitempty,designation"`
	RepresentsPersonID string `json:"represents_person_id" validate:"omitempty,uuid"`
	IsProSe            bool   `json:"is_pro_se"`
}

type SetClientRequest struct {
	PersonID         string `json:"person_id" validate:"required,uuid"`
	PartyDesignation string `json:"party_designation" validate:"omitempty,designation"`
}

type DesignationRequest struct {
	PartyDesignation string `json:"party_designation" validate:"omitempty,designation"`
}

type Handler struct {
	graph Graph
}

func NewHandler(g Graph) *Handler {
	return &Handler{graph: g}
}

// Add party godoc
// @Summary      Add a participant to a case
// @Description  Opposing counsel clears the represented party's pro se flag
// @Tags         parties
// @Accept       json
// @Produce      json
// @Param        id       path  string           true  "case id (uuid)"
// @Param        payload  body  AddPartyRequest  true  "Party payload"
// @Success      201  {object}  map[string]string  "id"
// @Failure      400  {object}  models.ValidationErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Failure      409  {object}  models.ErrorResponse
// @Failure      422  {object}  models.ErrorResponse
// @Router       /cases/{id}/parties [post]
func (h *Handler) Add(c *fiber.Ctx) error {
	caseID, err := validation.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var in AddPartyRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	rep, _ := validation.OptionalUUID(in.RepresentsPersonID)
	id, err := h.graph.AddParty(c.UserContext(), AddInput{
		CaseID:             caseID,
		PersonID:           uuid.MustParse(in.PersonID),
		Role:               models.Role(in.Role),
		Designation:        models.DesignationPtr(in.PartyDesignation),
		RepresentsPersonID: rep,
		IsProSe:            in.IsProSe,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

// Remove party godoc
// @Summary      Remove a participant edge
// @Description  Deletes the association only; the person record stays
// @Tags         parties
// @Param        id   path string true "association id (uuid)"
// @Success      204
// @Failure      404  {object}  models.ErrorResponse
// @Router       /parties/{id} [delete]
func (h *Handler) Remove(c *fiber.Ctx) error {
	id, err := validation.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.graph.RemoveParty(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Set client godoc
// @Summary      Replace the case's client
// @Tags         parties
// @Accept       json
// @Produce      json
// @Param        id       path  string            true  "case id (uuid)"
// @Param        payload  body  SetClientRequest  true  "Client payload"
// @Success      200  {object}  map[string]string  "id"
// @Failure      400  {object}  models.ValidationErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /cases/{id}/client [put]
func (h *Handler) SetClient(c *fiber.Ctx) error {
	caseID, err := validation.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var in SetClientRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}
	id, err := h.graph.SetClient(c.UserContext(), caseID, uuid.MustParse(in.PersonID), models.DesignationPtr(in.PartyDesignation))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"id": id})
}

// Set designation godoc
// @Summary      Set the client's plaintiff/defendant designation
// @Tags         parties
// @Accept       json
// @Param        id       path  string              true  "case id (uuid)"
// @Param        payload  body  DesignationRequest  true  "Empty clears the designation"
// @Success      204
// @Failure      400  {object}  models.ValidationErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /cases/{id}/designation [put]
func (h *Handler) SetDesignation(c *fiber.Ctx) error {
	caseID, err := validation.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var in DesignationRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}
	if err := h.graph.SetDesignation(c.UserContext(), caseID, models.DesignationPtr(in.PartyDesignation)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Clear pro se godoc
// @Summary      Clear an opposing party's pro se flag
// @Tags         parties
// @Param        id        path string true "case id (uuid)"
// @Param        personID  path string true "person id (uuid)"
// @Success      204
// @Failure      404  {object}  models.ErrorResponse
// @Router       /cases/{id}/parties/{personID}/clear-pro-se [post]
func (h *Handler) ClearProSe(c *fiber.Ctx) error {
	caseID, err := validation.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	personID, err := validation.ParamUUID(c, "personID")
	if err != nil {
		return err
	}
	if err := h.graph.ClearProSe(c.UserContext(), caseID, personID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Summary godoc
// @Summary      Hierarchical participant summary
// @Description  Client, co-counsel, court personnel and opposing parties with their attorneys and staff
// @Tags         parties
// @Produce      json
// @Param        id   path string true "case id (uuid)"
// @Success      200  {object}  CaseSummary
// @Failure      404  {object}  models.ErrorResponse
// @Router       /cases/{id}/summary [get]
func (h *Handler) Summary(c *fiber.Ctx) error {
	caseID, err := validation.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	s, err := h.graph.BuildSummary(c.UserContext(), caseID)
	if err != nil {
		return err
	}
	return c.JSON(s)
}

// Members godoc
// @Summary      Flat participant listing
// @Description  Ordered by role, then last and first name. Optional role filter.
// @Tags         parties
// @Produce      json
// @Param        id    path  string true  "case id (uuid)"
// @Param        role  query string false "role filter"
// @Success      200  {array}   Participant
// @Failure      400  {object}  models.ValidationErrorResponse
// @Router       /cases/{id}/members [get]
func (h *Handler) Members(c *fiber.Ctx) error {
	caseID, err := validation.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var out []Participant
	if role := c.Query("role"); role != "" {
		out, err = h.graph.ByRole(c.UserContext(), caseID, models.Role(role))
	} else {
		out, err = h.graph.Members(c.UserContext(), caseID)
	}
	if err != nil {
		return err
	}
	if out == nil {
		out = []Participant{}
	}
	return c.JSON(out)
}
