package people

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aldoetobex/legal-trust-ledger/pkg/models"
	"github.com/aldoetobex/legal-trust-ledger/pkg/validation"
)

type Handler struct{ svc Service }

func NewHandler(s Service) *Handler { return &Handler{svc: s} }

func parsePerson(c *fiber.Ctx) (PersonInput, error) {
	var in PersonInput
	if err := c.BodyParser(&in); err != nil {
		return in, fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	return in, nil
}

func emptyIfNil(ps []models.Person) []models.Person {
	if ps == nil {
		return []models.Person{}
	}
	return ps
}

// Create person godoc
// @Summary      Create person
// @Description  A zero billing rate takes the firm default
// @Tags         people
// @Accept       json
// @Produce      json
// @Param        payload  body  PersonInput  true  "Person payload"
// @Success      201  {object}  models.Person
// @Failure      400  {object}  models.ValidationErrorResponse
// @Router       /people [post]
func (h *Handler) Create(c *fiber.Ctx) error {
	in, err := parsePerson(c)
	if err != nil {
		return err
	}
	p, err := h.svc.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// List people godoc
// @Summary      List people
// @Description  Ordered by last name, then first name
// @Tags         people
// @Produce      json
// @Success      200  {array}  models.Person
// @Router       /people [get]
func (h *Handler) List(c *fiber.Ctx) error {
	out, err := h.svc.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(emptyIfNil(out))
}

// Duplicates godoc
// @Summary      Possible duplicates
// @Description  People with the same first and last name, case-insensitive
// @Tags         people
// @Produce      json
// @Param        first_name  query string true "first name"
// @Param        last_name   query string true "last name"
// @Success      200  {array}  models.Person
// @Router       /people/duplicates [get]
func (h *Handler) Duplicates(c *fiber.Ctx) error {
	out, err := h.svc.FindDuplicates(c.UserContext(), c.Query("first_name"), c.Query("last_name"))
	if err != nil {
		return err
	}
	return c.JSON(emptyIfNil(out))
}

// Clients godoc
// @Summary      List clients
// @Description  People who are the client on at least one case
// @Tags         people
// @Produce      json
// @Success      200  {array}  models.Person
// @Router       /clients [get]
func (h *Handler) Clients(c *fiber.Ctx) error {
	out, err := h.svc.ListClients(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(emptyIfNil(out))
}

// Get person godoc
// @Summary      Person detail
// @Tags         people
// @Produce      json
// @Param        id   path string true "person id (uuid)"
// @Success      200  {object}  models.Person
// @Failure      404  {object}  models.ErrorResponse
// @Router       /people/{id} [get]
func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := validation.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.svc.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(p)
}

// Update person godoc
// @Summary      Update person
// @Tags         people
// @Accept       json
// @Produce      json
// @Param        id       path  string       true  "person id (uuid)"
// @Param        payload  body  PersonInput  true  "Person payload"
// @Success      200  {object}  models.Person
// @Failure      400  {object}  models.ValidationErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /people/{id} [put]
func (h *Handler) Update(c *fiber.Ctx) error {
	id, err := validation.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	in, err := parsePerson(c)
	if err != nil {
		return err
	}
	p, err := h.svc.Update(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(p)
}

// Delete person godoc
// @Summary      Delete person
// @Description  Also removes their case roles and payments
// @Tags         people
// @Param        id   path string true "person id (uuid)"
// @Success      204
// @Failure      404  {object}  models.ErrorResponse
// @Router       /people/{id} [delete]
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
