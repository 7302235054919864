package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/PyKydo/LevelUpGamer/internal/application/contact"
	"github.com/PyKydo/LevelUpGamer/internal/application/dto"
)

// ContactHandler formulario de contacto y bandeja del administrador.
type ContactHandler struct {
	uc   *contact.ContactUseCase
	errs *ErrorWriter
}

func NewContactHandler(uc *contact.ContactUseCase, errs *ErrorWriter) *ContactHandler {
	return &ContactHandler{uc: uc, errs: errs}
}

// Send godoc
// @Summary      Enviar mensaje de contacto
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ContactRequest  true  "name, email, comment"
// @Success      201  {object}  entity.ContactMessage
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/contact [post]
func (h *ContactHandler) Send(c *fiber.Ctx) error {
	var in dto.ContactRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	msg, err := h.uc.Send(c.UserContext(), in)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// List godoc
// @Summary      Mensajes recibidos
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  entity.ContactMessage
// @Router       /api/admin/messages [get]
func (h *ContactHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}

// MarkRead godoc
// @Summary      Marcar mensaje como leído
// @Tags         admin
// @Security     Bearer
// @Param        id  path  string  true  "ID del mensaje"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/messages/{id}/read [patch]
func (h *ContactHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.uc.MarkRead(c.UserContext(), c.Params("id")); err != nil {
		return h.errs.Write(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
