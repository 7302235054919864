package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/PyKydo/LevelUpGamer/internal/application/auth"
	"github.com/PyKydo/LevelUpGamer/internal/application/cart"
	"github.com/PyKydo/LevelUpGamer/internal/application/dto"
	"github.com/PyKydo/LevelUpGamer/internal/domain"
)

// CartHandler carrito, checkout y órdenes del usuario en sesión.
type CartHandler struct {
	uc      *cart.CartUseCase
	session *auth.AuthUseCase
	errs    *ErrorWriter
}

// NewCartHandler construye el handler.
func NewCartHandler(uc *cart.CartUseCase, session *auth.AuthUseCase, errs *ErrorWriter) *CartHandler {
	return &CartHandler{uc: uc, session: session, errs: errs}
}

func (h *CartHandler) summary(c *fiber.Ctx, status int) error {
	out, err := h.uc.Summary(c.UserContext())
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.Status(status).JSON(out)
}

// Get godoc
// @Summary      Resumen del carrito
// @Tags         cart
// @Produce      json
// @Success      200  {object}  dto.CartSummaryResponse
// @Router       /api/cart [get]
func (h *CartHandler) Get(c *fiber.Ctx) error {
	return h.summary(c, fiber.StatusOK)
}

// Add godoc
// @Summary      Agregar producto al carrito
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CartItemRequest  true  "productId, quantity"
// @Success      201  {object}  dto.CartSummaryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/cart/items [post]
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var in dto.CartItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if err := h.uc.Add(c.UserContext(), in); err != nil {
		return h.errs.Write(c, err)
	}
	return h.summary(c, fiber.StatusCreated)
}

// Increase godoc
// @Summary      Sumar una unidad
// @Tags         cart
// @Produce      json
// @Param        id  path  string  true  "Código del producto"
// @Success      200  {object}  dto.CartSummaryResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/cart/items/{id}/increase [post]
func (h *CartHandler) Increase(c *fiber.Ctx) error {
	if err := h.uc.Increase(c.UserContext(), c.Params("id")); err != nil {
		return h.errs.Write(c, err)
	}
	return h.summary(c, fiber.StatusOK)
}

// Decrease godoc
// @Summary      Restar una unidad (en 1 elimina la línea)
// @Tags         cart
// @Produce      json
// @Param        id  path  string  true  "Código del producto"
// @Success      200  {object}  dto.CartSummaryResponse
// @Router       /api/cart/items/{id}/decrease [post]
func (h *CartHandler) Decrease(c *fiber.Ctx) error {
	if err := h.uc.Decrease(c.UserContext(), c.Params("id")); err != nil {
		return h.errs.Write(c, err)
	}
	return h.summary(c, fiber.StatusOK)
}

// Remove godoc
// @Summary      Quitar una línea
// @Tags         cart
// @Produce      json
// @Param        id  path  string  true  "Código del producto"
// @Success      200  {object}  dto.CartSummaryResponse
// @Router       /api/cart/items/{id} [delete]
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	if err := h.uc.Remove(c.UserContext(), c.Params("id")); err != nil {
		return h.errs.Write(c, err)
	}
	return h.summary(c, fiber.StatusOK)
}

// Clear godoc
// @Summary      Vaciar el carrito
// @Tags         cart
// @Produce      json
// @Success      200  {object}  dto.CartSummaryResponse
// @Router       /api/cart [delete]
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	if err := h.uc.Clear(c.UserContext()); err != nil {
		return h.errs.Write(c, err)
	}
	return h.summary(c, fiber.StatusOK)
}

// Checkout godoc
// @Summary      Finalizar compra (pago simulado)
// @Tags         cart
// @Produce      json
// @Success      201  {object}  entity.Order
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/cart/checkout [post]
func (h *CartHandler) Checkout(c *fiber.Ctx) error {
	order, err := h.uc.Checkout(c.UserContext())
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// Orders godoc
// @Summary      Órdenes del usuario en sesión
// @Tags         cart
// @Produce      json
// @Success      200  {array}  entity.Order
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/cart/orders [get]
func (h *CartHandler) Orders(c *fiber.Ctx) error {
	u := h.session.Current()
	if u == nil {
		return h.errs.Write(c, domain.ErrLoginRequired)
	}
	out, err := h.uc.Orders(c.UserContext(), u.ID)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Boleta PDF de una orden
// @Tags         cart
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la orden"
// @Success      200
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cart/orders/{id}/receipt [get]
func (h *CartHandler) Receipt(c *fiber.Ctx) error {
	u := h.session.Current()
	if u == nil {
		return h.errs.Write(c, domain.ErrLoginRequired)
	}
	pdf, err := h.uc.Receipt(c.UserContext(), c.Params("id"), u.ID)
	if err != nil {
		return h.errs.Write(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="boleta-`+c.Params("id")+`.pdf"`)
	return c.Send(pdf)
}
