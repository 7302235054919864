package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/PyKydo/LevelUpGamer/internal/application/admin"
	"github.com/PyKydo/LevelUpGamer/internal/application/errorhandler"
)

// DashboardHandler panel de control e historial de errores.
type DashboardHandler struct {
	uc     *admin.AdminUseCase
	errLog *errorhandler.Handler
	errs   *ErrorWriter
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *admin.AdminUseCase, errLog *errorhandler.Handler, errs *ErrorWriter) *DashboardHandler {
	return &DashboardHandler{uc: uc, errLog: errLog, errs: errs}
}

// Get godoc
// @Summary      Panel de control
// @Description  Totales de productos, stock bajo y agotado, valor del inventario, usuarios por rol y ventas simuladas.
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/dashboard [get]
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Dashboard(c.UserContext())
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}

// ErrorsResponse historial y resumen de errores.
type ErrorsResponse struct {
	Stats   errorhandler.Stats   `json:"stats"`
	Entries []errorhandler.Entry `json:"entries"`
}

// Errors godoc
// @Summary      Historial de errores
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  ErrorsResponse
// @Router       /api/admin/errors [get]
func (h *DashboardHandler) Errors(c *fiber.Ctx) error {
	ctx := c.UserContext()
	entries, err := h.errLog.Logs(ctx)
	if err != nil {
		return h.errs.Write(c, err)
	}
	stats, err := h.errLog.Stats(ctx)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(ErrorsResponse{Stats: stats, Entries: entries})
}

// ClearErrors godoc
// @Summary      Vaciar historial de errores
// @Tags         admin
// @Security     Bearer
// @Success      204
// @Router       /api/admin/errors [delete]
func (h *DashboardHandler) ClearErrors(c *fiber.Ctx) error {
	if err := h.errLog.Clear(c.UserContext()); err != nil {
		return h.errs.Write(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
