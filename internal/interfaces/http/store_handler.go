package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/PyKydo/LevelUpGamer/internal/application/dto"
	"github.com/PyKydo/LevelUpGamer/internal/application/state"
	"github.com/PyKydo/LevelUpGamer/internal/domain/validation"
	"github.com/PyKydo/LevelUpGamer/internal/infrastructure/notify"
)

// StoreHandler estado de la tienda, validación de formularios y notificaciones.
type StoreHandler struct {
	store     *state.Store
	validator *validation.Validator
	forms     map[string]validation.RuleSet
	feed      *notify.Feed
}

func NewStoreHandler(store *state.Store, v *validation.Validator, limits validation.Limits, feed *notify.Feed) *StoreHandler {
	return &StoreHandler{store: store, validator: v, forms: limits.Forms(), feed: feed}
}

// ValidationResponse resultado de validar un formulario.
type ValidationResponse struct {
	Valid  bool                `json:"valid"`
	Errors map[string][]string `json:"errors"`
}

// Validate godoc
// @Summary      Validar un formulario
// @Tags         validation
// @Accept       json
// @Produce      json
// @Param        form  path  string  true  "user | auth | register | contact | product | cartItem"
// @Success      200  {object}  ValidationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/validate/{form} [post]
func (h *StoreHandler) Validate(c *fiber.Ctx) error {
	rules, ok := h.forms[c.Params("form")]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "UNKNOWN_FORM", Message: "formulario desconocido"})
	}
	var data validation.FormData
	if err := c.BodyParser(&data); err != nil {
		return badBody(c)
	}
	res := h.validator.ValidateForm(data, rules)
	return c.JSON(ValidationResponse{Valid: res.Valid(), Errors: res.Errors()})
}

// State godoc
// @Summary      Estado actual de la tienda
// @Tags         state
// @Produce      json
// @Success      200  {object}  state.AppState
// @Router       /api/state [get]
func (h *StoreHandler) State(c *fiber.Ctx) error {
	return c.JSON(h.store.State())
}

// History godoc
// @Summary      Historial de acciones
// @Tags         state
// @Produce      json
// @Success      200  {array}  state.HistoryEntry
// @Router       /api/state/history [get]
func (h *StoreHandler) History(c *fiber.Ctx) error {
	return c.JSON(h.store.History())
}

// Undo godoc
// @Summary      Deshacer la última acción
// @Tags         state
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Router       /api/state/undo [post]
func (h *StoreHandler) Undo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"undone": h.store.Undo()})
}

// Stats godoc
// @Summary      Métricas del contenedor de estado
// @Tags         state
// @Produce      json
// @Success      200  {object}  state.Stats
// @Router       /api/state/stats [get]
func (h *StoreHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(h.store.Stats())
}

// Notifications godoc
// @Summary      Notificaciones posteriores a un id
// @Tags         notifications
// @Produce      json
// @Param        after  query  int  false  "Último id recibido"
// @Success      200  {array}  notify.Notification
// @Router       /api/notifications [get]
func (h *StoreHandler) Notifications(c *fiber.Ctx) error {
	after := c.QueryInt("after", 0)
	if after < 0 {
		after = 0
	}
	return c.JSON(h.feed.Since(uint64(after)))
}
