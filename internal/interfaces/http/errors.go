package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/PyKydo/LevelUpGamer/internal/application/dto"
	"github.com/PyKydo/LevelUpGamer/internal/application/errorhandler"
	"github.com/PyKydo/LevelUpGamer/internal/domain"
)

// ErrorWriter traduce errores de dominio a respuestas HTTP. Los 500 quedan
// en el historial de errores.
type ErrorWriter struct {
	reporter *errorhandler.Handler
	log      zerolog.Logger
}

// NewErrorWriter reporter puede ser nil.
func NewErrorWriter(reporter *errorhandler.Handler, log zerolog.Logger) *ErrorWriter {
	return &ErrorWriter{reporter: reporter, log: log}
}

// Write responde según la clase del error.
func (w *ErrorWriter) Write(c *fiber.Ctx, err error) error {
	status, body := mapError(err)
	if status == fiber.StatusInternalServerError {
		w.log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("error interno")
		if w.reporter != nil {
			w.reporter.Report(err, map[string]any{"context": "http", "path": c.Path()})
		}
	}
	return c.Status(status).JSON(body)
}

func mapError(err error) (int, dto.ErrorResponse) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: domain.UserMessage(domain.KindValidation), Fields: vErr.Fields}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()}
	case errors.Is(err, domain.ErrEmptyCart):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "EMPTY_CART", Message: err.Error()}
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, domain.ErrLoginRequired), errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error(), Redirect: errorhandler.DefaultLoginPath}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()}
	case errors.Is(err, domain.ErrInsufficientStock), errors.Is(err, domain.ErrProductUnavailable):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "STOCK", Message: err.Error()}
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: err.Error()}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: domain.UserMessage(domain.Classify(err))}
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
