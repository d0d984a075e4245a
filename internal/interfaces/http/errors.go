package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/docuflow-api/internal/application/dto"
	"github.com/jhoicas/docuflow-api/internal/domain"
	"github.com/jhoicas/docuflow-api/pkg/logger"
)

// Mensaje genérico para errores 5xx: el detalle interno solo va al log.
const internalMessage = "no se pudo completar la operación"

// writeError traduce la taxonomía de dominio a código HTTP y cuerpo ErrorResponse.
func writeError(c *fiber.Ctx, log *logger.Logger, err error, notFound string) error {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: "datos inválidos", Fields: verr.Fields,
		})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: notFound})
	default:
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Bool("store_unavailable", errors.Is(err, domain.ErrStoreUnavailable)).
			Msg("error interno")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: internalMessage})
	}
}

// ErrorHandler manejador de errores de Fiber (rutas inexistentes, método no permitido, panics recuperados).
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
			code := "HTTP_ERROR"
			switch fe.Code {
			case fiber.StatusNotFound:
				code = "NOT_FOUND"
			case fiber.StatusMethodNotAllowed:
				code = "METHOD_NOT_ALLOWED"
			}
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
		}
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: internalMessage})
	}
}
