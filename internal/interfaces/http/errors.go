package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/domain"
)

// LocalError guarda el error original de la petición para el log de acceso.
const LocalError = "request_error"

// requestError error de entrada detectado en la capa HTTP (cuerpo o query inválidos).
type requestError struct {
	code    string
	message string
	fields  []dto.FieldError
}

func (e *requestError) Error() string { return e.message }

type errorMapping struct {
	target error
	status int
	code   string
}

// Orden relevante: ErrUserNotFound y ErrEmailAlreadyExists antes que sus genéricos.
var errorMappings = []errorMapping{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION"},
	{domain.ErrLocked, fiber.StatusLocked, "LOCKED"},
}

// writeError traduce un error de dominio a su respuesta HTTP.
// Los errores no mapeados responden 500 sin exponer el detalle.
func writeError(c *fiber.Ctx, err error) error {
	c.Locals(LocalError, err)

	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: reqErr.code, Message: reqErr.message, Fields: reqErr.fields,
		})
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Code: "INTERNAL", Message: "error interno, intente más tarde",
	})
}

// notFound respuesta 404 de los GET que reciben nil del caso de uso.
func notFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: message})
}
