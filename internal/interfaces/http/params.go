package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/Comercio-api/internal/application/dto"
)

// pathID lee un parámetro de ruta que debe ser UUID.
func pathID(c *fiber.Ctx, name string) (string, error) {
	id := c.Params(name)
	if _, err := uuid.Parse(id); err != nil {
		return "", &requestError{
			code:    "INVALID_ID",
			message: name + " debe ser un UUID",
			fields:  []dto.FieldError{{Field: name, Rule: "uuid"}},
		}
	}
	return id, nil
}

// modFlagQuery lee ?mod_flag=N de los DELETE (sin cuerpo).
func modFlagQuery(c *fiber.Ctx) (int, error) {
	raw := c.Query("mod_flag")
	n, err := strconv.Atoi(raw)
	if raw == "" || err != nil || n < 0 {
		return 0, &requestError{
			code:    "VALIDATION",
			message: "mod_flag requerido (entero ≥ 0)",
			fields:  []dto.FieldError{{Field: "mod_flag", Rule: "required"}},
		}
	}
	return n, nil
}

// pageQuery lee ?limit=&offset=.
func pageQuery(c *fiber.Ctx) (dto.PageRequest, error) {
	var p dto.PageRequest
	if err := bindQuery(c, &p); err != nil {
		return p, err
	}
	return p, nil
}

// Tipos MIME de las descargas.
const (
	mimePDF  = "application/pdf"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// sendFile responde un documento como descarga con nombre de archivo.
func sendFile(c *fiber.Ctx, mime, filename string, body []byte) error {
	c.Set(fiber.HeaderContentType, mime)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(body)
}
