package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Comercio-api/internal/application/audit"
)

// AuditHandler consulta de la bitácora.
type AuditHandler struct {
	svc *audit.Service
}

// NewAuditHandler construye el handler.
func NewAuditHandler(svc *audit.Service) *AuditHandler {
	return &AuditHandler{svc: svc}
}

// List godoc
// @Summary      Bitácora de operaciones (más recientes primero)
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        entity     query  string  false  "Entidad (product, sale, purchase_order…)"
// @Param        entity_id  query  string  false  "ID de la entidad"
// @Param        limit      query  int     false  "Máximo 200"  default(50)
// @Success      200  {array}  dto.AuditEntryResponse
// @Router       /api/audit [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	out, err := h.svc.List(c.Context(), GetCompanyID(c), c.Query("entity"), c.Query("entity_id"), c.QueryInt("limit", 50))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
