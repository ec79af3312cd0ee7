package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/application/reports"
)

// ReportHandler reportes financieros y de inventario; con ?format=xlsx se descargan como libro.
type ReportHandler struct {
	uc *reports.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// respond elige entre JSON y XLSX según el formato pedido.
func respond[T any](c *fiber.Ctx, format, filename string, asJSON func() (T, error), asXLSX func() ([]byte, error)) error {
	if format == "xlsx" {
		book, err := asXLSX()
		if err != nil {
			return writeError(c, err)
		}
		return sendFile(c, mimeXLSX, filename, book)
	}
	out, err := asJSON()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// formatQuery lee ?format= en los reportes sin otros filtros.
func formatQuery(c *fiber.Ctx) (string, error) {
	format := c.Query("format")
	if format != "" && format != "json" && format != "xlsx" {
		return "", &requestError{
			code:    "VALIDATION",
			message: "format debe ser json o xlsx",
			fields:  []dto.FieldError{{Field: "format", Rule: "oneof"}},
		}
	}
	return format, nil
}

// ProfitAndLoss godoc
// @Summary      Estado de resultados
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  false  "Desde (YYYY-MM-DD); por defecto inicio del mes"
// @Param        to      query  string  false  "Hasta inclusive (YYYY-MM-DD); por defecto hoy"
// @Param        format  query  string  false  "json|xlsx"
// @Success      200  {object}  dto.ProfitAndLossResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/profit-and-loss [get]
func (h *ReportHandler) ProfitAndLoss(c *fiber.Ctx) error {
	var q dto.ReportQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	companyID := GetCompanyID(c)
	return respond(c, q.Format, "estado-de-resultados.xlsx",
		func() (*dto.ProfitAndLossResponse, error) { return h.uc.ProfitAndLoss(c.Context(), companyID, q) },
		func() ([]byte, error) { return h.uc.ProfitAndLossXLSX(c.Context(), companyID, q) },
	)
}

// BalanceSheet godoc
// @Summary      Balance general
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        as_of   query  string  false  "Fecha de corte inclusive (YYYY-MM-DD)"
// @Param        format  query  string  false  "json|xlsx"
// @Success      200  {object}  dto.BalanceSheetResponse
// @Router       /api/reports/balance-sheet [get]
func (h *ReportHandler) BalanceSheet(c *fiber.Ctx) error {
	var q dto.BalanceSheetQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	format, err := formatQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	companyID := GetCompanyID(c)
	return respond(c, format, "balance-general.xlsx",
		func() (*dto.BalanceSheetResponse, error) { return h.uc.BalanceSheet(c.Context(), companyID, q) },
		func() ([]byte, error) { return h.uc.BalanceSheetXLSX(c.Context(), companyID, q) },
	)
}

// SalesByProduct godoc
// @Summary      Ventas, costo y utilidad por producto
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to      query  string  false  "Hasta inclusive (YYYY-MM-DD)"
// @Param        top     query  int     false  "Solo los N productos con más ingresos"
// @Param        format  query  string  false  "json|xlsx"
// @Success      200  {object}  dto.SalesByProductResponse
// @Router       /api/reports/sales-by-product [get]
func (h *ReportHandler) SalesByProduct(c *fiber.Ctx) error {
	var q dto.ReportQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	companyID := GetCompanyID(c)
	return respond(c, q.Format, "ventas-por-producto.xlsx",
		func() (*dto.SalesByProductResponse, error) { return h.uc.SalesByProduct(c.Context(), companyID, q) },
		func() ([]byte, error) { return h.uc.SalesByProductXLSX(c.Context(), companyID, q) },
	)
}

// StockValuation godoc
// @Summary      Valorización del inventario (FIFO al costo)
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        format  query  string  false  "json|xlsx"
// @Success      200  {object}  dto.StockValuationResponse
// @Router       /api/reports/stock-valuation [get]
func (h *ReportHandler) StockValuation(c *fiber.Ctx) error {
	format, err := formatQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	companyID := GetCompanyID(c)
	return respond(c, format, "valorizacion-inventario.xlsx",
		func() (*dto.StockValuationResponse, error) { return h.uc.StockValuation(c.Context(), companyID) },
		func() ([]byte, error) { return h.uc.StockValuationXLSX(c.Context(), companyID) },
	)
}

// Invalidate godoc
// @Summary      Invalidar el caché de reportes de la empresa
// @Tags         reports
// @Security     Bearer
// @Success      204
// @Router       /api/reports/cache [delete]
func (h *ReportHandler) Invalidate(c *fiber.Ctx) error {
	if err := h.uc.Invalidate(c.Context(), GetCompanyID(c)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
