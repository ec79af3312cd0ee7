package dto

import (
	"time"

	"github.com/jhoicas/Comercio-api/internal/domain/accounting"
	"github.com/shopspring/decimal"
)

// ReportQuery rango y formato de los reportes tabulares.
type ReportQuery struct {
	DateRange
	Format string `query:"format" validate:"omitempty,oneof=json xlsx"`
	Top    int    `query:"top" validate:"min=0,max=100"`
}

// BalanceSheetQuery fecha de corte del balance (inclusive).
type BalanceSheetQuery struct {
	AsOf string `query:"as_of" validate:"omitempty,datetime=2006-01-02"`
}

// ProfitAndLossResponse estado de resultados del período.
type ProfitAndLossResponse struct {
	From string `json:"from"`
	To   string `json:"to"`
	accounting.ProfitAndLoss
}

// BalanceSheetResponse balance a la fecha de corte.
type BalanceSheetResponse struct {
	AsOf string `json:"as_of"`
	accounting.BalanceSheet
}

// SalesByProductResponse ventas por producto del período.
type SalesByProductResponse struct {
	From  string                    `json:"from"`
	To    string                    `json:"to"`
	Items []accounting.ProductSales `json:"items"`
}

// StockValuationItem existencias y valor de un producto.
type StockValuationItem struct {
	ProductID   string          `json:"product_id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Value       decimal.Decimal `json:"value"`
	AverageCost decimal.Decimal `json:"average_cost"`
}

// StockValuationResponse valorización del inventario.
type StockValuationResponse struct {
	Items      []StockValuationItem `json:"items"`
	TotalValue decimal.Decimal      `json:"total_value"`
}

// SalesPeriod resumen de ventas de un período del tablero.
type SalesPeriod struct {
	Count       int             `json:"count"`
	Revenue     decimal.Decimal `json:"revenue"`
	GrossProfit decimal.Decimal `json:"gross_profit"`
	Margin      decimal.Decimal `json:"margin"`
}

// DashboardResponse tablero principal.
type DashboardResponse struct {
	Today         SalesPeriod `json:"today"`
	Month         SalesPeriod `json:"month"`
	LowStockCount int         `json:"low_stock_count"`
	GeneratedAt   time.Time   `json:"generated_at"`
}

// AuditEntryResponse entrada de la bitácora.
type AuditEntryResponse struct {
	UserID   string            `json:"user_id"`
	Entity   string            `json:"entity"`
	EntityID string            `json:"entity_id"`
	Action   string            `json:"action"`
	ModFlag  int               `json:"mod_flag"`
	Details  map[string]string `json:"details,omitempty"`
	At       time.Time         `json:"at"`
}
