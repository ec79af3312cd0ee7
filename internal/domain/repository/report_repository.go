package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Comercio-api/internal/domain/accounting"
	"github.com/shopspring/decimal"
)

// SalesTotals totales de ventas no anuladas en un rango.
type SalesTotals struct {
	Count     int
	Revenue   decimal.Decimal // subtotal − descuentos (sin impuestos)
	Tax       decimal.Decimal
	COGS      decimal.Decimal
	Collected decimal.Decimal // pagado − vuelto
}

// StockLevel existencias y valor FIFO por producto.
type StockLevel struct {
	ProductID    string
	SKU          string
	Name         string
	ReorderPoint decimal.Decimal
	Quantity     decimal.Decimal
	Value        decimal.Decimal
}

// IsLow existencias en o por debajo del punto de reorden. Con punto cero solo
// se reporta el producto agotado.
func (l StockLevel) IsLow() bool { return l.Quantity.LessThanOrEqual(l.ReorderPoint) }

// ReportRepository define las consultas de lectura para reportes financieros.
// Las implementaciones son read-only y excluyen registros con del_flag y ventas anuladas.
// Los rangos [from, to) son semiabiertos: el caso de uso convierte días inclusivos.
type ReportRepository interface {
	SalesTotals(ctx context.Context, companyID string, from, to time.Time) (SalesTotals, error)
	SalesByProduct(ctx context.Context, companyID string, from, to time.Time) ([]accounting.ProductSales, error)
	ExpensesByCategory(ctx context.Context, companyID string, from, to time.Time) ([]accounting.CategoryAmount, error)
	IncomeTotal(ctx context.Context, companyID string, from, to time.Time) (decimal.Decimal, error)

	// BalanceInputs acumula saldos desde el inicio hasta asOf (exclusivo).
	// El inventario se valoriza como Σ movimientos × costo del lote hasta esa fecha.
	BalanceInputs(ctx context.Context, companyID string, asOf time.Time) (accounting.BSInput, error)

	// StockLevels existencias actuales de los productos no eliminados.
	StockLevels(ctx context.Context, companyID string) ([]StockLevel, error)
}
