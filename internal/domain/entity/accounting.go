package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías de gasto generadas por el sistema.
const (
	ExpenseCategoryPayroll   = "payroll"
	ExpenseCategoryTransport = "transport"
)

// Expense gasto operativo.
type Expense struct {
	ID          string
	CompanyID   string
	Category    string
	Description string
	Amount      decimal.Decimal
	SpentAt     time.Time
	Reference   string // ej. id de la liquidación de nómina
	CreatedBy   string
	ModFlag     int
	DelFlag     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Income ingreso distinto de las ventas (intereses, servicios, alquileres...).
type Income struct {
	ID          string
	CompanyID   string
	Source      string
	Description string
	Amount      decimal.Decimal
	ReceivedAt  time.Time
	CreatedBy   string
	ModFlag     int
	DelFlag     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LedgerFilter filtros comunes a gastos e ingresos.
type LedgerFilter struct {
	CompanyID string
	Category  string // categoría (gastos) o fuente (ingresos)
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}
